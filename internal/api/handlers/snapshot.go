package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/response"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/service"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/validation"
)

// SnapshotHandler handles HTTP requests for portfolio snapshots.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// CreateSnapshot handles POST requests to snapshot one account.
// The body is optional; without a date the current UTC day is used.
//
// Endpoint: POST /api/snapshot/account/{uuid}
// Request Body: CreateSnapshotRequest (date, optional)
// Response: 201 Created with PortfolioSnapshot
// Error: 404 Not Found if the account does not exist
// Error: 409 Conflict if the account already has a snapshot for that day
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.CreateSnapshotRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := validation.ValidateCreateSnapshot(req)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if date.IsZero() {
		date = h.snapshotService.Today()
	}

	snapshot, err := h.snapshotService.GenerateSnapshot(r.Context(), accountID, date)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGenerateSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshot)
}

// GenerateAll handles POST requests to snapshot every account for today.
//
// Endpoint: POST /api/snapshot/generate-all
// Response: 200 OK with SnapshotBatchResult
func (h *SnapshotHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.snapshotService.GenerateForAllAccounts(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGenerateSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// SnapshotsPerAccount handles GET requests for an account's snapshot history.
//
// Endpoint: GET /api/snapshot/account/{uuid}?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
// Response: 200 OK with array of PortfolioSnapshot, oldest first
// Error: 400 Bad Request if a date is malformed or the range is inverted
// Error: 404 Not Found if the account does not exist
func (h *SnapshotHandler) SnapshotsPerAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	startDate, endDate, err := validation.ValidateDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	snapshots, err := h.snapshotService.GetSnapshots(r.Context(), accountID, startDate, endDate)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots)
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}
