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

// DividendHandler handles HTTP requests for dividend endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// CreateDividend handles POST requests to declare a dividend.
//
// Endpoint: POST /api/dividend
// Request Body: CreateDividendRequest (stockId, amountPerShare, payDate)
// Response: 201 Created with Dividend
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the stock does not exist
// Error: 409 Conflict if the stock already has a dividend on that date
func (h *DividendHandler) CreateDividend(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	dividend, err := h.dividendService.DeclareDividend(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeclareDividend)
		return
	}

	response.RespondJSON(w, http.StatusCreated, dividend)
}

// DistributeDividend handles POST requests to pay a dividend to its holders.
// Repeating the call is safe and returns only payments created by that call.
//
// Endpoint: POST /api/dividend/{uuid}/distribute
// Response: 200 OK with array of DividendPayment
// Error: 404 Not Found if the dividend does not exist
func (h *DividendHandler) DistributeDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	payments, err := h.dividendService.DistributeDividend(r.Context(), dividendID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDistributeDividend)
		return
	}

	response.RespondJSON(w, http.StatusOK, payments)
}

// Payments handles GET requests for every payment made from a dividend.
//
// Endpoint: GET /api/dividend/{uuid}/payments
func (h *DividendHandler) Payments(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	payments, err := h.dividendService.GetPayments(r.Context(), dividendID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePayments)
		return
	}

	response.RespondJSON(w, http.StatusOK, payments)
}

// AccountPayments handles GET requests for the dividend payments an account has received.
//
// Endpoint: GET /api/dividend/account/{uuid}
func (h *DividendHandler) AccountPayments(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	payments, err := h.dividendService.GetAccountPayments(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePayments)
		return
	}

	response.RespondJSON(w, http.StatusOK, payments)
}
