package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/response"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/service"
)

// AccountHandler serves read-only account views.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Summary handles GET requests for the valued account breakdown.
//
// Endpoint: GET /api/account/{uuid}/summary
// Response: 200 OK with AccountSummary
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.accountService.GetAccountSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetAccountSummary)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Holdings handles GET requests for every holding of an account.
//
// Endpoint: GET /api/account/{uuid}/holdings
func (h *AccountHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.accountService.GetHoldings(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}
