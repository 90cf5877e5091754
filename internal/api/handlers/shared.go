package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/response"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
)

// maxBodyBytes bounds request bodies; every request here is a handful of fields.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}

	return req, nil
}

// parseOptionalJSON is parseJSON for endpoints whose body may be empty.
func parseOptionalJSON[T any](r *http.Request) (T, error) {
	var zero T
	if r.Body == nil {
		return zero, nil
	}
	req, err := parseJSON[T](r)
	if errors.Is(err, io.EOF) {
		return zero, nil
	}
	return req, err
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrStockNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrDividendNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		return http.StatusNotFound

	case errors.Is(err, apperrors.ErrDuplicateDividend),
		errors.Is(err, apperrors.ErrSnapshotAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrSnapshotDateNotAllowed):
		return http.StatusUnprocessableEntity

	case errors.Is(err, apperrors.ErrInvalidTransactionType),
		errors.Is(err, apperrors.ErrNonPositiveAmount),
		errors.Is(err, apperrors.ErrInvalidDate):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Server errors use
// fallback as the message so internal sentinels are not the headline.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = fallback.Error()
	}
	response.RespondError(w, status, message, err.Error())
}
