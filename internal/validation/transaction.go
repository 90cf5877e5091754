package validation

import (
	"strings"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// ValidateCreateTransaction validates a buy or sell request.
//
// Required fields:
//   - accountId, stockId: valid UUIDs
//   - type: BUY or SELL (case-insensitive)
//   - quantity: greater than zero, at most 8 decimal places
//   - price: greater than zero, at most 6 decimal places
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errs := fieldErrors{}

	errs.addErr("accountId", ValidateUUID(req.AccountID))
	errs.addErr("stockId", ValidateUUID(req.StockID))

	if strings.TrimSpace(req.Type) == "" {
		errs.add("type", "type is required")
	} else if _, err := model.ParseTransactionType(req.Type); err != nil {
		errs.addErr("type", err)
	}

	errs.add("quantity", validQuantity(req.Quantity))
	errs.add("price", positive("price", req.Price, ledger.CostBasisScale))

	return errs.err()
}
