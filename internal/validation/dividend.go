package validation

import (
	"strings"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
)

// ValidateCreateDividend validates a dividend declaration.
//
// Required fields:
//   - stockId: valid UUID
//   - amountPerShare: greater than zero
//   - payDate: YYYY-MM-DD
func ValidateCreateDividend(req request.CreateDividendRequest) error {
	errs := fieldErrors{}

	errs.addErr("stockId", ValidateUUID(req.StockID))
	errs.add("amountPerShare", positive("amountPerShare", req.AmountPerShare, ledger.CostBasisScale))

	if strings.TrimSpace(req.PayDate) == "" {
		errs.add("payDate", "payDate is required")
	} else if _, err := ParseDate(req.PayDate); err != nil {
		errs.addErr("payDate", err)
	}

	return errs.err()
}
