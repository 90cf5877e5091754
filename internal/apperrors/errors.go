package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrStockNotFound indicates that a stock with the given ID does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrHoldingNotFound indicates that the account has never held the stock.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrDividendNotFound indicates that a dividend with the given ID does not exist.
	ErrDividendNotFound = errors.New("dividend not found")

	// ErrSnapshotNotFound indicates no snapshot exists for the account and date.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrPriceUnavailable indicates no market price is known for a stock.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds indicates that a buy would take the cash balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates that a sell requests more shares than the holding carries.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidTransactionType indicates a transaction type outside BUY and SELL.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrNonPositiveAmount indicates that a quantity, price or per-share amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrDuplicateDividend indicates a dividend is already declared for the stock on that pay date.
	ErrDuplicateDividend = errors.New("dividend already declared for stock and pay date")

	// ErrSnapshotAlreadyExists indicates the account already has a snapshot for the date.
	ErrSnapshotAlreadyExists = errors.New("snapshot already exists for account and date")

	// ErrSnapshotDateNotAllowed indicates a snapshot date in the future or before the
	// account's latest snapshot.
	ErrSnapshotDateNotAllowed = errors.New("snapshot date must not be in the future or before the latest snapshot")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrRateLimited indicates the market data call budget for the current window is spent.
	ErrRateLimited = errors.New("market data rate limit exceeded")

	ErrInvalidAccountID  = errors.New("account ID is required")
	ErrInvalidStockID    = errors.New("stock ID is required")
	ErrInvalidDividendID = errors.New("dividend ID is required")
	ErrInvalidDate       = errors.New("date parameter is invalid")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToProcessTransaction   = errors.New("failed to process transaction")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")

	ErrFailedToDeclareDividend    = errors.New("failed to declare dividend")
	ErrFailedToDistributeDividend = errors.New("failed to distribute dividend")
	ErrFailedToRetrievePayments   = errors.New("failed to retrieve dividend payments")

	ErrFailedToGenerateSnapshot  = errors.New("failed to generate snapshot")
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve snapshots")

	ErrFailedToGetAccountSummary = errors.New("failed to get account summary")
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")

	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a holding references a stock row that no longer exists).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
