package gamification

import "fmt"

// Error codes forming the ledger subsystem's error taxonomy. Business
// rejections (insufficient coins, already owned, not found) are recovered
// into these at the engine boundary; store failures keep their wrapped
// cause and surface as 500-class.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientCoins   = "INSUFFICIENT_COINS"
	CodeAlreadyOwned        = "ALREADY_OWNED"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeTransactionConflict = "TRANSACTION_CONFLICT"
)

// LedgerError is a coded error with a user-presentable message.
type LedgerError struct {
	Code    string
	Message string
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func errValidation(field string) *LedgerError {
	return &LedgerError{Code: CodeValidation, Message: fmt.Sprintf("%s is required", field)}
}

func errUnauthorized() *LedgerError {
	return &LedgerError{Code: CodeUnauthorized, Message: "user id is required"}
}

func errNotFound(what, id string) *LedgerError {
	return &LedgerError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", what, id)}
}

func errInsufficientCoins(cost, balance int) *LedgerError {
	return &LedgerError{
		Code:    CodeInsufficientCoins,
		Message: fmt.Sprintf("not enough coins (need %d, have %d)", cost, balance),
	}
}

func errAlreadyOwned(itemID string) *LedgerError {
	return &LedgerError{Code: CodeAlreadyOwned, Message: fmt.Sprintf("item already owned: %s", itemID)}
}

func errStore(operation string, err error) *LedgerError {
	return &LedgerError{
		Code:    CodeStoreUnavailable,
		Message: fmt.Sprintf("store error during %s", operation),
		Err:     err,
	}
}

func errConflict(err error) *LedgerError {
	return &LedgerError{Code: CodeTransactionConflict, Message: "concurrent update conflict", Err: err}
}
