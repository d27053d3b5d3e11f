package errs

// Sentinel errors shared by the usecase and handler layers.
// Usecases mark underlying errors with these via Mark; handlers map them to
// HTTP statuses.
var (
	ErrInvalidAmount     = New("invalid amount")
	ErrNotFound          = New("not found")
	ErrGone              = New("session expired")
	ErrConflict          = New("conflict")
	ErrSelfPayment       = New("payer and payee are the same")
	ErrDuplicateRequest  = New("duplicate request")
	ErrInsufficientFunds = New("insufficient funds")
	ErrStorageFailure    = New("storage failure")

	ErrInvalidCredentials = New("invalid credentials")
)
