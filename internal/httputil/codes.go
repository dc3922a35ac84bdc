package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"

	// auth
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEmailNotSent       = "EMAIL_NOT_SENT"
	CodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"
	CodePremiumRequired    = "PREMIUM_REQUIRED"

	// expenses
	CodeExpenseNotFound = "EXPENSE_NOT_FOUND"
	CodeNotOwner        = "NOT_OWNER"
	CodeNoExpenses      = "NO_EXPENSES"

	// payments
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodeOrderNotFound    = "ORDER_NOT_FOUND"
	CodeOrderNotOwned    = "ORDER_NOT_OWNED"
	CodeOrderClosed      = "ORDER_CLOSED"
)
