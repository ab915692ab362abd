// Package autherr defines the structured failure type shared by all
// account operations. Each expected failure carries a human-readable
// message and a stable machine-readable code.
package autherr

// Error codes. Clients switch on these, so they never change meaning.
const (
	CodeValidation         = 1400
	CodeInvalidCredentials = 1401
	CodeUserNotFound       = 1404
	CodeUserExists         = 1409
	CodeDeliveryFailed     = 1502
)

type Error struct {
	Code    int    `json:"error_code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same code, so wrapped failures still
// satisfy errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrPasswordMismatch   = New(CodeValidation, "password does not match")
	ErrWeakPassword       = New(CodeValidation, "password must contain at least 8 characters, at least one uppercase letter, one lowercase letter and one number")
	ErrInvalidEmail       = New(CodeValidation, "email is not valid")
	ErrUserExists         = New(CodeUserExists, "user already exists")
	ErrUserNotFound       = New(CodeUserNotFound, "user does not exist")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "password is not correct")
	ErrDeliveryFailed     = New(CodeDeliveryFailed, "reset email could not be delivered")
)
