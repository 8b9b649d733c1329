package message

const (
	InvalidInput = "Invalid input."
	TokenMissing = "Token is missing"
	TokenInvalid = "Token is invalid or expired"
	EnvErrFmt    = "environment variable is not set: %s"

	FmtErrStatusCode = "rec.Code = %d, want: %d"
)
