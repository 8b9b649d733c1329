package auth

const (
	MsgRegistered    = "User registered successfully. Please check your email to verify your account."
	MsgUserExists    = "User already exists with this email"
	MsgLoginSuccess  = "Login successful"
	MsgInvalidLogin  = "Invalid email or password"
	MsgNotActive     = "Please verify your email before logging in"
	MsgResetSent     = "If your email is registered, you will receive a password reset link"
	MsgTokenInvalid  = "Invalid or expired token"
	MsgTokenExpired  = "Password reset link has expired"
	MsgPasswordReset = "Password updated successfully"
	MsgVerified      = "Email verified successfully. You can now log in."
	MsgLoggedOut     = "Logged out successfully"
)
