package credstore

import "time"

// User is a registered account. PasswordHash is never the plaintext.
type User struct {
	Name         string
	Company      string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// FailedAttempt is one unsuccessful sign-in.
type FailedAttempt struct {
	Email     string
	Timestamp time.Time
	// ClientID is best-effort, taken from WithClientID or WithUserAgent.
	ClientID string
}

// LockoutInfo describes a lockout. It is active while now < Until.
type LockoutInfo struct {
	Email string
	Until time.Time
	Count int
}

// RememberedEmail is the identity saved by a "remember me" sign-in.
type RememberedEmail struct {
	Email     string
	Timestamp time.Time
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Name     string
	Company  string
	Email    string
	Password string
}

// RegisterResult is returned by a successful registration. The token is the
// one "sent" to the user through the Mailer.
type RegisterResult struct {
	Email             string
	VerificationToken string
}

// SignInResult is returned by a successful SignIn.
type SignInResult struct {
	User       User
	Remembered bool
}

// ResetRequest is returned by StartReset for every email. Message is the
// same whether or not the account exists; Token is empty for unknown emails.
type ResetRequest struct {
	Message string
	Token   string
}
