package models

// User is the lightweight registered identity used for the email+pin login
// flow. Pin holds the current login pin token verbatim (it is a revocable,
// time-boxed JWT, not a long-lived secret), RefreshToken the single active
// refresh token. Both use the "null" sentinel when cleared.
type User struct {
	Email        string
	Banned       bool
	Pin          string
	RefreshToken string
}
