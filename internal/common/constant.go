package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on inbound requests.
const AccessTokenHeaderName = "token"

// RefreshTokenCookieName is the HTTP-only cookie carrying the refresh token.
const RefreshTokenCookieName = "refresh_token"

// SentinelNull marks a cleared login pin or refresh token column. Rows keep
// the literal string rather than SQL NULL so that exact-match lookups against
// a presented credential can never match a cleared value by accident.
const SentinelNull = "null"
