// errors.go — Error taxonomy for the access control service.
//
// Two sentinels cover every failure a caller can see. Redemption failures
// collapse to ErrInvalidOrExpiredCode whether the code is unknown or expired,
// so responses never reveal which codes exist. Authentication failures —
// missing header, malformed token, bad signature, expired claim, missing
// session row, expired session row — all collapse to ErrUnauthenticated.
// Logs keep the specific cause; HTTP responses do not.
package auth

import "errors"

// ErrInvalidOrExpiredCode is returned by RedeemCode when the access code does
// not exist or its validity window has passed.
var ErrInvalidOrExpiredCode = errors.New("invalid or expired access code")

// ErrUnauthenticated is returned by Authenticate for every validation failure.
var ErrUnauthenticated = errors.New("unauthenticated")
