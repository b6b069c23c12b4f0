// redact.go — Sensitive data masking for safe logging.
//
// Session tokens and access codes are credentials; they are never written to
// logs in cleartext. Call these helpers before passing values to any log
// statement.
package logging

import "strconv"

// RedactToken masks a session token for logging.
// Shows the first 8 characters followed by "..." to allow correlation
// without exposing the full credential.
//
// Examples:
//
//	"eyJhbGciOiJIUzI1NiIs..." → "eyJhbGci..."
//	"" → "[empty]"
func RedactToken(t string) string {
	if len(t) == 0 {
		return "[empty]"
	}
	if len(t) <= 8 {
		return t[:1] + "..."
	}
	return t[:8] + "..."
}

// RedactCode masks an access code for logging. Access codes are shared
// secrets, so only the length is preserved for debugging.
//
// Examples:
//
//	"LAUNCH24" → "[code len=8]"
//	""         → "[empty]"
func RedactCode(code string) string {
	if len(code) == 0 {
		return "[empty]"
	}
	return "[code len=" + strconv.Itoa(len(code)) + "]"
}
