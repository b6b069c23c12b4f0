// handlers.go — POST /api/auth: redeem an access code for a session token.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yourflock/marquee/internal/metrics"
	"github.com/yourflock/marquee/internal/ratelimit"
	"github.com/yourflock/marquee/pkg/telemetry"
)

// maxRedeemBodyBytes caps the redemption request body. The endpoint is
// unauthenticated, and a valid body is a single short code.
const maxRedeemBodyBytes = 4 << 10

// redeemRequest is the JSON body for POST /api/auth.
type redeemRequest struct {
	Code string `json:"code"`
}

// redeemResponse is returned on successful redemption.
type redeemResponse struct {
	Token string `json:"token"`
}

// HandleRedeem processes POST /api/auth.
// Rate limited per IP; failures are a single generic 401 whether the code is
// unknown or expired.
func HandleRedeem(svc *Service, limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
			return
		}

		ip := ratelimit.ClientIP(r)
		if allowed, retryAfter := limiter.CheckRedeem(r.Context(), ip); !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			WriteError(w, http.StatusTooManyRequests, "rate_limited",
				"Too many attempts from this IP. Please try again later.")
			return
		}

		var req redeemRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRedeemBodyBytes)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
			return
		}

		token, err := svc.RedeemCode(r.Context(), req.Code)
		if errors.Is(err, ErrInvalidOrExpiredCode) {
			metrics.AuthEvents.WithLabelValues("redeem", "denied").Inc()
			WriteError(w, http.StatusUnauthorized, "invalid_code", "Invalid or expired code")
			return
		}
		if err != nil {
			telemetry.CaptureError(err, map[string]string{"operation": "redeem_code"})
			WriteError(w, http.StatusInternalServerError, "server_error", "Code redemption failed")
			return
		}

		metrics.AuthEvents.WithLabelValues("redeem", "success").Inc()
		WriteJSON(w, http.StatusOK, redeemResponse{Token: token})
	}
}
