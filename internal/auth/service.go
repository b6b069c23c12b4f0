// Package auth implements the Marquee access control service: a shared access
// code is redeemed for a signed bearer session token, and that token is
// validated on every protected request.
//
// A session has two states: Active (now <= expires_at) and Expired. The
// transition happens purely by clock passage and is checked lazily at each
// Authenticate call. There is no server-side revocation and no background
// sweep; client "logout" just discards the token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourflock/marquee/internal/validate"
	"github.com/yourflock/marquee/pkg/logging"
)

// Principal is the identity attached to a request after successful
// authentication.
type Principal struct {
	SessionID    uuid.UUID
	AccessCodeID uuid.UUID
	ExpiresAt    time.Time
}

// Service redeems access codes and authenticates session tokens.
// The store and signer are process-wide resources read concurrently and never
// mutated per-request; the database arbitrates concurrent writes. Two
// simultaneous redemptions of the same valid code both succeed and mint
// independent sessions.
type Service struct {
	store  Store
	signer *Signer
	ttl    time.Duration
	now    func() time.Time
	log    *logrus.Entry
}

// NewService constructs the access control service. ttl is the session
// lifetime (24h in production). now may be nil (defaults to time.Now); tests
// inject a fake clock. log may be nil (discards).
func NewService(store Store, signer *Signer, ttl time.Duration, now func() time.Time, log *logrus.Entry) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Service{store: store, signer: signer, ttl: ttl, now: now, log: log}
}

// RedeemCode exchanges an access code for a session token. Unknown and
// expired codes fail identically so callers cannot enumerate codes. On
// success one session row is persisted; its expires_at and the token's exp
// claim are the same instant.
func (s *Service) RedeemCode(ctx context.Context, code string) (string, error) {
	if err := validate.AccessCode("code", code); err != nil {
		s.log.WithField("reason", "malformed_code").Debug("redemption rejected")
		return "", ErrInvalidOrExpiredCode
	}

	ac, err := s.store.FindAccessCodeByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		s.log.WithFields(logrus.Fields{
			"reason": "unknown_code",
			"code":   logging.RedactCode(code),
		}).Info("redemption rejected")
		return "", ErrInvalidOrExpiredCode
	}
	if err != nil {
		return "", fmt.Errorf("redeem: %w", err)
	}

	now := s.now()
	if now.After(ac.ValidUntil) {
		s.log.WithFields(logrus.Fields{
			"reason":         "code_expired",
			"access_code_id": ac.ID,
		}).Info("redemption rejected")
		return "", ErrInvalidOrExpiredCode
	}

	expiresAt := now.Add(s.ttl)
	token, err := s.signer.Sign(ac.ID, now, expiresAt)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	sess := &Session{
		ID:           uuid.New(),
		Token:        token,
		AccessCodeID: uuid.NullUUID{UUID: ac.ID, Valid: true},
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return "", fmt.Errorf("redeem: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"access_code_id": ac.ID,
		"session_id":     sess.ID,
		"expires_at":     expiresAt,
	}).Info("session minted")
	return token, nil
}

// Authenticate validates a raw Authorization header value and returns the
// Principal. Signature verification and the session-row lookup are two
// independent checks and both must pass: a forged but well-formed token
// without a matching row fails, and a stored session whose row has expired
// fails even while its JWT is still structurally valid. Pure read — nothing
// is mutated.
func (s *Service) Authenticate(ctx context.Context, authorizationHeader string) (*Principal, error) {
	raw := extractBearerToken(authorizationHeader)
	if raw == "" {
		s.log.WithField("reason", "missing_token").Debug("authentication rejected")
		return nil, ErrUnauthenticated
	}

	claims, err := s.signer.Verify(raw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"reason": "invalid_token",
			"token":  logging.RedactToken(raw),
			"err":    err.Error(),
		}).Info("authentication rejected")
		return nil, ErrUnauthenticated
	}

	sess, err := s.store.FindSessionByToken(ctx, raw)
	if errors.Is(err, ErrNotFound) {
		s.log.WithFields(logrus.Fields{
			"reason": "no_session_row",
			"token":  logging.RedactToken(raw),
		}).Warn("authentication rejected")
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.now().After(sess.ExpiresAt) {
		s.log.WithFields(logrus.Fields{
			"reason":     "session_expired",
			"session_id": sess.ID,
		}).Debug("authentication rejected")
		return nil, ErrUnauthenticated
	}

	codeID, err := uuid.Parse(claims.AccessCodeID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &Principal{
		SessionID:    sess.ID,
		AccessCodeID: codeID,
		ExpiresAt:    sess.ExpiresAt,
	}, nil
}

// extractBearerToken pulls the token from an "Authorization: Bearer <token>"
// header value. Returns empty string if the header is missing or malformed.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
