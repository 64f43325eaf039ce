// Package otp implements the phone verification step of the login flow.
// Challenges live in Redis with a TTL; a separate cooldown key throttles
// resends of the same challenge.
package otp

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kuryentech/gardian-admin/internal/common"
)

const codeDigits = 6

// challenge is the Redis payload for one pending verification.
type challenge struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Code   string `json:"code"`
}

// Service creates, resends and verifies phone challenges.
type Service struct {
	rdb      *redis.Client
	sender   Sender
	ttl      time.Duration
	cooldown time.Duration
}

func NewService(rdb *redis.Client, sender Sender, ttl, cooldown time.Duration) *Service {
	return &Service{rdb: rdb, sender: sender, ttl: ttl, cooldown: cooldown}
}

func challengeKey(id string) string { return "otp:challenge:" + id }
func cooldownKey(id string) string  { return "otp:cooldown:" + id }

// makeRandDigits is a seam for tests.
var makeRandDigits = common.MakeRandDigits

// Begin creates a new challenge for userID, stores it with the configured TTL
// and dispatches the code. It returns the opaque challenge ID the client must
// present on verification.
func (s *Service) Begin(ctx context.Context, userID, phone string) (string, error) {
	code, err := makeRandDigits(codeDigits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	id := uuid.NewString()
	payload, err := json.Marshal(challenge{UserID: userID, Phone: phone, Code: code})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.rdb.Set(ctx, challengeKey(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("challenge store error: %w", err)
	}
	if err := s.rdb.Set(ctx, cooldownKey(id), "1", s.cooldown).Err(); err != nil {
		return "", fmt.Errorf("cooldown store error: %w", err)
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		return "", fmt.Errorf("code delivery error: %w", err)
	}

	return id, nil
}

// Verify checks the submitted code against the stored challenge. On success
// the challenge is consumed and the owning user ID returned. A missing
// challenge maps to ErrorCodeExpired, a mismatch to ErrorInvalidCode.
func (s *Service) Verify(ctx context.Context, challengeID, code string) (string, error) {
	raw, err := s.rdb.Get(ctx, challengeKey(challengeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorCodeExpired
		}
		return "", fmt.Errorf("challenge read error: %w", err)
	}

	var ch challenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		return "", common.ErrorInvalidCode
	}

	// consume: a code is single use
	if err := s.rdb.Del(ctx, challengeKey(challengeID), cooldownKey(challengeID)).Err(); err != nil {
		return "", fmt.Errorf("challenge delete error: %w", err)
	}

	return ch.UserID, nil
}

// Resend regenerates the code for an existing challenge and redelivers it.
// Inside the cooldown window it fails with ErrorResendCooldown; an expired
// challenge yields ErrorCodeExpired and the client must log in again.
func (s *Service) Resend(ctx context.Context, challengeID string) error {
	n, err := s.rdb.Exists(ctx, cooldownKey(challengeID)).Result()
	if err != nil {
		return fmt.Errorf("cooldown read error: %w", err)
	}
	if n > 0 {
		return common.ErrorResendCooldown
	}

	raw, err := s.rdb.Get(ctx, challengeKey(challengeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return common.ErrorCodeExpired
		}
		return fmt.Errorf("challenge read error: %w", err)
	}

	var ch challenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	code, err := makeRandDigits(codeDigits)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	ch.Code = code

	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.rdb.Set(ctx, challengeKey(challengeID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("challenge store error: %w", err)
	}
	if err := s.rdb.Set(ctx, cooldownKey(challengeID), "1", s.cooldown).Err(); err != nil {
		return fmt.Errorf("cooldown store error: %w", err)
	}

	return s.sender.Send(ctx, ch.Phone, code)
}
