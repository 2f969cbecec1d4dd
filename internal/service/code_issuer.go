package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

var codeSpace = big.NewInt(1_000_000)

// CodeIssuer manages the single pending 6-digit code stored on a user.
type CodeIssuer struct {
	clock  Clock
	ttl    time.Duration
	random io.Reader
}

func NewCodeIssuer(clock Clock, ttl time.Duration) *CodeIssuer {
	return &CodeIssuer{clock: clock, ttl: ttl, random: rand.Reader}
}

// Generate stores a fresh code on user, replacing any pending one.
func (c *CodeIssuer) Generate(user *entity.User) (string, error) {
	n, err := rand.Int(c.random, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	user.VerificationCode = &entity.VerificationCode{
		Code:      code,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	}
	return code, nil
}

// Check consumes the pending code on an exact match. An expired code is
// cleared; a mismatch leaves the pending code and its expiry untouched.
func (c *CodeIssuer) Check(user *entity.User, submitted string) bool {
	pending := user.VerificationCode
	if pending == nil {
		return false
	}
	if c.clock.Now().After(pending.ExpiresAt) {
		user.VerificationCode = nil
		return false
	}
	if pending.Code != submitted {
		return false
	}
	user.VerificationCode = nil
	return true
}

// Consume is Check plus marking the user's email as verified.
func (c *CodeIssuer) Consume(user *entity.User, submitted string) bool {
	if !c.Check(user, submitted) {
		return false
	}
	user.IsVerified = true
	return true
}
