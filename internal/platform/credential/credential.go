// Package credential generates identifiers and usernames and hashes
// passwords for users and receptionists.
package credential

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// numericAttempts is how many 4-digit suffixes are tried before falling back
// to a random hex suffix.
const numericAttempts = 5

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NewID returns a random (version 4) UUID string.
func NewID() string {
	return uuid.NewString()
}

// UsernameFromEmail derives a base username from the local part of an email:
// lowercased, with every character outside [a-z0-9] replaced by a dot.
func UsernameFromEmail(email string) string {
	local := strings.ToLower(strings.TrimSpace(email))
	if i := strings.IndexByte(local, '@'); i >= 0 {
		local = local[:i]
	}
	return nonAlnum.ReplaceAllString(local, ".")
}

// UsernameFromName derives a base username from a display name: lowercased,
// whitespace runs collapsed to a single dot, other punctuation dropped.
func UsernameFromName(name string) string {
	var parts []string
	for _, f := range strings.Fields(strings.ToLower(name)) {
		if f = nonAlnum.ReplaceAllString(f, ""); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, ".")
}

// ExistsFunc reports whether a username is already taken.
type ExistsFunc func(ctx context.Context, username string) (bool, error)

// Unique returns base if it is free. Otherwise it tries base plus a random
// 4-digit number up to five times, and finally returns base plus 6 random hex
// characters without checking. exists is called at most six times.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for attempt := 0; attempt <= numericAttempts; attempt++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if attempt == numericAttempts {
			break
		}
		n, err := rand.Int(rand.Reader, big.NewInt(9000))
		if err != nil {
			return "", fmt.Errorf("random suffix: %w", err)
		}
		candidate = fmt.Sprintf("%s%d", base, n.Int64()+1000)
	}

	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	return base + hex.EncodeToString(buf), nil
}

// NormalizeEmail trims and lowercases an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash never
// matches.
func (h Hasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
