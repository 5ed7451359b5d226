package phoneverification

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	tokenLength   = 5
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// defaultTokenRetryLimit caps the regenerate-on-collision loop. The
	// keyspace is ~60M codes so more than a couple of iterations means the
	// store is pathologically full.
	defaultTokenRetryLimit = 10
)

// TokenGenerator produces short confirmation codes that are unique across all
// accounts at the moment of issuance. Uniqueness is a best-effort check
// against the store; it does not persist anything.
type TokenGenerator struct {
	repo       AccountRepository
	retryLimit int
}

func NewTokenGenerator(repo AccountRepository, retryLimit int) *TokenGenerator {
	if retryLimit <= 0 {
		retryLimit = defaultTokenRetryLimit
	}
	return &TokenGenerator{repo: repo, retryLimit: retryLimit}
}

// Generate returns a fresh confirmation code no existing account holds,
// regenerating on collision up to the retry limit.
func (g *TokenGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.retryLimit; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}

		exists, err := g.repo.ExistsWithToken(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to check token uniqueness: %w", err)
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique confirmation token after %d attempts", g.retryLimit)
}

// randomToken draws tokenLength uppercase alphanumeric characters from crypto/rand.
func randomToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	code := make([]byte, tokenLength)
	for i, b := range buf {
		code[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(code), nil
}
