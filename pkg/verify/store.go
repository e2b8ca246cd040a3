package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codePrefix     = "verify:code:"
	verifiedPrefix = "verify:ok:"

	// CodeTTL is how long an e-mailed code stays valid
	CodeTTL = 10 * time.Minute
	// VerifiedTTL is how long a verified e-mail may be used to register
	VerifiedTTL = 30 * time.Minute
)

var (
	// ErrCodeMismatch submitted code does not match the stored one
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrCodeExpired no code stored for the e-mail (expired or never sent)
	ErrCodeExpired = errors.New("verification code expired")
)

// Store keeps e-mail verification codes in Redis with a TTL
type Store struct {
	client *redis.Client
}

// NewStore creates a new Store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// GenerateCode returns a 6-digit numeric code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Save stores the code for an e-mail, replacing any previous one
func (s *Store) Save(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, codePrefix+email, code, CodeTTL).Err()
}

// Verify checks the code and, on success, marks the e-mail as verified
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codePrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, codePrefix+email)
	pipe.Set(ctx, verifiedPrefix+email, "1", VerifiedTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// IsVerified reports whether the e-mail passed verification recently
func (s *Store) IsVerified(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, verifiedPrefix+email).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Consume removes the verified marker after a successful registration
func (s *Store) Consume(ctx context.Context, email string) error {
	return s.client.Del(ctx, verifiedPrefix+email).Err()
}
