package phoneverification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account holds the verification-relevant fields of a user account.
// The confirmation triple (token, sent at, attempt count) is mutated only
// by the ConfirmationService; callers treat it as read-only.
type Account struct {
	ID                       uuid.UUID  `json:"id"`
	Email                    string     `json:"email"`
	Username                 string     `json:"username"`
	Phone                    string     `json:"phone"`
	ConfirmationToken        string     `json:"confirmation_token,omitempty"`
	ConfirmationSentAt       *time.Time `json:"confirmation_sent_at,omitempty"`
	ConfirmedAt              *time.Time `json:"confirmed_at,omitempty"`
	ConfirmationAttemptCount int        `json:"confirmation_attempt_count"`
	CreatedAt                time.Time  `json:"created_at"`
	DeletedAt                *time.Time `json:"deleted_at,omitempty"`
}

// Confirmed reports whether the phone number has been verified.
// Presence of ConfirmedAt is the sole source of truth.
func (a *Account) Confirmed() bool {
	return a.ConfirmedAt != nil
}

// HasOutstandingToken reports whether an unconsumed confirmation token exists.
func (a *Account) HasOutstandingToken() bool {
	return a.ConfirmationToken != ""
}

// AccountRepository defines the account lookup and persistence operations the
// confirmation service depends on. Implementations must serialize concurrent
// writes to the same account (transaction or row lock); the service performs
// read-decide-write as a single logical step and does not lock itself.
type AccountRepository interface {
	// FindBy looks up an account by trying the given identifier fields in order
	// and returning the first match.
	FindBy(ctx context.Context, fields []string, value string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByToken(ctx context.Context, token string) (*Account, error)
	ExistsWithToken(ctx context.Context, token string) (bool, error)
	Create(ctx context.Context, account *Account) error
	Save(ctx context.Context, account *Account) error
}
