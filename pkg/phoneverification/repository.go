package phoneverification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/phone-verify/pkg/utils"
)

// identifierColumns is the allow-list of account columns identifier lookup may
// query. FindBy builds SQL from field names, so anything outside this set is
// rejected.
var identifierColumns = map[string]bool{
	"email":    true,
	"username": true,
	"phone":    true,
}

// Repository is the Postgres-backed account repository
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Postgres account repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, email, username, phone, confirmation_token, confirmation_sent_at, confirmed_at, confirmation_attempt_count, created_at, deleted_at`

func (r *Repository) scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	var username, phone, token sql.NullString
	var sentAt, confirmedAt, deletedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.Email,
		&username,
		&phone,
		&token,
		&sentAt,
		&confirmedAt,
		&a.ConfirmationAttemptCount,
		&a.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Username = utils.FromNullString(username)
	a.Phone = utils.FromNullString(phone)
	a.ConfirmationToken = utils.FromNullString(token)
	a.ConfirmationSentAt = utils.FromNullTime(sentAt)
	a.ConfirmedAt = utils.FromNullTime(confirmedAt)
	a.DeletedAt = utils.FromNullTime(deletedAt)

	return &a, nil
}

// FindBy tries the identifier fields in order and returns the first account
// matching the value.
func (r *Repository) FindBy(ctx context.Context, fields []string, value string) (*Account, error) {
	for _, field := range fields {
		if !identifierColumns[field] {
			return nil, fmt.Errorf("unsupported identifier field: %s", field)
		}

		query := fmt.Sprintf(`
			SELECT %s
			FROM accounts
			WHERE %s = $1
			AND deleted_at IS NULL
		`, accountColumns, field)

		account, err := r.scanAccount(r.db.QueryRow(ctx, query, value))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		return account, nil
	}

	return nil, ErrAccountNotFound
}

// FindByID retrieves an account by primary key
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE id = $1
	`, accountColumns)

	account, err := r.scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// FindByToken retrieves the account holding an outstanding confirmation token
func (r *Repository) FindByToken(ctx context.Context, token string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE confirmation_token = $1
		AND deleted_at IS NULL
	`, accountColumns)

	account, err := r.scanAccount(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return account, nil
}

// ExistsWithToken reports whether any account already holds the token,
// soft-deleted ones included.
func (r *Repository) ExistsWithToken(ctx context.Context, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE confirmation_token = $1
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, account *Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	query := `
		INSERT INTO accounts (id, email, username, phone, confirmation_token, confirmation_sent_at, confirmed_at, confirmation_attempt_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	return r.db.QueryRow(ctx, query,
		account.ID,
		account.Email,
		utils.ToNullString(account.Username),
		utils.ToNullString(account.Phone),
		utils.ToNullString(account.ConfirmationToken),
		utils.ToNullTime(account.ConfirmationSentAt),
		utils.ToNullTime(account.ConfirmedAt),
		account.ConfirmationAttemptCount,
	).Scan(&account.CreatedAt)
}

// Save writes the verification-relevant fields back to the account row
func (r *Repository) Save(ctx context.Context, account *Account) error {
	query := `
		UPDATE accounts
		SET phone = $2,
		    confirmation_token = $3,
		    confirmation_sent_at = $4,
		    confirmed_at = $5,
		    confirmation_attempt_count = $6
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		account.ID,
		utils.ToNullString(account.Phone),
		utils.ToNullString(account.ConfirmationToken),
		utils.ToNullTime(account.ConfirmationSentAt),
		utils.ToNullTime(account.ConfirmedAt),
		account.ConfirmationAttemptCount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
