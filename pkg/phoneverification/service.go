package phoneverification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Dispatcher delivers a rendered confirmation message to a phone number.
// Implementations may be asynchronous internally; the service treats the call
// as a single dispatch attempt either way.
type Dispatcher interface {
	Send(ctx context.Context, phone, body string) error
}

// MessageRenderer maps a confirmation code to the message body delivered to
// the user. Localization hooks in here.
type MessageRenderer func(token string) string

func defaultMessageRenderer(token string) string {
	return fmt.Sprintf("%s is your phone verification code.", token)
}

// ConfirmationService owns the phone confirmation state machine: issuing
// tokens, throttling resends, confirming submitted codes, and deciding
// provisional access during the grace window.
type ConfirmationService struct {
	repo                 AccountRepository
	dispatcher           Dispatcher
	tokens               *TokenGenerator
	confirmationWindow   time.Duration
	identifierFields     []string
	confirmationRequired bool
	renderMessage        MessageRenderer
}

// ConfirmationServiceOption defines configuration options
type ConfirmationServiceOption func(*ConfirmationService)

// WithConfirmationWindow sets how long an issued token stays valid. The same
// window doubles as the provisional-access grace period. Zero (the default)
// means tokens expire immediately and no grace period is granted.
func WithConfirmationWindow(window time.Duration) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.confirmationWindow = window
	}
}

// WithIdentifierFields sets the ordered list of account fields tried by
// LookupAccount.
func WithIdentifierFields(fields []string) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.identifierFields = fields
	}
}

// WithConfirmationRequired controls whether unconfirmed accounts are barred
// from authenticating once outside the grace window.
func WithConfirmationRequired(required bool) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.confirmationRequired = required
	}
}

// WithTokenRetryLimit caps the regenerate-on-collision loop of the token generator.
func WithTokenRetryLimit(limit int) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.tokens = NewTokenGenerator(s.repo, limit)
	}
}

// WithMessageRenderer overrides how the SMS body is rendered from the code.
func WithMessageRenderer(render MessageRenderer) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.renderMessage = render
	}
}

// NewConfirmationService creates a new phone confirmation service
func NewConfirmationService(repo AccountRepository, dispatcher Dispatcher, opts ...ConfirmationServiceOption) *ConfirmationService {
	service := &ConfirmationService{
		repo:                 repo,
		dispatcher:           dispatcher,
		confirmationWindow:   0,
		identifierFields:     []string{"email", "username", "phone"},
		confirmationRequired: true,
		renderMessage:        defaultMessageRenderer,
	}
	service.tokens = NewTokenGenerator(repo, defaultTokenRetryLimit)

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RequestToken issues a confirmation token for the account if needed and
// dispatches it by SMS, subject to the resend throttle. The attempt count is
// incremented once a dispatch attempt is made, whether or not the transport
// succeeds, and transport failures are surfaced to the caller as-is. On a
// throttle denial nothing is persisted.
func (s *ConfirmationService) RequestToken(ctx context.Context, account *Account) error {
	if account.Phone == "" {
		return ErrNoPhoneNumber
	}
	if account.Confirmed() {
		slog.Info("Phone already confirmed", "account_id", account.ID)
		return ErrAlreadyConfirmed
	}

	now := time.Now().UTC()

	// Issue a fresh token when none is outstanding or the current one has
	// expired. This resets the send timestamp but not the attempt count.
	if !account.HasOutstandingToken() || !WithinWindow(account.ConfirmationSentAt, s.confirmationWindow, now) {
		token, err := s.tokens.Generate(ctx)
		if err != nil {
			slog.Error("Failed to generate confirmation token", "account_id", account.ID, "error", err)
			return err
		}
		sentAt := now
		account.ConfirmationToken = token
		account.ConfirmationSentAt = &sentAt
	}

	decision := MaySend(account.ConfirmationAttemptCount, now.Sub(*account.ConfirmationSentAt))
	if decision.Exhausted {
		slog.Warn("Confirmation attempt budget exhausted", "account_id", account.ID, "attempts", account.ConfirmationAttemptCount)
		return ErrTooManyAttempts
	}
	if !decision.Allowed {
		return &RetryAfterError{RetryAfter: decision.RetryAfter}
	}

	dispatchErr := s.dispatcher.Send(ctx, account.Phone, s.renderMessage(account.ConfirmationToken))
	account.ConfirmationAttemptCount++

	if err := s.repo.Save(ctx, account); err != nil {
		slog.Error("Failed to save account after dispatch", "account_id", account.ID, "error", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	if dispatchErr != nil {
		slog.Error("Failed to dispatch confirmation message", "account_id", account.ID, "error", dispatchErr)
		return dispatchErr
	}

	slog.Info("Confirmation token sent", "account_id", account.ID, "attempts", account.ConfirmationAttemptCount)
	return nil
}

// Confirm transitions the account to confirmed: the outstanding token is
// cleared and ConfirmedAt set. Expiry is not checked here; token-driven
// callers go through ConfirmByToken. Confirming an already confirmed account
// never mutates state.
func (s *ConfirmationService) Confirm(ctx context.Context, account *Account) error {
	if account.Confirmed() {
		return ErrAlreadyConfirmed
	}

	now := time.Now().UTC()
	account.ConfirmationToken = ""
	account.ConfirmedAt = &now

	if err := s.repo.Save(ctx, account); err != nil {
		slog.Error("Failed to save confirmed account", "account_id", account.ID, "error", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	slog.Info("Phone confirmed", "account_id", account.ID)
	return nil
}

// ConfirmByToken looks up the account holding the submitted code and confirms
// it if the code is still within its validity window. The code is trimmed and
// uppercased before lookup so user input matches the case-normalized tokens.
func (s *ConfirmationService) ConfirmByToken(ctx context.Context, submitted string) (*Account, error) {
	token := strings.ToUpper(strings.TrimSpace(submitted))
	if token == "" {
		return nil, ErrTokenNotFound
	}

	account, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		slog.Warn("Confirmation token lookup failed", "error", err)
		return nil, ErrTokenNotFound
	}

	now := time.Now().UTC()
	if !WithinWindow(account.ConfirmationSentAt, s.confirmationWindow, now) {
		slog.Warn("Confirmation token expired", "account_id", account.ID, "sent_at", account.ConfirmationSentAt)
		return nil, ErrTokenExpired
	}

	if err := s.Confirm(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SkipConfirmation is an administrative bypass: it marks the account confirmed
// without clearing or checking the token, dispatching anything, or touching
// the attempt count.
func (s *ConfirmationService) SkipConfirmation(ctx context.Context, account *Account) error {
	now := time.Now().UTC()
	account.ConfirmedAt = &now

	if err := s.repo.Save(ctx, account); err != nil {
		slog.Error("Failed to save account", "account_id", account.ID, "error", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	slog.Info("Phone confirmation skipped", "account_id", account.ID)
	return nil
}

// RequestReverification starts a new unconfirmed cycle: ConfirmedAt and the
// confirmation triple are cleared so a follow-up RequestToken issues a fresh
// code with a clean attempt budget.
func (s *ConfirmationService) RequestReverification(ctx context.Context, account *Account) error {
	account.ConfirmedAt = nil
	account.ConfirmationToken = ""
	account.ConfirmationSentAt = nil
	account.ConfirmationAttemptCount = 0

	if err := s.repo.Save(ctx, account); err != nil {
		slog.Error("Failed to save account", "account_id", account.ID, "error", err)
		return fmt.Errorf("failed to save account: %w", err)
	}

	slog.Info("Reverification requested", "account_id", account.ID)
	return nil
}

// IsActiveForAuthentication reports whether the account may authenticate at
// now: it must not be soft-deleted, and must be confirmed, inside the grace
// window, or exempt because confirmation is not required.
func (s *ConfirmationService) IsActiveForAuthentication(account *Account, now time.Time) bool {
	if account.DeletedAt != nil {
		return false
	}
	if !s.confirmationRequired || account.Confirmed() {
		return true
	}
	return WithinWindow(account.ConfirmationSentAt, s.confirmationWindow, now)
}

// LookupAccount resolves an identifier (email, username, phone, ... per the
// configured ordered fields) to an account.
func (s *ConfirmationService) LookupAccount(ctx context.Context, identifier string) (*Account, error) {
	account, err := s.repo.FindBy(ctx, s.identifierFields, identifier)
	if err != nil {
		slog.Warn("Account lookup failed", "error", err)
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// GetAccount fetches an account by primary key.
func (s *ConfirmationService) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		slog.Warn("Account lookup failed", "account_id", id, "error", err)
		return nil, ErrAccountNotFound
	}
	return account, nil
}
