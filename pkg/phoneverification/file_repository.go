package phoneverification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileAccountRepository implements AccountRepository using file-based storage.
// Intended for tests and local development.
type FileAccountRepository struct {
	dataDir  string
	accounts map[uuid.UUID]*Account
	mutex    sync.RWMutex
}

// accountData represents the structure of data stored in the JSON file
type accountData struct {
	Accounts []*Account `json:"accounts"`
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir:  dataDir,
		accounts: make(map[uuid.UUID]*Account),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileAccountRepository) filePath() string {
	return filepath.Join(r.dataDir, "accounts.json")
}

func (r *FileAccountRepository) load() error {
	data, err := os.ReadFile(r.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var stored accountData
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	for _, a := range stored.Accounts {
		r.accounts[a.ID] = a
	}
	return nil
}

func (r *FileAccountRepository) save() error {
	stored := accountData{}
	for _, a := range r.accounts {
		stored.Accounts = append(stored.Accounts, a)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.filePath(), data, 0644)
}

func (r *FileAccountRepository) identifierValue(a *Account, field string) (string, error) {
	switch field {
	case "email":
		return a.Email, nil
	case "username":
		return a.Username, nil
	case "phone":
		return a.Phone, nil
	default:
		return "", fmt.Errorf("unsupported identifier field: %s", field)
	}
}

// FindBy tries the identifier fields in order and returns the first account
// matching the value.
func (r *FileAccountRepository) FindBy(ctx context.Context, fields []string, value string) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, field := range fields {
		for _, a := range r.accounts {
			if a.DeletedAt != nil {
				continue
			}
			v, err := r.identifierValue(a, field)
			if err != nil {
				return nil, err
			}
			if v != "" && v == value {
				aCopy := *a
				return &aCopy, nil
			}
		}
	}

	return nil, ErrAccountNotFound
}

// FindByID retrieves an account by primary key
func (r *FileAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	a, exists := r.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}

	aCopy := *a
	return &aCopy, nil
}

// FindByToken retrieves the account holding an outstanding confirmation token
func (r *FileAccountRepository) FindByToken(ctx context.Context, token string) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, a := range r.accounts {
		if a.DeletedAt == nil && a.ConfirmationToken != "" && a.ConfirmationToken == token {
			aCopy := *a
			return &aCopy, nil
		}
	}

	return nil, ErrTokenNotFound
}

// ExistsWithToken reports whether any account already holds the token
func (r *FileAccountRepository) ExistsWithToken(ctx context.Context, token string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, a := range r.accounts {
		if a.ConfirmationToken != "" && a.ConfirmationToken == token {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a new account
func (r *FileAccountRepository) Create(ctx context.Context, account *Account) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("account already exists: %s", account.ID)
	}

	aCopy := *account
	r.accounts[account.ID] = &aCopy

	if err := r.save(); err != nil {
		delete(r.accounts, account.ID)
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// Save writes the account back to storage
func (r *FileAccountRepository) Save(ctx context.Context, account *Account) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prev, exists := r.accounts[account.ID]
	if !exists {
		return ErrAccountNotFound
	}

	aCopy := *account
	r.accounts[account.ID] = &aCopy

	if err := r.save(); err != nil {
		r.accounts[account.ID] = prev
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}
