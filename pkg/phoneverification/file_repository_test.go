package phoneverification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *FileAccountRepository {
	t.Helper()

	repo, err := NewFileAccountRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}

func TestFileAccountRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	account := &Account{
		Email:    "alice@example.com",
		Username: "alice",
		Phone:    "+15550001111",
	}
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFileAccountRepository_FindBy(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	account := &Account{
		Email:    "bob@example.com",
		Username: "bob",
		Phone:    "+15552223333",
	}
	require.NoError(t, repo.Create(ctx, account))

	t.Run("ByEmail", func(t *testing.T) {
		found, err := repo.FindBy(ctx, []string{"email"}, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
	})

	t.Run("FieldOrder", func(t *testing.T) {
		found, err := repo.FindBy(ctx, []string{"email", "username", "phone"}, "bob")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := repo.FindBy(ctx, []string{"email", "username"}, "carol")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("UnsupportedField", func(t *testing.T) {
		_, err := repo.FindBy(ctx, []string{"password"}, "bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported identifier field")
	})

	t.Run("SkipsSoftDeleted", func(t *testing.T) {
		deletedAt := time.Now().UTC()
		account.DeletedAt = &deletedAt
		require.NoError(t, repo.Save(ctx, account))

		_, err := repo.FindBy(ctx, []string{"email"}, "bob@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestFileAccountRepository_Tokens(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	sentAt := time.Now().UTC()
	account := &Account{
		Email:              "dave@example.com",
		ConfirmationToken:  "AB12C",
		ConfirmationSentAt: &sentAt,
	}
	require.NoError(t, repo.Create(ctx, account))

	t.Run("FindByToken", func(t *testing.T) {
		found, err := repo.FindByToken(ctx, "AB12C")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)

		_, err = repo.FindByToken(ctx, "ZZZZZ")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("ExistsWithToken", func(t *testing.T) {
		exists, err := repo.ExistsWithToken(ctx, "AB12C")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsWithToken(ctx, "ZZZZZ")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("EmptyTokenNeverMatches", func(t *testing.T) {
		blank := &Account{Email: "erin@example.com"}
		require.NoError(t, repo.Create(ctx, blank))

		_, err := repo.FindByToken(ctx, "")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestFileAccountRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	account := &Account{Email: "frank@example.com", Phone: "+15554445555"}
	require.NoError(t, repo.Create(ctx, account))

	account.ConfirmationToken = "XY99Z"
	account.ConfirmationAttemptCount = 2
	require.NoError(t, repo.Save(ctx, account))

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "XY99Z", found.ConfirmationToken)
	assert.Equal(t, 2, found.ConfirmationAttemptCount)

	t.Run("UnknownAccount", func(t *testing.T) {
		err := repo.Save(ctx, &Account{ID: uuid.New()})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("CopyOutSemantics", func(t *testing.T) {
		found, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		found.Email = "mutated@example.com"

		again, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "frank@example.com", again.Email)
	})
}

func TestFileAccountRepository_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	repo, err := NewFileAccountRepository(dataDir)
	require.NoError(t, err)

	account := &Account{Email: "grace@example.com", ConfirmationAttemptCount: 1}
	require.NoError(t, repo.Create(ctx, account))

	reloaded, err := NewFileAccountRepository(dataDir)
	require.NoError(t, err)

	found, err := reloaded.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", found.Email)
	assert.Equal(t, 1, found.ConfirmationAttemptCount)
}
