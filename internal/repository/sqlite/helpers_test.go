package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t)).(*UserRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func newTestPostRepo(t *testing.T) *PostRepository {
	t.Helper()
	repo := NewPostRepository(openTestDB(t)).(*PostRepository)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}
