package credstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanwise/client/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestLoad_EmptyStoreMeansLoggedOut(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))

	creds, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, creds)
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	in := &Credentials{
		Token: "tok-1",
		User:  &models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", out.Token)
	require.Equal(t, in.User, out.User)
}

func TestSave_OverwritesPreviousCredentials(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Credentials{Token: "old", User: &models.User{ID: "u1"}}))
	require.NoError(t, s.Save(ctx, &Credentials{Token: "new", User: &models.User{ID: "u2"}}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", out.Token)
	require.Equal(t, "u2", out.User.ID)
}

func TestClear_RemovesCredentialsAndIsIdempotent(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Credentials{Token: "tok", User: &models.User{ID: "u1"}}))
	require.NoError(t, s.Clear(ctx))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, out)

	require.NoError(t, s.Clear(ctx))
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLiteStore(db)
	require.NoError(t, s.Save(context.Background(), &Credentials{Token: "tok", User: &models.User{ID: "u1"}}))
}
