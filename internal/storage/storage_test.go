package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"

	"github.com/and161185/school-portal/internal/errs"
)

// exercise runs the Storage contract against s.
func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyAuthToken, "tok-1"))
	require.NoError(t, s.Set(ctx, KeyLanguage, "kz"))
	require.NoError(t, s.Set(ctx, KeyAuthToken, "tok-2"))

	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok-2", v)

	require.NoError(t, s.Remove(ctx, KeyAuthToken))
	require.NoError(t, s.Remove(ctx, KeyAuthToken))
	_, err = s.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, errs.ErrNotFound)

	v, err = s.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	require.Equal(t, "kz", v)
}

func TestMemory_Contract(t *testing.T) {
	t.Parallel()
	exercise(t, NewMemory())
}

func TestFile_Contract(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	exercise(t, NewFile(path))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	// a fresh instance sees what the first one wrote
	v, err := NewFile(path).Get(context.Background(), KeyLanguage)
	require.NoError(t, err)
	require.Equal(t, "kz", v)
}

func TestFile_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFile(path).Get(context.Background(), KeyAuthToken)
	require.Error(t, err)
	require.False(t, errors.Is(err, errs.ErrNotFound))
}

func TestDefaultPath_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.Equal(t, filepath.Join(dir, "school-portal"), DefaultDir())
	require.True(t, strings.HasSuffix(DefaultPath(), "storage.json"))
}

func TestSealed_Contract(t *testing.T) {
	t.Parallel()
	s, err := NewSealed(NewMemory(), []byte("passphrase"))
	require.NoError(t, err)
	exercise(t, s)
}

func TestSealed_CiphertextAndBinding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	inner := NewMemory()
	s, err := NewSealed(inner, []byte("passphrase"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, KeyAuthToken, "secret-token"))
	raw, err := inner.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.NotContains(t, raw, "secret-token")

	// moved under another key: AAD mismatch
	require.NoError(t, inner.Set(ctx, KeyLanguage, raw))
	_, err = s.Get(ctx, KeyLanguage)
	require.ErrorIs(t, err, ErrSealed)

	// wrong secret
	other, err := NewSealed(inner, []byte("other"))
	require.NoError(t, err)
	_, err = other.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, ErrSealed)

	require.NoError(t, inner.Set(ctx, KeyAuthToken, "%%%"))
	_, err = s.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, ErrSealed)

	_, err = NewSealed(inner, nil)
	require.Error(t, err)
}

func TestRedis_GetSetRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	s := NewRedis(rdb, "tab-1")

	mock.ExpectGet("tab-1:authToken").RedisNil()
	_, err := s.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectSet("tab-1:authToken", "tok", 0).SetVal("OK")
	require.NoError(t, s.Set(ctx, KeyAuthToken, "tok"))

	mock.ExpectGet("tab-1:authToken").SetVal("tok")
	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	mock.ExpectDel("tab-1:authToken").SetVal(1)
	require.NoError(t, s.Remove(ctx, KeyAuthToken))

	mock.ExpectGet("tab-1:language").SetErr(errors.New("down"))
	_, err = s.Get(ctx, KeyLanguage)
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_DefaultNamespace(t *testing.T) {
	t.Parallel()
	rdb, _ := redismock.NewClientMock()
	require.Equal(t, "school-portal:language", NewRedis(rdb, "").key(KeyLanguage))
}
