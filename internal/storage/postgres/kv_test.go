package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/school-portal/internal/errs"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var (
	selectQ = regexp.QuoteMeta(`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`)
	upsertQ = regexp.QuoteMeta(`INSERT INTO client_storage (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())`)
	deleteQ = regexp.QuoteMeta(`DELETE FROM client_storage WHERE namespace = $1 AND key = $2`)
)

func TestKV_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKV(db, "tab-1")
	ctx := context.Background()

	mock.ExpectQuery(selectQ).
		WithArgs("tab-1", "authToken").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("tok"))
	v, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	mock.ExpectQuery(selectQ).
		WithArgs("tab-1", "language").
		WillReturnError(pgx.ErrNoRows)
	_, err = s.Get(ctx, "language")
	require.ErrorIs(t, err, errs.ErrNotFound)

	boom := errors.New("conn reset")
	mock.ExpectQuery(selectQ).
		WithArgs("tab-1", "language").
		WillReturnError(boom)
	_, err = s.Get(ctx, "language")
	require.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_SetRemove(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewKV(db, "tab-1")
	ctx := context.Background()

	mock.ExpectExec(upsertQ).
		WithArgs("tab-1", "language", "kz").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.Set(ctx, "language", "kz"))

	mock.ExpectExec(deleteQ).
		WithArgs("tab-1", "language").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.NoError(t, s.Remove(ctx, "language"))

	mock.ExpectExec(upsertQ).
		WithArgs("tab-1", "authToken", "t").
		WillReturnError(errors.New("read only"))
	require.Error(t, s.Set(ctx, "authToken", "t"))

	require.NoError(t, mock.ExpectationsWereMet())
}
