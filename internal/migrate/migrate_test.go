package migrate

import (
	"context"
	"errors"
	"testing"

	"food-ordering/internal/xpkg/logger"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnsurer struct {
	calls    int
	username string
	exists   bool
}

func (fe *fakeEnsurer) EnsureSuperAdmin(_ context.Context, username, _ string) (bool, error) {
	fe.calls++
	fe.username = username
	return !fe.exists, nil
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"stores", "users", "items", "orders", "order_items", "order_status_log"} {
		assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestRunAppliesSchemaThenBootstrapsAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS stores").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCommit()

	admin := &fakeEnsurer{}
	m := NewMigrator(mock, admin, logger.Discard())
	require.NoError(t, m.Run(context.Background(), "superadmin", "root"))

	assert.Equal(t, 1, admin.calls)
	assert.Equal(t, "superadmin", admin.username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStopsOnSchemaError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("permission denied")
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS stores").WillReturnError(boom)
	mock.ExpectRollback()

	admin := &fakeEnsurer{}
	m := NewMigrator(mock, admin, logger.Discard())
	err = m.Run(context.Background(), "superadmin", "root")

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, admin.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
