package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-sentinel/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

func newMockRepository(t *testing.T) (TenantRepository, sqlmock.Sqlmock) {
	t.Helper()
	return newMockRepositoryWithTimeout(t, time.Second)
}

func newMockRepositoryWithTimeout(t *testing.T, timeout time.Duration) (TenantRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTenantRepository(postgres.Wrap(db), timeout), mock
}

func tenantRows() *sqlmock.Rows {
	return sqlmock.NewRows(tenantColumns)
}

func TestTenantRepository_ListEligible(t *testing.T) {
	repo, mock := newMockRepository(t)

	updatedAt := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	expireAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE bot_enabled = $1 AND plan <> $2 ORDER BY id")).
		WithArgs(true, "free").
		WillReturnRows(tenantRows().
			AddRow("t1", "Loja A", " tok-a ", "act_1", true, "pro", expireAt, "Asia/Bangkok", []byte(`{"stopLossLimit":800}`), updatedAt).
			AddRow("t2", nil, "tok-b", "act_2", true, "trial", nil, nil, nil, updatedAt))

	tenants, err := repo.ListEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 2)

	assert.Equal(t, "tok-a", tenants[0].Credential)
	assert.Equal(t, domain.PlanPro, tenants[0].Plan)
	require.NotNil(t, tenants[0].PlanExpireAt)
	assert.True(t, expireAt.Equal(*tenants[0].PlanExpireAt))
	assert.Equal(t, 800.0, tenants[0].Settings.StopLossLimit)
	// Chaves ausentes mantêm o valor padrão
	assert.Equal(t, 2.5, tenants[0].Settings.TargetRoas)
	assert.True(t, tenants[0].Settings.SimulationMode)

	assert.Nil(t, tenants[1].PlanExpireAt)
	assert.Equal(t, domain.DefaultSettings(), tenants[1].Settings)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_ListEligibleQueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM tenants").WillReturnError(errors.New("connection refused"))

	tenants, err := repo.ListEligible(context.Background())
	assert.Nil(t, tenants)
	assert.True(t, domain.IsPersistenceError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tenants WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	tenant, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, tenant)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_Downgrade(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET plan = $1, bot_enabled = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("free", false, "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Downgrade(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_UpdateSettingsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET settings = $1")).
		WithArgs(sqlmock.AnyArg(), "t9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSettings(context.Background(), "t9", domain.DefaultSettings())
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_AppendLogs(t *testing.T) {
	repo, mock := newMockRepository(t)

	existing := `[{"timestamp":"01/01/2026 08:00:00","type":"WARNING","message":"antigo","adName":"A"}]`

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT logs FROM tenants WHERE id = $1 FOR UPDATE")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"logs"}).AddRow([]byte(existing)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants SET logs = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(sqlmock.AnyArg(), "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	logs, err := repo.AppendLogs(context.Background(), "t1", []domain.AuditLogEntry{
		{Type: domain.AuditLogTypeAction, Message: "primeiro", AdName: "B"},
		{Type: domain.AuditLogTypeIdea, Message: "segundo", AdName: "B"},
	})
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, "segundo", logs[0].Message)
	assert.Equal(t, "primeiro", logs[1].Message)
	assert.Equal(t, "antigo", logs[2].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_AppendLogsRollbackOnFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT logs FROM tenants").
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"logs"}).AddRow(nil))
	mock.ExpectExec("UPDATE tenants SET logs").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	logs, err := repo.AppendLogs(context.Background(), "t1", []domain.AuditLogEntry{{Message: "x"}})
	assert.Nil(t, logs)
	assert.True(t, domain.IsPersistenceError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_AppendLogsTenantNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT logs FROM tenants").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.AppendLogs(context.Background(), "ghost", []domain.AuditLogEntry{{Message: "x"}})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetLogs(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT logs FROM tenants WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"logs"}).AddRow([]byte(`null`)))

	logs, err := repo.GetLogs(context.Background(), "t1")
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_ListEligibleTimeout(t *testing.T) {
	repo, mock := newMockRepositoryWithTimeout(t, 20*time.Millisecond)

	mock.ExpectQuery("FROM tenants").
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(tenantRows())

	started := time.Now()
	tenants, err := repo.ListEligible(context.Background())

	assert.Nil(t, tenants)
	assert.True(t, domain.IsPersistenceError(err))
	assert.Contains(t, err.Error(), "query timeout")
	assert.Less(t, time.Since(started), 400*time.Millisecond)
}

func TestTenantRepository_DowngradeTimeout(t *testing.T) {
	repo, mock := newMockRepositoryWithTimeout(t, 20*time.Millisecond)

	mock.ExpectExec("UPDATE tenants SET plan").
		WithArgs("free", false, "t1").
		WillDelayFor(500 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Downgrade(context.Background(), "t1")

	assert.True(t, domain.IsPersistenceError(err))
	assert.Contains(t, err.Error(), "query timeout")
}

func TestTenantRepository_GetByIDTimeout(t *testing.T) {
	repo, mock := newMockRepositoryWithTimeout(t, 20*time.Millisecond)

	mock.ExpectQuery("FROM tenants WHERE id").
		WithArgs("t1").
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(tenantRows())

	tenant, err := repo.GetByID(context.Background(), "t1")

	assert.Nil(t, tenant)
	assert.True(t, domain.IsPersistenceError(err))
	assert.False(t, errors.Is(err, domain.ErrTenantNotFound))
}

func TestNewTenantRepository_DefaultTimeout(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantRepository(postgres.Wrap(db), 0).(*tenantRepository)
	assert.Equal(t, DefaultQueryTimeout, repo.queryTimeout)
}
