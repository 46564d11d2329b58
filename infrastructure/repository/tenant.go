package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sentinel/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const tenantsTable = "tenants"

// DefaultQueryTimeout limita cada operação quando nenhum valor é configurado
const DefaultQueryTimeout = 30 * time.Second

var tenantColumns = []string{
	"id",
	"name",
	"credential",
	"account_id",
	"bot_enabled",
	"plan",
	"plan_expire_at",
	"timezone",
	"settings",
	"updated_at",
}

type TenantRepository interface {
	ListEligible(ctx context.Context) ([]*domain.Tenant, error)
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	Downgrade(ctx context.Context, tenantID string) error
	UpdateSettings(ctx context.Context, tenantID string, settings domain.Settings) error
	AppendLogs(ctx context.Context, tenantID string, entries []domain.AuditLogEntry) ([]domain.AuditLogEntry, error)
	GetLogs(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error)
}

type tenantRepository struct {
	conn         postgres.Conn
	queryTimeout time.Duration
}

func NewTenantRepository(conn postgres.Conn, queryTimeout time.Duration) TenantRepository {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	return &tenantRepository{
		conn:         conn,
		queryTimeout: queryTimeout,
	}
}

// withTimeout limita a operação inteira, incluindo a transação do AppendLogs
func (r *tenantRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

// persistenceError marca como timeout as falhas ocorridas depois do prazo da operação
func persistenceError(ctx context.Context, op, tenantID string, err error) error {
	if ctx.Err() != nil {
		err = errors.Wrapf(err, "query timeout (%s)", ctx.Err())
	}
	return domain.NewPersistenceError(op, tenantID, err)
}

// ListEligible retorna os tenants com bot ligado e plano diferente de free
func (r *tenantRepository) ListEligible(ctx context.Context) ([]*domain.Tenant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := squirrel.
		Select(tenantColumns...).
		From(tenantsTable).
		Where(squirrel.Eq{"bot_enabled": true}).
		Where(squirrel.NotEq{"plan": string(domain.PlanFree)}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.NewPersistenceError("list_eligible", "", errors.Wrap(err, "build query"))
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError(ctx, "list_eligible", "", errors.Wrap(err, "query tenants"))
	}
	defer rows.Close()

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		tenant, err := r.deserializeTenant(rows)
		if err != nil {
			return nil, persistenceError(ctx, "list_eligible", "", err)
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError(ctx, "list_eligible", "", errors.Wrap(err, "iterate tenants"))
	}

	return tenants, nil
}

func (r *tenantRepository) GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := squirrel.
		Select(tenantColumns...).
		From(tenantsTable).
		Where(squirrel.Eq{"id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, domain.NewPersistenceError("get_tenant", tenantID, errors.Wrap(err, "build query"))
	}

	tenant, err := r.deserializeTenant(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, persistenceError(ctx, "get_tenant", tenantID, err)
	}

	return tenant, nil
}

// Downgrade move o tenant para o plano free e desliga o bot
func (r *tenantRepository) Downgrade(ctx context.Context, tenantID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := squirrel.
		Update(tenantsTable).
		Set("plan", string(domain.PlanFree)).
		Set("bot_enabled", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.NewPersistenceError("downgrade", tenantID, errors.Wrap(err, "build query"))
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return persistenceError(ctx, "downgrade", tenantID, errors.Wrap(err, "update tenant"))
	}

	logrus.WithField("tenant_id", tenantID).Info("Plano do tenant rebaixado para free")

	return nil
}

func (r *tenantRepository) UpdateSettings(ctx context.Context, tenantID string, settings domain.Settings) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := json.Marshal(settings)
	if err != nil {
		return domain.NewPersistenceError("update_settings", tenantID, errors.Wrap(err, "marshal settings"))
	}

	query, args, err := squirrel.
		Update(tenantsTable).
		Set("settings", string(data)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tenantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.NewPersistenceError("update_settings", tenantID, errors.Wrap(err, "build query"))
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return persistenceError(ctx, "update_settings", tenantID, errors.Wrap(err, "update tenant"))
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrTenantNotFound
	}

	return nil
}

// AppendLogs insere as entradas no início do histórico do tenant e mantém
// apenas as mais recentes. Leitura e escrita acontecem na mesma transação.
func (r *tenantRepository) AppendLogs(ctx context.Context, tenantID string, entries []domain.AuditLogEntry) ([]domain.AuditLogEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var merged []domain.AuditLogEntry

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.selectLogs(ctx, tx, tenantID, true)
		if err != nil {
			return err
		}

		merged = domain.PrependAuditLog(existing, entries...)

		data, err := json.Marshal(merged)
		if err != nil {
			return errors.Wrap(err, "marshal logs")
		}

		query, args, err := squirrel.
			Update(tenantsTable).
			Set("logs", string(data)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": tenantID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "build query")
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "update logs")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, err
		}
		return nil, persistenceError(ctx, "append_logs", tenantID, err)
	}

	return merged, nil
}

func (r *tenantRepository) GetLogs(ctx context.Context, tenantID string) ([]domain.AuditLogEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	logs, err := r.selectLogs(ctx, r.conn, tenantID, false)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, err
		}
		return nil, persistenceError(ctx, "get_logs", tenantID, err)
	}

	return logs, nil
}

func (r *tenantRepository) selectLogs(ctx context.Context, q postgres.Queryer, tenantID string, forUpdate bool) ([]domain.AuditLogEntry, error) {
	builder := squirrel.
		Select("logs").
		From(tenantsTable).
		Where(squirrel.Eq{"id": tenantID}).
		PlaceholderFormat(squirrel.Dollar)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build query")
	}

	var raw []byte
	if err := q.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, errors.Wrap(err, "select logs")
	}

	return decodeLogs(raw)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *tenantRepository) deserializeTenant(row scanner) (*domain.Tenant, error) {
	tenant := &domain.Tenant{}

	var (
		name         sql.NullString
		credential   sql.NullString
		accountID    sql.NullString
		planExpireAt sql.NullTime
		timezone     sql.NullString
		plan         string
		rawSettings  []byte
	)

	if err := row.Scan(
		&tenant.ID,
		&name,
		&credential,
		&accountID,
		&tenant.BotEnabled,
		&plan,
		&planExpireAt,
		&timezone,
		&rawSettings,
		&tenant.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan tenant")
	}

	tenant.Name = name.String
	tenant.Credential = strings.TrimSpace(credential.String)
	tenant.AccountID = strings.TrimSpace(accountID.String)
	tenant.Plan = domain.Plan(plan)
	tenant.Timezone = timezone.String
	if planExpireAt.Valid {
		expireAt := planExpireAt.Time
		tenant.PlanExpireAt = &expireAt
	}

	settings, err := decodeSettings(rawSettings)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"tenant_id": tenant.ID,
			"error":     err.Error(),
		}).Warn("Configuração do tenant inválida, usando valores padrão")
		settings = domain.DefaultSettings()
	}
	tenant.Settings = settings

	return tenant, nil
}

// decodeSettings parte dos valores padrão para que chaves ausentes no JSONB
// mantenham o comportamento esperado
func decodeSettings(raw []byte) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if len(raw) == 0 {
		return settings, nil
	}

	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.DefaultSettings(), errors.Wrap(err, "unmarshal settings")
	}

	return settings, nil
}

func decodeLogs(raw []byte) ([]domain.AuditLogEntry, error) {
	logs := make([]domain.AuditLogEntry, 0)
	if len(raw) == 0 {
		return logs, nil
	}

	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, errors.Wrap(err, "unmarshal logs")
	}

	if logs == nil {
		logs = make([]domain.AuditLogEntry, 0)
	}

	return logs, nil
}
