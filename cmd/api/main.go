package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-sentinel/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-sentinel/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-sentinel/infrastructure/lock"
	"github.com/vfg2006/ads-sentinel/infrastructure/repository"
	"github.com/vfg2006/ads-sentinel/internal/api"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/scheduler"
	"github.com/vfg2006/ads-sentinel/internal/usecases/auditing"
	"github.com/vfg2006/ads-sentinel/internal/usecases/authenticating"
	"github.com/vfg2006/ads-sentinel/internal/usecases/entitlement"
	"github.com/vfg2006/ads-sentinel/internal/usecases/monitoring"
	"github.com/vfg2006/ads-sentinel/internal/usecases/remediating"
	"github.com/vfg2006/ads-sentinel/pkg/log"
)

func main() {
	changeToSourceDir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	redisClient := redisconn(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tenantRepo := repository.NewTenantRepository(pgConn, cfg.Database.QueryTimeout)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)

	auditor := auditing.NewService(tenantRepo)
	gate := entitlement.NewService(tenantRepo)
	executor := remediating.NewExecutor(metaIntegrator)
	authenticator := authenticating.NewService(cfg)

	monitorService := monitoring.NewService(tenantRepo, metaIntegrator, gate, auditor)

	adMonitor := scheduler.NewAdMonitorService(cfg, gate, metaIntegrator, executor, auditor).
		WithLocker(func() lock.Locker {
			return lock.New(redisClient, pgConn.DB, scheduler.TickLockKey, cfg.AdMonitor.LockTTL)
		})

	if err := adMonitor.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o monitor de anúncios")
	} else {
		logrus.Info("Monitor de anúncios iniciado com sucesso")
	}

	server, err := api.New(cfg, monitorService, authenticator, adMonitor)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// changeToSourceDir permite encontrar o .env ao rodar com go run de qualquer diretório
func changeToSourceDir() {
	_, file, _, _ := runtime.Caller(0)
	if err := os.Chdir(path.Dir(file)); err != nil {
		logrus.WithError(err).Debug("Não foi possível mudar o diretório de trabalho")
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisconn retorna nil quando REDIS_URL não está definida.
// Nesse caso o lock do monitor usa advisory lock do PostgreSQL.
func redisconn(ctx context.Context, redisConfig config.Redis) *redis.Client {
	if redisConfig.URL == "" {
		logrus.Info("REDIS_URL não definida, usando advisory lock do PostgreSQL")
		return nil
	}

	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		logrus.WithError(err).Fatal("REDIS_URL inválida")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.Info("Conexão com Redis estabelecida com sucesso")
	return client
}
