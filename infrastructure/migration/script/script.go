package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"
	"github.com/vfg2006/ads-sentinel/internal/config"
	"github.com/vfg2006/ads-sentinel/internal/domain"
	"github.com/vfg2006/ads-sentinel/internal/usecases/authenticating"
	"github.com/vfg2006/ads-sentinel/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const createTenantsTable = `
CREATE TABLE IF NOT EXISTS tenants (
	id             VARCHAR(21) PRIMARY KEY,
	name           VARCHAR(255),
	credential     TEXT,
	account_id     VARCHAR(64),
	bot_enabled    BOOLEAN NOT NULL DEFAULT FALSE,
	plan           VARCHAR(16) NOT NULL DEFAULT 'free',
	plan_expire_at TIMESTAMPTZ,
	timezone       VARCHAR(64),
	settings       JSONB,
	logs           JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createEligibleIndex = `
CREATE INDEX IF NOT EXISTS tenants_bot_enabled_plan_idx ON tenants (bot_enabled, plan)`

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func createSchema(db *sql.DB) {
	log.Println("Criando tabela tenants...")

	if _, err := db.Exec(createTenantsTable); err != nil {
		log.Fatalf("ERRO ao criar tabela tenants: %v", err)
	}

	if _, err := db.Exec(createEligibleIndex); err != nil {
		log.Fatalf("ERRO ao criar índice de tenants elegíveis: %v", err)
	}

	log.Println("Tabela tenants pronta")
}

// seedTenant cria um tenant de demonstração em modo simulação.
// Só roda quando SEED_TENANT_NAME está definida.
func seedTenant(db *sql.DB) string {
	name := os.Getenv("SEED_TENANT_NAME")
	if name == "" {
		log.Println("SEED_TENANT_NAME não definida, nenhum tenant criado")
		return ""
	}

	id, err := utils.GenerateID()
	if err != nil {
		log.Fatalf("ERRO ao gerar id do tenant: %v", err)
	}

	settings, err := json.Marshal(domain.DefaultSettings())
	if err != nil {
		log.Fatalf("ERRO ao serializar configuração padrão: %v", err)
	}

	expireAt := time.Now().AddDate(0, 0, 14)

	_, err = db.Exec(
		`INSERT INTO tenants (id, name, credential, account_id, bot_enabled, plan, plan_expire_at, timezone, settings)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $6, $7, $8)`,
		id,
		name,
		os.Getenv("SEED_META_TOKEN"),
		os.Getenv("SEED_AD_ACCOUNT_ID"),
		string(domain.PlanTrial),
		expireAt,
		os.Getenv("SEED_TIMEZONE"),
		string(settings),
	)
	if err != nil {
		log.Fatalf("ERRO ao inserir tenant %s: %v", name, err)
	}

	log.Printf("Tenant %s criado com id %s (trial até %s)", name, id, expireAt.Format("02/01/2006"))
	return id
}

func printTokens(cfg *config.Config, tenantID string) {
	auth := authenticating.NewService(cfg)

	adminToken, err := auth.GenerateToken("", domain.RoleAdmin, 24*time.Hour)
	if err != nil {
		log.Printf("ERRO ao gerar token de administrador: %v", err)
		return
	}
	log.Printf("Token de administrador (24h): %s", adminToken)

	if tenantID == "" {
		return
	}

	tenantToken, err := auth.GenerateToken(tenantID, domain.RoleTenant, 24*time.Hour)
	if err != nil {
		log.Printf("ERRO ao gerar token do tenant: %v", err)
		return
	}
	log.Printf("Token do tenant %s (24h): %s", tenantID, tenantToken)
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	log.Println("Conectando ao banco de dados...")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	// Verificar conexão
	err = db.Ping()
	if err != nil {
		log.Fatalf("ERRO ao verificar conexão com o banco: %v", err)
	}
	log.Println("Conexão com o banco de dados estabelecida com sucesso")

	startTime := time.Now()

	createSchema(db)
	tenantID := seedTenant(db)

	if os.Getenv("PRINT_TOKENS") == "true" {
		printTokens(cfg, tenantID)
	}

	log.Printf("Migração concluída em %v!", time.Since(startTime))
}
