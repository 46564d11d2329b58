package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Redis     Redis     `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	AdMonitor AdMonitor `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`

	QueryTimeout time.Duration `mapstructure:"database_query_timeout"`
}

type Redis struct {
	URL string `mapstructure:"redis_url"`
}

type Meta struct {
	BaseURL        string        `mapstructure:"meta_base_url"`
	URL            string        `mapstructure:"-"`
	Version        string        `mapstructure:"meta_version"`
	Locale         string        `mapstructure:"meta_locale"`
	InsightsLimit  int           `mapstructure:"meta_insights_limit"`
	RequestTimeout time.Duration `mapstructure:"meta_request_timeout"`
}

type App struct {
	LogLevel        string `mapstructure:"log_level"`
	DefaultTimezone string `mapstructure:"default_timezone"`
}

type AdMonitor struct {
	CronSchedule      string        `mapstructure:"ad_monitor_cron"`
	MaxConcurrentJobs int           `mapstructure:"ad_monitor_max_concurrent_jobs"`
	LockTTL           time.Duration `mapstructure:"ad_monitor_lock_ttl"`
	Enabled           bool          `mapstructure:"ad_monitor_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sentinel?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_QUERY_TIMEOUT", "30s") // Limite de cada operação no banco

	viper.SetDefault("REDIS_URL", "") // Vazio: usa advisory lock do PostgreSQL

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v18.0")
	viper.SetDefault("META_LOCALE", "th_TH")
	viper.SetDefault("META_INSIGHTS_LIMIT", 500)
	viper.SetDefault("META_REQUEST_TIMEOUT", "30s")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("AD_MONITOR_CRON", "*/15 * * * *")   // A cada 15 minutos, alinhado ao relógio
	viper.SetDefault("AD_MONITOR_MAX_CONCURRENT_JOBS", 5) // 5 tenants processados em paralelo
	viper.SetDefault("AD_MONITOR_LOCK_TTL", "14m")        // Menor que o intervalo entre execuções
	viper.SetDefault("AD_MONITOR_ENABLED", true)          // Habilitar o monitor de anúncios

	viper.SetDefault("DEFAULT_TIMEZONE", "Asia/Bangkok")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	return config, nil
}

// normalize preenche os campos derivados e corrige valores inválidos
func (c *Config) normalize() {
	c.Meta.URL = fmt.Sprintf("%s/%s", c.Meta.BaseURL, c.Meta.Version)

	if c.Meta.RequestTimeout <= 0 || c.Meta.RequestTimeout > 30*time.Second {
		c.Meta.RequestTimeout = 30 * time.Second
	}

	if c.Database.QueryTimeout <= 0 || c.Database.QueryTimeout > 30*time.Second {
		c.Database.QueryTimeout = 30 * time.Second
	}

	if c.Meta.InsightsLimit <= 0 {
		c.Meta.InsightsLimit = 500
	}

	if c.AdMonitor.MaxConcurrentJobs <= 0 {
		c.AdMonitor.MaxConcurrentJobs = 1
	}

	if c.AdMonitor.LockTTL <= 0 {
		c.AdMonitor.LockTTL = 14 * time.Minute
	}

	if _, err := time.LoadLocation(c.App.DefaultTimezone); err != nil {
		logrus.Warnf("Fuso horário padrão inválido: %s, usando UTC", c.App.DefaultTimezone)
		c.App.DefaultTimezone = "UTC"
	}

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

// Location retorna o fuso horário padrão usado pelo agendador
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
