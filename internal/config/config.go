package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	Import     Import     `mapstructure:",squash"`
	ImportSync ImportSync `mapstructure:",squash"`
	Timeline   Timeline   `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
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
	Schema   string `mapstructure:"database_schema"`
	SSLMode  string `mapstructure:"database_sslmode"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Import configura o pipeline de um arquivo
type Import struct {
	Folder               string   `mapstructure:"import_folder"`
	SheetName            string   `mapstructure:"import_sheet_name"`
	FactTable            string   `mapstructure:"import_fact_table"`
	BatchSize            int      `mapstructure:"import_batch_size"`
	MinValidYear         int      `mapstructure:"import_min_valid_year"`
	DefaultCurrency      string   `mapstructure:"import_default_currency"`
	ResolutionPolicy     string   `mapstructure:"import_resolution_policy"`
	UpdatePolicy         string   `mapstructure:"import_update_policy"`
	DropZeroRows         bool     `mapstructure:"import_drop_zero_rows"`
	DefaultProjectStatus string   `mapstructure:"import_default_project_status"`
	ClampColumns         []string `mapstructure:"import_clamp_columns"`
	MaxAbsValue          string   `mapstructure:"import_max_abs_value"`
	ProjectColumn        string   `mapstructure:"import_project_column"`
	CurrencyColumn       string   `mapstructure:"import_currency_column"`
	SegmentColumn        string   `mapstructure:"import_segment_column"`
	MetricColumn         string   `mapstructure:"import_metric_column"`
}

type ImportSync struct {
	CronSchedule  string        `mapstructure:"import_sync_cron"`
	Enabled       bool          `mapstructure:"import_sync_enabled"`
	RunOnStart    bool          `mapstructure:"import_sync_run_on_start"`
	RetryAttempts int           `mapstructure:"import_sync_retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"import_sync_retry_delay"`
}

// Timeline configura o esqueleto de linhas zeradas criado pelo seed
type Timeline struct {
	StartYear int      `mapstructure:"timeline_start_year"`
	EndYear   int      `mapstructure:"timeline_end_year"`
	Segments  []string `mapstructure:"timeline_segments"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SCHEMA", "public")
	viper.SetDefault("DATABASE_SSLMODE", "disable")

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("IMPORT_FOLDER", "data/initial/sales")
	viper.SetDefault("IMPORT_SHEET_NAME", "Sheet1")
	viper.SetDefault("IMPORT_FACT_TABLE", "sales")
	viper.SetDefault("IMPORT_BATCH_SIZE", 500)
	viper.SetDefault("IMPORT_MIN_VALID_YEAR", 2000)
	viper.SetDefault("IMPORT_DEFAULT_CURRENCY", "USD")
	viper.SetDefault("IMPORT_RESOLUTION_POLICY", "strict")
	viper.SetDefault("IMPORT_UPDATE_POLICY", "overwrite")
	viper.SetDefault("IMPORT_DROP_ZERO_ROWS", false)
	viper.SetDefault("IMPORT_DEFAULT_PROJECT_STATUS", "new")
	viper.SetDefault("IMPORT_CLAMP_COLUMNS", "value")
	viper.SetDefault("IMPORT_MAX_ABS_VALUE", "1e15")
	viper.SetDefault("IMPORT_PROJECT_COLUMN", "project_name")
	viper.SetDefault("IMPORT_CURRENCY_COLUMN", "currency")
	viper.SetDefault("IMPORT_SEGMENT_COLUMN", "segment")
	viper.SetDefault("IMPORT_METRIC_COLUMN", "parameter")

	// Todos os dias às 2h da manhã; cada arquivo com falha é reprocessado
	// até 2 vezes, com 60s entre as tentativas
	viper.SetDefault("IMPORT_SYNC_CRON", "0 2 * * *")
	viper.SetDefault("IMPORT_SYNC_ENABLED", false)
	viper.SetDefault("IMPORT_SYNC_RUN_ON_START", false)
	viper.SetDefault("IMPORT_SYNC_RETRY_ATTEMPTS", 2)
	viper.SetDefault("IMPORT_SYNC_RETRY_DELAY", "60s")

	viper.SetDefault("TIMELINE_START_YEAR", 2024)
	viper.SetDefault("TIMELINE_END_YEAR", 2027)
	viper.SetDefault("TIMELINE_SEGMENTS", "B2B,B2C")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

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

	if err := decode(viper.AllSettings(), config); err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

func decode(settings map[string]interface{}, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(settings)
}

// BuildDSN monta a URL de conexão com sslmode e search_path do schema
func (d Database) BuildDSN() string {
	params := url.Values{}
	if d.SSLMode != "" {
		params.Set("sslmode", d.SSLMode)
	}
	if d.Schema != "" {
		params.Set("search_path", d.Schema)
	}

	dsn := fmt.Sprintf(
		"%s://%s:%s@%s",
		d.Driver,
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.URL,
	)
	if encoded := params.Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(d.URL, "?") {
			sep = "&"
		}
		dsn += sep + encoded
	}
	return dsn
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado; usando apenas variáveis de ambiente")
}
