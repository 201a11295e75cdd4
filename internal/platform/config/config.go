package config

import (
	"fmt"
	"strconv"
	"strings"

	"bhw-patient-registry/internal/domain/patients"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	DataFile  string `mapstructure:"DATA_FILE"`
	DBDSN     string `mapstructure:"DB_DSN"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	AppName   string `mapstructure:"APP_NAME"`

	// Listas separadas por coma; reemplazan la taxonomía por defecto.
	Sitios        []string `mapstructure:"-"`
	Conditions    []string `mapstructure:"-"`
	PWDCategories []string `mapstructure:"-"`
}

const (
	DefaultPort     = "8080"
	DefaultDataFile = "bhw_patient_registry_auto.csv"
)

var keys = []string{
	"PORT",
	"DATA_FILE",
	"DB_DSN",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"APP_NAME",
	"REGISTRY_SITIOS",
	"REGISTRY_CONDITIONS",
	"REGISTRY_PWD_CATEGORIES",
}

// Load lee variables de entorno y, si existe, envFile (formato .env).
// Un envFile vacío o inexistente no es error.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	def := patients.DefaultTaxonomy()

	// Defaults
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("DATA_FILE", DefaultDataFile)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "bhw-registry")
	v.SetDefault("REGISTRY_SITIOS", strings.Join(def.Sitios, ","))
	v.SetDefault("REGISTRY_CONDITIONS", strings.Join(def.Conditions, ","))
	v.SetDefault("REGISTRY_PWD_CATEGORIES", strings.Join(def.PWDCategories, ","))

	// Bind explícito para que Unmarshal vea las variables
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Sitios = splitList(v.GetString("REGISTRY_SITIOS"))
	cfg.Conditions = splitList(v.GetString("REGISTRY_CONDITIONS"))
	cfg.PWDCategories = splitList(v.GetString("REGISTRY_PWD_CATEGORIES"))

	return cfg, nil
}

// Validate rechaza puertos inválidos y listas de taxonomía vacías.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if strings.TrimSpace(c.DataFile) == "" && strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("DATA_FILE or DB_DSN is required")
	}
	if len(c.Sitios) == 0 {
		return fmt.Errorf("REGISTRY_SITIOS must list at least one sitio")
	}
	if len(c.Conditions) == 0 {
		return fmt.Errorf("REGISTRY_CONDITIONS must list at least one condition")
	}
	if len(c.PWDCategories) == 0 {
		return fmt.Errorf("REGISTRY_PWD_CATEGORIES must list at least one category")
	}
	return nil
}

// UsePostgres: con DB_DSN el registro vive en Postgres en lugar del CSV.
func (c *Config) UsePostgres() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

func (c *Config) Addr() string {
	return ":" + strings.TrimSpace(c.Port)
}

func (c *Config) Taxonomy() patients.Taxonomy {
	return patients.Taxonomy{
		Sitios:        c.Sitios,
		Conditions:    c.Conditions,
		PWDCategories: c.PWDCategories,
	}
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
