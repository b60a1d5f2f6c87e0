package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Cache struct {
		// Backend is one of memory, sqlite, postgres or redis.
		Backend          string `mapstructure:"backend"`
		SQLitePath       string `mapstructure:"sqlitePath"`
		SnapshotPath     string `mapstructure:"snapshotPath"`
		EnrichmentPrefix string `mapstructure:"enrichmentPrefix"`
		WeatherPrefix    string `mapstructure:"weatherPrefix"`
	} `mapstructure:"cache"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Enrichment Enrichment `mapstructure:"enrichment"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		MetricsPort string `mapstructure:"metricsPort"`
	} `mapstructure:"observability"`
}

// Enrichment tunes the generative enrichment pipeline.
type Enrichment struct {
	APIKey            string        `mapstructure:"apiKey"`
	Model             string        `mapstructure:"model"`
	Temperature       float32       `mapstructure:"temperature"`
	Language          string        `mapstructure:"language"`
	Destination       string        `mapstructure:"destination"`
	CallTimeout       time.Duration `mapstructure:"callTimeout"`
	MaxRetries        int           `mapstructure:"maxRetries"`
	RetryBaseDelay    time.Duration `mapstructure:"retryBaseDelay"`
	SlowCallThreshold time.Duration `mapstructure:"slowCallThreshold"`
	SlowCallDelay     time.Duration `mapstructure:"slowCallDelay"`
	FastCallDelay     time.Duration `mapstructure:"fastCallDelay"`
	WeatherDelay      time.Duration `mapstructure:"weatherDelay"`
	RequestsPerMinute float64       `mapstructure:"requestsPerMinute"`
	RequestBurst      int           `mapstructure:"requestBurst"`
	FirstDayOrigin    string        `mapstructure:"firstDayOrigin"`
	DailyOrigin       string        `mapstructure:"dailyOrigin"`
	BreakfastMarkers  []string      `mapstructure:"breakfastMarkers"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// GOOGLE_GEMINI_API_KEY keeps the name the deployment already uses.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("enrichment.apiKey", "GOOGLE_GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind api key env: %w", err)
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
