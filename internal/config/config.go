package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	ModelDir       string
	DiabetesModel  string
	HeartModel     string
	InsuranceModel string

	// Reference CSVs for the trend charts. Empty disables the dataset.
	DiabetesDataset string
	HeartDataset    string

	ReportCurrency  string
	ReportFontPaths []string

	RateLimitRPS   int
	RateLimitBurst int
}

var defaults = map[string]any{
	"port":             "8080",
	"log_level":        "info",
	"log_format":       "json",
	"model_dir":        "models",
	"diabetes_model":   "diabetes_model",
	"heart_model":      "heart_model",
	"insurance_model":  "insurance_model",
	"diabetes_dataset": "",
	"heart_dataset":    "",
	"report_currency":  "₹",
	"rate_limit_rps":   10,
	"rate_limit_burst": 20,
}

// Load reads .env (if present), the process environment and an optional
// YAML file named by CONFIG_FILE. Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		ModelDir:        v.GetString("model_dir"),
		DiabetesModel:   v.GetString("diabetes_model"),
		HeartModel:      v.GetString("heart_model"),
		InsuranceModel:  v.GetString("insurance_model"),
		DiabetesDataset: v.GetString("diabetes_dataset"),
		HeartDataset:    v.GetString("heart_dataset"),
		ReportCurrency:  v.GetString("report_currency"),
		ReportFontPaths: stringList(v.Get("report_font_paths")),
		RateLimitRPS:    v.GetInt("rate_limit_rps"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList accepts a comma separated env value or a YAML list.
func stringList(raw any) []string {
	var items []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	default:
		items = []string{fmt.Sprint(val)}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("config: PORT must not be empty")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.ModelDir) == "" {
		return fmt.Errorf("config: MODEL_DIR must not be empty")
	}
	for key, name := range map[string]string{
		"DIABETES_MODEL":  cfg.DiabetesModel,
		"HEART_MODEL":     cfg.HeartModel,
		"INSURANCE_MODEL": cfg.InsuranceModel,
	} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("config: %s must not be empty", key)
		}
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
