package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Нулевые значения полей означают «взять из окружения или по умолчанию».
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Pathing   PathingConfig   `yaml:"pathing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WorldConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	ColumnWidth int `yaml:"column_width"`
}

type PathingConfig struct {
	MaxIterations int    `yaml:"max_iterations"`
	MaxDuration   string `yaml:"max_duration"`
	Workers       int    `yaml:"workers"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Component    string `yaml:"component"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	File         bool   `yaml:"file"`
}

const (
	DefaultWidth         = 128
	DefaultHeight        = 64
	DefaultColumnWidth   = 16
	DefaultMaxIterations = 200000
	DefaultMaxDuration   = 5 * time.Second
	DefaultWorkers       = 4
	DefaultMetricsAddr   = ":2112"
	DefaultServiceName   = "voxelnav"
	DefaultComponent     = "voxelnav"
)

// Default возвращает пустую конфигурацию: все геттеры отдают значения по умолчанию
func Default() *Config {
	return &Config{}
}

// GetWidth возвращает ширину мира
func (w *WorldConfig) GetWidth() int {
	return positiveOr(w.Width, DefaultWidth)
}

// GetHeight возвращает высоту мира
func (w *WorldConfig) GetHeight() int {
	return positiveOr(w.Height, DefaultHeight)
}

// GetColumnWidth возвращает ширину колонки
func (w *WorldConfig) GetColumnWidth() int {
	return positiveOr(w.ColumnWidth, DefaultColumnWidth)
}

// GetMaxIterations возвращает лимит раскрытых узлов на один поиск
func (p *PathingConfig) GetMaxIterations() int {
	return positiveOr(p.MaxIterations, DefaultMaxIterations)
}

// GetMaxDuration возвращает лимит времени на один поиск.
// Неразборчивое значение заменяется значением по умолчанию.
func (p *PathingConfig) GetMaxDuration() time.Duration {
	if p.MaxDuration == "" {
		return DefaultMaxDuration
	}
	d, err := time.ParseDuration(p.MaxDuration)
	if err != nil || d <= 0 {
		return DefaultMaxDuration
	}
	return d
}

// GetWorkers возвращает число одновременно выполняемых поисков
func (p *PathingConfig) GetWorkers() int {
	return getIntWithEnvFallback(p.Workers, "VOXELNAV_PATH_WORKERS", DefaultWorkers)
}

// GetAddr возвращает адрес HTTP endpoint для Prometheus
func (m *MetricsConfig) GetAddr() string {
	return getStringWithEnvFallback(m.Addr, "VOXELNAV_METRICS_ADDR", DefaultMetricsAddr)
}

// GetServiceName возвращает имя сервиса для OpenTelemetry
func (t *TelemetryConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	return DefaultServiceName
}

// GetComponent возвращает имя компонента глобального логгера
func (l *LoggingConfig) GetComponent() string {
	if l.Component != "" {
		return l.Component
	}
	return DefaultComponent
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

// getStringWithEnvFallback то же для строк
func getStringWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultValue
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать путь из ENV VOXELNAV_CONFIG,
// а без него возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXELNAV_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	return cfg, nil
}
