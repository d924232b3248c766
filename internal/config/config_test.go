package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv("VOXELNAV_CONFIG", "")
	t.Setenv("VOXELNAV_PATH_WORKERS", "")
	t.Setenv("VOXELNAV_METRICS_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 128, cfg.World.GetWidth())
	assert.Equal(t, 64, cfg.World.GetHeight())
	assert.Equal(t, 16, cfg.World.GetColumnWidth())
	assert.Equal(t, 200000, cfg.Pathing.GetMaxIterations())
	assert.Equal(t, 5*time.Second, cfg.Pathing.GetMaxDuration())
	assert.Equal(t, 4, cfg.Pathing.GetWorkers())
	assert.Equal(t, ":2112", cfg.Metrics.GetAddr())
	assert.Equal(t, "voxelnav", cfg.Telemetry.GetServiceName())
	assert.Equal(t, "voxelnav", cfg.Logging.GetComponent())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxelnav.yaml")
	data := `
world:
  width: 64
  height: 32
  column_width: 8
pathing:
  max_iterations: 1000
  max_duration: 250ms
  workers: 2
metrics:
  enabled: true
  addr: "127.0.0.1:9100"
telemetry:
  enabled: false
  service_name: nav-test
logging:
  component: nav
  console_level: warn
  file: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.World.GetWidth())
	assert.Equal(t, 32, cfg.World.GetHeight())
	assert.Equal(t, 8, cfg.World.GetColumnWidth())
	assert.Equal(t, 1000, cfg.Pathing.GetMaxIterations())
	assert.Equal(t, 250*time.Millisecond, cfg.Pathing.GetMaxDuration())
	assert.Equal(t, 2, cfg.Pathing.GetWorkers())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.GetAddr())
	assert.Equal(t, "nav-test", cfg.Telemetry.GetServiceName())
	assert.Equal(t, "nav", cfg.Logging.GetComponent())
	assert.Equal(t, "warn", cfg.Logging.ConsoleLevel)
	assert.True(t, cfg.Logging.File)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  width: 48\n"), 0o644))
	t.Setenv("VOXELNAV_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.World.GetWidth())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "Отсутствующий файл должен давать ошибку")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err, "Битый YAML должен давать ошибку")
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("VOXELNAV_PATH_WORKERS", "7")
	t.Setenv("VOXELNAV_METRICS_ADDR", ":9999")

	cfg := Default()
	assert.Equal(t, 7, cfg.Pathing.GetWorkers(), "Переменная окружения используется, если в конфиге 0")
	assert.Equal(t, ":9999", cfg.Metrics.GetAddr())

	cfg.Pathing.Workers = 3
	assert.Equal(t, 3, cfg.Pathing.GetWorkers(), "Значение из конфига имеет приоритет")

	t.Setenv("VOXELNAV_PATH_WORKERS", "abc")
	cfg.Pathing.Workers = 0
	assert.Equal(t, DefaultWorkers, cfg.Pathing.GetWorkers(), "Неразборчивое значение игнорируется")
}

func TestGetMaxDuration_Invalid(t *testing.T) {
	p := PathingConfig{MaxDuration: "soon"}
	assert.Equal(t, DefaultMaxDuration, p.GetMaxDuration())

	p.MaxDuration = "-1s"
	assert.Equal(t, DefaultMaxDuration, p.GetMaxDuration())
}
