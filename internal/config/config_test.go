package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "models", cfg.Paths.ModelsDir)
				assert.Equal(t, "modelo_passos_magicos.json", cfg.Paths.ModelFile)
				assert.Equal(t, "config_passos_magicos.yaml", cfg.Paths.ModelConfigFile)
				assert.Equal(t, 10, cfg.Prediction.MaxDisplay)
				assert.False(t, cfg.Prediction.Debug)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
logging:
  level: debug
prediction:
  max_display: 12
  debug: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 35*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 12, cfg.Prediction.MaxDisplay)
				assert.True(t, cfg.Prediction.Debug)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"DEFASAGEM_SERVER_PORT":              "7070",
				"DEFASAGEM_PATHS_MODELS_DIR":         "/srv/models",
				"DEFASAGEM_SECURITY_ALLOWED_ORIGINS": "http://a.example,http://b.example",
				"DEFASAGEM_PREDICTION_DEBUG":         "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "/srv/models", cfg.Paths.ModelsDir)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Prediction.Debug)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"DEFASAGEM_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"DEFASAGEM_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "invalid log output",
			file:    "logging:\n  output: syslog\n",
			wantErr: true,
		},
		{
			name:    "max display out of range",
			env:     map[string]string{"DEFASAGEM_PREDICTION_MAX_DISPLAY": "0"},
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"DEFASAGEM_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateFillsLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""
	cfg.Logging.Format = "text"
	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	assert.Equal(t, "127.0.0.1:8081", s.Address())
	assert.Equal(t, ":8080", Default().Server.Address())
}

func TestModelPaths(t *testing.T) {
	dir := t.TempDir()
	p := PathsConfig{ModelsDir: dir, ModelFile: "m.json", ModelConfigFile: "c.yaml"}
	assert.Equal(t, filepath.Join(dir, "m.json"), p.ModelPath())
	assert.Equal(t, filepath.Join(dir, "c.yaml"), p.ModelConfigPath())

	rel := PathsConfig{ModelsDir: "does-not-exist", ModelFile: "m.json"}
	assert.Equal(t, "does-not-exist", rel.ResolveModelsDir())
}
