package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managedEnv 测试涉及的环境变量
var managedEnv = []string{
	"APP_ENV", "CONFIG_DIR", "HF_TOKEN",
	"VITOX_INSTALL_TARGET", "VITOX_MODELS_DIR", "VITOX_REWRITER_REPO", "VITOX_SPAN_REPO",
	"VITOX_TOXIC_REPO", "VITOX_RESULTS_DIR", "VITOX_PYTHON", "VITOX_HUB_CLI", "VITOX_TARGET_CLI",
	"VITOX_METRICS_FILE", "LOG_LEVEL", "LOG_FORMAT",
	"MINIO_ENDPOINT", "MINIO_ROOT_USER", "MINIO_ROOT_PASSWORD",
}

// clearEnv 取消设置环境变量并在测试结束后恢复
// godotenv 不覆盖已存在（即使为空）的变量，因此这里必须 Unsetenv
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Options{ConfigDir: dir})
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "vitoxreduce", cfg.InstallTarget)
	assert.Equal(t, "./models", cfg.Models.Dir)
	assert.Equal(t, "joshswift/bartpho-rewriter", cfg.Models.Rewriter)
	assert.Equal(t, "joshswift/phobert-span", cfg.Models.Span)
	assert.Equal(t, "joshswift/phobert-toxicity", cfg.Models.Toxicity)
	assert.Equal(t, "./results", cfg.ResultsDir)
	assert.Equal(t, "python3", cfg.Tools.Python)
	assert.Equal(t, "huggingface-cli", cfg.Tools.HubCLI)
	assert.Equal(t, "vitoxreduce", cfg.Tools.TargetCLI)
	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.OutputPath)
	assert.Empty(t, cfg.MetricsFile)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Empty(t, cfg.ConfigFilePath)
}

func TestLoad_YAMLLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", `
models:
  dir: /data/models
  span: org/common-span
tools:
  python: /usr/bin/python3.11
log:
  level: debug
`)
	writeFile(t, dir, "dev.yaml", `
models:
  span: org/dev-span
metrics:
  textfile: /var/lib/node_exporter/vitox.prom
`)

	cfg, err := Load(Options{ConfigDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "/data/models", cfg.Models.Dir)
	assert.Equal(t, "org/dev-span", cfg.Models.Span, "{env}.yaml overrides common.yaml")
	assert.Equal(t, "joshswift/bartpho-rewriter", cfg.Models.Rewriter, "unset keys keep defaults")
	assert.Equal(t, "/usr/bin/python3.11", cfg.Tools.Python)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/node_exporter/vitox.prom", cfg.MetricsFile)
	assert.Equal(t, filepath.Join(dir, "dev.yaml"), cfg.ConfigFilePath)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "models:\n  rewriter: yaml/rewriter\n  toxicity: yaml/toxicity\n")
	os.Setenv("VITOX_REWRITER_REPO", "env/rewriter")
	os.Setenv("VITOX_TOXIC_REPO", "env/toxicity")

	cfg, err := Load(Options{ConfigDir: dir, ToxicRepo: "flag/toxicity"})
	require.NoError(t, err)

	assert.Equal(t, "env/rewriter", cfg.Models.Rewriter, "env overrides yaml")
	assert.Equal(t, "flag/toxicity", cfg.Models.Toxicity, "flag overrides env")
}

func TestLoad_TokenFromDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "HF_TOKEN=hf_from_dotenv\n")

	cfg, err := Load(Options{ConfigDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "hf_from_dotenv", cfg.Token)

	cfg, err = Load(Options{ConfigDir: dir, Token: "hf_flag"})
	require.NoError(t, err)
	assert.Equal(t, "hf_flag", cfg.Token)
}

func TestLoad_ProductionSkipsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "HF_TOKEN=hf_should_not_load\n")
	os.Setenv("APP_ENV", "prod")

	cfg, err := Load(Options{ConfigDir: dir})
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Empty(t, cfg.Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "models: [unterminated\n")

	_, err := Load(Options{ConfigDir: dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoad_InvalidRepo(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{ConfigDir: t.TempDir(), SpanRepo: "not a repo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "span repo")
}

func TestLoad_MinIO(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", "minio:\n  endpoint: localhost:9000\n  bucket: results\n")

	_, err := Load(Options{ConfigDir: dir})
	require.Error(t, err, "credentials are required when an endpoint is configured")

	os.Setenv("MINIO_ROOT_USER", "minio")
	os.Setenv("MINIO_ROOT_PASSWORD", "minio-secret")
	cfg, err := Load(Options{ConfigDir: dir})
	require.NoError(t, err)
	assert.True(t, cfg.MinIO.Enabled())
	assert.Equal(t, "results", cfg.MinIO.Bucket)
	assert.Equal(t, DefaultMinIOPrefix, cfg.MinIO.Prefix)
	assert.Equal(t, "minio", cfg.MinIO.AccessKey)
}

func TestParseEnv(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"dev", EnvDevelopment},
		{"", EnvDevelopment},
		{"test", EnvTest},
		{"PROD", EnvProduction},
		{"production", EnvProduction},
		{"staging", EnvDevelopment},
	}
	for _, tt := range tests {
		if got := parseEnv(tt.in); got != tt.want {
			t.Errorf("parseEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigString_MasksToken(t *testing.T) {
	cfg := &Config{Token: "hf_abcdefgh"}
	s := cfg.String()
	assert.NotContains(t, s, "hf_abcdefgh")
	assert.Contains(t, s, "hf_***")

	assert.Contains(t, (&Config{}).String(), "<none>")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<none>", maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "abc***", maskSecret("abcdef"))
}
