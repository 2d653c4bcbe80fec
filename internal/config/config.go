package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// Load 加载配置
// 1. 加载 .env（凭据 + APP_ENV）
// 2. 加载 common.yaml、{env}.yaml
// 3. 环境变量和命令行参数覆盖
// 4. 校验
func Load(opts Options) (*Config, error) {
	env := parseEnv(getEnv("APP_ENV", "dev"))
	loadEnvFiles(env, opts.ConfigDir)
	// .env 里可能设置了 APP_ENV
	env = parseEnv(getEnv("APP_ENV", string(env)))

	yamlCfg, err := loadYAMLConfig(env, configSearchDirs(opts.ConfigDir))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:           env,
		InstallTarget: firstNonEmpty(opts.InstallTarget, os.Getenv("VITOX_INSTALL_TARGET"), yamlCfg.Install.Target),
		Models: ModelsConfig{
			Dir:      firstNonEmpty(opts.ModelsDir, os.Getenv("VITOX_MODELS_DIR"), yamlCfg.Models.Dir),
			Rewriter: firstNonEmpty(opts.RewriterRepo, os.Getenv("VITOX_REWRITER_REPO"), yamlCfg.Models.Rewriter),
			Span:     firstNonEmpty(opts.SpanRepo, os.Getenv("VITOX_SPAN_REPO"), yamlCfg.Models.Span),
			Toxicity: firstNonEmpty(opts.ToxicRepo, os.Getenv("VITOX_TOXIC_REPO"), yamlCfg.Models.Toxicity),
		},
		ResultsDir: firstNonEmpty(os.Getenv("VITOX_RESULTS_DIR"), yamlCfg.Results.Dir),
		OutputPath: opts.Output,
		Token:      firstNonEmpty(opts.Token, os.Getenv("HF_TOKEN")),
		Tools: ToolsConfig{
			Python:    firstNonEmpty(os.Getenv("VITOX_PYTHON"), yamlCfg.Tools.Python),
			HubCLI:    firstNonEmpty(os.Getenv("VITOX_HUB_CLI"), yamlCfg.Tools.HubCLI),
			TargetCLI: firstNonEmpty(os.Getenv("VITOX_TARGET_CLI"), yamlCfg.Tools.TargetCLI),
		},
		Log:         yamlCfg.Log,
		MetricsFile: firstNonEmpty(opts.MetricsFile, os.Getenv("VITOX_METRICS_FILE"), yamlCfg.Metrics.Textfile),
		MinIO:       yamlCfg.MinIO,
	}
	cfg.Log.Level = firstNonEmpty(opts.LogLevel, os.Getenv("LOG_LEVEL"), cfg.Log.Level)
	cfg.Log.Format = firstNonEmpty(opts.LogFormat, os.Getenv("LOG_FORMAT"), cfg.Log.Format)
	cfg.MinIO.Endpoint = firstNonEmpty(os.Getenv("MINIO_ENDPOINT"), cfg.MinIO.Endpoint)
	cfg.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
	cfg.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	cfg.ConfigFilePath = yamlCfg.loadedFrom

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultYAMLConfig 代码硬编码默认值
func defaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Install: InstallConfig{Target: DefaultInstallTarget},
		Models: ModelsConfig{
			Dir:      DefaultModelsDir,
			Rewriter: DefaultRewriterRepo,
			Span:     DefaultSpanRepo,
			Toxicity: DefaultToxicityRepo,
		},
		Results: ResultsConfig{Dir: DefaultResultsDir},
		Tools: ToolsConfig{
			Python:    DefaultPython,
			HubCLI:    DefaultHubCLI,
			TargetCLI: DefaultTargetCLI,
		},
		Log:   logging.Config{Level: "info", Format: "text", Output: "stdout"},
		MinIO: MinIOConfig{Bucket: DefaultMinIOBucket, Prefix: DefaultMinIOPrefix},
	}
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
// 文件不存在不是错误；存在但无法解析时返回错误
func loadYAMLConfig(env Environment, dirs []string) (*YAMLConfig, error) {
	cfg := defaultYAMLConfig()

	for _, name := range []string{"common.yaml", fmt.Sprintf("%s.yaml", env)} {
		path := findFile(dirs, name)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
		cfg.loadedFrom = path
	}

	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var problems []string
	if c.InstallTarget == "" {
		problems = append(problems, "install target is empty")
	}
	if c.Models.Dir == "" {
		problems = append(problems, "models dir is empty")
	}
	for name, repo := range map[string]string{
		"rewriter": c.Models.Rewriter,
		"span":     c.Models.Span,
		"toxicity": c.Models.Toxicity,
	} {
		if err := hub.ValidateRepoID(repo); err != nil {
			problems = append(problems, fmt.Sprintf("%s repo: %v", name, err))
		}
	}
	if c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		problems = append(problems, "minio endpoint set but MINIO_ROOT_USER/MINIO_ROOT_PASSWORD missing")
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// String 返回配置摘要（隐藏凭据）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Install: %s, ModelsDir: %s, Rewriter: %s, Span: %s, Toxicity: %s, Token: %s, MinIO: %s}",
		c.Env, c.InstallTarget, c.Models.Dir, c.Models.Rewriter, c.Models.Span, c.Models.Toxicity,
		maskSecret(c.Token), firstNonEmpty(c.MinIO.Endpoint, "disabled"))
}

// maskSecret 隐藏凭据，只保留前 3 个字符
func maskSecret(s string) string {
	if s == "" {
		return "<none>"
	}
	if len(s) <= 3 {
		return "***"
	}
	return s[:3] + "***"
}
