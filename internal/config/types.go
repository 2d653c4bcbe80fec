// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 命令行参数（Options）
//  2. 环境变量（通过 .env 文件或 shell 注入）
//  3. YAML 配置文件（{env}.yaml 覆盖 common.yaml）
//  4. 代码硬编码默认值
//
// 凭据单一数据源：
//
//	HF_TOKEN、MINIO_ROOT_USER、MINIO_ROOT_PASSWORD 只从环境变量（或 .env）读取，
//	YAML 中不存储任何凭据。
//
// 配置路径确定策略：
//  1. --config 命令行参数
//  2. CONFIG_DIR 环境变量
//  3. ./configs、../configs
//
// Load 返回的 Config 在整个运行期间只读，各组件通过参数获得所需字段，
// 不直接读取进程环境。
package config

import (
	"errors"

	"vitox-e2e/internal/shared/sysinstall"
	"vitox-e2e/internal/smoketest"
	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("invalid config")

// 默认值
const (
	DefaultInstallTarget = "vitoxreduce"
	DefaultRewriterRepo  = "joshswift/bartpho-rewriter"
	DefaultSpanRepo      = "joshswift/phobert-span"
	DefaultToxicityRepo  = "joshswift/phobert-toxicity"
	DefaultModelsDir     = "./models"
	DefaultResultsDir    = smoketest.DefaultResultsDir
	DefaultPython        = sysinstall.DefaultPython
	DefaultHubCLI        = hub.DefaultCLI
	DefaultTargetCLI     = smoketest.DefaultCLI
	DefaultMinIOBucket   = "vitox-e2e"
	DefaultMinIOPrefix   = "smoke-tests"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Install InstallConfig  `yaml:"install"`
	Models  ModelsConfig   `yaml:"models"`
	Results ResultsConfig  `yaml:"results"`
	Tools   ToolsConfig    `yaml:"tools"`
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	MinIO   MinIOConfig    `yaml:"minio"`

	// loadedFrom 实际加载的配置文件路径（最后一个生效的文件）
	loadedFrom string
}

// InstallConfig 安装配置
type InstallConfig struct {
	Target string `yaml:"target"` // pip 包名
}

// ModelsConfig 模型仓库与本地目录
type ModelsConfig struct {
	Dir      string `yaml:"dir"`      // 本地模型根目录
	Rewriter string `yaml:"rewriter"` // 改写模型仓库
	Span     string `yaml:"span"`     // 片段定位模型仓库
	Toxicity string `yaml:"toxicity"` // 毒性检测模型仓库
}

// ResultsConfig 结果文件配置
type ResultsConfig struct {
	Dir string `yaml:"dir"`
}

// ToolsConfig 外部工具路径
type ToolsConfig struct {
	Python    string `yaml:"python"`
	HubCLI    string `yaml:"hub_cli"`
	TargetCLI string `yaml:"target_cli"`
}

// MetricsConfig 指标导出配置
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Prometheus textfile collector 文件路径，空表示不导出
}

// MinIOConfig MinIO 对象存储配置（用于归档冒烟测试结果）
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"` // 例如 localhost:9000，空表示不上传
	AccessKey string `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"` // 对象键前缀
}

// Enabled 是否配置了对象存储
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Options 命令行参数（空字符串表示未指定）
type Options struct {
	ConfigDir     string
	InstallTarget string
	RewriterRepo  string
	SpanRepo      string
	ToxicRepo     string
	Token         string
	ModelsDir     string
	Output        string
	LogLevel      string
	LogFormat     string
	MetricsFile   string
}

// Config 一次运行的最终配置（只读）
type Config struct {
	Env            Environment
	InstallTarget  string
	Models         ModelsConfig
	ResultsDir     string
	OutputPath     string // 为空时由冒烟测试按时间戳生成
	Token          string // 为空表示匿名
	Tools          ToolsConfig
	Log            logging.Config
	MetricsFile    string
	MinIO          MinIOConfig
	ConfigFilePath string // 实际加载的配置文件路径（可能为空）
}
