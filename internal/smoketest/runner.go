// Package smoketest 目标 CLI 的冒烟测试
//
// 用一条固定的多语言/口语化输入调用 vitoxreduce，只以进程退出码判断成功；
// 结果文件的 JSON 内容由 CLI 自身的测试负责，这里不解析也不校验。
package smoketest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/pkg/logging"
)

const (
	// SampleInput 固定的冒烟测试输入（越南语口语 + 网络缩写）
	SampleInput = "Từ lúc mấy bro cmt cực kì cl gì đấy..."

	// DefaultCLI 默认目标 CLI
	DefaultCLI = "vitoxreduce"

	// DefaultResultsDir 默认结果目录
	DefaultResultsDir = "./results"

	// outputTimeLayout 结果文件名中的时间格式（秒级精度）
	outputTimeLayout = "20060102_150405"
)

// Request 一次冒烟测试的输入
type Request struct {
	RewriterDir string
	SpanDir     string
	ToxicityDir string
	OutputPath  string // 为空时按时间戳生成
}

// Result 一次冒烟测试的结果
type Result struct {
	OutputPath string
	Command    string // 已打码的命令行
	Duration   time.Duration
}

// Runner 冒烟测试运行器
type Runner struct {
	runner     *cmdexec.Runner
	cli        string
	resultsDir string
	logger     *logging.Logger
	now        func() time.Time
}

// Option Runner 选项
type Option func(*Runner)

// WithCLI 指定目标 CLI
func WithCLI(cli string) Option {
	return func(r *Runner) {
		if cli != "" {
			r.cli = cli
		}
	}
}

// WithResultsDir 指定自动生成结果路径时使用的目录
func WithResultsDir(dir string) Option {
	return func(r *Runner) {
		if dir != "" {
			r.resultsDir = dir
		}
	}
}

// WithClock 指定时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger 指定日志器
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner 创建冒烟测试运行器
func NewRunner(runner *cmdexec.Runner, opts ...Option) *Runner {
	r := &Runner{
		runner:     runner,
		cli:        DefaultCLI,
		resultsDir: DefaultResultsDir,
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OutputPath 计算结果文件路径
//
// 未指定时为 <resultsDir>/smoke_test_YYYYMMDD_HHMMSS.json。
// 同一秒内的两次运行会得到相同路径，不做防护。
func (r *Runner) OutputPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	ts := r.now().Truncate(time.Second).Format(outputTimeLayout)
	return filepath.Join(r.resultsDir, fmt.Sprintf("smoke_test_%s.json", ts))
}

// BuildCommand 构建 CLI 调用
func (r *Runner) BuildCommand(req Request, outputPath string) cmdexec.Command {
	return cmdexec.New(r.cli,
		"--input", SampleInput,
		"--rewriter_model", req.RewriterDir,
		"--span_locator_model", req.SpanDir,
		"--toxicity_detector_model", req.ToxicityDir,
		"--output", outputPath,
		"--verbose",
	)
}

// Run 执行冒烟测试（强制步骤）
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.RewriterDir == "" || req.SpanDir == "" || req.ToxicityDir == "" {
		return nil, fmt.Errorf("smoke test: all three model directories are required")
	}

	r.logger.Info("Running smoke test...")
	output := r.OutputPath(req.OutputPath)
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, fmt.Errorf("create output dir for %s: %w", output, err)
	}

	cmd := r.BuildCommand(req, output)
	start := time.Now()
	if err := r.runner.Must(ctx, cmd); err != nil {
		return nil, fmt.Errorf("smoke test: %w", err)
	}

	r.logger.OK(fmt.Sprintf("Results saved to: %s", output))
	return &Result{
		OutputPath: output,
		Command:    cmd.String(),
		Duration:   time.Since(start),
	}, nil
}
