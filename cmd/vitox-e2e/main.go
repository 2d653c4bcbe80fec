// Package main vitoxreduce 端到端验证入口
//
// 安装 vitoxreduce、登录 Hugging Face（可选）、下载三个模型并执行一次冒烟测试。
// 成功退出码为 0，任一强制步骤失败为 1。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"vitox-e2e/internal/config"
	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/internal/shared/objstore"
	"vitox-e2e/internal/workflow"
	"vitox-e2e/pkg/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts config.Options
	flag.StringVar(&opts.InstallTarget, "install-target", "", "Package name to install (default: vitoxreduce)")
	flag.StringVar(&opts.RewriterRepo, "rewriter-repo", "", "Rewriter model repo ID")
	flag.StringVar(&opts.SpanRepo, "span-repo", "", "Span locator model repo ID")
	flag.StringVar(&opts.ToxicRepo, "toxic-repo", "", "Toxicity detector model repo ID")
	flag.StringVar(&opts.Token, "token", "", "Hugging Face token (optional, falls back to HF_TOKEN)")
	flag.StringVar(&opts.ModelsDir, "models-dir", "", "Directory to save models (default: ./models)")
	flag.StringVar(&opts.Output, "output", "", "Output JSON file path (default: ./results/smoke_test_TIMESTAMP.json)")
	flag.StringVar(&opts.ConfigDir, "config", "", "配置文件目录（或 YAML 文件路径）")
	flag.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn, error")
	flag.StringVar(&opts.LogFormat, "log-format", "", "text or json")
	flag.StringVar(&opts.MetricsFile, "metrics-file", "", "Prometheus textfile path (optional)")
	flag.Parse()

	// 支持直接指定 YAML 文件路径
	if dir := opts.ConfigDir; strings.HasSuffix(dir, ".yaml") || strings.HasSuffix(dir, ".yml") {
		opts.ConfigDir = filepath.Dir(dir)
	}

	cfg, err := config.Load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logCfg := cfg.Log
	logCfg.Component = "vitox-e2e"
	logger := logging.New(logCfg)
	logger.Debug("Configuration loaded", "config", cfg.String(), "file", cfg.ConfigFilePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wfOpts := []workflow.Option{workflow.WithLogger(logger)}
	if pub := newPublisher(cfg, logger); pub != nil {
		wfOpts = append(wfOpts, workflow.WithPublisher(pub))
	}

	err = workflow.New(cfg, cmdexec.NewExecExecutor(), wfOpts...).Run(ctx)
	if err != nil {
		if line := workflow.FailedCommand(err); line != "" {
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", line)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return workflow.ExitCode(err)
}

// newPublisher 按配置创建结果发布器，未配置或创建失败时返回 nil
func newPublisher(cfg *config.Config, logger *logging.Logger) workflow.ResultPublisher {
	client, err := objstore.NewClient(cfg.MinIO)
	if errors.Is(err, objstore.ErrNotConfigured) {
		return nil
	}
	if err != nil {
		logger.WithError(err).Warn("Result publishing disabled")
		return nil
	}
	logger.Info("Result publishing enabled", "endpoint", cfg.MinIO.Endpoint, "bucket", client.Bucket())
	return objstore.NewPublisher(client, cfg.MinIO.Prefix)
}
