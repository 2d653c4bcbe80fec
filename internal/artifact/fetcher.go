package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// Outcome EnsureLocal 的结果
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped" // 已存在，未访问网络
	OutcomeFetched Outcome = "fetched" // 已下载
)

// Fetcher 产物下载器
//
// 串行调用，不并发下载；总耗时是各产物下载时间之和。
type Fetcher struct {
	runner *cmdexec.Runner
	cli    *hub.CLI
	logger *logging.Logger
	now    func() time.Time
}

// NewFetcher 创建下载器
func NewFetcher(runner *cmdexec.Runner, cli *hub.CLI, logger *logging.Logger) *Fetcher {
	if cli == nil {
		cli = hub.New("")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fetcher{runner: runner, cli: cli, logger: logger, now: time.Now}
}

// EnsureLocal 确保产物在本地就绪
//
//  1. 创建 LocalPath 的父目录
//  2. 计算存在性证据
//  3. 证据完整 → 直接返回（唯一的幂等机制）
//  4. 否则执行一次强制下载
func (f *Fetcher) EnsureLocal(ctx context.Context, spec Spec) (Outcome, error) {
	log := f.logger.With("role", string(spec.Role), "repo", spec.Identifier, "dir", spec.LocalPath)

	if err := os.MkdirAll(filepath.Dir(spec.LocalPath), 0755); err != nil {
		return "", fmt.Errorf("create parent of %s: %w", spec.LocalPath, err)
	}

	evidence := Inspect(spec.LocalPath)
	if evidence.Complete() {
		if c, err := ReadCompletion(spec.LocalPath); err == nil && c != nil {
			log.Debug("Completion marker found", "fetched_at", c.FetchedAt)
		}
		log.Info(fmt.Sprintf("Model already exists at %s, skipping download", spec.LocalPath), "status", "ok")
		return OutcomeSkipped, nil
	}

	log.Info(fmt.Sprintf("Downloading %s -> %s", spec.Identifier, spec.LocalPath), "missing", evidence.Missing())
	if err := f.runner.Must(ctx, f.cli.DownloadCommand(spec.Identifier, spec.LocalPath)); err != nil {
		return "", fmt.Errorf("fetch %s: %w", spec.Role, err)
	}

	// 记录写入失败不影响结果：判定本身不依赖它
	if err := WriteCompletion(spec.LocalPath, Completion{
		Identifier: spec.Identifier,
		Role:       spec.Role,
		FetchedAt:  f.now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("Failed to write completion marker")
	}

	log.OK(fmt.Sprintf("Downloaded to %s", spec.LocalPath))
	return OutcomeFetched, nil
}
