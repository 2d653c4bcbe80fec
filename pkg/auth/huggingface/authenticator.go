// Package huggingface 实现 Hugging Face Hub 认证器
//
// 认证流程:
//  1. token 为空 → 输出警告，匿名继续
//  2. token 非空 → 执行 huggingface-cli login（强制步骤，失败终止流程）
package huggingface

import (
	"context"
	"fmt"

	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/pkg/auth"
	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// HostName 认证目标名称
const HostName = "huggingface"

// Authenticator Hugging Face 认证器
type Authenticator struct {
	runner *cmdexec.Runner
	cli    *hub.CLI
	logger *logging.Logger
}

// New 创建 Hugging Face 认证器
func New(runner *cmdexec.Runner, cli *hub.CLI, logger *logging.Logger) *Authenticator {
	if cli == nil {
		cli = hub.New("")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Authenticator{runner: runner, cli: cli, logger: logger}
}

// Host 返回认证目标名称
func (a *Authenticator) Host() string {
	return HostName
}

// Authenticate 登录 Hugging Face
func (a *Authenticator) Authenticate(ctx context.Context, token string) (auth.AuthState, error) {
	if token == "" {
		a.logger.Warn("No HF token provided. If repos are private/rate-limited, use --token <hf_xxx>")
		return auth.AuthStateAnonymous, nil
	}

	a.logger.Info("Logging in to Hugging Face...")
	if err := a.runner.Must(ctx, a.cli.LoginCommand(token)); err != nil {
		return auth.AuthStateFailed, fmt.Errorf("hugging face login: %w", err)
	}
	a.logger.OK("Logged in to Hugging Face")
	return auth.AuthStateAuthenticated, nil
}

var _ auth.Authenticator = (*Authenticator)(nil)
