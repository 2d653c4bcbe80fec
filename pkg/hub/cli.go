// Package hub 模型仓库（Hugging Face Hub）命令行客户端的命令构建
//
// 只负责把"做什么"转换为 huggingface-cli 的参数，不执行任何命令；
// 执行统一交给 cmdexec.Runner。传输协议、鉴权细节由 huggingface-cli 自身负责。
package hub

import (
	"fmt"
	"strings"

	"vitox-e2e/internal/shared/cmdexec"
)

const (
	// DefaultCLI 默认命令行客户端
	DefaultCLI = "huggingface-cli"
	// ClientPackage 提供 DefaultCLI 的 Python 包
	ClientPackage = "huggingface_hub"
)

// CLI huggingface-cli 命令构建器
type CLI struct {
	Bin string
}

// New 创建命令构建器，bin 为空时使用 DefaultCLI
func New(bin string) *CLI {
	if bin == "" {
		bin = DefaultCLI
	}
	return &CLI{Bin: bin}
}

// LoginCommand 构建登录命令
// token 会写入 git credential helper，命令行渲染时打码
func (c *CLI) LoginCommand(token string) cmdexec.Command {
	return cmdexec.New(c.Bin,
		"login",
		"--token", token,
		"--add-to-git-credential",
	).WithSecret(token)
}

// DownloadCommand 构建下载命令
// 禁用 symlink 缓存，使 localDir 自包含、可整体拷贝
func (c *CLI) DownloadCommand(repoID, localDir string) cmdexec.Command {
	return cmdexec.New(c.Bin,
		"download", repoID,
		"--local-dir", localDir,
		"--local-dir-use-symlinks", "False",
	)
}

// ValidateRepoID 校验仓库标识（owner/name）
func ValidateRepoID(repoID string) error {
	if repoID == "" {
		return fmt.Errorf("repository id is empty")
	}
	if strings.ContainsAny(repoID, " \t\n") {
		return fmt.Errorf("repository id %q contains whitespace", repoID)
	}
	parts := strings.Split(repoID, "/")
	if len(parts) > 2 {
		return fmt.Errorf("repository id %q: expected <owner>/<name>", repoID)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("repository id %q: empty segment", repoID)
		}
	}
	return nil
}
