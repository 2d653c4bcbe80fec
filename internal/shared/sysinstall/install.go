// Package sysinstall 提供依赖安装工具
//
// 负责把目标 CLI 及其模型仓库客户端装进当前 Python 环境：
//   - 检测 Python 解释器（非强制，仅用于日志）
//   - pip 升级安装目标包 + huggingface_hub（强制）
//   - 创建必要目录
package sysinstall

import (
	"context"
	"fmt"
	"os"

	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// DefaultPython 默认 Python 解释器
const DefaultPython = "python3"

// Installer 依赖安装器
type Installer struct {
	runner *cmdexec.Runner
	python string
	logger *logging.Logger
}

// NewInstaller 创建安装器，python 为空时使用 DefaultPython
func NewInstaller(runner *cmdexec.Runner, python string, logger *logging.Logger) *Installer {
	if python == "" {
		python = DefaultPython
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Installer{runner: runner, python: python, logger: logger}
}

// InstallCommand 构建 pip 升级安装命令
func (i *Installer) InstallCommand(packageName string) cmdexec.Command {
	return cmdexec.New(i.python,
		"-m", "pip", "install", "--upgrade",
		packageName, hub.ClientPackage,
	)
}

// Install 升级安装目标包和模型仓库客户端
// 失败是致命的：后续步骤都依赖安装好的工具
func (i *Installer) Install(ctx context.Context, packageName string) error {
	if packageName == "" {
		return fmt.Errorf("install: package name is empty")
	}
	i.logger.Info("Installing packages", "package", packageName, "client", hub.ClientPackage)
	if err := i.runner.Must(ctx, i.InstallCommand(packageName)); err != nil {
		return fmt.Errorf("install %s: %w", packageName, err)
	}
	i.logger.OK("Packages installed", "package", packageName)
	return nil
}

// CheckInterpreter 打印解释器版本（非强制）
// 返回 false 表示解释器不可用，此时 Install 大概率也会失败
func (i *Installer) CheckInterpreter(ctx context.Context) bool {
	code, _ := i.runner.Run(ctx, cmdexec.New(i.python, "--version"), false)
	if code != 0 {
		i.logger.Warn("Python interpreter check failed", "python", i.python, "exit_code", code)
		return false
	}
	return true
}

// EnsureDirectories 创建必要目录（已存在不报错）
func EnsureDirectories(dirs ...string) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}
