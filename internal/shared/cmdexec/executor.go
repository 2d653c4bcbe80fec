package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor 外部命令执行能力
//
// 返回进程退出码；进程无法启动时返回 ExitCodeNotStarted 和原因。
// 实现必须同步阻塞直到进程结束。
type Executor interface {
	Execute(ctx context.Context, cmd Command) (int, error)
}

// ExecExecutor 基于 os/exec 的执行器
//
// 子进程继承父进程的标准输入/输出/错误，外部工具自身的日志实时可见。
// 不设置超时：挂起的下载或 CLI 会一直阻塞，直到 ctx 被取消。
type ExecExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Dir    string   // 工作目录，空表示当前目录
	Env    []string // 额外环境变量，追加到父进程环境之后
}

// NewExecExecutor 创建继承父进程标准流的执行器
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute 执行命令并等待结束
func (e *ExecExecutor) Execute(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = e.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	c.Dir = e.Dir
	if len(e.Env) > 0 {
		c.Env = append(os.Environ(), e.Env...)
	}

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// 被信号终止
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 1, ctxErr
			}
			return 1, fmt.Errorf("%s terminated: %w", cmd.Name, err)
		}
		return code, nil
	}
	return ExitCodeNotStarted, fmt.Errorf("start %s: %w", cmd.Name, err)
}
