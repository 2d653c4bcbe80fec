package cmdexec

import (
	"context"
	"time"

	"vitox-e2e/pkg/logging"
)

// Runner 命令运行器
//
// mandatory=true 时任何非零退出都会返回 *StepError，调用方应立即中止流程；
// mandatory=false 时只返回退出码供调用方判断。没有重试，也不回滚之前的步骤。
type Runner struct {
	executor Executor
	logger   *logging.Logger
}

// NewRunner 创建命令运行器
func NewRunner(executor Executor, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{executor: executor, logger: logger}
}

// Run 执行命令
func (r *Runner) Run(ctx context.Context, cmd Command, mandatory bool) (int, error) {
	line := cmd.String()
	r.logger.Debug("Executing command", "command", line, "mandatory", mandatory)

	start := time.Now()
	code, err := r.executor.Execute(ctx, cmd)
	if err != nil && code == 0 {
		code = ExitCodeNotStarted
	}
	elapsed := time.Since(start)

	if code == 0 {
		r.logger.WithDuration(elapsed).Debug("Command succeeded", "command", line)
		return 0, nil
	}

	if !mandatory {
		r.logger.WithError(err).Warn("Command exited non-zero", "command", line, "exit_code", code)
		return code, nil
	}
	return code, &StepError{Command: line, ExitCode: code, Err: err}
}

// Must 执行强制步骤
func (r *Runner) Must(ctx context.Context, cmd Command) error {
	_, err := r.Run(ctx, cmd, true)
	return err
}
