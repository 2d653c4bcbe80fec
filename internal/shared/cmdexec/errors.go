package cmdexec

import (
	"errors"
	"fmt"
)

// ErrMandatoryStep 强制步骤失败
// 调用方通过 errors.Is 判断是否需要终止整个流程
var ErrMandatoryStep = errors.New("mandatory step failed")

// ExitCodeNotStarted 进程未能启动（命令不存在、权限不足等）时使用的退出码
// 与 shell 的 "command not found" 保持一致
const ExitCodeNotStarted = 127

// StepError 强制步骤失败的详情
type StepError struct {
	Command  string // 已打码的命令行
	ExitCode int
	Err      error // 底层原因（启动失败、ctx 取消），可能为 nil
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command failed (exit %d): %s: %v", e.ExitCode, e.Command, e.Err)
	}
	return fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, e.Command)
}

// Unwrap 同时暴露 ErrMandatoryStep 和底层原因
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMandatoryStep}
	}
	return []error{ErrMandatoryStep, e.Err}
}

// AsStepError 提取错误链中的 StepError
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
