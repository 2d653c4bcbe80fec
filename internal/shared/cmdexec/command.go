// Package cmdexec 外部命令执行层
//
// 所有外部工具（pip、huggingface-cli、vitoxreduce）都经由此包调用：
//   - Command 描述一条命令（程序 + 参数），参数不经过 shell 二次解析
//   - Executor 是可替换的执行能力，测试中用 MockExecutor 替代
//   - Runner 在 Executor 之上实现"强制步骤"语义：非零退出即返回 StepError
//
// 架构关系：
//
//	sysinstall / auth / artifact / smoketest
//	       │  构建 Command
//	       ▼
//	  Runner.Run(ctx, cmd, mandatory)
//	       │
//	       ▼
//	  Executor.Execute（ExecExecutor：继承父进程 stdout/stderr）
package cmdexec

import (
	"strconv"
	"strings"
)

// maskedValue 打码后的占位符
const maskedValue = "***"

// Command 一条外部命令
type Command struct {
	Name string   // 可执行文件名或路径
	Args []string // 参数列表，原样传递给进程

	// secrets 渲染命令行时需要打码的值（如登录 token）
	secrets []string
}

// New 创建命令
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithSecret 标记一个敏感值，String() 中会被替换为 ***
func (c Command) WithSecret(secret string) Command {
	if secret == "" {
		return c
	}
	c.secrets = append(append([]string(nil), c.secrets...), secret)
	return c
}

// Argv 返回完整的 argv（程序名 + 参数）
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String 渲染可读的命令行（敏感值已打码）
//
// 含空白或引号的参数使用双引号包裹，便于在日志中原样复制执行。
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range c.Argv() {
		parts = append(parts, quoteArg(c.mask(p)))
	}
	return strings.Join(parts, " ")
}

// Contains 检查渲染后的命令行是否包含子串
func (c Command) Contains(sub string) bool {
	return strings.Contains(c.String(), sub)
}

// HasArg 检查参数列表中是否存在完全相等的参数（不受打码影响）
func (c Command) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func (c Command) mask(s string) string {
	for _, secret := range c.secrets {
		s = strings.ReplaceAll(s, secret, maskedValue)
	}
	return s
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`") {
		return strconv.Quote(s)
	}
	return s
}
