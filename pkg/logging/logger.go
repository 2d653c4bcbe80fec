// Package logging 结构化日志
//
// 基于 log/slog，按组件（component）区分日志来源：
//   - 普通进度使用 Info
//   - 步骤成功使用 OK（附带 status=ok，对应控制台上的 [OK] 行）
//   - 可恢复的问题使用 Warn（如未提供 token）
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const statusKey = "status"

// Logger 结构化日志器
type Logger struct {
	*slog.Logger
	base      *slog.Logger // 不带 component 属性，供 Named 派生
	component string
}

// Config 日志配置
type Config struct {
	Level     string    `yaml:"level"`
	Format    string    `yaml:"format"` // json or text
	Output    string    `yaml:"output"` // stdout, stderr, or file path
	Component string    `yaml:"-"`
	Writer    io.Writer `yaml:"-"` // 非空时优先于 Output
}

// ParseLevel 解析日志级别，未知值回退到 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New 创建新的日志器
func New(cfg Config) *Logger {
	level := ParseLevel(cfg.Level)

	output := cfg.Writer
	if output == nil {
		switch cfg.Output {
		case "stdout", "":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				output = os.Stdout
			} else {
				output = f
			}
		}
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	base := slog.New(handler)
	l := base
	if cfg.Component != "" {
		l = base.With(slog.String("component", cfg.Component))
	}
	return &Logger{
		Logger:    l,
		base:      base,
		component: cfg.Component,
	}
}

// Discard 丢弃所有输出的日志器（测试用）
func Discard() *Logger {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Logger{Logger: l, base: l}
}

// Component 返回组件名
func (l *Logger) Component() string {
	return l.component
}

// Named 派生子组件日志器，如 "workflow" → "workflow.fetch"
// 通过 With 添加的属性会保留
func (l *Logger) Named(name string) *Logger {
	component := name
	if l.component != "" {
		component = l.component + "." + name
	}
	return &Logger{
		Logger:    l.base.With(slog.String("component", component)),
		base:      l.base,
		component: component,
	}
}

// With 添加任意属性，返回 *Logger 以保留 OK/StepLog 等方法
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// WithError 添加错误信息
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With(slog.String("error", err.Error()))
}

// WithDuration 添加持续时间
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return l.With(slog.Float64("duration_ms", float64(d.Milliseconds())))
}

// OK 记录步骤成功
func (l *Logger) OK(msg string, args ...any) {
	l.Logger.Info(msg, append([]any{slog.String(statusKey, "ok")}, args...)...)
}

// StepLog 步骤结束日志
func (l *Logger) StepLog(step string, exitCode int, duration time.Duration, err error) {
	attrs := []any{
		slog.String("step", step),
		slog.Int("exit_code", exitCode),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.Logger.Error("Step failed", attrs...)
		return
	}
	l.Logger.Debug("Step finished", attrs...)
}
