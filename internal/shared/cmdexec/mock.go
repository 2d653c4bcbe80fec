package cmdexec

import (
	"context"
	"sync"
)

// ============================================================================
// MockExecutor - 记录调用的 Executor 实现（用于测试）
// ============================================================================

// mockRule 按子串匹配命令行的返回规则
type mockRule struct {
	match string
	code  int
	err   error
}

// MockExecutor 记录所有调用，默认返回退出码 0
//
// Fail 注册的规则按注册顺序匹配渲染后的命令行，第一个命中的规则生效。
// OnExecute 在返回前调用，可用于模拟副作用（如下载写入文件）。
type MockExecutor struct {
	mu        sync.Mutex
	calls     []Command
	rules     []mockRule
	OnExecute func(cmd Command)
}

// NewMockExecutor 创建 MockExecutor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Fail 命令行包含 match 时返回指定退出码
func (m *MockExecutor) Fail(match string, code int) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, code: code})
	return m
}

// FailWithError 命令行包含 match 时模拟启动失败
func (m *MockExecutor) FailWithError(match string, err error) *MockExecutor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, code: ExitCodeNotStarted, err: err})
	return m
}

// Execute 记录调用并按规则返回
func (m *MockExecutor) Execute(ctx context.Context, cmd Command) (int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	rules := append([]mockRule(nil), m.rules...)
	hook := m.OnExecute
	m.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	for _, r := range rules {
		if cmd.Contains(r.match) {
			return r.code, r.err
		}
	}
	return 0, nil
}

// Calls 返回所有调用（副本）
func (m *MockExecutor) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.calls...)
}

// CallsMatching 返回命令行包含 match 的调用
func (m *MockExecutor) CallsMatching(match string) []Command {
	var out []Command
	for _, c := range m.Calls() {
		if c.Contains(match) {
			out = append(out, c)
		}
	}
	return out
}

// Reset 清空调用记录（保留规则）
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
