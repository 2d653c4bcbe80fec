// Package workflow 端到端验证流程编排
//
// 一次运行严格按顺序推进：
//
//	init → installing → authenticating → fetching → testing → done
//
// 任一强制步骤失败进入 failed，之后不再执行任何步骤。没有并行，没有重试，
// 也不回滚：已下载的模型保留在磁盘上，下次运行会被存在性判定跳过。
package workflow

import "fmt"

// State 流程状态
type State string

const (
	// StateInit 初始状态：尚未执行任何命令
	StateInit State = "init"

	// StateInstalling 安装目标 CLI 和模型仓库客户端
	StateInstalling State = "installing"

	// StateAuthenticating 登录模型仓库（无 token 时匿名通过）
	StateAuthenticating State = "authenticating"

	// StateFetching 依次确保三个模型在本地就绪
	StateFetching State = "fetching"

	// StateTesting 执行冒烟测试
	StateTesting State = "testing"

	// StateDone 全部成功
	StateDone State = "done"

	// StateFailed 某个强制步骤失败
	StateFailed State = "failed"
)

// transitions 合法的状态迁移
var transitions = map[State][]State{
	StateInit:           {StateInstalling, StateFailed},
	StateInstalling:     {StateAuthenticating, StateFailed},
	StateAuthenticating: {StateFetching, StateFailed},
	StateFetching:       {StateTesting, StateFailed},
	StateTesting:        {StateDone, StateFailed},
}

// IsTerminal 是否为终态
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransitionTo 判断是否允许迁移到 next
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// machine 单次运行的状态记录
type machine struct {
	current State
	history []State
}

func newMachine() *machine {
	return &machine{current: StateInit, history: []State{StateInit}}
}

func (m *machine) transition(next State) error {
	if !m.current.CanTransitionTo(next) {
		return fmt.Errorf("invalid state transition: %s -> %s", m.current, next)
	}
	m.current = next
	m.history = append(m.history, next)
	return nil
}
