package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"vitox-e2e/internal/artifact"
	"vitox-e2e/internal/config"
	"vitox-e2e/internal/shared/cmdexec"
	"vitox-e2e/internal/shared/sysinstall"
	"vitox-e2e/internal/smoketest"
	"vitox-e2e/pkg/auth"
	"vitox-e2e/pkg/auth/huggingface"
	"vitox-e2e/pkg/hub"
	"vitox-e2e/pkg/logging"
)

// ResultPublisher 结果文件发布能力（objstore.Publisher 实现）
type ResultPublisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// StepResult 单个步骤的结果
type StepResult struct {
	Step     State
	ExitCode int
	Message  string
	Duration time.Duration
}

// Orchestrator 端到端验证流程
//
// 所有输入来自启动时构造的 config.Config，各组件不读取进程环境。
// 一个 Orchestrator 只运行一次。
type Orchestrator struct {
	cfg           *config.Config
	installer     *sysinstall.Installer
	authenticator auth.Authenticator
	fetcher       *artifact.Fetcher
	smoke         *smoketest.Runner
	publisher     ResultPublisher
	metrics       *Metrics
	logger        *logging.Logger
	now           func() time.Time
	runID         string

	machine *machine
	steps   []StepResult
	result  *smoketest.Result
}

// Option Orchestrator 选项
type Option func(*Orchestrator)

// WithLogger 指定日志器
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPublisher 指定结果发布器（nil 表示不发布）
func WithPublisher(p ResultPublisher) Option {
	return func(o *Orchestrator) {
		o.publisher = p
	}
}

// WithMetrics 指定指标实例
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock 指定时钟（影响结果文件名和指标时间戳）
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRunID 指定运行 ID（默认随机生成）
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		o.runID = id
	}
}

// New 创建 Orchestrator
// 所有外部命令都经由 executor 执行，测试时可替换为 cmdexec.MockExecutor
func New(cfg *config.Config, executor cmdexec.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		logger:  logging.Discard(),
		metrics: NewMetrics(),
		now:     time.Now,
		machine: newMachine(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = xid.New().String()
	}
	o.logger = o.logger.With("run_id", o.runID)

	runner := cmdexec.NewRunner(executor, o.logger.Named("cmdexec"))
	cli := hub.New(cfg.Tools.HubCLI)

	o.installer = sysinstall.NewInstaller(runner, cfg.Tools.Python, o.logger.Named("install"))
	o.authenticator = huggingface.New(runner, cli, o.logger.Named("auth"))
	o.fetcher = artifact.NewFetcher(runner, cli, o.logger.Named("artifact"))
	o.smoke = smoketest.NewRunner(runner,
		smoketest.WithCLI(cfg.Tools.TargetCLI),
		smoketest.WithResultsDir(cfg.ResultsDir),
		smoketest.WithClock(o.now),
		smoketest.WithLogger(o.logger.Named("smoketest")),
	)
	return o
}

// RunID 本次运行的 ID（出现在所有日志中）
func (o *Orchestrator) RunID() string {
	return o.runID
}

// State 当前状态
func (o *Orchestrator) State() State {
	return o.machine.current
}

// History 经历过的状态
func (o *Orchestrator) History() []State {
	return append([]State(nil), o.machine.history...)
}

// Steps 各步骤结果
func (o *Orchestrator) Steps() []StepResult {
	return append([]StepResult(nil), o.steps...)
}

// Result 冒烟测试结果（未成功时为 nil）
func (o *Orchestrator) Result() *smoketest.Result {
	return o.result
}

// Metrics 返回指标实例
func (o *Orchestrator) Metrics() *Metrics {
	return o.metrics
}

// Specs 按固定顺序返回三个产物规格
func (o *Orchestrator) Specs() []artifact.Spec {
	repos := map[artifact.Role]string{
		artifact.RoleRewriter: o.cfg.Models.Rewriter,
		artifact.RoleSpan:     o.cfg.Models.Span,
		artifact.RoleToxicity: o.cfg.Models.Toxicity,
	}
	specs := make([]artifact.Spec, 0, len(artifact.Roles))
	for _, role := range artifact.Roles {
		specs = append(specs, artifact.NewSpec(role, repos[role], o.cfg.Models.Dir))
	}
	return specs
}

// Run 执行完整流程，遇到第一个强制步骤失败即返回
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	if o.machine.current != StateInit {
		return fmt.Errorf("workflow already ran (state %s)", o.machine.current)
	}

	start := o.now()
	defer func() {
		o.finish(start, err == nil)
	}()

	o.installer.CheckInterpreter(ctx)

	if err := o.step(ctx, StateInstalling, func(ctx context.Context) error {
		return o.installer.Install(ctx, o.cfg.InstallTarget)
	}); err != nil {
		return err
	}

	if err := o.step(ctx, StateAuthenticating, func(ctx context.Context) error {
		_, err := o.authenticator.Authenticate(ctx, o.cfg.Token)
		return err
	}); err != nil {
		return err
	}

	specs := o.Specs()
	if err := o.step(ctx, StateFetching, func(ctx context.Context) error {
		if err := sysinstall.EnsureDirectories(o.cfg.Models.Dir); err != nil {
			return err
		}
		for _, spec := range specs {
			outcome, err := o.fetcher.EnsureLocal(ctx, spec)
			if err != nil {
				return err
			}
			o.metrics.RecordArtifact(spec.Role, outcome)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := o.step(ctx, StateTesting, func(ctx context.Context) error {
		res, err := o.smoke.Run(ctx, smoketest.Request{
			RewriterDir: specs[0].LocalPath,
			SpanDir:     specs[1].LocalPath,
			ToxicityDir: specs[2].LocalPath,
			OutputPath:  o.cfg.OutputPath,
		})
		if err != nil {
			return err
		}
		o.result = res
		return nil
	}); err != nil {
		return err
	}

	if err := o.machine.transition(StateDone); err != nil {
		return err
	}

	o.publish(ctx)
	o.logger.OK(fmt.Sprintf("Done. Models at: %s", o.cfg.Models.Dir))
	return nil
}

// step 迁移到 state 并执行 fn，失败时进入 failed
func (o *Orchestrator) step(ctx context.Context, state State, fn func(context.Context) error) error {
	if err := o.machine.transition(state); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		o.fail(state, err, 0)
		return err
	}

	start := o.now()
	err := fn(ctx)
	elapsed := o.now().Sub(start)
	o.metrics.RecordStep(state, elapsed, err)

	if err != nil {
		o.fail(state, err, elapsed)
		return err
	}
	o.steps = append(o.steps, StepResult{Step: state, Duration: elapsed})
	o.logger.StepLog(string(state), 0, elapsed, nil)
	return nil
}

func (o *Orchestrator) fail(state State, err error, elapsed time.Duration) {
	code := 1
	if stepErr, ok := cmdexec.AsStepError(err); ok {
		code = stepErr.ExitCode
	}
	o.steps = append(o.steps, StepResult{Step: state, ExitCode: code, Message: err.Error(), Duration: elapsed})
	o.logger.StepLog(string(state), code, elapsed, err)
	_ = o.machine.transition(StateFailed)
}

// publish 上传结果文件，失败只告警
func (o *Orchestrator) publish(ctx context.Context) {
	if o.publisher == nil || o.result == nil {
		return
	}
	key, err := o.publisher.Publish(ctx, o.result.OutputPath)
	if err != nil {
		o.logger.WithError(err).Warn("Failed to publish smoke test result", "path", o.result.OutputPath)
		return
	}
	o.logger.OK("Smoke test result published", "key", key)
}

// finish 记录整次运行的指标并按需写入 textfile
func (o *Orchestrator) finish(start time.Time, success bool) {
	end := o.now()
	o.metrics.RecordRun(end, end.Sub(start), success)
	if o.cfg.MetricsFile == "" {
		return
	}
	if err := o.metrics.WriteTextfile(o.cfg.MetricsFile); err != nil {
		o.logger.WithError(err).Warn("Failed to write metrics")
	}
}

// ExitCode 把 Run 的返回值映射为进程退出码
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FailedCommand 返回失败命令的（已打码）命令行，非命令失败时返回空
func FailedCommand(err error) string {
	if stepErr, ok := cmdexec.AsStepError(err); ok {
		return stepErr.Command
	}
	return ""
}
