// Package auth 定义模型仓库认证器接口
//
// 提供统一的认证抽象：有凭据时登录，无凭据时匿名继续。
// 匿名模式下私有或限流仓库的失败会在下载阶段暴露，而不是在这里。
package auth

import "context"

// AuthState 认证状态
type AuthState string

const (
	AuthStateAnonymous     AuthState = "anonymous"     // 未提供凭据，匿名访问
	AuthStateAuthenticated AuthState = "authenticated" // 登录成功
	AuthStateFailed        AuthState = "failed"        // 登录失败
)

// Authenticator 认证器接口
//
// 每种模型仓库实现自己的认证器
type Authenticator interface {
	// Host 返回认证的目标仓库名称
	Host() string

	// Authenticate 使用 token 登录；token 为空时不执行任何命令
	Authenticate(ctx context.Context, token string) (AuthState, error)
}
