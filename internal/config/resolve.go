package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envSearchDirs .env 文件默认搜索目录
var envSearchDirs = []string{
	".",
	"..",
}

// configSearchDirs 返回配置文件搜索路径
//
// 优先级：
//  1. --config 命令行参数
//  2. CONFIG_DIR 环境变量
//  3. ./configs、../configs
func configSearchDirs(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return []string{dir}
	}
	return []string{"configs", "../configs"}
}

// findFile 在搜索路径中查找第一个存在的文件
func findFile(dirs []string, name string) string {
	for _, base := range dirs {
		p := filepath.Join(base, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// loadEnvFiles 加载 .env 和 .env.{env}
//
// godotenv.Load 不覆盖已有环境变量，优先级低于 shell 环境变量。
// 生产环境不搜索 .env 文件（凭据由部署环境注入）。
func loadEnvFiles(env Environment, explicitDir string) {
	if env == EnvProduction {
		return
	}

	dirs := envSearchDirs
	if explicitDir != "" {
		dirs = append([]string{explicitDir}, envSearchDirs...)
	}

	for _, name := range []string{fmt.Sprintf(".env.%s", env), ".env"} {
		for _, dir := range dirs {
			if err := godotenv.Load(filepath.Join(dir, name)); err == nil {
				break
			}
		}
	}
}
