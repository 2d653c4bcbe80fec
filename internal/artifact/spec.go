// Package artifact 模型产物的本地缓存
//
// 一个产物是一个目录，包含模型配置和权重文件，远端由仓库标识（owner/name）定位。
// 是否需要下载只由"存在性判定"决定：
//
//	config.json 存在 && (model.safetensors 存在 || pytorch_model.bin 存在)
//
// 判定只看文件是否存在，不校验内容：被截断但非空的权重文件与完整文件无法区分。
package artifact

import (
	"os"
	"path/filepath"
)

// 存在性判定使用的标记文件
const (
	ConfigMarker      = "config.json"
	SafetensorsMarker = "model.safetensors"
	PytorchMarker     = "pytorch_model.bin"
)

// Role 产物在流水线中的角色
type Role string

const (
	RoleRewriter Role = "rewriter"
	RoleSpan     Role = "span"
	RoleToxicity Role = "toxicity"
)

// Roles 固定的下载顺序
var Roles = []Role{RoleRewriter, RoleSpan, RoleToxicity}

// Spec 一个需要就绪的产物（创建后不可变）
type Spec struct {
	Role       Role
	Identifier string // 远端仓库标识
	LocalPath  string // 本地目录
}

// NewSpec 创建产物规格，本地目录为 <baseDir>/<role>
func NewSpec(role Role, identifier, baseDir string) Spec {
	return Spec{
		Role:       role,
		Identifier: identifier,
		LocalPath:  filepath.Join(baseDir, string(role)),
	}
}

// Evidence 存在性证据（每次运行重新计算，不持久化）
type Evidence struct {
	Config      bool
	Safetensors bool
	Pytorch     bool
}

// Complete 判定产物是否已完整下载
func (e Evidence) Complete() bool {
	return e.Config && (e.Safetensors || e.Pytorch)
}

// Missing 返回缺失的标记（用于日志）
func (e Evidence) Missing() []string {
	var missing []string
	if !e.Config {
		missing = append(missing, ConfigMarker)
	}
	if !e.Safetensors && !e.Pytorch {
		missing = append(missing, SafetensorsMarker+"|"+PytorchMarker)
	}
	return missing
}

// Inspect 计算目录的存在性证据
func Inspect(dir string) Evidence {
	return Evidence{
		Config:      fileExists(filepath.Join(dir, ConfigMarker)),
		Safetensors: fileExists(filepath.Join(dir, SafetensorsMarker)),
		Pytorch:     fileExists(filepath.Join(dir, PytorchMarker)),
	}
}

// IsPresent 目录是否满足存在性判定
func IsPresent(dir string) bool {
	return Inspect(dir).Complete()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
