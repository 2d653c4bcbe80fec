package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CompletionMarker 下载完成后写入的标记文件名
//
// 只作记录用途：存在性判定不读取它，没有标记的旧目录依然被视为完整。
const CompletionMarker = ".vitox-fetch.json"

// Completion 下载完成记录
type Completion struct {
	Identifier string    `json:"identifier"`
	Role       Role      `json:"role"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// WriteCompletion 原子写入完成记录（先写临时文件再 rename）
func WriteCompletion(dir string, c Completion) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}

	tmp, err := os.CreateTemp(dir, CompletionMarker+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp marker: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // rename 成功后为空操作

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp marker: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp marker: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, CompletionMarker)); err != nil {
		return fmt.Errorf("rename marker: %w", err)
	}
	return nil
}

// ReadCompletion 读取完成记录，不存在时返回 (nil, nil)
func ReadCompletion(dir string) (*Completion, error) {
	data, err := os.ReadFile(filepath.Join(dir, CompletionMarker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var c Completion
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", CompletionMarker, err)
	}
	return &c, nil
}
