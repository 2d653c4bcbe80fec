package objstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
)

// Store 发布结果所需的对象存储能力（*Client 实现）
type Store interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Publisher 结果文件发布器
type Publisher struct {
	store  Store
	prefix string
}

// NewPublisher 创建发布器
func NewPublisher(store Store, prefix string) *Publisher {
	return &Publisher{store: store, prefix: prefix}
}

// ObjectKey 计算结果文件的对象键：<prefix>/<文件名>
func ObjectKey(prefix, localPath string) string {
	name := filepath.Base(localPath)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Publish 上传本地结果文件，返回对象键
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open result: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat result: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("result %s is a directory", localPath)
	}

	if err := p.store.EnsureBucket(ctx); err != nil {
		return "", err
	}

	key := ObjectKey(p.prefix, localPath)
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if err := p.store.Upload(ctx, key, f, info.Size(), contentType); err != nil {
		return "", err
	}
	return key, nil
}
