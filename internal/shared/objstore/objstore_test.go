package objstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitox-e2e/internal/config"
)

type memStore struct {
	ensureErr error
	objects   map[string][]byte
	types     map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) EnsureBucket(ctx context.Context) error { return m.ensureErr }

func (m *memStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(config.MinIOConfig{})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = NewClient(config.MinIOConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	c, err := NewClient(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMinIOBucket, c.Bucket())
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "smoke-tests/smoke_test_1.json", ObjectKey("smoke-tests", "results/smoke_test_1.json"))
	assert.Equal(t, "smoke_test_1.json", ObjectKey("", "/abs/smoke_test_1.json"))
	assert.Equal(t, "a/b/x.json", ObjectKey("a/b/", "x.json"))
}

func TestPublish(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "smoke_test_20260101_000000.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"ok":true}`), 0644))

	store := newMemStore()
	key, err := NewPublisher(store, "smoke-tests").Publish(context.Background(), local)
	require.NoError(t, err)

	assert.Equal(t, "smoke-tests/smoke_test_20260101_000000.json", key)
	assert.Equal(t, []byte(`{"ok":true}`), store.objects[key])
	assert.Contains(t, store.types[key], "json")
}

func TestPublish_MissingFile(t *testing.T) {
	store := newMemStore()
	_, err := NewPublisher(store, "").Publish(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestPublish_BucketError(t *testing.T) {
	local := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(local, []byte("{}"), 0644))

	store := newMemStore()
	store.ensureErr = errors.New("unreachable")
	_, err := NewPublisher(store, "").Publish(context.Background(), local)
	assert.Error(t, err)
}
