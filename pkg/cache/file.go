package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// entryHeaderSize is the fixed prefix of every cache file: the expiry as
// unix nanoseconds in big-endian, zero meaning the entry never expires.
// The payload follows verbatim, so binary artifacts such as PNGs are not
// re-encoded on the way to disk.
const entryHeaderSize = 8

// FileCache stores entries as files under a directory, sharded by the
// first two characters of the key hash to keep directories small.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value. Expired or corrupt entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(raw) < entryHeaderSize {
		_ = os.Remove(path)
		return nil, false, nil
	}
	expiry := int64(binary.BigEndian.Uint64(raw[:entryHeaderSize]))
	if expiry != 0 && time.Now().UnixNano() > expiry {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return raw[entryHeaderSize:], true, nil
}

// Set stores a value. The entry is written to a temporary file and
// renamed into place so concurrent readers never observe a partial write.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiry int64
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixNano()
	}

	buf := make([]byte, entryHeaderSize+len(data))
	binary.BigEndian.PutUint64(buf[:entryHeaderSize], uint64(expiry))
	copy(buf[entryHeaderSize:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value. Missing keys are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; every operation opens and closes its own files.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".bin")
}

var _ Cache = (*FileCache)(nil)
