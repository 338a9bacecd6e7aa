package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirProvider serves objects from a local directory tree where each bucket
// is a subdirectory of root.
type DirProvider struct {
	root string
}

func NewDirProvider(root string) *DirProvider {
	return &DirProvider{root: root}
}

func (d *DirProvider) Fetch(ctx context.Context, bucket, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.resolve(bucket, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", bucket, name, err)
	}
	return data, nil
}

// resolve maps bucket/name under root, rejecting anything that escapes it.
func (d *DirProvider) resolve(bucket, name string) (string, error) {
	if name == "" {
		return "", errors.New("object name is required")
	}
	base, err := filepath.Abs(d.root)
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, bucket, filepath.FromSlash(name))
	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("object %q escapes %s", bucket+"/"+name, d.root)
	}
	return path, nil
}
