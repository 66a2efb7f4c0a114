package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	Dir       string
	PublicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, data []byte) (string, error) {
	_, ext, err := Sniff(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(ext)
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(s.PublicURL, name), nil
}
