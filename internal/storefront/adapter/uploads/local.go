package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"food-ordering/internal/storefront/app/core"
)

var ErrNotImage = fmt.Errorf("%w: only image uploads are accepted", core.ErrInvalidInput)

// LocalStore writes uploads below dir. They are served back under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewLocalStore(dir, urlPrefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix, maxBytes: maxBytes}, nil
}

func (ls *LocalStore) Dir() string {
	return ls.dir
}

func (ls *LocalStore) Save(_ context.Context, name, contentType string, size int64, body io.Reader) (string, error) {
	if err := checkUpload(name, contentType, size, ls.maxBytes); err != nil {
		return "", err
	}

	dst := filepath.Join(ls.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, io.LimitReader(body, ls.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > ls.maxBytes {
		err = fmt.Errorf("%w: image larger than %d bytes", core.ErrInvalidInput, ls.maxBytes)
	}
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	return ls.urlPrefix + path.Clean(name), nil
}

func checkUpload(name, contentType string, size, maxBytes int64) error {
	if name == "" || strings.Contains(name, "..") || path.IsAbs(name) {
		return errors.New("invalid upload name")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotImage
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: image larger than %d bytes", core.ErrInvalidInput, maxBytes)
	}
	return nil
}
