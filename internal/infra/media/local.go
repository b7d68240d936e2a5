// Package media は商品画像・店舗ロゴの保存を扱う。
package media

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrUnsupportedType は画像以外の拡張子
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge は上限を超えたファイル
var ErrTooLarge = errors.New("image too large")

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// LocalStore はディスクに保存し、静的配信のURLを返す
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStore(dir, baseURL string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create media dir")
	}
	return &LocalStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Upload は folder 配下に保存して公開URLを返す。ファイル名はランダムに付け直す。
func (s *LocalStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder = strings.Trim(filepath.Base("/"+folder), "/.")
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create folder")
	}

	name := uuid.NewString() + ext
	full := filepath.Join(dir, name)

	f, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(full)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", errors.Wrap(err, "write file")
	}

	return s.baseURL + "/" + path.Join(folder, name), nil
}
