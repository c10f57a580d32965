// Package upload stores order photos on the local filesystem.
package upload

import (
	"errors"
	"fmt"
	"goods-tracker/pkg/clock"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrTooManyFiles is returned when a request carries more photos than allowed
var ErrTooManyFiles = errors.New("too many photo files")

// PhotoStore writes uploaded photos into Dir and returns their public paths under URLPrefix
type PhotoStore struct {
	Dir       string
	URLPrefix string
	MaxFiles  int
	Clock     clock.Clock
}

// NewPhotoStore returns a PhotoStore using the real clock
func NewPhotoStore(dir, urlPrefix string, maxFiles int) *PhotoStore {
	return &PhotoStore{Dir: dir, URLPrefix: urlPrefix, MaxFiles: maxFiles, Clock: clock.RealClock{}}
}

// Init creates the upload directory
func (s *PhotoStore) Init() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Save stores every file and returns the public paths in the same order.
// Files are named <unix millis>-<original name>.
func (s *PhotoStore) Save(files []*multipart.FileHeader) ([]string, error) {
	if s.MaxFiles > 0 && len(files) > s.MaxFiles {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFiles, len(files), s.MaxFiles)
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		name := s.storedName(fh.Filename)
		if err := s.write(fh, name); err != nil {
			return nil, err
		}
		paths = append(paths, path.Join(s.URLPrefix, name))
	}
	return paths, nil
}

func (s *PhotoStore) storedName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = "photo"
	}
	return strconv.FormatInt(s.Clock.Now().UnixMilli(), 10) + "-" + base
}

func (s *PhotoStore) write(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return dst.Close()
}
