package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedExt = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// ImageStore keeps villa images on local disk. One image per villa: saving
// under the same villa id replaces the previous file.
type ImageStore struct {
	Dir     string
	BaseURL string
}

func NewImageStore(dir, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *ImageStore) Save(fh *multipart.FileHeader, villaID uint) (url, localPath string, err error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", "", ErrUnsupportedImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	name := fmt.Sprintf("villa_%d%s", villaID, ext)
	localPath = filepath.Join(s.Dir, name)

	dst, err := os.Create(localPath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return "", "", err
	}

	return s.BaseURL + "/" + path.Join("uploads", name), localPath, nil
}

// Remove deletes a previously stored file. Missing files are not an error;
// delete stays idempotent.
func (s *ImageStore) Remove(localPath string) error {
	if localPath == "" {
		return nil
	}
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
