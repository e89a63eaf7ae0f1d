// Package uploads persists uploaded images under the configured directory
// with generated filenames. The directory doubles as the public static root.
package uploads

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"nursery-backend/internal/apperr"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SaveImage writes the uploaded image into dir and returns the stored
// filename (not the full path).
func SaveImage(fileHeader *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", apperr.New(apperr.KindValidation, "only jpg, jpeg, png and webp images are accepted")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.KindBackendUnavailable, "the upload directory could not be created", err)
	}

	name := uuid.NewString() + ext

	src, err := fileHeader.Open()
	if err != nil {
		return "", apperr.New(apperr.KindValidation, "the uploaded file could not be opened")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", apperr.Wrap(apperr.KindBackendUnavailable, "the image could not be stored", err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", apperr.Wrap(apperr.KindBackendUnavailable, "the image could not be stored", err)
	}
	return name, nil
}

// Remove deletes a stored image, ignoring files already gone.
func Remove(dir, name string) {
	if name == "" {
		return
	}
	_ = os.Remove(filepath.Join(dir, filepath.Base(name)))
}
