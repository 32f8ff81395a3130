package entity

import (
	"errors"
	"strings"
)

// MaxImageSize максимальный размер загружаемой картинки (10 МБ).
const MaxImageSize = 10 * 1024 * 1024

var (
	ErrNotAnImage    = errors.New("please select a valid image (JPEG, PNG or GIF)")
	ErrImageTooLarge = errors.New("the image is too large, the maximum allowed size is 10MB")
)

// ImageFile файл, выбранный пользователем для отправки.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// NewImageFile создаёт файл из байтов, размер берётся из данных.
func NewImageFile(name, contentType string, data []byte) ImageFile {
	return ImageFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
}

// Validate проверяет тип и размер файла до любых сетевых вызовов.
func (f ImageFile) Validate() error {
	return ValidateImage(f.ContentType, f.Size)
}

// ValidateImage проверяет только метаданные, когда самих байтов ещё нет.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotAnImage
	}
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}
