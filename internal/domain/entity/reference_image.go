package entity

import (
	"errors"
	"time"
)

// ErrMultiplePrimary возвращается, если у продукта больше одной главной картинки.
var ErrMultiplePrimary = errors.New("more than one primary reference image")

// ReferenceImage эталонное изображение продукта
type ReferenceImage struct {
	ID        int64      `json:"id"`
	Path      string     `json:"path"`
	IsPrimary bool       `json:"is_primary"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// PrimaryImage возвращает главную эталонную картинку, если она есть.
func PrimaryImage(images []ReferenceImage) (ReferenceImage, bool) {
	for _, img := range images {
		if img.IsPrimary {
			return img, true
		}
	}
	return ReferenceImage{}, false
}

// CheckSinglePrimary проверяет, что главной отмечено не больше одной картинки.
// Само правило обеспечивает сервер, клиент только сверяет то, что получил.
func CheckSinglePrimary(images []ReferenceImage) error {
	count := 0
	for _, img := range images {
		if img.IsPrimary {
			count++
		}
	}
	if count > 1 {
		return ErrMultiplePrimary
	}
	return nil
}
