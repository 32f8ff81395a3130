package entity

import (
	"fmt"
	"time"
)

// Product представляет изделие (плату со светодиодами), которое проверяется.
// Клиент интерпретирует только ID, остальные поля нужны для отображения.
type Product struct {
	ID           int64              `json:"id"`
	Code         string             `json:"code,omitempty"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Active       bool               `json:"active"`
	PrimaryImage string             `json:"primary_image,omitempty"` // путь главной эталонной картинки (только в списке)
	CreatedAt    *time.Time         `json:"created_at,omitempty"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
	Images       []ReferenceImage   `json:"images,omitempty"`      // только в карточке продукта
	Inspections  []InspectionRecord `json:"inspections,omitempty"` // только в карточке продукта
}

// Title возвращает короткую подпись продукта для списков.
func (p Product) Title() string {
	if p.Code == "" {
		return fmt.Sprintf("#%d %s", p.ID, p.Name)
	}
	return fmt.Sprintf("#%d %s (%s)", p.ID, p.Name, p.Code)
}

// InspectionRecord строка истории проверок продукта.
type InspectionRecord struct {
	ID              int64      `json:"id"`
	ImagePath       string     `json:"image_path"`
	ResultImagePath string     `json:"result_image_path"`
	Approved        bool       `json:"approved"`
	DefectsCount    int        `json:"defects_count"`
	DefectsDetails  string     `json:"defects_details,omitempty"` // JSON-массив строк, как его хранит сервер
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// InspectPath возвращает адрес страницы проверки для выбранного продукта.
func InspectPath(productID int64) string {
	return fmt.Sprintf("/inspection/inspect?product_id=%d", productID)
}
