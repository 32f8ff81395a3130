package entity

import "fmt"

// InspectionResult хранит итог анализа изображения, как его вернул сервер.
type InspectionResult struct {
	Approved      bool     `json:"approved"`       // вердикт сервера
	Defects       []Defect `json:"defects"`        // список найденных дефектов
	AnalyzedImage string   `json:"analyzed_image"` // ссылка на проанализированное фото
	DefectImage   string   `json:"defect_image"`   // ссылка на фото с разметкой дефектов
}

// DefectCount возвращает количество дефектов.
func (r *InspectionResult) DefectCount() int {
	return len(r.Defects)
}

// Verdict возвращает текст баннера с итогом проверки.
func (r *InspectionResult) Verdict() string {
	if r.Approved {
		return "APPROVED — no defects"
	}
	return fmt.Sprintf("REJECTED — %d defect(s) detected", r.DefectCount())
}

// ImagePreview картинка результата, которая уже загружена и декодирована.
type ImagePreview struct {
	Ref    string // исходная ссылка из ответа сервера
	Data   []byte
	Width  int
	Height int
}
