package entity

import "strings"

// Defect текстовое описание дефекта, найденного сервером
type Defect string

// Label возвращает описание без лишних пробелов.
func (d Defect) Label() string {
	return strings.TrimSpace(string(d))
}

// DefectLabels превращает список дефектов в строки для отображения.
func DefectLabels(defects []Defect) []string {
	labels := make([]string, 0, len(defects))
	for _, d := range defects {
		labels = append(labels, d.Label())
	}
	return labels
}
