package restapi

import "fmt"

// APIError ответ сервера с кодом вне диапазона 2xx.
type APIError struct {
	Op         string // операция клиента, например "upload image"
	StatusCode int    // HTTP-код ответа
	Status     string // текст статуса ("Not Found")
	Message    string // сообщение для пользователя
}

func (e *APIError) Error() string {
	return e.Message
}

// fetchError ошибка чтения: сообщение всегда строится из текста статуса.
func fetchError(op, what string, code int, status string) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: code,
		Status:     status,
		Message:    fmt.Sprintf("failed to fetch %s: %s", what, status),
	}
}

// mutationError ошибка изменения: сначала поле error от сервера, потом текст статуса.
func mutationError(op, serverMessage string, code int, status string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("failed to %s: %s", op, status)
	}
	return &APIError{
		Op:         op,
		StatusCode: code,
		Status:     status,
		Message:    msg,
	}
}
