package api

import (
	"errors"
	"fmt"
)

// ErrNotFound возвращается при ответе 404: запрошенной сущности не существует.
// Отличается от прочих ошибок сервера, потому что UI показывает для него
// отдельное сообщение "не найдено", а не общий сбой.
var ErrNotFound = errors.New("not found")

// ServerError представляет отказ сервера (не-2xx статус, кроме 404).
// Message берется из тела ответа, если сервер его прислал.
type ServerError struct {
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsServerRejected сообщает, отверг ли запрос сам сервер (в отличие от
// транспортной ошибки, когда запрос вообще не дошел или не завершился).
func IsServerRejected(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
