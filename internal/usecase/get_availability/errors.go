package get_availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// Детали по полям доступны через errors.As(err, &ValidationErrors{})
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase (недоступно хранилище и т.п.)
	ErrInternal = errors.New("usecase: internal error")
)

// ValidationError нарушение правила для одного поля запроса
type ValidationError struct {
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors все нарушения, найденные в запросе
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}
