package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	msgInternalError   = "An internal error occurred. Please try again later."
	msgTooManyRequests = "Too many requests. Please try again later."
	msgTimeout         = "The request timed out. Please try again."
)

// MaxBodyBytes ограничение размера тела запроса
const MaxBodyBytes = 1 << 20

// ErrMalformedBody тело запроса не является корректным JSON
var ErrMalformedBody = errors.New("malformed JSON body")

// SuccessResponse конверт успешного ответа
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse конверт ответа с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RespondJSON отправляет data в конверте {success: true, data}
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// RespondError отправляет {success: false, error}
func RespondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondInternalError детали ошибки клиенту не отдаются
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
}

func RespondServiceUnavailable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusServiceUnavailable, message)
}

// TimeoutBody тело ответа при превышении таймаута запроса
func TimeoutBody() string {
	body, _ := json.Marshal(ErrorResponse{Success: false, Error: msgTimeout})
	return string(body)
}

// DecodeJSON читает тело запроса в dst
// Неизвестные поля игнорируются, пустое тело и данные после JSON значения считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrMalformedBody)
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedBody)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
