package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"moodlequiz/internal/log"
)

type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data any, message string) {
	write(w, Response{
		Status:     http.StatusText(statusCode),
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func write(w http.ResponseWriter, res Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, data, message)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, nil, message)
}

// ErrorWithData reports a failure with a machine readable code and an optional payload.
func ErrorWithData(w http.ResponseWriter, statusCode int, code, message string, data any) {
	write(w, Response{
		Status:     http.StatusText(statusCode),
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Data:       data,
	})
}
