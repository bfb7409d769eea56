package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iwtcode/focasBridge/focas"
)

const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"
	InvalidArguments    = "wrong arguments"
	LibraryNotStarted   = "FOCAS library is not started"
)

// AppError представляет собой стандартизированную структуру ошибки для API.
type AppError struct {
	Code         int    `json:"code"`    // HTTP статус код
	Message      string `json:"message"` // Сообщение для клиента
	Err          error  `json:"-"`       // Внутренняя ошибка, не для клиента
	IsUserFacing bool   `json:"-"`       // Флаг, указывающий, можно ли показывать `Err`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

func (a *AppError) Unwrap() error {
	return a.Err
}

// NewAppError создает новый экземпляр AppError.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

// FromError сопоставляет ошибку операции с AppError.
// Неверные аргументы - 400, сбой инициализации FOCAS - 503, все остальное - 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, focas.ErrInvalidArgument) {
		return NewAppError(http.StatusBadRequest, InvalidArguments, err, true)
	}
	if errors.Is(err, focas.ErrStartup) {
		return NewAppError(http.StatusServiceUnavailable, LibraryNotStarted, err, true)
	}
	return NewAppError(http.StatusInternalServerError, InternalServerError, err, false)
}
