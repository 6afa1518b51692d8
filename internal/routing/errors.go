package routing

import "errors"

// Ошибки сервиса.
var (
	// ErrValidation — входные данные не прошли проверку.
	ErrValidation = errors.New("validation failed")
)
