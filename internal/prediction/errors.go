package prediction

import (
	"fmt"
)

// MissingFieldError reports the first required field absent from a payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Campo obrigatório '%s' não encontrado", e.Field)
}

// InvalidPayloadError reports a request body that is not a JSON object.
type InvalidPayloadError struct {
	Err error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("Corpo da requisição inválido: %v", e.Err)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}

// ModelInvocationError wraps any failure raised while invoking a model,
// including values the model cannot consume.
// Its message is the underlying error text, unmodified.
type ModelInvocationError struct {
	Model string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return e.Err.Error()
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// UnknownClassError is returned when a classifier yields an index with no label.
type UnknownClassError struct {
	Class int
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("classe predita desconhecida: %d", e.Class)
}

// ErrorResponse is the body of every failed prediction request.
type ErrorResponse struct {
	Erro string `json:"erro"`
}
