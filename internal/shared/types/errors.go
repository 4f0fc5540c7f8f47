package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSubjectSource = errors.New("no subject source configured. Provide --dsn or --input")
)

// ConfigurationError indica um valor de configuração fora do conjunto aceito.
// A mensagem nomeia o valor ofensivo e enumera as opções válidas.
type ConfigurationError struct {
	Field string
	Value string
	Valid []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: valid options are %s",
		e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// ValidationError indica pré-condições de entrada não satisfeitas antes do cálculo.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}
