package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New cria o logger estruturado padrão do processo.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewWithWriter cria um logger escrevendo no writer informado (testes).
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
