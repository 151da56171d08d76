package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New создаёт логгер сервиса с префиксом [SERVICE]. Неизвестный уровень трактуется как info.
func New(service, level string) *log.Logger {
	return NewWithWriter(os.Stderr, service, level)
}

func NewWithWriter(w io.Writer, service, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
		Prefix:          "[" + strings.ToUpper(service) + "]",
	})
}

// Discard — логгер для тестов.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
