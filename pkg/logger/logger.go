package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LogrusLogger é uma implementação de Logger sobre o logrus.
// Os pares chave/valor viram campos estruturados.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger cria uma nova instância de Logger com o nível e formato informados
func NewLogger(level, format string) Logger {
	return newLogrusLogger(os.Stdout, level, format)
}

func newLogrusLogger(out io.Writer, level, format string) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(out)

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// With retorna um logger com campos fixos adicionais
func (l *LogrusLogger) With(keysAndValues ...interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithFields(toFields(keysAndValues))}
}

// Info registra uma mensagem de informação
func (l *LogrusLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Info(msg)
}

// Error registra uma mensagem de erro
func (l *LogrusLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Error(msg)
}

// Debug registra uma mensagem de debug
func (l *LogrusLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

// Warn registra uma mensagem de aviso
func (l *LogrusLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Warn(msg)
}

// toFields converte a lista chave/valor em campos do logrus.
// Uma chave sem valor é registrada com valor nil.
func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}

// Nop é um Logger que descarta tudo, útil em testes
type Nop struct{}

func (Nop) Info(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
func (Nop) Debug(string, ...interface{}) {}
func (Nop) Warn(string, ...interface{})  {}
