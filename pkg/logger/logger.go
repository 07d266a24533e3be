package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logg = New(os.Stdout, "info")

// New builds a JSON logrus logger writing to out at the given level.
// Unknown levels fall back to info.
func New(out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(out)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Get returns the process-wide logger.
func Get() *logrus.Logger {
	return logg
}

// SetLevel changes the process-wide log level.
func SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logg.SetLevel(lvl)
	}
}

// LogError writes err with the module/function context it occurred in.
func LogError(l *logrus.Logger, module, funcName, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   module,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	l.WithFields(fields).Error(err.Error())
}
