package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the shared service logger. Level comes from
// LOG_LEVEL, defaulting to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
