package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures logrus for the whole process: JSON output on
// stdout, level taken from LOG_LEVEL (default info).
func InitLogger() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level := logrus.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			logrus.Warnf("invalid LOG_LEVEL %q, using info", raw)
		} else {
			level = parsed
		}
	}
	logrus.SetLevel(level)

	logrus.Info("Logger initialized")
}
