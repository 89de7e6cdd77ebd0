package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init initializes the structured logger.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON format for production, text for development.
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter switches to a human-readable log format (development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
