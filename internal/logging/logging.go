package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Production gets JSON lines, everything else
// gets the text formatter with full timestamps.
func New(appEnv, level string) *logrus.Logger {
	return NewWithOutput(os.Stdout, appEnv, level)
}

func NewWithOutput(out io.Writer, appEnv, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if appEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
