package observability

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Level accepts the usual logrus
// names ("debug", "info", ...); format is "json" or "text". Unknown values
// fall back to info/text.
func NewLogger(level, format string, output io.Writer) *logrus.Logger {
	log := logrus.New()

	if output == nil {
		output = os.Stdout
	}
	log.SetOutput(output)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
