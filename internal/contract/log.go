package contract

import (
	"errors"
	"os"

	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
)

// logger writes to stderr so that stdout only carries rendered output.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// SetLogLevel changes the level of the shared logger.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	logger.WithError(err).Warn(msg)
}

// LogInfo logs an informational message with structured fields.
func LogInfo(msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}

// LogSkipped warns once per record that was left out of a batch.
func LogSkipped(source string, skipped []error) {
	for _, err := range skipped {
		fields := logrus.Fields{"source": source}
		var recordErr *schema.RecordError
		if errors.As(err, &recordErr) {
			fields["issue"] = recordErr.Number
			fields["reason"] = recordErr.Reason
		}
		logger.WithFields(fields).WithError(err).Warn("Skipped record")
	}
}
