// Package logevents is the two-destination structured event sink
// described in spec.md §6: stderr for ordinary progress/info events, and
// a second, error-level-and-above write to detector.log. There is no
// teacher package covering this (the teacher's Reporter is purely
// in-memory); the two-sink shape and level cutoffs are grounded in
// original_source's main.py logger setup (a FileHandler at CRITICAL, a
// StreamHandler at ERROR, both fed from one root logger).
package logevents

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// criticalHook duplicates any entry at logrus.ErrorLevel or above into a
// second writer, mirroring the original's FileHandler(level=CRITICAL)
// attached alongside the root logger's default stderr StreamHandler.
type criticalHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *criticalHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *criticalHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// New builds a logger that writes every event to stderr and additionally
// duplicates error-and-above events (this analyzer's "critical" findings
// and anomalies) to logPath. Go's logrus has no CRITICAL level between
// Error and Fatal/Panic (the latter two would abort the process, wrong
// for an analyzer that must keep running per spec.md §7); CRITICAL is
// carried instead as a structured field set by Critical.
func New(logPath string) (*logrus.Logger, func() error, error) {
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.AddHook(&criticalHook{writer: f, formatter: logger.Formatter})

	return logger, f.Close, nil
}

// Critical logs a use-after-free finding or a serious analysis anomaly:
// an error-level entry carrying critical=true, so it reaches detector.log
// via the hook above (spec.md §6's "critical" severity).
func Critical(logger *logrus.Logger, format string, args ...interface{}) {
	logger.WithField("critical", true).Errorf(format, args...)
}
