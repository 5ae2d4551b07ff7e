package log

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/rtpfixture/internal/config"
)

// MultiWriter fans a log line out to every appender, reporting the last error.
type MultiWriter struct {
	writers []io.Writer
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		_, e := w.Write(p)
		if e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddRotatingFile appends a size-rotated log file.
func (m *MultiWriter) AddRotatingFile(c config.FileOutputConfig) *MultiWriter {
	return m.Add(&lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSizeMB,  // megabytes
		MaxBackups: c.MaxBackups, // number of backups
		MaxAge:     c.MaxAgeDays, // days
		Compress:   c.Compress,
	})
}

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{writers: make([]io.Writer, 0)}
}
