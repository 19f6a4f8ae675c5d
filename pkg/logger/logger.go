package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvesta/hostvuln/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the package-level logrus logger. The returned Closer
// releases the log file, if any.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	return configure(logrus.StandardLogger(), cfg)
}

func configure(logger *logrus.Logger, cfg config.LogConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.Warnf("Invalid log level '%s', using 'info' as default", cfg.Level)
	}
	logger.SetLevel(level)

	if err := setFormatter(logger, cfg); err != nil {
		return nil, err
	}

	return setOutput(logger, cfg)
}

func setFormatter(logger *logrus.Logger, cfg config.LogConfig) error {
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
			// no colors in a rotated file
			DisableColors: cfg.File != "",
		})
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return nil
}

func setOutput(logger *logrus.Logger, cfg config.LogConfig) (io.Closer, error) {
	if cfg.File == "" {
		logger.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotate := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if logger.GetLevel() >= logrus.DebugLevel {
		logger.SetOutput(io.MultiWriter(os.Stderr, rotate))
	} else {
		logger.SetOutput(rotate)
	}

	return rotate, nil
}
