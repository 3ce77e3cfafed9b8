package main

import (
	"fmt"
	"io"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golift.io/rotatorr"
	"golift.io/rotatorr/timerotator"
)

const (
	megabyte    = 1024 * 1024
	logsDirMode = 0o755
)

// newLogger returns logger that writes to stdout and, if LogFile is set, to a
// rotated log file. The returned closer closes the log file.
func newLogger(cfg *Config) (*zap.Logger, io.Closer, error) {
	level := zapcore.InfoLevel
	encoderConfig := zap.NewProductionEncoderConfig()

	if cfg.Debug {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		output io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)

	if cfg.LogFile != "" {
		logFile, err := homedir.Expand(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}

		rotate := rotatorr.NewMust(&rotatorr.Config{
			Filepath: logFile,
			FileSize: int64(cfg.LogFileMb) * megabyte,
			Rotatorr: &timerotator.Layout{FileCount: cfg.LogFiles},
			DirMode:  logsDirMode,
		})

		output = io.MultiWriter(rotate, os.Stdout)
		closer = rotate
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(output),
		level,
	)

	return zap.New(core, zap.AddCaller()), closer, nil
}
