package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log level and the writers to fan out to. Supported
// writers are "console" and "file".
type Config struct {
	Level   string   `yaml:"level"`
	Writers []string `yaml:"writers"`
	File    struct {
		Path       string `yaml:"path"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"file"`
}

// New builds the application logger. Unknown levels fall back to info;
// with no writers configured, console is used.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writers := cfg.Writers
	if len(writers) == 0 {
		writers = []string{"console"}
	}

	var outs []io.Writer
	for _, w := range writers {
		switch w {
		case "console":
			outs = append(outs, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		case "file":
			path := cfg.File.Path
			if path == "" {
				path = "relay.log"
			}
			outs = append(outs, &lumberjack.Logger{
				Filename:   path,
				MaxSize:    orDefault(cfg.File.MaxSizeMB, 50),
				MaxBackups: orDefault(cfg.File.MaxBackups, 5),
				MaxAge:     orDefault(cfg.File.MaxAgeDays, 14),
				Compress:   true,
			})
		}
	}
	if len(outs) == 0 {
		outs = append(outs, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return zerolog.New(zerolog.MultiLevelWriter(outs...)).Level(level).With().Timestamp().Logger()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
