package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mwantia/tagalong/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerService interface {
	Debug(msg string, args ...any)

	Info(msg string, args ...any)

	Warn(msg string, args ...any)

	Error(msg string, args ...any)

	Fatal(msg string, args ...any)

	Named(name string) LoggerService
}

type LoggerServiceImpl struct {
	cfg    config.LogConfig
	name   string
	level  LogLevel
	writer io.Writer
	exit   func(code int)
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLoggerService(name string, cfg config.LogConfig) LoggerService {
	impl := &LoggerServiceImpl{
		cfg:   cfg,
		name:  name,
		level: Parse(cfg.Level),
		exit:  os.Exit,
	}

	impl.setupWriter()
	return impl
}

// NewWriterLoggerService logs to w only, without color or file rotation.
func NewWriterLoggerService(name string, cfg config.LogConfig, w io.Writer) LoggerService {
	cfg.NoColor = true
	cfg.File = ""

	return &LoggerServiceImpl{
		cfg:    cfg,
		name:   name,
		level:  Parse(cfg.Level),
		writer: w,
		exit:   os.Exit,
	}
}

func (impl *LoggerServiceImpl) setupWriter() {
	var writers []io.Writer

	if !impl.cfg.NoTerminal {
		writers = append(writers, os.Stdout)
	}

	if impl.cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   impl.cfg.File,
			MaxSize:    impl.cfg.Rotation.MaxSize,
			MaxBackups: impl.cfg.Rotation.MaxBackups,
			MaxAge:     impl.cfg.Rotation.MaxAge,
			Compress:   impl.cfg.Rotation.Compress,
		})
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	impl.writer = io.MultiWriter(writers...)
}

func (impl *LoggerServiceImpl) format(level LogLevel, msg string) string {
	timestamp := time.Now().Format(impl.cfg.TimeFormat)

	if impl.cfg.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   impl.name,
			Message:   msg,
		}

		jsonBytes, _ := json.Marshal(entry)
		return string(jsonBytes)
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if impl.name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, impl.name)
	}

	if !impl.cfg.NoTerminal && !impl.cfg.NoColor {
		return fmt.Sprintf("%s%s %s\033[0m", Color(level), prefix, msg)
	}
	return fmt.Sprintf("%s %s", prefix, msg)
}

func (impl *LoggerServiceImpl) log(level LogLevel, msg string, args ...any) {
	if level < impl.level {
		return
	}

	fmt.Fprintln(impl.writer, impl.format(level, fmt.Sprintf(msg, args...)))

	if level == Fatal {
		impl.exit(1)
	}
}

func (impl *LoggerServiceImpl) Debug(msg string, args ...any) {
	impl.log(Debug, msg, args...)
}

func (impl *LoggerServiceImpl) Info(msg string, args ...any) {
	impl.log(Info, msg, args...)
}

func (impl *LoggerServiceImpl) Warn(msg string, args ...any) {
	impl.log(Warn, msg, args...)
}

func (impl *LoggerServiceImpl) Error(msg string, args ...any) {
	impl.log(Error, msg, args...)
}

func (impl *LoggerServiceImpl) Fatal(msg string, args ...any) {
	impl.log(Fatal, msg, args...)
}

func (impl *LoggerServiceImpl) Named(name string) LoggerService {
	if impl.name != "" {
		name = fmt.Sprintf("%s/%s", impl.name, name)
	}

	return &LoggerServiceImpl{
		cfg:    impl.cfg,
		name:   name,
		level:  impl.level,
		writer: impl.writer, // Share the same writer
		exit:   impl.exit,
	}
}
