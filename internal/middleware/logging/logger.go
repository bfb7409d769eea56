package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

type Logger struct {
	config *Config
	base   *logrus.Logger
	file   *os.File
	prefix string
	stop   chan struct{}
	once   *sync.Once
}

func NewLogger(cfg *Config, prefix string) *Logger {
	l := &Logger{
		config: cfg,
		prefix: prefix,
		stop:   make(chan struct{}),
		once:   &sync.Once{},
	}

	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel // INFO по умолчанию
	}
	base.SetLevel(level)

	var output io.Writer = os.Stdout
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err == nil {
			logFile := filepath.Join(cfg.LogsDir, time.Now().Format("2006-01-02")+".log")
			if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				l.file = file
				output = io.MultiWriter(os.Stdout, file)
			}
		}
	}
	base.SetOutput(output)
	l.base = base

	if cfg.Enabled && cfg.LogsDir != "" && cfg.SavingDays > 0 {
		go l.cleanOldLogs()
	}

	return l
}

func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := l.prefix
	if newPrefix != "" {
		newPrefix += " "
	}
	newPrefix += "[" + prefix + "]"

	return &Logger{
		config: l.config,
		base:   l.base,
		file:   l.file,
		prefix: newPrefix,
		stop:   l.stop,
		once:   l.once,
	}
}

// Logrus возвращает базовый логгер, например для передачи в fanuc.Client.
func (l *Logger) Logrus() *logrus.Logger {
	return l.base
}

func (l *Logger) cleanOldLogs() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	l.removeExpired(time.Now())
	for {
		select {
		case now := <-ticker.C:
			l.removeExpired(now)
		case <-l.stop:
			return
		}
	}
}

func (l *Logger) removeExpired(now time.Time) {
	files, err := os.ReadDir(l.config.LogsDir)
	if err != nil {
		l.Error("Failed to read logs directory", "error", err)
		return
	}

	cutoff := now.AddDate(0, 0, -int(l.config.SavingDays))
	for _, file := range files {
		if info, err := file.Info(); err == nil && !file.IsDir() && info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(l.config.LogsDir, file.Name())); err != nil {
				l.Error("Failed to delete old log file", "file", file.Name(), "error", err)
			}
		}
	}
}

func (l *Logger) entry(fields []interface{}) *logrus.Entry {
	data := make(logrus.Fields, len(fields)/2+1)
	if l.prefix != "" {
		data["component"] = l.prefix
	}
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		var val interface{} = "?"
		if i+1 < len(fields) {
			val = fields[i+1]
		}
		data[key] = val
	}
	return l.base.WithFields(data)
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.entry(fields).Debug(msg) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.entry(fields).Info(msg) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.entry(fields).Warn(msg) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.entry(fields).Error(msg) }

func (l *Logger) Close() error {
	l.once.Do(func() { close(l.stop) })
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
