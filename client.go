package fanuc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/iwtcode/focasBridge/focas"
	"github.com/iwtcode/focasBridge/models"
	"github.com/sirupsen/logrus"
)

// Уровень журнала cnc_startupprocess: только ошибки.
const startupLogLevel = 0

type startupState struct {
	once sync.Once
	err  error
}

// startups хранит результат cnc_startupprocess для каждой библиотеки:
// процесс FOCAS2 инициализируется один раз.
var startups sync.Map

// Observer получает результат каждого вызова библиотеки.
type Observer interface {
	ObserveCall(op string, rc int16, elapsed time.Duration)
}

// Client является основной точкой входа для взаимодействия с библиотекой.
type Client struct {
	adapter   *focas.FocasAdapter
	library   focas.Library
	loadCheck func() bool
	config    *Config
	logger    *logrus.Logger
	observer  Observer
}

// Option настраивает Client.
type Option func(*Client)

// WithLibrary подменяет библиотеку FOCAS (по умолчанию focas.Default()).
func WithLibrary(lib focas.Library) Option {
	return func(c *Client) { c.library = lib }
}

// WithLogger задает логгер вместо созданного по cfg.LogLevel.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithObserver подключает сбор метрик по вызовам.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLoadCheck подменяет проверку загружаемости библиотеки.
func WithLoadCheck(check func() bool) Option {
	return func(c *Client) { c.loadCheck = check }
}

// New создает и возвращает новый экземпляр клиента.
// Ни FOCAS, ни соединение со станком здесь не инициализируются:
// cnc_startupprocess выполняется перед первым вызовом к станку.
func New(cfg *Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = Load()
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.library == nil {
		c.library = focas.Default()
	}
	if c.logger == nil {
		c.logger = NewLogger(cfg.LogLevel)
	}

	c.adapter = focas.NewFocasAdapter(c.library,
		focas.WithTimeout(cfg.TimeoutSec),
		focas.WithLoadCheck(c.loadCheck),
		focas.WithReady(c.startup),
	)

	return c
}

// startup инициализирует процесс FOCAS2 один раз на библиотеку.
// Ошибка запоминается и возвращается всем последующим вызовам к станку.
func (c *Client) startup() error {
	state, _ := startups.LoadOrStore(c.library, &startupState{})
	st := state.(*startupState)
	st.once.Do(func() {
		st.err = c.adapter.Startup(startupLogLevel, c.config.LogPath)
		if st.err != nil {
			c.logger.WithError(st.err).WithField("log_path", c.config.LogPath).Error("FOCAS startup failed")
		}
	})
	return st.err
}

// NewLogger создает логгер logrus с уровнем level ("off" и "none" отключают вывод).
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()

	if level == "off" || level == "none" {
		logger.SetOutput(io.Discard)
	} else {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logger.SetLevel(lvl)
		logger.SetOutput(os.Stdout)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

// GetConfig возвращает конфигурацию клиента.
func (c *Client) GetConfig() *Config {
	return c.config
}

// Connect подключается к станку ip:port и возвращает хендл в ответе.
func (c *Client) Connect(ip string, port int) (*models.ConnectResult, error) {
	start := time.Now()
	res, err := c.adapter.Connect(ip, port)
	if err != nil {
		return nil, c.invalid("connect", err)
	}

	entry := c.finish("connect", res.Error, start).WithField("endpoint", fmt.Sprintf("%s:%d", ip, port))
	if res.Handle != nil {
		entry = entry.WithField("handle", *res.Handle)
	}
	c.report(entry, res.Success, "connect")
	return res, nil
}

// Disconnect освобождает хендл подключения.
func (c *Client) Disconnect(handle int) (*models.Result, error) {
	start := time.Now()
	res, err := c.adapter.Disconnect(handle)
	if err != nil {
		return nil, c.invalid("disconnect", err)
	}

	c.report(c.finish("disconnect", res.Error, start).WithField("handle", handle), res.Success, "disconnect")
	return res, nil
}

// ReadDynamic возвращает номер программы, скорости и позиции осей.
func (c *Client) ReadDynamic(handle int) (*models.DynamicResult, error) {
	start := time.Now()
	res, err := c.adapter.ReadDynamic(handle)
	if err != nil {
		return nil, c.invalid("read_dynamic", err)
	}

	c.report(c.finish("read_dynamic", res.Error, start).WithField("handle", handle), res.Success, "read_dynamic")
	return res, nil
}

// ReadStatus возвращает статус станка.
func (c *Client) ReadStatus(handle int) (*models.StatusResult, error) {
	start := time.Now()
	res, err := c.adapter.ReadStatus(handle)
	if err != nil {
		return nil, c.invalid("read_status", err)
	}

	c.report(c.finish("read_status", res.Error, start).WithField("handle", handle), res.Success, "read_status")
	return res, nil
}

// ReadAlarms возвращает сводку по активным авариям.
func (c *Client) ReadAlarms(handle int) (*models.AlarmsResult, error) {
	start := time.Now()
	res, err := c.adapter.ReadAlarms(handle)
	if err != nil {
		return nil, c.invalid("read_alarms", err)
	}

	c.report(c.finish("read_alarms", res.Error, start).WithField("handle", handle), res.Success, "read_alarms")
	return res, nil
}

// IsAvailable сообщает, загружается ли библиотека FOCAS на этом хосте.
func (c *Client) IsAvailable() bool {
	available := c.adapter.IsAvailable()
	c.logger.WithFields(logrus.Fields{
		"op":        "is_available",
		"library":   focas.LibraryName,
		"available": available,
	}).Debug("FOCAS library load check")
	return available
}

func (c *Client) finish(op string, rc int16, start time.Time) *logrus.Entry {
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveCall(op, rc, elapsed)
	}
	return c.logger.WithFields(logrus.Fields{
		"op":      op,
		"rc":      rc,
		"rc_name": focas.ReturnCode(rc).String(),
		"elapsed": elapsed,
	})
}

func (c *Client) report(entry *logrus.Entry, success bool, op string) {
	if success {
		entry.Debug("FOCAS call completed")
		return
	}
	entry.Warnf("FOCAS call %s returned an error code", op)
}

func (c *Client) invalid(op string, err error) error {
	switch {
	case errors.Is(err, focas.ErrInvalidArgument):
		c.logger.WithField("op", op).WithError(err).Warn("Rejected FOCAS call")
	case errors.Is(err, focas.ErrStartup):
		c.logger.WithField("op", op).WithError(err).Debug("FOCAS call skipped, library not started")
	}
	return err
}
