package focas

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iwtcode/focasBridge/models"
)

// DefaultTimeoutSec - таймаут подключения cnc_allclibhndl3 в секундах.
const DefaultTimeoutSec = 10

// ErrInvalidArgument возвращается, если аргументы не прошли проверку
// и вызов в библиотеку не выполнялся.
var ErrInvalidArgument = errors.New("wrong arguments")

// ErrStartup возвращается, если процесс FOCAS2 не удалось инициализировать.
var ErrStartup = errors.New("FOCAS startup failed")

// FocasAdapter выполняет проверку аргументов, один вызов библиотеки
// и преобразование структуры результата в модель ответа.
type FocasAdapter struct {
	lib       Library
	timeout   int32
	loadCheck func() bool
	ready     func() error
}

// Option настраивает FocasAdapter.
type Option func(*FocasAdapter)

// WithTimeout задает таймаут подключения в секундах.
func WithTimeout(sec int32) Option {
	return func(a *FocasAdapter) {
		if sec > 0 {
			a.timeout = sec
		}
	}
}

// WithLoadCheck подменяет проверку загружаемости библиотеки.
func WithLoadCheck(check func() bool) Option {
	return func(a *FocasAdapter) {
		if check != nil {
			a.loadCheck = check
		}
	}
}

// WithReady задает проверку, выполняемую после проверки аргументов
// и перед каждым вызовом к станку. IsAvailable ее не вызывает.
func WithReady(ready func() error) Option {
	return func(a *FocasAdapter) {
		if ready != nil {
			a.ready = ready
		}
	}
}

// NewFocasAdapter создает адаптер поверх библиотеки lib.
func NewFocasAdapter(lib Library, opts ...Option) *FocasAdapter {
	a := &FocasAdapter{
		lib:       lib,
		timeout:   DefaultTimeoutSec,
		loadCheck: func() bool { return IsLibraryLoadable(LibraryName) },
		ready:     func() error { return nil },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Timeout возвращает таймаут подключения в секундах.
func (a *FocasAdapter) Timeout() int32 {
	return a.timeout
}

// Startup инициализирует процесс FOCAS2 (cnc_startupprocess).
func (a *FocasAdapter) Startup(mode uint16, logPath string) error {
	dir := filepath.Dir(logPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create log dir: %w", ErrStartup, err)
		}
	}

	rc := a.lib.Startup(mode, logPath)
	if rc != EW_OK {
		return fmt.Errorf("%w: cnc_startupprocess(%d, %q) rc=%d", ErrStartup, mode, logPath, int16(rc))
	}
	return nil
}

// Connect выделяет хендл для станка ip:port (cnc_allclibhndl3).
func (a *FocasAdapter) Connect(ip string, port int) (*models.ConnectResult, error) {
	if ip == "" {
		return nil, fmt.Errorf("%w: expected (ip, port), ip is empty", ErrInvalidArgument)
	}
	if port <= 0 || port > 0xFFFF {
		return nil, fmt.Errorf("%w: expected (ip, port), port %d out of range", ErrInvalidArgument, port)
	}
	if err := a.ready(); err != nil {
		return nil, err
	}

	h, rc := a.lib.AllocHandle(ip, uint16(port), a.timeout)

	res := &models.ConnectResult{Result: envelope(rc)}
	if rc == EW_OK {
		res.Handle = &h
	}
	return res, nil
}

// Disconnect освобождает хендл (cnc_freelibhndl).
func (a *FocasAdapter) Disconnect(handle int) (*models.Result, error) {
	h, err := a.handle(handle)
	if err != nil {
		return nil, err
	}

	res := envelope(a.lib.FreeHandle(h))
	return &res, nil
}

// ReadDynamic читает динамические данные по всем осям (cnc_rddynamic2).
func (a *FocasAdapter) ReadDynamic(handle int) (*models.DynamicResult, error) {
	h, err := a.handle(handle)
	if err != nil {
		return nil, err
	}

	raw, rc := a.lib.ReadDynamic(h)

	res := &models.DynamicResult{Result: envelope(rc)}
	if rc == EW_OK {
		res.Data = dynamicData(raw)
	}
	return res, nil
}

// ReadStatus читает статус станка (cnc_statinfo).
func (a *FocasAdapter) ReadStatus(handle int) (*models.StatusResult, error) {
	h, err := a.handle(handle)
	if err != nil {
		return nil, err
	}

	raw, rc := a.lib.ReadStatus(h)

	res := &models.StatusResult{Result: envelope(rc)}
	if rc == EW_OK {
		res.Data = &models.StatusData{
			Hdck:      raw.Hdck,
			TmMode:    raw.TmMode,
			Aut:       raw.Aut,
			Run:       raw.Run,
			Motion:    raw.Motion,
			Mstb:      raw.Mstb,
			Emergency: raw.Emergency,
			Alarm:     raw.Alarm,
			Edit:      raw.Edit,
		}
	}
	return res, nil
}

// ReadAlarms читает битовую маску активных аварий (cnc_alarm).
// Тексты сообщений не читаются.
func (a *FocasAdapter) ReadAlarms(handle int) (*models.AlarmsResult, error) {
	h, err := a.handle(handle)
	if err != nil {
		return nil, err
	}

	raw, rc := a.lib.ReadAlarm(h)

	res := &models.AlarmsResult{Result: envelope(rc)}
	if rc == EW_OK {
		res.Data = []models.AlarmData{{
			Count:  bits.OnesCount16(raw.Status),
			Status: raw.Status,
		}}
	}
	return res, nil
}

// IsAvailable сообщает, загружается ли библиотека FOCAS на этом хосте.
func (a *FocasAdapter) IsAvailable() bool {
	return a.loadCheck()
}

// handle проверяет хендл и готовность библиотеки.
func (a *FocasAdapter) handle(handle int) (uint16, error) {
	h, err := checkHandle(handle)
	if err != nil {
		return 0, err
	}
	if err := a.ready(); err != nil {
		return 0, err
	}
	return h, nil
}

func checkHandle(handle int) (uint16, error) {
	if handle < 0 || handle > 0xFFFF {
		return 0, fmt.Errorf("%w: expected (handle), handle %d out of range", ErrInvalidArgument, handle)
	}
	return uint16(handle), nil
}

func envelope(rc ReturnCode) models.Result {
	return models.Result{Success: rc == EW_OK, Error: int16(rc)}
}

func dynamicData(raw RawDynamic) *models.DynamicData {
	n := int(raw.Axis)
	if n < 0 {
		n = 0
	}
	if n > MaxAxis {
		n = MaxAxis
	}

	return &models.DynamicData{
		ProgramNumber:     raw.ProgramNumber,
		SequenceNumber:    raw.SequenceNumber,
		Feedrate:          raw.ActualFeed,
		SpindleSpeed:      raw.ActualSpindle,
		Positions:         axisMap(raw.Absolute[:n]),
		MainProgramNumber: raw.MainProgramNumber,
		Alarm:             raw.Alarm,
		MachinePositions:  axisMap(raw.Machine[:n]),
		RelativePositions: axisMap(raw.Relative[:n]),
		DistanceToGo:      axisMap(raw.Distance[:n]),
	}
}

// AxisKey возвращает ключ позиции оси i в ответе.
func AxisKey(i int) string {
	return "axis" + strconv.Itoa(i)
}

func axisMap(values []int32) map[string]int32 {
	m := make(map[string]int32, len(values))
	for i, v := range values {
		m[AxisKey(i)] = v
	}
	return m
}
