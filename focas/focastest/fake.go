// Package focastest содержит управляемую реализацию focas.Library для тестов.
package focastest

import (
	"sync"

	"github.com/iwtcode/focasBridge/focas"
)

// Call - запись об одном вызове библиотеки.
type Call struct {
	Op     string
	Handle uint16
	IP     string
	Port   uint16
	Arg    int32
}

// Library возвращает заранее заданные данные и коды возврата
// и запоминает все вызовы.
type Library struct {
	mu sync.Mutex

	StartupRC  focas.ReturnCode
	AllocRC    focas.ReturnCode
	FreeRC     focas.ReturnCode
	DynamicRC  focas.ReturnCode
	StatusRC   focas.ReturnCode
	AlarmRC    focas.ReturnCode
	NextHandle uint16

	Dynamic focas.RawDynamic
	Status  focas.RawStatus
	Alarm   focas.RawAlarm

	calls []Call
}

var _ focas.Library = (*Library)(nil)

// New возвращает библиотеку, у которой все вызовы успешны, а хендл равен 1.
func New() *Library {
	return &Library{NextHandle: 1}
}

func (l *Library) record(c Call) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, c)
}

// Calls возвращает копию журнала вызовов.
func (l *Library) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// Count возвращает число вызовов операции op.
func (l *Library) Count(op string) int {
	n := 0
	for _, c := range l.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (l *Library) Startup(mode uint16, _ string) focas.ReturnCode {
	l.record(Call{Op: "startup", Arg: int32(mode)})
	return l.StartupRC
}

func (l *Library) AllocHandle(ip string, port uint16, timeoutSec int32) (uint16, focas.ReturnCode) {
	l.record(Call{Op: "alloc", IP: ip, Port: port, Arg: timeoutSec})
	if l.AllocRC != focas.EW_OK {
		return 0, l.AllocRC
	}
	return l.NextHandle, focas.EW_OK
}

func (l *Library) FreeHandle(handle uint16) focas.ReturnCode {
	l.record(Call{Op: "free", Handle: handle})
	return l.FreeRC
}

func (l *Library) ReadDynamic(handle uint16) (focas.RawDynamic, focas.ReturnCode) {
	l.record(Call{Op: "dynamic", Handle: handle})
	return l.Dynamic, l.DynamicRC
}

func (l *Library) ReadStatus(handle uint16) (focas.RawStatus, focas.ReturnCode) {
	l.record(Call{Op: "status", Handle: handle})
	return l.Status, l.StatusRC
}

func (l *Library) ReadAlarm(handle uint16) (focas.RawAlarm, focas.ReturnCode) {
	l.record(Call{Op: "alarm", Handle: handle})
	return l.Alarm, l.AlarmRC
}
