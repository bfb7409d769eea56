package focas

import "fmt"

// ReturnCode - код возврата функций FOCAS (EW_* из fwlib32.h).
// Значение передается вызывающей стороне без изменений.
type ReturnCode int16

const (
	EW_PROTOCOL ReturnCode = -17
	EW_SOCKET   ReturnCode = -16
	EW_NODLL    ReturnCode = -15
	EW_INIERR   ReturnCode = -14
	EW_ITLOW    ReturnCode = -13
	EW_ITHIGHT  ReturnCode = -12
	EW_BUS      ReturnCode = -11
	EW_SYSTEM2  ReturnCode = -10
	EW_HSSB     ReturnCode = -9
	EW_HANDLE   ReturnCode = -8
	EW_VERSION  ReturnCode = -7
	EW_UNEXP    ReturnCode = -6
	EW_SYSTEM   ReturnCode = -5
	EW_PARITY   ReturnCode = -4
	EW_MMCSYS   ReturnCode = -3
	EW_RESET    ReturnCode = -2
	EW_BUSY     ReturnCode = -1
	EW_OK       ReturnCode = 0
	EW_FUNC     ReturnCode = 1
	EW_LENGTH   ReturnCode = 2
	EW_NUMBER   ReturnCode = 3
	EW_ATTRIB   ReturnCode = 4
	EW_DATA     ReturnCode = 5
	EW_NOOPT    ReturnCode = 6
	EW_PROT     ReturnCode = 7
	EW_OVRFLOW  ReturnCode = 8
	EW_PARAM    ReturnCode = 9
	EW_BUFFER   ReturnCode = 10
	EW_PATH     ReturnCode = 11
	EW_MODE     ReturnCode = 12
	EW_REJECT   ReturnCode = 13
	EW_DTSRVR   ReturnCode = 14
	EW_ALARM    ReturnCode = 15
	EW_STOP     ReturnCode = 16
	EW_PASSWD   ReturnCode = 17
)

var returnCodeNames = map[ReturnCode]string{
	EW_PROTOCOL: "EW_PROTOCOL",
	EW_SOCKET:   "EW_SOCKET",
	EW_NODLL:    "EW_NODLL",
	EW_INIERR:   "EW_INIERR",
	EW_ITLOW:    "EW_ITLOW",
	EW_ITHIGHT:  "EW_ITHIGHT",
	EW_BUS:      "EW_BUS",
	EW_SYSTEM2:  "EW_SYSTEM2",
	EW_HSSB:     "EW_HSSB",
	EW_HANDLE:   "EW_HANDLE",
	EW_VERSION:  "EW_VERSION",
	EW_UNEXP:    "EW_UNEXP",
	EW_SYSTEM:   "EW_SYSTEM",
	EW_PARITY:   "EW_PARITY",
	EW_MMCSYS:   "EW_MMCSYS",
	EW_RESET:    "EW_RESET",
	EW_BUSY:     "EW_BUSY",
	EW_OK:       "EW_OK",
	EW_FUNC:     "EW_FUNC",
	EW_LENGTH:   "EW_LENGTH",
	EW_NUMBER:   "EW_NUMBER",
	EW_ATTRIB:   "EW_ATTRIB",
	EW_DATA:     "EW_DATA",
	EW_NOOPT:    "EW_NOOPT",
	EW_PROT:     "EW_PROT",
	EW_OVRFLOW:  "EW_OVRFLOW",
	EW_PARAM:    "EW_PARAM",
	EW_BUFFER:   "EW_BUFFER",
	EW_PATH:     "EW_PATH",
	EW_MODE:     "EW_MODE",
	EW_REJECT:   "EW_REJECT",
	EW_DTSRVR:   "EW_DTSRVR",
	EW_ALARM:    "EW_ALARM",
	EW_STOP:     "EW_STOP",
	EW_PASSWD:   "EW_PASSWD",
}

// String возвращает имя кода для логов. Неизвестные коды печатаются числом.
func (rc ReturnCode) String() string {
	if name, ok := returnCodeNames[rc]; ok {
		return name
	}
	return fmt.Sprintf("rc(%d)", int16(rc))
}

// OK сообщает, завершился ли вызов успешно.
func (rc ReturnCode) OK() bool {
	return rc == EW_OK
}

// MaxAxis - размер массивов позиций в ODBDY2 (MAX_AXIS).
const MaxAxis = 32

// RawDynamic - содержимое ODBDY2, приведенное к фиксированной разрядности.
type RawDynamic struct {
	Axis              int16
	Alarm             int32
	ProgramNumber     int32
	MainProgramNumber int32
	SequenceNumber    int32
	ActualFeed        int32
	ActualSpindle     int32
	Absolute          [MaxAxis]int32
	Machine           [MaxAxis]int32
	Relative          [MaxAxis]int32
	Distance          [MaxAxis]int32
}

// RawStatus - содержимое ODBST.
type RawStatus struct {
	Hdck      int16
	TmMode    int16
	Aut       int16
	Run       int16
	Motion    int16
	Mstb      int16
	Emergency int16
	Alarm     int16
	Edit      int16
}

// RawAlarm - содержимое ODBALM: битовая маска типов активных аварий.
// В ODBALM это short, бит 15 - такой же тип аварии, как остальные.
type RawAlarm struct {
	Status uint16
}

// Library описывает используемую часть C ABI библиотеки Fwlib32.
// Каждый метод соответствует ровно одному вызову библиотеки.
type Library interface {
	Startup(mode uint16, logPath string) ReturnCode
	AllocHandle(ip string, port uint16, timeoutSec int32) (uint16, ReturnCode)
	FreeHandle(handle uint16) ReturnCode
	ReadDynamic(handle uint16) (RawDynamic, ReturnCode)
	ReadStatus(handle uint16) (RawStatus, ReturnCode)
	ReadAlarm(handle uint16) (RawAlarm, ReturnCode)
}

// Unavailable используется в сборках без библиотеки Fwlib32:
// любой вызов к станку завершается с EW_NODLL.
type Unavailable struct{}

var _ Library = Unavailable{}

func (Unavailable) Startup(uint16, string) ReturnCode { return EW_OK }

func (Unavailable) AllocHandle(string, uint16, int32) (uint16, ReturnCode) { return 0, EW_NODLL }

func (Unavailable) FreeHandle(uint16) ReturnCode { return EW_NODLL }

func (Unavailable) ReadDynamic(uint16) (RawDynamic, ReturnCode) { return RawDynamic{}, EW_NODLL }

func (Unavailable) ReadStatus(uint16) (RawStatus, ReturnCode) { return RawStatus{}, EW_NODLL }

func (Unavailable) ReadAlarm(uint16) (RawAlarm, ReturnCode) { return RawAlarm{}, EW_NODLL }
