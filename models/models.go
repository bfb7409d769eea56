package models

// Result - общий конверт ответа: флаг успеха и необработанный код возврата FOCAS.
type Result struct {
	Success bool  `json:"success"`
	Error   int16 `json:"error"`
}

// ConnectResult - ответ на подключение. Handle заполнен только при успехе.
type ConnectResult struct {
	Result
	Handle *uint16 `json:"handle,omitempty"`
}

// DynamicResult - ответ на чтение динамических данных (cnc_rddynamic2).
type DynamicResult struct {
	Result
	Data *DynamicData `json:"data,omitempty"`
}

// StatusResult - ответ на чтение статуса станка (cnc_statinfo).
type StatusResult struct {
	Result
	Data *StatusData `json:"data,omitempty"`
}

// AlarmsResult - ответ на чтение аварий (cnc_alarm).
type AlarmsResult struct {
	Result
	Data []AlarmData `json:"data,omitempty"`
}

// DynamicData содержит программу, скорости и позиции осей.
// Позиции - в наименьших единицах ввода, ключи "axis0".."axisN-1".
type DynamicData struct {
	ProgramNumber     int32            `json:"programNumber"`
	SequenceNumber    int32            `json:"sequenceNumber"`
	Feedrate          int32            `json:"feedrate"`
	SpindleSpeed      int32            `json:"spindleSpeed"`
	Positions         map[string]int32 `json:"positions"`
	MainProgramNumber int32            `json:"mainProgramNumber"`
	Alarm             int32            `json:"alarm"`
	MachinePositions  map[string]int32 `json:"machinePositions"`
	RelativePositions map[string]int32 `json:"relativePositions"`
	DistanceToGo      map[string]int32 `json:"distanceToGo"`
}

// StatusData - поля ODBST без интерпретации.
type StatusData struct {
	Hdck      int16 `json:"hdck"`
	TmMode    int16 `json:"tmmode"`
	Aut       int16 `json:"aut"`
	Run       int16 `json:"run"`
	Motion    int16 `json:"motion"`
	Mstb      int16 `json:"mstb"`
	Emergency int16 `json:"emergency"`
	Alarm     int16 `json:"alarm"`
	Edit      int16 `json:"edit"`
}

// AlarmData - сводка по авариям: число активных типов и исходная битовая маска.
// Count - число установленных бит в Status, то есть ненулевое при активных авариях.
// Прежний нативный модуль для Node.js при успехе всегда возвращал count = 0,
// вызывающий код, проверявший count == 0, нужно перевести на success и status.
type AlarmData struct {
	Count  int    `json:"count"`
	Status uint16 `json:"status"`
}
