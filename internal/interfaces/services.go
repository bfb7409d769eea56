package interfaces

import (
	"github.com/iwtcode/focasBridge/models"
)

// Bridge определяет контракт шести операций, доступных внешним скриптам.
// Реализуется fanuc.Client.
type Bridge interface {
	IsAvailable() bool
	Connect(ip string, port int) (*models.ConnectResult, error)
	Disconnect(handle int) (*models.Result, error)
	ReadDynamic(handle int) (*models.DynamicResult, error)
	ReadStatus(handle int) (*models.StatusResult, error)
	ReadAlarms(handle int) (*models.AlarmsResult, error)
}
