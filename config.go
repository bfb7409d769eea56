package fanuc

import (
	"os"
	"strconv"

	"github.com/iwtcode/focasBridge/focas"
)

// Config хранит модель конфигурации клиента
type Config struct {
	IP         string
	Port       uint16
	TimeoutSec int32
	LogPath    string
	LogLevel   string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	ip := os.Getenv("FANUC_IP")
	if ip == "" {
		ip = "10.0.0.1"
	}

	portStr := os.Getenv("FANUC_PORT")
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		port = 8193
	}

	timeoutStr := os.Getenv("FANUC_TIMEOUT")
	timeout, err := strconv.ParseInt(timeoutStr, 10, 32)
	if err != nil || timeout <= 0 {
		timeout = focas.DefaultTimeoutSec
	}

	logPath := os.Getenv("FOCAS_LOG_PATH")
	if logPath == "" {
		logPath = "./focas2.log"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		IP:         ip,
		Port:       uint16(port),
		TimeoutSec: int32(timeout),
		LogPath:    logPath,
		LogLevel:   logLevel,
	}
}
