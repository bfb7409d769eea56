// @title FOCAS Bridge API
// @version 1.0.0
// @description HTTP-мост к библиотеке FANUC FOCAS2: подключение к станку, чтение динамических данных, статуса и аварий.
// @host localhost:8082
// @BasePath /api/v1
package main

import "github.com/iwtcode/focasBridge/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
