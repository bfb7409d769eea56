package models

// ConnectRequest определяет структуру запроса на подключение к станку.
type ConnectRequest struct {
	IP   string `json:"ip" binding:"required"`
	Port int    `json:"port" binding:"required"`
}

// HandleRequest определяет структуру запросов, использующих хендл.
// Хендл может быть равен 0, поэтому поле - указатель.
type HandleRequest struct {
	Handle *int `json:"handle" binding:"required"`
}
