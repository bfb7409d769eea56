package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"400"`
		Message string `json:"message" example:"wrong arguments"`
	} `json:"error"`
}

// AvailabilityResponse представляет ответ на проверку наличия библиотеки FOCAS.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Library   string `json:"library" example:"Fwlib32.dll"`
}
