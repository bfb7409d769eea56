package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/iwtcode/focasBridge/focas"
	"github.com/iwtcode/focasBridge/internal/domain/models"
	"github.com/iwtcode/focasBridge/pkg/errors"

	"github.com/gin-gonic/gin"
)

// IsAvailable
// @Summary Проверить наличие библиотеки FOCAS
// @Description Пытается загрузить Fwlib32 и сразу выгружает ее. Ошибки не возвращает.
// @Tags Bridge
// @Produce json
// @Success 200 {object} models.AvailabilityResponse
// @Router /api/v1/available [get]
func (h *Handler) IsAvailable(c *gin.Context) {
	c.JSON(http.StatusOK, models.AvailabilityResponse{
		Available: h.bridge.IsAvailable(),
		Library:   focas.LibraryName,
	})
}

// Connect
// @Summary Подключиться к станку
// @Description Выделяет хендл FOCAS для адреса и порта. Код возврата библиотеки передается как есть.
// @Tags Bridge
// @Accept json
// @Produce json
// @Param request body models.ConnectRequest true "Адрес станка"
// @Success 200 {object} fanucmodels.ConnectResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/connect [post]
func (h *Handler) Connect(c *gin.Context) {
	var req models.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, errors.InvalidArguments)
		return
	}

	res, err := h.bridge.Connect(req.IP, req.Port)
	if err != nil {
		h.OperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Disconnect
// @Summary Освободить хендл
// @Tags Bridge
// @Accept json
// @Produce json
// @Param request body models.HandleRequest true "Хендл"
// @Success 200 {object} fanucmodels.Result
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/disconnect [post]
func (h *Handler) Disconnect(c *gin.Context) {
	var req models.HandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, errors.InvalidArguments)
		return
	}

	res, err := h.bridge.Disconnect(*req.Handle)
	if err != nil {
		h.OperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReadDynamic
// @Summary Прочитать динамические данные
// @Description Номер программы, кадр, подача, обороты шпинделя и позиции осей.
// @Tags Bridge
// @Produce json
// @Param handle path int true "Хендл"
// @Success 200 {object} fanucmodels.DynamicResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/handles/{handle}/dynamic [get]
func (h *Handler) ReadDynamic(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}

	res, err := h.bridge.ReadDynamic(handle)
	if err != nil {
		h.OperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReadStatus
// @Summary Прочитать статус станка
// @Tags Bridge
// @Produce json
// @Param handle path int true "Хендл"
// @Success 200 {object} fanucmodels.StatusResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/handles/{handle}/status [get]
func (h *Handler) ReadStatus(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}

	res, err := h.bridge.ReadStatus(handle)
	if err != nil {
		h.OperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReadAlarms
// @Summary Прочитать аварии
// @Tags Bridge
// @Produce json
// @Param handle path int true "Хендл"
// @Success 200 {object} fanucmodels.AlarmsResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/handles/{handle}/alarms [get]
func (h *Handler) ReadAlarms(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}

	res, err := h.bridge.ReadAlarms(handle)
	if err != nil {
		h.OperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) handleParam(c *gin.Context) (int, bool) {
	raw := c.Param("handle")
	handle, err := strconv.Atoi(raw)
	if err != nil {
		h.BadRequest(c, fmt.Errorf("handle %q is not a number", raw), errors.InvalidArguments)
		return 0, false
	}
	return handle, true
}
