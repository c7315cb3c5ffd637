package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Настройки бронирования
// @Description Возвращает шаг сетки слотов, минимальный запас до записи и горизонт бронирования
// @Tags Настройки
// @Produce json
// @Success 200 {object} domain.BookingSettings "Настройки"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /settings/booking [get]
func (h *Handler) getBookingSettings(c *gin.Context) {
	settings, err := h.services.Settings.GetBookingSettings(c.Request.Context())
	if err != nil {
		h.logger.Error("ошибка при получении настроек", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при получении настроек")
		return
	}

	successResponse(c, http.StatusOK, settings)
}

// @Summary Обновление настроек бронирования
// @Tags Настройки
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.UpdateBookingSettingsDTO true "Изменяемые настройки"
// @Success 200 {object} messageResponseType "Настройки обновлены"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /settings/booking [put]
func (h *Handler) updateBookingSettings(c *gin.Context) {
	var input domain.UpdateBookingSettingsDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Settings.UpdateBookingSettings(c.Request.Context(), input); err != nil {
		h.logger.Error("ошибка при обновлении настроек", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при обновлении настроек")
		return
	}

	messageResponse(c, http.StatusOK, "настройки обновлены")
}
