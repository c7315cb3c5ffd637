package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Свободные слоты
// @Description Возвращает свободное время для записи на услугу в выбранную дату
// @Tags Доступность
// @Produce json
// @Param serviceId query int true "ID услуги"
// @Param providerId query string false "ID специалиста или any для поиска по всем"
// @Param date query string false "Дата в формате YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} successResponseBody "Список слотов"
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Failure 404 {object} errorResponseBody "Услуга или специалист не найдены"
// @Failure 422 {object} errorResponseBody "Специалист не оказывает услугу"
// @Router /availabilities [get]
func (h *Handler) getAvailabilities(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Query("serviceId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	var providerID *int64
	providerParam := c.DefaultQuery("providerId", "any")
	if providerParam != "" && providerParam != "any" {
		id, err := strconv.ParseInt(providerParam, 10, 64)
		if err != nil {
			badRequestResponse(c, "неверный ID специалиста")
			return
		}
		providerID = &id
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	slots, err := h.services.Availability.GetAvailableSlots(c.Request.Context(), serviceID, providerID, date)
	if err != nil {
		h.logger.Warn("ошибка расчета доступности",
			zap.Int64("serviceId", serviceID),
			zap.String("date", date),
			zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}
