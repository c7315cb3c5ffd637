package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Создание записи
// @Description Бронирует свободный слот; при providerId = null специалист выбирается автоматически
// @Tags Записи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} successResponseBody "ID созданной записи"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Время уже занято"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании записи", zap.Int64("userId", userID), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Список записей
// @Description Возвращает записи текущего пользователя; администратор видит все
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Статус записи"
// @Param date_from query string false "Начало периода YYYY-MM-DD"
// @Param date_to query string false "Конец периода YYYY-MM-DD"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список записей"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter := domain.AppointmentFilter{}

	switch role {
	case domain.UserRoleAdmin:
	case domain.UserRoleProvider:
		provider, err := h.services.Provider.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			notFoundResponse(c, "профиль специалиста не найден")
			return
		}
		filter.ProviderID = &provider.ID
	default:
		filter.ClientID = &userID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		filter.Status = &status
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		if parsed, err := time.Parse("2006-01-02", dateFrom); err == nil {
			filter.StartDate = &parsed
		}
	}

	if dateTo := c.Query("date_to"); dateTo != "" {
		if parsed, err := time.Parse("2006-01-02", dateTo); err == nil {
			parsed = parsed.Add(24*time.Hour - time.Second)
			filter.EndDate = &parsed
		}
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filter.Limit = limit
	filter.Offset = offset

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении записей", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при получении записей")
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, appointments, total, page, limit)
}

// @Summary Запись по ID
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 200 {object} successResponseBody "Запись"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID записи")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

func (h *Handler) canAccessAppointment(c *gin.Context, appointment *domain.Appointment) bool {
	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	role, err := getUserRole(c)
	if err != nil {
		return false
	}

	switch role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRoleProvider:
		provider, err := h.services.Provider.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			return false
		}
		return provider.ID == appointment.ProviderID
	default:
		return appointment.ClientID != nil && *appointment.ClientID == userID
	}
}

// @Summary Обновление записи
// @Tags Записи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Param input body domain.UpdateAppointmentDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Запись обновлена"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID записи")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись обновлена")
}

// @Summary Отмена записи
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 204 {object} nil "Запись отменена"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID записи")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Создание недоступности
// @Description Блокирует интервал в расписании специалиста
// @Tags Недоступности
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateUnavailabilityDTO true "Интервал недоступности"
// @Success 201 {object} successResponseBody "ID недоступности"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Профиль специалиста не найден"
// @Router /unavailabilities [post]
func (h *Handler) createUnavailability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	provider, err := h.services.Provider.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль специалиста не найден")
		return
	}

	var input domain.CreateUnavailabilityDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.CreateUnavailability(c.Request.Context(), provider.ID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Удаление недоступности
// @Tags Недоступности
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID недоступности"
// @Success 204 {object} nil "Недоступность удалена"
// @Failure 404 {object} errorResponseBody "Недоступность не найдена"
// @Router /unavailabilities/{id} [delete]
func (h *Handler) deleteUnavailability(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	provider, err := h.services.Provider.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль специалиста не найден")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID недоступности")
		return
	}

	if err := h.services.Appointment.DeleteUnavailability(c.Request.Context(), provider.ID, id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
