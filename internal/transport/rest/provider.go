package rest

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Список специалистов
// @Tags Специалисты
// @Produce json
// @Param serviceId query int false "Фильтр по услуге"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список специалистов"
// @Router /providers [get]
func (h *Handler) getProviders(c *gin.Context) {
	filter := domain.ProviderFilter{}

	if serviceParam := c.Query("serviceId"); serviceParam != "" {
		serviceID, err := strconv.ParseInt(serviceParam, 10, 64)
		if err != nil {
			badRequestResponse(c, "неверный ID услуги")
			return
		}
		filter.ServiceID = &serviceID
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

	providers, total, err := h.services.Provider.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении специалистов", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при получении специалистов")
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, providers, total, page, limit)
}

// @Summary Специалист по ID
// @Tags Специалисты
// @Produce json
// @Param id path int true "ID специалиста"
// @Success 200 {object} successResponseBody "Специалист"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /providers/{id} [get]
func (h *Handler) getProviderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	provider, err := h.services.Provider.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, provider)
}

// @Summary Профиль текущего специалиста
// @Tags Специалисты
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} successResponseBody "Профиль"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /providers/me [get]
func (h *Handler) getMyProviderProfile(c *gin.Context) {
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

	successResponse(c, http.StatusOK, provider)
}

// @Summary Создание профиля специалиста
// @Tags Специалисты
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateProviderDTO true "Данные профиля"
// @Success 201 {object} successResponseBody "ID профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /providers [post]
func (h *Handler) createProvider(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateProviderDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Provider.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// ownsProviderProfile проверяет, что профиль принадлежит текущему пользователю
// либо пользователь является администратором.
func (h *Handler) ownsProviderProfile(c *gin.Context, providerID int64) bool {
	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	role, err := getUserRole(c)
	if err != nil {
		return false
	}

	if role == domain.UserRoleAdmin {
		return true
	}

	provider, err := h.services.Provider.GetByID(c.Request.Context(), providerID)
	if err != nil {
		return false
	}

	return provider.UserID == userID
}

// @Summary Обновление профиля специалиста
// @Tags Специалисты
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param input body domain.UpdateProviderDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Профиль обновлен"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id} [put]
func (h *Handler) updateProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateProviderDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Provider.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль обновлен")
}

// @Summary Удаление профиля специалиста
// @Tags Специалисты
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Success 204 {object} nil "Профиль удален"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id} [delete]
func (h *Handler) deleteProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Provider.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Загрузка фото специалиста
// @Tags Специалисты
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param photo formData file true "Файл изображения"
// @Success 200 {object} messageResponseType "Фото загружено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/photo [post]
func (h *Handler) uploadProviderPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка открытия файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка обработки файла")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка чтения файла", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка обработки файла")
		return
	}

	if err := h.services.Provider.UploadProfilePhoto(c.Request.Context(), id, data, fileHeader.Filename); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "фото загружено")
}

// @Summary Удаление фото специалиста
// @Tags Специалисты
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Success 204 {object} nil "Фото удалено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/photo [delete]
func (h *Handler) deleteProviderPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Provider.DeleteProfilePhoto(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Привязка услуги к специалисту
// @Tags Специалисты
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param serviceId path int true "ID услуги"
// @Success 200 {object} messageResponseType "Услуга привязана"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/services/{serviceId} [post]
func (h *Handler) addProviderService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	serviceID, err := strconv.ParseInt(c.Param("serviceId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Provider.AddService(c.Request.Context(), id, serviceID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "услуга привязана")
}

// @Summary Отвязка услуги от специалиста
// @Tags Специалисты
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param serviceId path int true "ID услуги"
// @Success 204 {object} nil "Услуга отвязана"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/services/{serviceId} [delete]
func (h *Handler) removeProviderService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	serviceID, err := strconv.ParseInt(c.Param("serviceId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Provider.RemoveService(c.Request.Context(), id, serviceID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Рабочий план специалиста
// @Tags Расписание
// @Produce json
// @Param id path int true "ID специалиста"
// @Success 200 {object} successResponseBody "Рабочий план"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /providers/{id}/working-plan [get]
func (h *Handler) getWorkingPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	plan, err := h.services.Provider.GetWorkingPlan(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, plan)
}

// @Summary Установка рабочего плана
// @Description Полностью заменяет недельное расписание специалиста
// @Tags Расписание
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param input body domain.UpdateWorkingPlanDTO true "Рабочие дни с перерывами"
// @Success 200 {object} messageResponseType "Рабочий план сохранен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/working-plan [put]
func (h *Handler) setWorkingPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateWorkingPlanDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Provider.SetWorkingPlan(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "рабочий план сохранен")
}

// @Summary Исключения расписания
// @Tags Расписание
// @Produce json
// @Param id path int true "ID специалиста"
// @Param from query string false "Начало периода YYYY-MM-DD"
// @Param to query string false "Конец периода YYYY-MM-DD"
// @Success 200 {object} successResponseBody "Список исключений"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /providers/{id}/working-plan/exceptions [get]
func (h *Handler) getWorkingPlanExceptions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			badRequestResponse(c, "неверный формат даты начала периода")
			return
		}
		from = parsed
	}

	to := from.AddDate(0, 1, 0)
	if toParam := c.Query("to"); toParam != "" {
		parsed, err := time.Parse("2006-01-02", toParam)
		if err != nil {
			badRequestResponse(c, "неверный формат даты конца периода")
			return
		}
		to = parsed
	}

	exceptions, err := h.services.Provider.ListExceptions(c.Request.Context(), id, from, to)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, exceptions)
}

// @Summary Создание исключения расписания
// @Description Переопределяет расписание на конкретную дату; повторная отправка на ту же дату заменяет исключение
// @Tags Расписание
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param input body domain.CreateExceptionDTO true "Исключение"
// @Success 201 {object} successResponseBody "ID исключения"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /providers/{id}/working-plan/exceptions [post]
func (h *Handler) createWorkingPlanException(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	var input domain.CreateExceptionDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	exceptionID, err := h.services.Provider.CreateException(c.Request.Context(), id, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": exceptionID,
	})
}

// @Summary Обновление исключения расписания
// @Tags Расписание
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param exceptionId path int true "ID исключения"
// @Param input body domain.UpdateExceptionDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Исключение обновлено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Исключение не найдено"
// @Router /providers/{id}/working-plan/exceptions/{exceptionId} [put]
func (h *Handler) updateWorkingPlanException(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	exceptionID, err := strconv.ParseInt(c.Param("exceptionId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID исключения")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	exception, err := h.services.Provider.GetExceptionByID(c.Request.Context(), exceptionID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if exception.ProviderID != id {
		notFoundResponse(c, "исключение не найдено")
		return
	}

	var input domain.UpdateExceptionDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Provider.UpdateException(c.Request.Context(), exceptionID, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "исключение обновлено")
}

// @Summary Удаление исключения расписания
// @Tags Расписание
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID специалиста"
// @Param exceptionId path int true "ID исключения"
// @Success 204 {object} nil "Исключение удалено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Исключение не найдено"
// @Router /providers/{id}/working-plan/exceptions/{exceptionId} [delete]
func (h *Handler) deleteWorkingPlanException(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID специалиста")
		return
	}

	exceptionID, err := strconv.ParseInt(c.Param("exceptionId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID исключения")
		return
	}

	if !h.ownsProviderProfile(c, id) {
		forbiddenResponse(c)
		return
	}

	exception, err := h.services.Provider.GetExceptionByID(c.Request.Context(), exceptionID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if exception.ProviderID != id {
		notFoundResponse(c, "исключение не найдено")
		return
	}

	if err := h.services.Provider.DeleteException(c.Request.Context(), exceptionID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
