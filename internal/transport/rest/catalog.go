package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Список услуг
// @Tags Услуги
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список услуг"
// @Router /services [get]
func (h *Handler) getServices(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	services, total, err := h.services.Catalog.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("ошибка при получении услуг", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при получении услуг")
		return
	}

	page := offset/limit + 1

	paginatedSuccessResponse(c, services, total, page, limit)
}

// @Summary Услуга по ID
// @Tags Услуги
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} successResponseBody "Услуга"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /services/{id} [get]
func (h *Handler) getServiceByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	service, err := h.services.Catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, service)
}

// @Summary Специалисты услуги
// @Description Возвращает специалистов, оказывающих услугу
// @Tags Услуги
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} successResponseBody "Список специалистов"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /services/{id}/providers [get]
func (h *Handler) getServiceProviders(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	providers, err := h.services.Catalog.ListProviders(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, providers)
}

// @Summary Создание услуги
// @Tags Услуги
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateServiceDTO true "Данные услуги"
// @Success 201 {object} successResponseBody "ID услуги"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /services [post]
func (h *Handler) createService(c *gin.Context) {
	var input domain.CreateServiceDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Catalog.Create(c.Request.Context(), input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновление услуги
// @Tags Услуги
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID услуги"
// @Param input body domain.UpdateServiceDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Услуга обновлена"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /services/{id} [put]
func (h *Handler) updateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	var input domain.UpdateServiceDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Catalog.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "услуга обновлена")
}

// @Summary Удаление услуги
// @Tags Услуги
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID услуги"
// @Success 204 {object} nil "Услуга удалена"
// @Failure 404 {object} errorResponseBody "Услуга не найдена"
// @Router /services/{id} [delete]
func (h *Handler) deleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID услуги")
		return
	}

	if err := h.services.Catalog.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
