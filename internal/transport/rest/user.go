package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/internal/domain"
)

// @Summary Текущий пользователь
// @Tags Пользователи
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} successResponseBody "Пользователь"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Пользователь по ID
// @Tags Пользователи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 200 {object} successResponseBody "Пользователь"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID пользователя")
		return
	}

	if !h.canAccessUser(c, id) {
		forbiddenResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

func (h *Handler) canAccessUser(c *gin.Context, targetID int64) bool {
	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	if userID == targetID {
		return true
	}

	role, err := getUserRole(c)
	if err != nil {
		return false
	}

	return role == domain.UserRoleAdmin
}

// @Summary Обновление пользователя
// @Tags Пользователи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Param input body domain.UpdateUserDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Пользователь обновлен"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID пользователя")
		return
	}

	if !h.canAccessUser(c, id) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateUserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "пользователь обновлен")
}

// @Summary Смена пароля
// @Tags Пользователи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Param input body domain.PasswordUpdateDTO true "Старый и новый пароли"
// @Success 200 {object} messageResponseType "Пароль обновлен"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /users/{id}/password [put]
func (h *Handler) updatePassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID пользователя")
		return
	}

	userID, err := getUserID(c)
	if err != nil || userID != id {
		forbiddenResponse(c)
		return
	}

	var input domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.UpdatePassword(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "пароль обновлен")
}

// @Summary Создание пользователя
// @Tags Пользователи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateUserDTO true "Данные пользователя"
// @Success 201 {object} successResponseBody "ID пользователя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /users [post]
func (h *Handler) createUser(c *gin.Context) {
	var input domain.CreateUserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.User.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("ошибка при создании пользователя", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Список пользователей
// @Tags Пользователи
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} successResponseBody "Список пользователей"
// @Router /users [get]
func (h *Handler) getUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("ошибка при получении пользователей", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "ошибка при получении пользователей")
		return
	}

	successResponse(c, http.StatusOK, users)
}

// @Summary Удаление пользователя
// @Tags Пользователи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID пользователя"
// @Success 204 {object} nil "Пользователь удален"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный ID пользователя")
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
