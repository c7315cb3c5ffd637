package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		services := api.Group("/services")
		{
			services.GET("/", h.getServices)
			services.GET("/:id", h.getServiceByID)
			services.GET("/:id/providers", h.getServiceProviders)

			admin := services.Group("/")
			admin.Use(h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createService)
				admin.PUT("/:id", h.updateService)
				admin.DELETE("/:id", h.deleteService)
			}
		}

		providers := api.Group("/providers")
		{
			providers.GET("/", h.getProviders)
			providers.GET("/me", h.authMiddleware(), h.getMyProviderProfile)
			providers.GET("/:id", h.getProviderByID)
			providers.GET("/:id/working-plan", h.getWorkingPlan)
			providers.GET("/:id/working-plan/exceptions", h.getWorkingPlanExceptions)

			auth := providers.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createProvider)
				auth.PUT("/:id", h.updateProvider)
				auth.DELETE("/:id", h.deleteProvider)

				auth.POST("/:id/photo", h.uploadProviderPhoto)
				auth.DELETE("/:id/photo", h.deleteProviderPhoto)

				auth.POST("/:id/services/:serviceId", h.addProviderService)
				auth.DELETE("/:id/services/:serviceId", h.removeProviderService)

				auth.PUT("/:id/working-plan", h.setWorkingPlan)
				auth.POST("/:id/working-plan/exceptions", h.createWorkingPlanException)
				auth.PUT("/:id/working-plan/exceptions/:exceptionId", h.updateWorkingPlanException)
				auth.DELETE("/:id/working-plan/exceptions/:exceptionId", h.deleteWorkingPlanException)
			}
		}

		api.GET("/availabilities", h.getAvailabilities)

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id", h.updateAppointment)
			appointments.DELETE("/:id", h.cancelAppointment)
		}

		unavailabilities := api.Group("/unavailabilities")
		unavailabilities.Use(h.authMiddleware(), h.providerMiddleware())
		{
			unavailabilities.POST("/", h.createUnavailability)
			unavailabilities.DELETE("/:id", h.deleteUnavailability)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/booking", h.getBookingSettings)

			admin := settings.Group("/")
			admin.Use(h.authMiddleware(), h.adminMiddleware())
			{
				admin.PUT("/booking", h.updateBookingSettings)
			}
		}
	}
}
