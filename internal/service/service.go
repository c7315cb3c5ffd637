package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
	"zapis/internal/repository"
	"zapis/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User         UserService
	Auth         AuthService
	Provider     ProviderService
	Catalog      CatalogService
	Appointment  AppointmentService
	Availability AvailabilityService
	Settings     SettingsService
}

func NewServices(deps Deps) *Services {
	availability := NewAvailabilityService(
		deps.Repos.Provider,
		deps.Repos.Service,
		deps.Repos.Appointment,
		deps.Repos.Settings,
		deps.Config.Booking,
		deps.Logger,
	)

	return &Services{
		User:         NewUserService(deps.Repos.User, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Session, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Provider:     NewProviderService(deps.Repos.Provider, deps.Repos.User, deps.Repos.Service, deps.Repos.Settings, deps.FileStorage, deps.Logger),
		Catalog:      NewCatalogService(deps.Repos.Service, deps.Repos.Provider, deps.Logger),
		Settings:     NewSettingsService(deps.Repos.Settings, deps.Logger),
		Availability: availability,
		Appointment:  NewAppointmentService(deps.Repos.Appointment, deps.Repos.Provider, deps.Repos.Service, availability, deps.Config.Booking, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type ProviderService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateProviderDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	Update(ctx context.Context, id int64, dto domain.UpdateProviderDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error)

	UploadProfilePhoto(ctx context.Context, providerID int64, photo []byte, filename string) error
	DeleteProfilePhoto(ctx context.Context, providerID int64) error

	AddService(ctx context.Context, providerID, serviceID int64) error
	RemoveService(ctx context.Context, providerID, serviceID int64) error

	GetWorkingPlan(ctx context.Context, providerID int64) (*domain.WorkingPlan, error)
	SetWorkingPlan(ctx context.Context, providerID int64, dto domain.UpdateWorkingPlanDTO) error

	CreateException(ctx context.Context, providerID int64, dto domain.CreateExceptionDTO) (int64, error)
	GetExceptionByID(ctx context.Context, id int64) (*domain.WorkingPlanException, error)
	UpdateException(ctx context.Context, id int64, dto domain.UpdateExceptionDTO) error
	DeleteException(ctx context.Context, id int64) error
	ListExceptions(ctx context.Context, providerID int64, from, to time.Time) ([]domain.WorkingPlanException, error)
}

type CatalogService interface {
	Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Service, int, error)
	ListProviders(ctx context.Context, serviceID int64) ([]domain.Provider, error)
}

type AppointmentService interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	Cancel(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)

	CreateUnavailability(ctx context.Context, providerID int64, dto domain.CreateUnavailabilityDTO) (int64, error)
	DeleteUnavailability(ctx context.Context, providerID, id int64) error
}

type AvailabilityService interface {
	// GetAvailableSlots возвращает свободные слоты услуги на дату.
	// providerID == nil означает поиск по всем специалистам, оказывающим услугу.
	GetAvailableSlots(ctx context.Context, serviceID int64, providerID *int64, date string) ([]domain.Slot, error)
}

type SettingsService interface {
	GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error)
	UpdateBookingSettings(ctx context.Context, dto domain.UpdateBookingSettingsDTO) error
}
