package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Provider    ProviderRepository
	Service     ServiceRepository
	Appointment AppointmentRepository
	Settings    SettingsRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Provider:    NewProviderRepository(db),
		Service:     NewServiceRepository(db),
		Appointment: NewAppointmentRepository(db),
		Settings:    NewSettingsRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type ProviderRepository interface {
	Create(ctx context.Context, userID int64, dto domain.CreateProviderDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	Update(ctx context.Context, id int64, dto domain.UpdateProviderDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error)
	ListByService(ctx context.Context, serviceID int64) ([]domain.Provider, error)
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error

	AddService(ctx context.Context, providerID, serviceID int64) error
	RemoveService(ctx context.Context, providerID, serviceID int64) error
	ProvidesService(ctx context.Context, providerID, serviceID int64) (bool, error)

	GetWorkingPlan(ctx context.Context, providerID int64) (*domain.WorkingPlan, error)
	SetWorkingPlan(ctx context.Context, providerID int64, days []domain.WorkingDay) error

	CreateException(ctx context.Context, exception domain.WorkingPlanException) (int64, error)
	GetExceptionByID(ctx context.Context, id int64) (*domain.WorkingPlanException, error)
	UpdateException(ctx context.Context, exception domain.WorkingPlanException) error
	DeleteException(ctx context.Context, id int64) error
	ListExceptions(ctx context.Context, providerID int64, from, to time.Time) ([]domain.WorkingPlanException, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Service, int, error)
}

type AppointmentRepository interface {
	// Create берет advisory-блокировку по специалисту и в той же транзакции
	// выполняет повторную проверку конфликтов по (специалист, интервал)
	// и вставку; при нехватке вместимости возвращает domain.ErrSlotTaken.
	Create(ctx context.Context, appointment domain.Appointment, attendants int) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	// ListInWindow возвращает неотмененные записи и недоступности специалиста,
	// пересекающие окно [from, to) по полным границам записи.
	ListInWindow(ctx context.Context, providerID int64, from, to time.Time) ([]domain.Appointment, error)
}

type SettingsRepository interface {
	GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error)
	UpdateBookingSettings(ctx context.Context, dto domain.UpdateBookingSettingsDTO) error
}
