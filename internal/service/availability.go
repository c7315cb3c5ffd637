package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/availability"
	"zapis/internal/domain"
	"zapis/internal/repository"
)

type AvailabilityServiceImpl struct {
	providerRepo    repository.ProviderRepository
	serviceRepo     repository.ServiceRepository
	appointmentRepo repository.AppointmentRepository
	settingsRepo    repository.SettingsRepository
	loc             *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

func NewAvailabilityService(
	providerRepo repository.ProviderRepository,
	serviceRepo repository.ServiceRepository,
	appointmentRepo repository.AppointmentRepository,
	settingsRepo repository.SettingsRepository,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		providerRepo:    providerRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		settingsRepo:    settingsRepo,
		loc:             bookingLocation(cfg, logger),
		now:             time.Now,
		logger:          logger,
	}
}

func bookingLocation(cfg config.BookingConfig, logger *zap.Logger) *time.Location {
	if cfg.Timezone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("некорректный часовой пояс, используется локальный", zap.String("timezone", cfg.Timezone), zap.Error(err))
		return time.Local
	}

	return loc
}

func (s *AvailabilityServiceImpl) GetAvailableSlots(ctx context.Context, serviceID int64, providerID *int64, date string) ([]domain.Slot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	settings, err := s.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		s.logger.Error("ошибка получения настроек бронирования", zap.Error(err))
		return nil, errors.New("ошибка при получении настроек бронирования")
	}

	if providerID != nil {
		if _, err := s.providerRepo.GetByID(ctx, *providerID); err != nil {
			return nil, domain.ErrProviderNotFound
		}

		provides, err := s.providerRepo.ProvidesService(ctx, *providerID, serviceID)
		if err != nil {
			s.logger.Error("ошибка проверки услуги специалиста", zap.Int64("providerId", *providerID), zap.Error(err))
			return nil, errors.New("ошибка при расчете доступности")
		}

		if !provides {
			return nil, domain.ErrServiceNotProvided
		}

		slots, err := s.providerSlots(ctx, *providerID, svc, settings, day)
		if err != nil {
			return nil, err
		}

		return availability.Merge([]availability.ProviderSlots{slots}), nil
	}

	providers, err := s.providerRepo.ListByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("ошибка получения специалистов услуги", zap.Int64("serviceId", serviceID), zap.Error(err))
		return nil, errors.New("ошибка при расчете доступности")
	}

	all := make([]availability.ProviderSlots, 0, len(providers))
	for _, provider := range providers {
		slots, err := s.providerSlots(ctx, provider.ID, svc, settings, day)
		if err != nil {
			return nil, err
		}
		all = append(all, slots)
	}

	return availability.Merge(all), nil
}

func (s *AvailabilityServiceImpl) providerSlots(
	ctx context.Context,
	providerID int64,
	svc *domain.Service,
	settings *domain.BookingSettings,
	date time.Time,
) (availability.ProviderSlots, error) {
	plan, err := s.providerRepo.GetWorkingPlan(ctx, providerID)
	if err != nil {
		s.logger.Error("ошибка получения рабочего плана", zap.Int64("providerId", providerID), zap.Error(err))
		return availability.ProviderSlots{}, errors.New("ошибка при расчете доступности")
	}

	exceptions, err := s.providerRepo.ListExceptions(ctx, providerID, date, date)
	if err != nil {
		s.logger.Error("ошибка получения исключений расписания", zap.Int64("providerId", providerID), zap.Error(err))
		return availability.ProviderSlots{}, errors.New("ошибка при расчете доступности")
	}

	day := availability.ResolveDay(plan, exceptions, date)

	window := availability.DayWindow(date)
	appointments, err := s.appointmentRepo.ListInWindow(ctx, providerID, window.Start, window.End)
	if err != nil {
		s.logger.Error("ошибка получения записей специалиста", zap.Int64("providerId", providerID), zap.Error(err))
		return availability.ProviderSlots{}, errors.New("ошибка при расчете доступности")
	}

	booked, blocked := availability.BusyIntervals(appointments, window)

	duration := time.Duration(svc.Duration) * time.Minute
	step := time.Duration(settings.SlotGranularity) * time.Minute
	candidates := availability.GenerateCandidates(day, duration, step, svc.AvailabilityType)

	free := availability.Filter(candidates, booked, blocked, availability.FilterOptions{
		Now:                s.now().In(s.loc),
		AdvanceTimeout:     time.Duration(settings.AdvanceTimeout) * time.Minute,
		FutureBookingLimit: time.Duration(settings.FutureBookingLimit) * 24 * time.Hour,
		Attendants:         svc.Attendants,
	})

	return availability.ProviderSlots{
		ProviderID:  providerID,
		Slots:       free,
		BookedCount: len(booked),
	}, nil
}
