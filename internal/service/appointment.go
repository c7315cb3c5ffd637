package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
	"zapis/internal/repository"
)

type AppointmentServiceImpl struct {
	repo         repository.AppointmentRepository
	providerRepo repository.ProviderRepository
	serviceRepo  repository.ServiceRepository
	availability AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	providerRepo repository.ProviderRepository,
	serviceRepo repository.ServiceRepository,
	availability AvailabilityService,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		availability: availability,
		loc:          bookingLocation(cfg, logger),
		logger:       logger,
	}
}

// Create бронирует слот. Запрошенное время сверяется с расчетом доступности,
// для providerID == nil специалиста выбирает агрегатор. Финальную защиту от
// гонки двух клиентов дает повторная проверка в транзакции репозитория.
func (s *AppointmentServiceImpl) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	svc, err := s.serviceRepo.GetByID(ctx, dto.ServiceID)
	if err != nil {
		return 0, domain.ErrServiceNotFound
	}

	date := dto.StartDatetime.In(s.loc).Format("2006-01-02")

	slots, err := s.availability.GetAvailableSlots(ctx, dto.ServiceID, dto.ProviderID, date)
	if err != nil {
		return 0, err
	}

	var providerID int64
	found := false
	for _, slot := range slots {
		if slot.StartDatetime.Equal(dto.StartDatetime) {
			providerID = slot.ProviderID
			found = true
			break
		}
	}

	if !found {
		return 0, domain.ErrSlotTaken
	}

	serviceID := dto.ServiceID
	appointment := domain.Appointment{
		ProviderID:    providerID,
		ServiceID:     &serviceID,
		ClientID:      &clientID,
		StartDatetime: dto.StartDatetime,
		EndDatetime:   dto.StartDatetime.Add(time.Duration(svc.Duration) * time.Minute),
		Status:        domain.AppointmentStatusPending,
		Notes:         dto.Notes,
	}

	id, err := s.repo.Create(ctx, appointment, svc.Attendants)
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return 0, domain.ErrSlotTaken
		}
		s.logger.Error("ошибка создания записи", zap.Int64("clientId", clientID), zap.Error(err))
		return 0, errors.New("ошибка при создании записи")
	}

	return id, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	return appointment, nil
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrNotFound
	}

	err = s.repo.Update(ctx, id, dto)
	if err != nil {
		s.logger.Error("ошибка обновления записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении записи")
	}

	return nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrNotFound
	}

	if appointment.Status == domain.AppointmentStatusCancelled {
		return nil
	}

	err = s.repo.UpdateStatus(ctx, id, domain.AppointmentStatusCancelled)
	if err != nil {
		s.logger.Error("ошибка отмены записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при отмене записи")
	}

	return nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка при получении списка записей: %w", err)
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчета записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка при получении списка записей: %w", err)
	}

	return appointments, total, nil
}

func (s *AppointmentServiceImpl) CreateUnavailability(ctx context.Context, providerID int64, dto domain.CreateUnavailabilityDTO) (int64, error) {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		return 0, domain.ErrProviderNotFound
	}

	if !dto.StartDatetime.Before(dto.EndDatetime) {
		return 0, errors.New("время начала должно быть раньше окончания")
	}

	unavailability := domain.Appointment{
		ProviderID:       providerID,
		StartDatetime:    dto.StartDatetime,
		EndDatetime:      dto.EndDatetime,
		Status:           domain.AppointmentStatusConfirmed,
		IsUnavailability: true,
		Notes:            dto.Notes,
	}

	id, err := s.repo.Create(ctx, unavailability, 1)
	if err != nil {
		s.logger.Error("ошибка создания недоступности", zap.Int64("providerId", providerID), zap.Error(err))
		return 0, errors.New("ошибка при создании недоступности")
	}

	return id, nil
}

func (s *AppointmentServiceImpl) DeleteUnavailability(ctx context.Context, providerID, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrNotFound
	}

	if !appointment.IsUnavailability || appointment.ProviderID != providerID {
		return domain.ErrNotFound
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления недоступности", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении недоступности")
	}

	return nil
}
