package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/repository"
)

type SettingsServiceImpl struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *SettingsServiceImpl) GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error) {
	settings, err := s.repo.GetBookingSettings(ctx)
	if err != nil {
		s.logger.Error("ошибка получения настроек бронирования", zap.Error(err))
		return nil, errors.New("ошибка при получении настроек бронирования")
	}

	return settings, nil
}

func (s *SettingsServiceImpl) UpdateBookingSettings(ctx context.Context, dto domain.UpdateBookingSettingsDTO) error {
	err := s.repo.UpdateBookingSettings(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка обновления настроек бронирования", zap.Error(err))
		return errors.New("ошибка при обновлении настроек бронирования")
	}

	return nil
}
