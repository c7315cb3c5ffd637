package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/repository"
)

type CatalogServiceImpl struct {
	repo         repository.ServiceRepository
	providerRepo repository.ProviderRepository
	logger       *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, providerRepo repository.ProviderRepository, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		logger:       logger,
	}
}

func (s *CatalogServiceImpl) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка создания услуги", zap.String("name", dto.Name), zap.Error(err))
		return 0, errors.New("ошибка при создании услуги")
	}

	return id, nil
}

func (s *CatalogServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	return service, nil
}

func (s *CatalogServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrServiceNotFound
	}

	err = s.repo.Update(ctx, id, dto)
	if err != nil {
		s.logger.Error("ошибка обновления услуги", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении услуги")
	}

	return nil
}

func (s *CatalogServiceImpl) Delete(ctx context.Context, id int64) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrServiceNotFound
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления услуги", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении услуги")
	}

	return nil
}

func (s *CatalogServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Service, int, error) {
	if limit <= 0 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	services, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка услуг", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка при получении списка услуг: %w", err)
	}

	return services, total, nil
}

func (s *CatalogServiceImpl) ListProviders(ctx context.Context, serviceID int64) ([]domain.Provider, error) {
	if _, err := s.repo.GetByID(ctx, serviceID); err != nil {
		return nil, domain.ErrServiceNotFound
	}

	providers, err := s.providerRepo.ListByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("ошибка получения специалистов услуги", zap.Int64("serviceId", serviceID), zap.Error(err))
		return nil, errors.New("ошибка при получении специалистов услуги")
	}

	return providers, nil
}
