package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zapis/internal/domain"
	"zapis/internal/repository"
	"zapis/internal/storage"
)

type ProviderServiceImpl struct {
	repo         repository.ProviderRepository
	userRepo     repository.UserRepository
	serviceRepo  repository.ServiceRepository
	settingsRepo repository.SettingsRepository
	fileStorage  storage.FileStorage
	logger       *zap.Logger
}

func NewProviderService(
	repo repository.ProviderRepository,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	settingsRepo repository.SettingsRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *ProviderServiceImpl {
	return &ProviderServiceImpl{
		repo:         repo,
		userRepo:     userRepo,
		serviceRepo:  serviceRepo,
		settingsRepo: settingsRepo,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

func (s *ProviderServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateProviderDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("пользователь не найден", zap.Int64("userId", userID), zap.Error(err))
		return 0, domain.ErrNotFound
	}

	if user.Role != domain.UserRoleProvider && user.Role != domain.UserRoleAdmin {
		return 0, errors.New("пользователь не имеет роли специалиста")
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err == nil && existing != nil {
		return 0, errors.New("профиль специалиста уже существует")
	}

	for _, serviceID := range dto.ServiceIDs {
		if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
			return 0, domain.ErrServiceNotFound
		}
	}

	id, err := s.repo.Create(ctx, userID, dto)
	if err != nil {
		s.logger.Error("ошибка создания профиля специалиста", zap.Int64("userId", userID), zap.Error(err))
		return 0, errors.New("ошибка при создании профиля специалиста")
	}

	return id, nil
}

func (s *ProviderServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	provider, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("специалист не найден", zap.Int64("id", id), zap.Error(err))
		return nil, domain.ErrProviderNotFound
	}

	return provider, nil
}

func (s *ProviderServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	provider, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrProviderNotFound
	}

	return provider, nil
}

func (s *ProviderServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateProviderDTO) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrProviderNotFound
	}

	err = s.repo.Update(ctx, id, dto)
	if err != nil {
		s.logger.Error("ошибка обновления специалиста", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении специалиста")
	}

	return nil
}

func (s *ProviderServiceImpl) Delete(ctx context.Context, id int64) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ErrProviderNotFound
	}

	err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления специалиста", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении специалиста")
	}

	return nil
}

func (s *ProviderServiceImpl) List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	providers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка специалистов", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка при получении списка специалистов: %w", err)
	}

	return providers, total, nil
}

func (s *ProviderServiceImpl) UploadProfilePhoto(ctx context.Context, providerID int64, photo []byte, filename string) error {
	provider, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		return domain.ErrProviderNotFound
	}

	if s.fileStorage == nil {
		return errors.New("файловое хранилище не настроено")
	}

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото", zap.Int64("providerId", providerID), zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	if provider.PhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, provider.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить старое фото", zap.String("url", provider.PhotoURL), zap.Error(err))
		}
	}

	err = s.repo.UpdateProfilePhoto(ctx, providerID, url)
	if err != nil {
		s.logger.Error("ошибка сохранения URL фото", zap.Int64("providerId", providerID), zap.Error(err))
		return errors.New("ошибка при загрузке фото")
	}

	return nil
}

func (s *ProviderServiceImpl) DeleteProfilePhoto(ctx context.Context, providerID int64) error {
	provider, err := s.repo.GetByID(ctx, providerID)
	if err != nil {
		return domain.ErrProviderNotFound
	}

	if provider.PhotoURL == "" {
		return nil
	}

	if s.fileStorage != nil {
		if err := s.fileStorage.DeleteFile(ctx, provider.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить фото из хранилища", zap.String("url", provider.PhotoURL), zap.Error(err))
		}
	}

	err = s.repo.UpdateProfilePhoto(ctx, providerID, "")
	if err != nil {
		s.logger.Error("ошибка очистки URL фото", zap.Int64("providerId", providerID), zap.Error(err))
		return errors.New("ошибка при удалении фото")
	}

	return nil
}

func (s *ProviderServiceImpl) AddService(ctx context.Context, providerID, serviceID int64) error {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return domain.ErrProviderNotFound
	}

	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return domain.ErrServiceNotFound
	}

	err := s.repo.AddService(ctx, providerID, serviceID)
	if err != nil {
		s.logger.Error("ошибка привязки услуги", zap.Int64("providerId", providerID), zap.Int64("serviceId", serviceID), zap.Error(err))
		return errors.New("ошибка при привязке услуги")
	}

	return nil
}

func (s *ProviderServiceImpl) RemoveService(ctx context.Context, providerID, serviceID int64) error {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return domain.ErrProviderNotFound
	}

	err := s.repo.RemoveService(ctx, providerID, serviceID)
	if err != nil {
		s.logger.Error("ошибка отвязки услуги", zap.Int64("providerId", providerID), zap.Int64("serviceId", serviceID), zap.Error(err))
		return errors.New("ошибка при отвязке услуги")
	}

	return nil
}

func (s *ProviderServiceImpl) GetWorkingPlan(ctx context.Context, providerID int64) (*domain.WorkingPlan, error) {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return nil, domain.ErrProviderNotFound
	}

	plan, err := s.repo.GetWorkingPlan(ctx, providerID)
	if err != nil {
		s.logger.Error("ошибка получения рабочего плана", zap.Int64("providerId", providerID), zap.Error(err))
		return nil, errors.New("ошибка при получении рабочего плана")
	}

	if plan == nil {
		return &domain.WorkingPlan{ProviderID: providerID}, nil
	}

	settings, err := s.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		s.logger.Warn("ошибка получения настроек, используется порядок с понедельника", zap.Error(err))
		return plan, nil
	}

	sortDaysFromWeekday(plan.Days, settings.FirstWeekday)

	return plan, nil
}

// sortDaysFromWeekday упорядочивает дни недели начиная с заданного дня,
// как они отображаются в календаре.
func sortDaysFromWeekday(days []domain.WorkingDay, first time.Weekday) {
	rank := func(w time.Weekday) int {
		return (int(w) - int(first) + 7) % 7
	}

	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && rank(days[j].Weekday) < rank(days[j-1].Weekday); j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}

func (s *ProviderServiceImpl) SetWorkingPlan(ctx context.Context, providerID int64, dto domain.UpdateWorkingPlanDTO) error {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return domain.ErrProviderNotFound
	}

	days := make([]domain.WorkingDay, 0, len(dto.Days))
	seen := make(map[int]bool)

	for _, d := range dto.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return errors.New("некорректный день недели")
		}

		if seen[d.Weekday] {
			return errors.New("день недели указан дважды")
		}
		seen[d.Weekday] = true

		start, err := parseDayTime(d.StartTime)
		if err != nil {
			return errors.New("некорректное время начала работы")
		}

		end, err := parseDayTime(d.EndTime)
		if err != nil {
			return errors.New("некорректное время окончания работы")
		}

		if !start.Before(end) {
			return errors.New("время начала работы должно быть раньше окончания")
		}

		if err := validateBreaks(d.Breaks, start, end); err != nil {
			return err
		}

		days = append(days, domain.WorkingDay{
			Weekday:   time.Weekday(d.Weekday),
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Breaks:    d.Breaks,
		})
	}

	err := s.repo.SetWorkingPlan(ctx, providerID, days)
	if err != nil {
		s.logger.Error("ошибка сохранения рабочего плана", zap.Int64("providerId", providerID), zap.Error(err))
		return errors.New("ошибка при сохранении рабочего плана")
	}

	return nil
}

func parseDayTime(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}

func validateBreaks(breaks []domain.Break, start, end time.Time) error {
	for _, b := range breaks {
		bs, err := parseDayTime(b.StartTime)
		if err != nil {
			return errors.New("некорректное время начала перерыва")
		}

		be, err := parseDayTime(b.EndTime)
		if err != nil {
			return errors.New("некорректное время окончания перерыва")
		}

		if !bs.Before(be) {
			return errors.New("время начала перерыва должно быть раньше окончания")
		}

		if bs.Before(start) || be.After(end) {
			return errors.New("перерыв выходит за пределы рабочего дня")
		}
	}

	return nil
}

func (s *ProviderServiceImpl) CreateException(ctx context.Context, providerID int64, dto domain.CreateExceptionDTO) (int64, error) {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return 0, domain.ErrProviderNotFound
	}

	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return 0, domain.ErrInvalidDate
	}

	exception := domain.WorkingPlanException{
		ProviderID: providerID,
		Date:       date,
		IsWorking:  dto.IsWorking,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
		Breaks:     dto.Breaks,
	}

	if dto.IsWorking {
		start, err := parseDayTime(dto.StartTime)
		if err != nil {
			return 0, errors.New("некорректное время начала работы")
		}

		end, err := parseDayTime(dto.EndTime)
		if err != nil {
			return 0, errors.New("некорректное время окончания работы")
		}

		if !start.Before(end) {
			return 0, errors.New("время начала работы должно быть раньше окончания")
		}

		if err := validateBreaks(dto.Breaks, start, end); err != nil {
			return 0, err
		}
	}

	id, err := s.repo.CreateException(ctx, exception)
	if err != nil {
		s.logger.Error("ошибка создания исключения расписания", zap.Int64("providerId", providerID), zap.Error(err))
		return 0, errors.New("ошибка при создании исключения расписания")
	}

	return id, nil
}

func (s *ProviderServiceImpl) GetExceptionByID(ctx context.Context, id int64) (*domain.WorkingPlanException, error) {
	exception, err := s.repo.GetExceptionByID(ctx, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	return exception, nil
}

func (s *ProviderServiceImpl) UpdateException(ctx context.Context, id int64, dto domain.UpdateExceptionDTO) error {
	exception, err := s.repo.GetExceptionByID(ctx, id)
	if err != nil {
		return domain.ErrNotFound
	}

	if dto.IsWorking != nil {
		exception.IsWorking = *dto.IsWorking
	}
	if dto.StartTime != nil {
		exception.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		exception.EndTime = *dto.EndTime
	}
	if dto.Breaks != nil {
		exception.Breaks = *dto.Breaks
	}

	if exception.IsWorking {
		start, err := parseDayTime(exception.StartTime)
		if err != nil {
			return errors.New("некорректное время начала работы")
		}

		end, err := parseDayTime(exception.EndTime)
		if err != nil {
			return errors.New("некорректное время окончания работы")
		}

		if !start.Before(end) {
			return errors.New("время начала работы должно быть раньше окончания")
		}

		if err := validateBreaks(exception.Breaks, start, end); err != nil {
			return err
		}
	}

	err = s.repo.UpdateException(ctx, *exception)
	if err != nil {
		s.logger.Error("ошибка обновления исключения расписания", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при обновлении исключения расписания")
	}

	return nil
}

func (s *ProviderServiceImpl) DeleteException(ctx context.Context, id int64) error {
	if _, err := s.repo.GetExceptionByID(ctx, id); err != nil {
		return domain.ErrNotFound
	}

	err := s.repo.DeleteException(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления исключения расписания", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка при удалении исключения расписания")
	}

	return nil
}

func (s *ProviderServiceImpl) ListExceptions(ctx context.Context, providerID int64, from, to time.Time) ([]domain.WorkingPlanException, error) {
	if _, err := s.repo.GetByID(ctx, providerID); err != nil {
		return nil, domain.ErrProviderNotFound
	}

	exceptions, err := s.repo.ListExceptions(ctx, providerID, from, to)
	if err != nil {
		s.logger.Error("ошибка получения исключений расписания", zap.Int64("providerId", providerID), zap.Error(err))
		return nil, errors.New("ошибка при получении исключений расписания")
	}

	return exceptions, nil
}
