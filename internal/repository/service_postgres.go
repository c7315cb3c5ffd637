package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type ServiceRepo struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	attendants := dto.Attendants
	if attendants < 1 {
		attendants = 1
	}
	availabilityType := dto.AvailabilityType
	if availabilityType == "" {
		availabilityType = domain.AvailabilityTypeFlexible
	}

	query := `
		INSERT INTO services (name, description, duration, price, attendants_number, availability_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.Name,
		dto.Description,
		dto.Duration,
		dto.Price,
		attendants,
		availabilityType,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания услуги: %w", err)
	}

	return id, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	query := `
		SELECT id, name, description, duration, price, attendants_number, availability_type, is_active, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	var service domain.Service
	err := r.db.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.Duration,
		&service.Price,
		&service.Attendants,
		&service.AvailabilityType,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("ошибка получения услуги: %w", err)
	}

	return &service, nil
}

func (r *ServiceRepo) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
		argCount++
	}

	if dto.Duration != nil {
		updateFields = append(updateFields, fmt.Sprintf("duration = $%d", argCount))
		args = append(args, *dto.Duration)
		argCount++
	}

	if dto.Price != nil {
		updateFields = append(updateFields, fmt.Sprintf("price = $%d", argCount))
		args = append(args, *dto.Price)
		argCount++
	}

	if dto.Attendants != nil {
		updateFields = append(updateFields, fmt.Sprintf("attendants_number = $%d", argCount))
		args = append(args, *dto.Attendants)
		argCount++
	}

	if dto.AvailabilityType != nil {
		updateFields = append(updateFields, fmt.Sprintf("availability_type = $%d", argCount))
		args = append(args, *dto.AvailabilityType)
		argCount++
	}

	if dto.IsActive != nil {
		updateFields = append(updateFields, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *dto.IsActive)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE services
		SET %s
		WHERE id = $%d
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления услуги: %w", err)
	}

	return nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE services
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка удаления услуги: %w", err)
	}

	return nil
}

func (r *ServiceRepo) List(ctx context.Context, limit, offset int) ([]domain.Service, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета услуг: %w", err)
	}

	query := `
		SELECT id, name, description, duration, price, attendants_number, availability_type, is_active, created_at, updated_at
		FROM services
		WHERE is_active = true
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка услуг: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(
			&service.ID,
			&service.Name,
			&service.Description,
			&service.Duration,
			&service.Price,
			&service.Attendants,
			&service.AvailabilityType,
			&service.IsActive,
			&service.CreatedAt,
			&service.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки услуги: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return services, total, nil
}
