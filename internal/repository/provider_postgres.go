package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

type ProviderRepo struct {
	db *pgxpool.Pool
}

func NewProviderRepository(db *pgxpool.Pool) *ProviderRepo {
	return &ProviderRepo{db: db}
}

func (r *ProviderRepo) Create(ctx context.Context, userID int64, dto domain.CreateProviderDTO) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO providers (user_id, description, is_active, created_at, updated_at)
		VALUES ($1, $2, true, $3, $3)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query, userID, dto.Description, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания специалиста: %w", err)
	}

	for _, serviceID := range dto.ServiceIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO provider_services (provider_id, service_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, serviceID,
		)
		if err != nil {
			return 0, fmt.Errorf("ошибка привязки услуги к специалисту: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	return r.getByField(ctx, "p.id", id)
}

func (r *ProviderRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	return r.getByField(ctx, "p.user_id", userID)
}

func (r *ProviderRepo) getByField(ctx context.Context, field string, value interface{}) (*domain.Provider, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.user_id, p.description, COALESCE(p.photo_url, ''), p.is_active, p.created_at, p.updated_at,
		       u.first_name, u.last_name, u.phone
		FROM providers p
		JOIN users u ON p.user_id = u.id
		WHERE %s = $1
	`, field)

	var provider domain.Provider
	err := r.db.QueryRow(ctx, query, value).Scan(
		&provider.ID,
		&provider.UserID,
		&provider.Description,
		&provider.PhotoURL,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
		&provider.FirstName,
		&provider.LastName,
		&provider.Phone,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProviderNotFound
		}
		return nil, fmt.Errorf("ошибка получения специалиста: %w", err)
	}

	serviceIDs, err := r.serviceIDs(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	provider.ServiceIDs = serviceIDs

	return &provider, nil
}

func (r *ProviderRepo) serviceIDs(ctx context.Context, providerID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT service_id FROM provider_services WHERE provider_id = $1 ORDER BY service_id`,
		providerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения услуг специалиста: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования услуги: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *ProviderRepo) Update(ctx context.Context, id int64, dto domain.UpdateProviderDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
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
		UPDATE providers
		SET %s
		WHERE id = $%d
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления специалиста: %w", err)
	}

	return nil
}

func (r *ProviderRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE providers
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка удаления специалиста: %w", err)
	}

	return nil
}

func (r *ProviderRepo) List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	conditions := []string{"p.is_active = true"}
	var args []interface{}
	argCount := 1

	if filter.ServiceID != nil {
		conditions = append(conditions,
			fmt.Sprintf("EXISTS (SELECT 1 FROM provider_services ps WHERE ps.provider_id = p.id AND ps.service_id = $%d)", argCount))
		args = append(args, *filter.ServiceID)
		argCount++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM providers p %s`, whereClause)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета специалистов: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.user_id, p.description, COALESCE(p.photo_url, ''), p.is_active, p.created_at, p.updated_at,
		       u.first_name, u.last_name, u.phone
		FROM providers p
		JOIN users u ON p.user_id = u.id
		%s
		ORDER BY p.id
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка специалистов: %w", err)
	}
	defer rows.Close()

	providers, err := scanProviders(rows)
	if err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

func (r *ProviderRepo) ListByService(ctx context.Context, serviceID int64) ([]domain.Provider, error) {
	query := `
		SELECT p.id, p.user_id, p.description, COALESCE(p.photo_url, ''), p.is_active, p.created_at, p.updated_at,
		       u.first_name, u.last_name, u.phone
		FROM providers p
		JOIN users u ON p.user_id = u.id
		JOIN provider_services ps ON ps.provider_id = p.id
		WHERE ps.service_id = $1 AND p.is_active = true
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения специалистов по услуге: %w", err)
	}
	defer rows.Close()

	return scanProviders(rows)
}

func scanProviders(rows pgx.Rows) ([]domain.Provider, error) {
	var providers []domain.Provider
	for rows.Next() {
		var provider domain.Provider
		if err := rows.Scan(
			&provider.ID,
			&provider.UserID,
			&provider.Description,
			&provider.PhotoURL,
			&provider.IsActive,
			&provider.CreatedAt,
			&provider.UpdatedAt,
			&provider.FirstName,
			&provider.LastName,
			&provider.Phone,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки специалиста: %w", err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return providers, nil
}

func (r *ProviderRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `
		UPDATE providers
		SET photo_url = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото специалиста: %w", err)
	}

	return nil
}

func (r *ProviderRepo) AddService(ctx context.Context, providerID, serviceID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO provider_services (provider_id, service_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		providerID, serviceID,
	)
	if err != nil {
		return fmt.Errorf("ошибка привязки услуги: %w", err)
	}
	return nil
}

func (r *ProviderRepo) RemoveService(ctx context.Context, providerID, serviceID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM provider_services WHERE provider_id = $1 AND service_id = $2`,
		providerID, serviceID,
	)
	if err != nil {
		return fmt.Errorf("ошибка отвязки услуги: %w", err)
	}
	return nil
}

func (r *ProviderRepo) ProvidesService(ctx context.Context, providerID, serviceID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM provider_services WHERE provider_id = $1 AND service_id = $2)`,
		providerID, serviceID,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("ошибка проверки услуги специалиста: %w", err)
	}

	return exists, nil
}

func (r *ProviderRepo) GetWorkingPlan(ctx context.Context, providerID int64) (*domain.WorkingPlan, error) {
	query := `
		SELECT weekday, start_time, end_time, breaks, updated_at
		FROM working_plan_days
		WHERE provider_id = $1
		ORDER BY weekday
	`

	rows, err := r.db.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения рабочего плана: %w", err)
	}
	defer rows.Close()

	plan := domain.WorkingPlan{ProviderID: providerID}
	for rows.Next() {
		var day domain.WorkingDay
		var weekday int
		var breaksJSON []byte
		var updatedAt time.Time

		if err := rows.Scan(&weekday, &day.StartTime, &day.EndTime, &breaksJSON, &updatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования дня рабочего плана: %w", err)
		}

		day.Weekday = time.Weekday(weekday)
		if len(breaksJSON) > 0 {
			if err := json.Unmarshal(breaksJSON, &day.Breaks); err != nil {
				return nil, fmt.Errorf("ошибка разбора перерывов: %w", err)
			}
		}
		if updatedAt.After(plan.UpdatedAt) {
			plan.UpdatedAt = updatedAt
		}

		plan.Days = append(plan.Days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	if len(plan.Days) == 0 {
		return nil, nil
	}

	return &plan, nil
}

func (r *ProviderRepo) SetWorkingPlan(ctx context.Context, providerID int64, days []domain.WorkingDay) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM working_plan_days WHERE provider_id = $1`, providerID)
	if err != nil {
		return fmt.Errorf("ошибка очистки рабочего плана: %w", err)
	}

	for _, day := range days {
		breaksJSON, err := json.Marshal(day.Breaks)
		if err != nil {
			return fmt.Errorf("ошибка сериализации перерывов: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO working_plan_days (provider_id, weekday, start_time, end_time, breaks, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, providerID, int(day.Weekday), day.StartTime, day.EndTime, breaksJSON, time.Now())
		if err != nil {
			return fmt.Errorf("ошибка сохранения дня рабочего плана: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *ProviderRepo) CreateException(ctx context.Context, exception domain.WorkingPlanException) (int64, error) {
	breaksJSON, err := json.Marshal(exception.Breaks)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации перерывов: %w", err)
	}

	query := `
		INSERT INTO working_plan_exceptions (provider_id, date, is_working, start_time, end_time, breaks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (provider_id, date) DO UPDATE
		SET is_working = EXCLUDED.is_working,
		    start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    breaks = EXCLUDED.breaks,
		    updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id int64
	err = r.db.QueryRow(ctx, query,
		exception.ProviderID,
		exception.Date,
		exception.IsWorking,
		exception.StartTime,
		exception.EndTime,
		breaksJSON,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания исключения рабочего плана: %w", err)
	}

	return id, nil
}

func (r *ProviderRepo) GetExceptionByID(ctx context.Context, id int64) (*domain.WorkingPlanException, error) {
	query := `
		SELECT id, provider_id, date, is_working, start_time, end_time, breaks, created_at, updated_at
		FROM working_plan_exceptions
		WHERE id = $1
	`

	exception, err := scanException(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения исключения: %w", err)
	}

	return exception, nil
}

func (r *ProviderRepo) UpdateException(ctx context.Context, exception domain.WorkingPlanException) error {
	breaksJSON, err := json.Marshal(exception.Breaks)
	if err != nil {
		return fmt.Errorf("ошибка сериализации перерывов: %w", err)
	}

	query := `
		UPDATE working_plan_exceptions
		SET is_working = $1, start_time = $2, end_time = $3, breaks = $4, updated_at = $5
		WHERE id = $6
	`

	_, err = r.db.Exec(ctx, query,
		exception.IsWorking,
		exception.StartTime,
		exception.EndTime,
		breaksJSON,
		time.Now(),
		exception.ID,
	)

	if err != nil {
		return fmt.Errorf("ошибка обновления исключения: %w", err)
	}

	return nil
}

func (r *ProviderRepo) DeleteException(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM working_plan_exceptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления исключения: %w", err)
	}
	return nil
}

func (r *ProviderRepo) ListExceptions(ctx context.Context, providerID int64, from, to time.Time) ([]domain.WorkingPlanException, error) {
	query := `
		SELECT id, provider_id, date, is_working, start_time, end_time, breaks, created_at, updated_at
		FROM working_plan_exceptions
		WHERE provider_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения исключений: %w", err)
	}
	defer rows.Close()

	var exceptions []domain.WorkingPlanException
	for rows.Next() {
		exception, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования исключения: %w", err)
		}
		exceptions = append(exceptions, *exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return exceptions, nil
}

func scanException(row pgx.Row) (*domain.WorkingPlanException, error) {
	var exception domain.WorkingPlanException
	var startTime, endTime *string
	var breaksJSON []byte

	err := row.Scan(
		&exception.ID,
		&exception.ProviderID,
		&exception.Date,
		&exception.IsWorking,
		&startTime,
		&endTime,
		&breaksJSON,
		&exception.CreatedAt,
		&exception.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startTime != nil {
		exception.StartTime = *startTime
	}
	if endTime != nil {
		exception.EndTime = *endTime
	}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &exception.Breaks); err != nil {
			return nil, fmt.Errorf("ошибка разбора перерывов: %w", err)
		}
	}

	return &exception, nil
}
