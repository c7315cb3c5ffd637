package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"zapis/internal/domain"
)

const (
	settingAdvanceTimeout     = "book_advance_timeout"
	settingFutureBookingLimit = "future_booking_limit"
	settingSlotGranularity    = "slot_granularity"
	settingFirstWeekday       = "first_weekday"
)

type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error) {
	rows, err := r.db.Query(ctx, `SELECT name, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения настроек: %w", err)
	}
	defer rows.Close()

	// Значения по умолчанию действуют, пока строка настройки не создана.
	settings := domain.BookingSettings{
		AdvanceTimeout:     30,
		FutureBookingLimit: 0,
		SlotGranularity:    30,
		FirstWeekday:       time.Monday,
	}

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки настройки: %w", err)
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("некорректное значение настройки %s: %w", name, err)
		}

		switch name {
		case settingAdvanceTimeout:
			settings.AdvanceTimeout = n
		case settingFutureBookingLimit:
			settings.FutureBookingLimit = n
		case settingSlotGranularity:
			settings.SlotGranularity = n
		case settingFirstWeekday:
			settings.FirstWeekday = time.Weekday(n)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return &settings, nil
}

func (r *SettingsRepo) UpdateBookingSettings(ctx context.Context, dto domain.UpdateBookingSettingsDTO) error {
	values := map[string]int{}
	if dto.AdvanceTimeout != nil {
		values[settingAdvanceTimeout] = *dto.AdvanceTimeout
	}
	if dto.FutureBookingLimit != nil {
		values[settingFutureBookingLimit] = *dto.FutureBookingLimit
	}
	if dto.SlotGranularity != nil {
		values[settingSlotGranularity] = *dto.SlotGranularity
	}
	if dto.FirstWeekday != nil {
		values[settingFirstWeekday] = *dto.FirstWeekday
	}

	if len(values) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO settings (name, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	for name, value := range values {
		if _, err := tx.Exec(ctx, query, name, strconv.Itoa(value), now); err != nil {
			return fmt.Errorf("ошибка сохранения настройки %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}
