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

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Create(ctx context.Context, appointment domain.Appointment, attendants int) (int64, error) {
	if attendants < 1 {
		attendants = 1
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокировка расписания специалиста до конца транзакции. Без нее две
	// параллельные транзакции под READ COMMITTED обе увидят свободный слот
	// и обе вставят запись: проверка и вставка должны быть атомарными.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, appointment.ProviderID); err != nil {
		return 0, fmt.Errorf("ошибка блокировки расписания специалиста: %w", err)
	}

	// Повторная проверка конфликтов внутри транзакции: между вычислением
	// доступных слотов и подтверждением брони другой клиент мог занять
	// то же время. Недоступности блокируют интервал независимо от вместимости.
	if !appointment.IsUnavailability {
		var blocked bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM appointments
				WHERE provider_id = $1
				  AND is_unavailability = true
				  AND status != 'cancelled'
				  AND start_datetime < $3
				  AND end_datetime > $2
			)
		`, appointment.ProviderID, appointment.StartDatetime, appointment.EndDatetime).Scan(&blocked)
		if err != nil {
			return 0, fmt.Errorf("ошибка проверки недоступности: %w", err)
		}
		if blocked {
			return 0, domain.ErrSlotTaken
		}

		var overlapping int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM appointments
			WHERE provider_id = $1
			  AND is_unavailability = false
			  AND status != 'cancelled'
			  AND start_datetime < $3
			  AND end_datetime > $2
		`, appointment.ProviderID, appointment.StartDatetime, appointment.EndDatetime).Scan(&overlapping)
		if err != nil {
			return 0, fmt.Errorf("ошибка проверки занятости слота: %w", err)
		}
		if overlapping >= attendants {
			return 0, domain.ErrSlotTaken
		}
	}

	query := `
		INSERT INTO appointments (provider_id, service_id, client_id, start_datetime, end_datetime, status, is_unavailability, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		appointment.ProviderID,
		appointment.ServiceID,
		appointment.ClientID,
		appointment.StartDatetime,
		appointment.EndDatetime,
		appointment.Status,
		appointment.IsUnavailability,
		appointment.Notes,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

const appointmentColumns = `
	a.id, a.provider_id, a.service_id, a.client_id, a.start_datetime, a.end_datetime,
	a.status, a.is_unavailability, COALESCE(a.notes, ''), a.created_at, a.updated_at
`

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments a
		WHERE a.id = $1
	`, appointmentColumns)

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return appointment, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Status != nil {
		updateFields = append(updateFields, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *dto.Status)
		argCount++
	}

	if dto.Notes != nil {
		updateFields = append(updateFields, fmt.Sprintf("notes = $%d", argCount))
		args = append(args, *dto.Notes)
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
		UPDATE appointments
		SET %s
		WHERE id = $%d
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	return r.UpdateStatus(ctx, id, domain.AppointmentStatusCancelled)
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	baseQuery := fmt.Sprintf(`
		SELECT %s
		FROM appointments a
	`, appointmentColumns)

	conditions, args := filterConditions(filter)

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.start_datetime DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	query := `SELECT COUNT(*) FROM appointments a`

	conditions, args := filterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

func filterConditions(filter domain.AppointmentFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.ProviderID != nil {
		conditions = append(conditions, fmt.Sprintf("a.provider_id = $%d", argCount))
		args = append(args, *filter.ProviderID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_datetime >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_datetime <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	return conditions, args
}

func (r *AppointmentRepo) ListInWindow(ctx context.Context, providerID int64, from, to time.Time) ([]domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments a
		WHERE a.provider_id = $1
		  AND a.status != 'cancelled'
		  AND a.start_datetime < $3
		  AND a.end_datetime > $2
		ORDER BY a.start_datetime
	`, appointmentColumns)

	rows, err := r.db.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения занятых интервалов: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return appointments, nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.ProviderID,
		&appointment.ServiceID,
		&appointment.ClientID,
		&appointment.StartDatetime,
		&appointment.EndDatetime,
		&appointment.Status,
		&appointment.IsUnavailability,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}
