package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
)

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeProviderRepo struct {
	providers  map[int64]*domain.Provider
	services   map[int64]map[int64]bool
	plans      map[int64]*domain.WorkingPlan
	exceptions map[int64][]domain.WorkingPlanException
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		providers:  make(map[int64]*domain.Provider),
		services:   make(map[int64]map[int64]bool),
		plans:      make(map[int64]*domain.WorkingPlan),
		exceptions: make(map[int64][]domain.WorkingPlanException),
	}
}

func (r *fakeProviderRepo) addProvider(id int64, serviceIDs ...int64) {
	r.providers[id] = &domain.Provider{ID: id, UserID: id, IsActive: true}
	r.services[id] = make(map[int64]bool)
	for _, sid := range serviceIDs {
		r.services[id][sid] = true
	}
}

func (r *fakeProviderRepo) Create(ctx context.Context, userID int64, dto domain.CreateProviderDTO) (int64, error) {
	return 0, errors.New("не используется в тестах")
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeProviderRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeProviderRepo) Update(ctx context.Context, id int64, dto domain.UpdateProviderDTO) error {
	return nil
}

func (r *fakeProviderRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeProviderRepo) List(ctx context.Context, filter domain.ProviderFilter) ([]domain.Provider, int, error) {
	return nil, 0, nil
}

func (r *fakeProviderRepo) ListByService(ctx context.Context, serviceID int64) ([]domain.Provider, error) {
	var result []domain.Provider
	for id, p := range r.providers {
		if r.services[id][serviceID] {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeProviderRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	return nil
}

func (r *fakeProviderRepo) AddService(ctx context.Context, providerID, serviceID int64) error {
	r.services[providerID][serviceID] = true
	return nil
}

func (r *fakeProviderRepo) RemoveService(ctx context.Context, providerID, serviceID int64) error {
	delete(r.services[providerID], serviceID)
	return nil
}

func (r *fakeProviderRepo) ProvidesService(ctx context.Context, providerID, serviceID int64) (bool, error) {
	return r.services[providerID][serviceID], nil
}

func (r *fakeProviderRepo) GetWorkingPlan(ctx context.Context, providerID int64) (*domain.WorkingPlan, error) {
	return r.plans[providerID], nil
}

func (r *fakeProviderRepo) SetWorkingPlan(ctx context.Context, providerID int64, days []domain.WorkingDay) error {
	r.plans[providerID] = &domain.WorkingPlan{ProviderID: providerID, Days: days}
	return nil
}

func (r *fakeProviderRepo) CreateException(ctx context.Context, exception domain.WorkingPlanException) (int64, error) {
	r.exceptions[exception.ProviderID] = append(r.exceptions[exception.ProviderID], exception)
	return int64(len(r.exceptions[exception.ProviderID])), nil
}

func (r *fakeProviderRepo) GetExceptionByID(ctx context.Context, id int64) (*domain.WorkingPlanException, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeProviderRepo) UpdateException(ctx context.Context, exception domain.WorkingPlanException) error {
	return nil
}

func (r *fakeProviderRepo) DeleteException(ctx context.Context, id int64) error { return nil }

func (r *fakeProviderRepo) ListExceptions(ctx context.Context, providerID int64, from, to time.Time) ([]domain.WorkingPlanException, error) {
	var result []domain.WorkingPlanException
	for _, e := range r.exceptions[providerID] {
		if !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (r *fakeServiceRepo) Create(ctx context.Context, dto domain.CreateServiceDTO) (int64, error) {
	return 0, errors.New("не используется в тестах")
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return s, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, id int64, dto domain.UpdateServiceDTO) error {
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id int64) error { return nil }

func (r *fakeServiceRepo) List(ctx context.Context, limit, offset int) ([]domain.Service, int, error) {
	return nil, 0, nil
}

type fakeAppointmentRepo struct {
	appointments []domain.Appointment
	nextID       int64
	// staleWindow заставляет ListInWindow возвращать пустой результат:
	// расчет доступности видит устаревшую картину, как у второго из двух
	// одновременных клиентов, пока проверка в Create видит актуальную.
	staleWindow bool
}

// Create повторяет контракт хранилища: проверка конфликтов и вставка
// атомарны, при занятом интервале возвращается domain.ErrSlotTaken.
func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment domain.Appointment, attendants int) (int64, error) {
	if attendants < 1 {
		attendants = 1
	}

	if !appointment.IsUnavailability {
		overlapping := 0
		for _, a := range r.appointments {
			if a.ProviderID != appointment.ProviderID || a.Status == domain.AppointmentStatusCancelled {
				continue
			}
			if !a.StartDatetime.Before(appointment.EndDatetime) || !a.EndDatetime.After(appointment.StartDatetime) {
				continue
			}
			if a.IsUnavailability {
				return 0, domain.ErrSlotTaken
			}
			overlapping++
		}
		if overlapping >= attendants {
			return 0, domain.ErrSlotTaken
		}
	}

	r.nextID++
	appointment.ID = r.nextID
	r.appointments = append(r.appointments, appointment)
	return appointment.ID, nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			return &r.appointments[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			r.appointments[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id int64) error {
	return r.UpdateStatus(ctx, id, domain.AppointmentStatusCancelled)
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	return r.appointments, nil
}

func (r *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	return len(r.appointments), nil
}

func (r *fakeAppointmentRepo) ListInWindow(ctx context.Context, providerID int64, from, to time.Time) ([]domain.Appointment, error) {
	if r.staleWindow {
		return nil, nil
	}

	var result []domain.Appointment
	for _, a := range r.appointments {
		if a.ProviderID != providerID || a.Status == domain.AppointmentStatusCancelled {
			continue
		}
		if a.StartDatetime.Before(to) && a.EndDatetime.After(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeSettingsRepo struct {
	settings domain.BookingSettings
}

func (r *fakeSettingsRepo) GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error) {
	s := r.settings
	return &s, nil
}

func (r *fakeSettingsRepo) UpdateBookingSettings(ctx context.Context, dto domain.UpdateBookingSettingsDTO) error {
	return nil
}

type fixture struct {
	providers    *fakeProviderRepo
	services     *fakeServiceRepo
	appointments *fakeAppointmentRepo
	settings     *fakeSettingsRepo
	availability *AvailabilityServiceImpl
	appointment  *AppointmentServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	providers := newFakeProviderRepo()
	services := &fakeServiceRepo{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Стрижка", Duration: 30, Attendants: 1, AvailabilityType: domain.AvailabilityTypeFlexible, IsActive: true},
	}}
	appointments := &fakeAppointmentRepo{}
	settings := &fakeSettingsRepo{settings: domain.BookingSettings{
		AdvanceTimeout:  30,
		SlotGranularity: 30,
		FirstWeekday:    time.Monday,
	}}

	cfg := config.BookingConfig{Timezone: "UTC"}
	logger := zap.NewNop()

	availabilitySvc := NewAvailabilityService(providers, services, appointments, settings, cfg, logger)
	availabilitySvc.now = func() time.Time { return monday }

	appointmentSvc := NewAppointmentService(appointments, providers, services, availabilitySvc, cfg, logger)

	return &fixture{
		providers:    providers,
		services:     services,
		appointments: appointments,
		settings:     settings,
		availability: availabilitySvc,
		appointment:  appointmentSvc,
	}
}

func (f *fixture) addWorkingProvider(id int64) {
	f.providers.addProvider(id, 1)
	f.providers.plans[id] = &domain.WorkingPlan{
		ProviderID: id,
		Days: []domain.WorkingDay{
			{Weekday: time.Monday, StartTime: "09:00", EndTime: "17:00"},
		},
	}
}

func TestGetAvailableSlotsSingleProvider(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	providerID := int64(1)
	slots, err := f.availability.GetAvailableSlots(context.Background(), 1, &providerID, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(slots) != 16 {
		t.Fatalf("ожидалось 16 слотов, получено %d", len(slots))
	}

	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if !slots[0].StartDatetime.Equal(first) {
		t.Errorf("первый слот %v, ожидался %v", slots[0].StartDatetime, first)
	}

	for _, slot := range slots {
		if slot.ProviderID != 1 {
			t.Errorf("слот %v назначен специалисту %d", slot.StartDatetime, slot.ProviderID)
		}
		if got := slot.EndDatetime.Sub(slot.StartDatetime); got != 30*time.Minute {
			t.Errorf("длительность слота %v", got)
		}
	}
}

func TestGetAvailableSlotsInvalidDate(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	_, err := f.availability.GetAvailableSlots(context.Background(), 1, nil, "10.03.2025")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("ожидалась ErrInvalidDate, получено %v", err)
	}
}

func TestGetAvailableSlotsUnknownService(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	_, err := f.availability.GetAvailableSlots(context.Background(), 99, nil, "2025-03-10")
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("ожидалась ErrServiceNotFound, получено %v", err)
	}
}

func TestGetAvailableSlotsServiceNotProvided(t *testing.T) {
	f := newFixture(t)
	f.providers.addProvider(1)

	providerID := int64(1)
	_, err := f.availability.GetAvailableSlots(context.Background(), 1, &providerID, "2025-03-10")
	if !errors.Is(err, domain.ErrServiceNotProvided) {
		t.Fatalf("ожидалась ErrServiceNotProvided, получено %v", err)
	}
}

func TestGetAvailableSlotsUnknownProvider(t *testing.T) {
	f := newFixture(t)

	providerID := int64(7)
	_, err := f.availability.GetAvailableSlots(context.Background(), 1, &providerID, "2025-03-10")
	if !errors.Is(err, domain.ErrProviderNotFound) {
		t.Fatalf("ожидалась ErrProviderNotFound, получено %v", err)
	}
}

func TestGetAvailableSlotsBookedExcluded(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	f.appointments.appointments = append(f.appointments.appointments, domain.Appointment{
		ID:            1,
		ProviderID:    1,
		StartDatetime: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC),
		Status:        domain.AppointmentStatusConfirmed,
	})
	f.appointments.nextID = 1

	providerID := int64(1)
	slots, err := f.availability.GetAvailableSlots(context.Background(), 1, &providerID, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(slots) != 15 {
		t.Fatalf("ожидалось 15 слотов, получено %d", len(slots))
	}

	taken := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	for _, slot := range slots {
		if slot.StartDatetime.Equal(taken) {
			t.Fatalf("занятый слот %v попал в выдачу", taken)
		}
	}
}

func TestGetAvailableSlotsAnyProviderPrefersLessBusy(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)
	f.addWorkingProvider(2)

	// У первого специалиста уже есть запись, агрегатор должен отдавать
	// пересекающиеся слоты менее загруженному.
	f.appointments.appointments = append(f.appointments.appointments, domain.Appointment{
		ID:            1,
		ProviderID:    1,
		StartDatetime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Status:        domain.AppointmentStatusConfirmed,
	})
	f.appointments.nextID = 1

	slots, err := f.availability.GetAvailableSlots(context.Background(), 1, nil, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(slots) != 16 {
		t.Fatalf("ожидалось 16 слотов, получено %d", len(slots))
	}

	for _, slot := range slots {
		if slot.ProviderID != 2 {
			t.Errorf("слот %v назначен специалисту %d, ожидался 2", slot.StartDatetime, slot.ProviderID)
		}
	}
}

func TestGetAvailableSlotsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)
	f.addWorkingProvider(2)

	first, err := f.availability.GetAvailableSlots(context.Background(), 1, nil, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	second, err := f.availability.GetAvailableSlots(context.Background(), 1, nil, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("повторный запрос вернул %d слотов вместо %d", len(second), len(first))
	}

	for i := range first {
		if !first[i].StartDatetime.Equal(second[i].StartDatetime) || first[i].ProviderID != second[i].ProviderID {
			t.Errorf("слот %d отличается: %+v против %+v", i, first[i], second[i])
		}
	}
}

func TestAppointmentCreateBooksComputedSlot(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	id, err := f.appointment.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ServiceID:     1,
		StartDatetime: start,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	created, err := f.appointments.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("запись не сохранена: %v", err)
	}

	if created.ProviderID != 1 {
		t.Errorf("специалист %d, ожидался 1", created.ProviderID)
	}
	if want := start.Add(30 * time.Minute); !created.EndDatetime.Equal(want) {
		t.Errorf("окончание %v, ожидалось %v", created.EndDatetime, want)
	}
	if created.Status != domain.AppointmentStatusPending {
		t.Errorf("статус %s, ожидался pending", created.Status)
	}
}

func TestAppointmentCreateOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	providerID := int64(1)
	_, err := f.appointment.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ServiceID:     1,
		ProviderID:    &providerID,
		StartDatetime: time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("ожидалась ErrSlotTaken, получено %v", err)
	}
}

func TestAppointmentCreateTakenSlot(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	start := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	providerID := int64(1)

	if _, err := f.appointment.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ServiceID:     1,
		ProviderID:    &providerID,
		StartDatetime: start,
	}); err != nil {
		t.Fatalf("первая бронь не удалась: %v", err)
	}

	_, err := f.appointment.Create(context.Background(), 6, domain.CreateAppointmentDTO{
		ServiceID:     1,
		ProviderID:    &providerID,
		StartDatetime: start,
	})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("ожидалась ErrSlotTaken, получено %v", err)
	}
}

// Два клиента бронируют один слот почти одновременно: второй прошел расчет
// доступности до того, как первый вставил запись. Пропустить его должна не
// предварительная проверка, а атомарная проверка занятости в хранилище.
func TestAppointmentCreateStaleAvailabilityRejected(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	start := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	providerID := int64(1)

	if _, err := f.appointment.Create(context.Background(), 5, domain.CreateAppointmentDTO{
		ServiceID:     1,
		ProviderID:    &providerID,
		StartDatetime: start,
	}); err != nil {
		t.Fatalf("первая бронь не удалась: %v", err)
	}

	f.appointments.staleWindow = true

	_, err := f.appointment.Create(context.Background(), 6, domain.CreateAppointmentDTO{
		ServiceID:     1,
		ProviderID:    &providerID,
		StartDatetime: start,
	})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("ожидалась ErrSlotTaken, получено %v", err)
	}

	count := 0
	for _, a := range f.appointments.appointments {
		if !a.IsUnavailability {
			count++
		}
	}
	if count != 1 {
		t.Errorf("сохранено %d записей, ожидалась 1", count)
	}
}

func TestUnavailabilityBlocksSlots(t *testing.T) {
	f := newFixture(t)
	f.addWorkingProvider(1)

	_, err := f.appointment.CreateUnavailability(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartDatetime: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	providerID := int64(1)
	slots, err := f.availability.GetAvailableSlots(context.Background(), 1, &providerID, "2025-03-10")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	for _, slot := range slots {
		if !slot.StartDatetime.Before(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)) {
			continue
		}
		if slot.EndDatetime.After(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("слот %v пересекает недоступность", slot.StartDatetime)
		}
	}
}
