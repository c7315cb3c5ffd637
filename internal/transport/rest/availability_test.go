package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zapis/config"
	"zapis/internal/domain"
	"zapis/internal/service"
)

type stubAvailability struct {
	slots []domain.Slot
	err   error

	gotServiceID  int64
	gotProviderID *int64
	gotDate       string
}

func (s *stubAvailability) GetAvailableSlots(ctx context.Context, serviceID int64, providerID *int64, date string) ([]domain.Slot, error) {
	s.gotServiceID = serviceID
	s.gotProviderID = providerID
	s.gotDate = date
	return s.slots, s.err
}

func setupAvailabilityRouter(stub *stubAvailability) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(&service.Services{Availability: stub}, zap.NewNop(), &config.Config{})

	router := gin.New()
	h.InitRoutes(router)

	return router
}

func TestGetAvailabilities(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	stub := &stubAvailability{slots: []domain.Slot{
		{StartDatetime: start, EndDatetime: start.Add(30 * time.Minute), ProviderID: 1},
	}}
	router := setupAvailabilityRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availabilities?serviceId=1&providerId=1&date=2025-03-10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидался 200: %s", w.Code, w.Body.String())
	}

	if stub.gotServiceID != 1 {
		t.Errorf("serviceId %d, ожидался 1", stub.gotServiceID)
	}
	if stub.gotProviderID == nil || *stub.gotProviderID != 1 {
		t.Errorf("providerId %v, ожидался 1", stub.gotProviderID)
	}
	if stub.gotDate != "2025-03-10" {
		t.Errorf("дата %q, ожидалась 2025-03-10", stub.gotDate)
	}

	var body struct {
		Status string        `json:"status"`
		Data   []domain.Slot `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("некорректный JSON ответа: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ProviderID != 1 {
		t.Errorf("неожиданное тело ответа: %+v", body)
	}
}

func TestGetAvailabilitiesAnyProvider(t *testing.T) {
	stub := &stubAvailability{}
	router := setupAvailabilityRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availabilities?serviceId=2&providerId=any&date=2025-03-10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидался 200", w.Code)
	}

	if stub.gotProviderID != nil {
		t.Errorf("providerId %v, ожидался nil для any", *stub.gotProviderID)
	}
}

func TestGetAvailabilitiesDefaultsToToday(t *testing.T) {
	stub := &stubAvailability{}
	router := setupAvailabilityRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availabilities?serviceId=1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("статус %d, ожидался 200", w.Code)
	}

	today := time.Now().Format("2006-01-02")
	if stub.gotDate != today {
		t.Errorf("дата %q, ожидалась сегодняшняя %q", stub.gotDate, today)
	}
}

func TestGetAvailabilitiesMissingService(t *testing.T) {
	router := setupAvailabilityRouter(&stubAvailability{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availabilities?date=2025-03-10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("статус %d, ожидался 400", w.Code)
	}
}

func TestGetAvailabilitiesErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"услуга не найдена", domain.ErrServiceNotFound, http.StatusNotFound},
		{"специалист не найден", domain.ErrProviderNotFound, http.StatusNotFound},
		{"услуга не оказывается", domain.ErrServiceNotProvided, http.StatusUnprocessableEntity},
		{"неверная дата", domain.ErrInvalidDate, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAvailabilityRouter(&stubAvailability{err: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/availabilities?serviceId=1&date=2025-03-10", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("статус %d, ожидался %d", w.Code, tt.want)
			}
		})
	}
}
