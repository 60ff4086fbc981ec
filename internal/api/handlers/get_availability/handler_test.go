package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/integrations/telemetry"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const endpoint = "/api/booking/availability"

type fakeRepo struct {
	bookings []*domain.ExistingBooking
	err      error
	calls    int
}

func (f *fakeRepo) GetOccupyingByDate(_ context.Context, _ time.Time) ([]*domain.ExistingBooking, error) {
	f.calls++
	return f.bookings, f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingSink struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (s *recordingSink) Track(_ context.Context, event telemetry.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) last(t *testing.T) telemetry.Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.events)
	return s.events[len(s.events)-1]
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    *AvailabilityResponse `json:"data"`
	Error   string                `json:"error"`
}

type fixture struct {
	handler *Handler
	repo    *fakeRepo
	sink    *recordingSink
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &fakeRepo{}
	log := logger.NewNop()
	// воскресенье, 18 октября 2026
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	uc := getAvailability.NewUseCase(repo, getAvailability.DefaultRules(), log).
		WithTimeProvider(fixedTime{now: now})

	sink := &recordingSink{}
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	return &fixture{
		handler: NewHandler(uc, sink, m, log),
		repo:    repo,
		sink:    sink,
		metrics: m,
	}
}

func (f *fixture) post(t *testing.T, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, endpoint, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.HandlePost(rec, req)
	return rec, decode(t, rec)
}

func (f *fixture) get(t *testing.T, query string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.HandleGet(rec, httptest.NewRequest(http.MethodGet, endpoint+"?"+query, nil))
	return rec, decode(t, rec)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandlePost_OpenDay(t *testing.T) {
	f := newFixture(t)

	rec, env := f.post(t, `{"date":"2026-10-19","eventType":"estimate"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	data := env.Data
	assert.Equal(t, "2026-10-19", data.Date)
	assert.Equal(t, "estimate", data.EventType)
	assert.Equal(t, 60, data.Duration)
	assert.True(t, data.BusinessDay)
	assert.Equal(t, 19, data.TotalSlots)
	require.Len(t, data.AvailableSlots, 19)
	assert.Equal(t, "8:00 AM", data.AvailableSlots[0])
	assert.Equal(t, "5:00 PM", data.AvailableSlots[18])
	assert.Equal(t, "19 time slots available", data.Message)
	assert.Equal(t, BusinessHours{
		Start: "8:00",
		End:   "18:00",
		Days:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	}, data.BusinessHours)

	event := f.sink.last(t)
	assert.Equal(t, telemetry.EventAvailabilityChecked, event.Name)
	assert.Equal(t, 19, event.AvailableSlots)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("estimate", outcomeAvailable)))
}

func TestHandlePost_ClosedDay(t *testing.T) {
	f := newFixture(t)

	rec, env := f.post(t, `{"date":"2026-10-18","eventType":"junk_pickup"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Data.BusinessDay)
	assert.Empty(t, env.Data.AvailableSlots)
	assert.NotNil(t, env.Data.AvailableSlots)
	assert.Equal(t, "We are closed on Sundays. Please choose another date.", env.Data.Message)
	assert.Zero(t, f.repo.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("junk_pickup", outcomeClosed)))
}

func TestHandlePost_BookingConflicts(t *testing.T) {
	f := newFixture(t)
	f.repo.bookings = []*domain.ExistingBooking{
		{ID: 1, SlotTime: types.TimeString("10:00"), Status: domain.StatusConfirmed},
	}

	rec, env := f.post(t, `{"date":"2026-10-19"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Data.ExistingBookings)
	assert.Contains(t, env.Data.AvailableSlots, "11:30 AM")
	assert.NotContains(t, env.Data.AvailableSlots, "11:00 AM")
	assert.NotContains(t, env.Data.AvailableSlots, "9:00 AM")
	assert.Contains(t, env.Data.AvailableSlots, "8:30 AM")
}

func TestHandlePost_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains []string
	}{
		{
			name:     "malformed json",
			body:     `{"date":`,
			contains: []string{msgMalformedBody},
		},
		{
			name:     "trailing data after body",
			body:     `{"date":"2026-10-19"} garbage`,
			contains: []string{msgMalformedBody},
		},
		{
			name:     "duration is not a number",
			body:     `{"date":"2026-10-19","duration":"long"}`,
			contains: []string{"duration: must be a whole number of minutes"},
		},
		{
			name:     "quoted duration reported with other fields",
			body:     `{"date":"2024-13-45","eventType":"demolition","duration":"60"}`,
			contains: []string{"date: must be a valid date", "eventType: must be one of", "duration: must be a whole number of minutes"},
		},
		{
			name:     "fractional duration",
			body:     `{"date":"2026-10-19","duration":60.5}`,
			contains: []string{"duration: must be a whole number of minutes"},
		},
		{
			name:     "event type is not a string",
			body:     `{"date":"2024-13-45","eventType":5}`,
			contains: []string{"eventType: must be a string", "date: must be a valid date"},
		},
		{
			name:     "date is not a string",
			body:     `{"date":20261019}`,
			contains: []string{"date: must be a string"},
		},
		{
			name:     "missing date",
			body:     `{}`,
			contains: []string{"date: is required"},
		},
		{
			name:     "impossible date",
			body:     `{"date":"2024-13-45"}`,
			contains: []string{"date: must be a valid date"},
		},
		{
			name:     "past date",
			body:     `{"date":"2026-10-17"}`,
			contains: []string{"date: must not be in the past"},
		},
		{
			name:     "all violations reported",
			body:     `{"date":"yesterday","eventType":"demolition","duration":10}`,
			contains: []string{"date:", "eventType: must be one of", "duration: must be between 30 and 240"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec, env := f.post(t, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.True(t, strings.HasPrefix(env.Error, msgValidationPrefix), env.Error)
			for _, part := range tt.contains {
				assert.Contains(t, env.Error, part)
			}
			assert.Zero(t, f.repo.calls)
			assert.Equal(t, telemetry.EventAvailabilityRejected, f.sink.last(t).Name)
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("unknown", outcomeRejected)))
		})
	}
}

func TestHandlePost_NullFieldsUseDefaults(t *testing.T) {
	f := newFixture(t)

	rec, env := f.post(t, `{"date":"2026-10-19","eventType":null,"duration":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "estimate", env.Data.EventType)
	assert.Equal(t, 60, env.Data.Duration)
}

func TestHandlePost_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("pq: connection refused")

	rec, env := f.post(t, `{"date":"2026-10-19","eventType":"site_visit"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	assert.NotContains(t, env.Error, "pq")

	event := f.sink.last(t)
	assert.Equal(t, telemetry.EventAvailabilityFailed, event.Name)
	assert.Contains(t, event.Error, "connection refused")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("site_visit", outcomeFailed)))
}

func TestHandleGet_MatchesPost(t *testing.T) {
	f := newFixture(t)
	f.repo.bookings = []*domain.ExistingBooking{
		{ID: 7, SlotTime: types.TimeString("14:00"), Status: domain.StatusPending},
	}

	postRec, postEnv := f.post(t, `{"date":"2026-10-20","eventType":"measurement","duration":90}`)
	getRec, getEnv := f.get(t, "date=2026-10-20&eventType=measurement&duration=90")

	require.Equal(t, http.StatusOK, postRec.Code)
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, postEnv, getEnv)
	assert.Equal(t, 90, getEnv.Data.Duration)
}

func TestHandleGet_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{name: "missing date", query: "eventType=estimate", message: msgValidationPrefix + msgMissingDate},
		{name: "non-integer duration", query: "date=2026-10-19&duration=1.5", message: msgValidationPrefix + "duration: must be a whole number of minutes"},
		{name: "non-integer duration with bad date", query: "date=2024-13-45&duration=abc", message: msgValidationPrefix + "duration: must be a whole number of minutes; date: must be a valid date in YYYY-MM-DD format"},
		{name: "duration out of range", query: "date=2026-10-19&duration=300", message: msgValidationPrefix + "duration: must be between 30 and 240 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec, env := f.get(t, tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, env.Error)
			assert.Zero(t, f.repo.calls)
		})
	}
}

func TestHandler_NilCollaborators(t *testing.T) {
	uc := getAvailability.NewUseCase(&fakeRepo{}, getAvailability.DefaultRules(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)})
	h := NewHandler(uc, nil, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, endpoint+"?date=2026-10-19", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
