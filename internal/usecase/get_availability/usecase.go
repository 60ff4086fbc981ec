package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// UseCase use case для расчета свободных слотов на дату
// Ничего не пишет в хранилище: два параллельных запроса могут увидеть один и тот же слот свободным
type UseCase struct {
	bookingRepo  BookingRepository
	rules        Rules
	validator    *requestValidator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rules Rules,
	logger Logger,
) *UseCase {
	if rules.Location == nil {
		rules.Location = time.UTC
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		rules:        rules,
		validator:    newRequestValidator(rules),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Rules возвращает правила, с которыми работает use case
func (uc *UseCase) Rules() Rules {
	return uc.rules
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	uc.logger.Info("GetAvailability: date=%q, eventType=%q, duration=%s",
		req.Date, req.EventType, formatDuration(req.Duration))

	// 1. Валидация входных данных (до любого обращения к хранилищу)
	p, err := uc.validator.validateRequest(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Нерабочий день - бронирования не читаем
	if !uc.rules.BusinessHours.IsOpenOn(p.date.Weekday()) {
		uc.logger.Info("GetAvailability: closed on %s (%s)", p.date.Format(domain.DateFormat), p.date.Weekday())
		return ComputeAvailability(p.date, p.eventType, p.durationMinutes, nil, uc.rules), nil
	}

	// 3. Получаем активные бронирования на дату
	bookings, err := uc.bookingRepo.GetOccupyingByDate(ctx, p.date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for date=%s: %v", p.date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 4. Расчет слотов
	resp := ComputeAvailability(p.date, p.eventType, p.durationMinutes, bookings, uc.rules)

	uc.logger.Info("GetAvailability: date=%s, eventType=%s, duration=%d, available=%d/%d, bookings=%d",
		p.date.Format(domain.DateFormat), p.eventType, p.durationMinutes,
		len(resp.AvailableSlots), resp.TotalSlots, resp.ExistingBookings)

	return resp, nil
}

func formatDuration(d *int) string {
	if d == nil {
		return "default"
	}
	return fmt.Sprintf("%d", *d)
}
