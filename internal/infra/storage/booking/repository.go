package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository репозиторий для чтения бронирований
// Сервис только читает таблицу bookings, запись выполняет другая система
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOccupyingByDate получает бронирования на дату со статусом pending или confirmed
// Результат отсортирован по времени начала
func (r *Repository) GetOccupyingByDate(ctx context.Context, date time.Time) ([]*domain.ExistingBooking, error) {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"slot_date",
		"slot_time",
		"status",
	).
		From("bookings").
		Where(squirrel.Eq{"slot_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"status": statuses}).
		OrderBy("slot_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupyingByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.ExistingBooking, error) {
	bookings := make([]*domain.ExistingBooking, 0)

	for rows.Next() {
		var booking domain.ExistingBooking

		err := rows.Scan(
			&booking.ID,
			&booking.SlotDate,
			&booking.SlotTime,
			&booking.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
