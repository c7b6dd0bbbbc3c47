package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

// SetInterval creates or replaces the interval for iv's car and service type.
func (s *Store) SetInterval(ctx context.Context, iv *garage.MaintenanceInterval) error {
	if err := garage.Validate(iv); err != nil {
		return err
	}
	if _, err := s.GetCar(ctx, iv.CarID); err != nil {
		return err
	}

	now := s.stamp()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO maintenance_intervals (car_id, service_type, interval_miles, interval_months,
		     last_service_date, last_service_odometer, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(car_id, service_type) DO UPDATE SET
		     interval_miles = excluded.interval_miles,
		     interval_months = excluded.interval_months,
		     last_service_date = excluded.last_service_date,
		     last_service_odometer = excluded.last_service_odometer,
		     notes = excluded.notes,
		     updated_at = excluded.updated_at
		 RETURNING id, created_at`,
		iv.CarID, string(iv.ServiceType), nullInt(iv.IntervalMiles), nullInt(iv.IntervalMonths),
		nullDate(iv.LastServiceDate), nullInt(iv.LastServiceOdometer), nullString(iv.Notes), now, now,
	).Scan(&iv.ID, new(string))
	if err != nil {
		return fmt.Errorf("failed to save interval: %w", err)
	}
	iv.UpdatedAt = parseTimestamp(now)
	return nil
}

// ListIntervals returns a car's intervals ordered by service type.
func (s *Store) ListIntervals(ctx context.Context, carID int64) ([]garage.MaintenanceInterval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, car_id, service_type, interval_miles, interval_months, last_service_date,
		        last_service_odometer, notes, created_at, updated_at
		 FROM maintenance_intervals WHERE car_id = ? ORDER BY service_type`, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list intervals: %w", err)
	}
	defer rows.Close()

	var out []garage.MaintenanceInterval
	for rows.Next() {
		var (
			iv               garage.MaintenanceInterval
			serviceType      string
			miles, months    sql.NullInt64
			lastDate, notes  sql.NullString
			lastOdo          sql.NullInt64
			created, updated string
		)
		if err := rows.Scan(&iv.ID, &iv.CarID, &serviceType, &miles, &months, &lastDate, &lastOdo, &notes, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}
		iv.ServiceType = garage.ServiceType(serviceType)
		iv.IntervalMiles = intPtr(miles)
		iv.IntervalMonths = intPtr(months)
		if iv.LastServiceDate, err = parseDatePtr(lastDate); err != nil {
			return nil, err
		}
		iv.LastServiceOdometer = intPtr(lastOdo)
		iv.Notes = notes.String
		iv.CreatedAt = parseTimestamp(created)
		iv.UpdatedAt = parseTimestamp(updated)
		out = append(out, iv)
	}
	return out, rows.Err()
}

// DueServices evaluates every interval of a car as of today.
func (s *Store) DueServices(ctx context.Context, carID int64, today time.Time) ([]garage.DueService, error) {
	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	intervals, err := s.ListIntervals(ctx, carID)
	if err != nil {
		return nil, err
	}

	out := make([]garage.DueService, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, garage.ComputeDue(iv, car.CurrentOdometer, today))
	}
	return out, nil
}

// TouchInterval records a just-logged service as the last one for the
// matching interval. It is a no-op when no interval is set.
func (s *Store) TouchInterval(ctx context.Context, carID int64, st garage.ServiceType, date time.Time, odometer *int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE maintenance_intervals SET last_service_date = ?, last_service_odometer = ?, updated_at = ?
		 WHERE car_id = ? AND service_type = ?`,
		date.Format(dateLayout), nullInt(odometer), s.stamp(), carID, string(st),
	)
	if err != nil {
		return fmt.Errorf("failed to update interval: %w", err)
	}
	return nil
}
