package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

const eventColumns = `id, car_id, service_date, odometer, service_type, description, parts, cost, location, created_at`

// AddEvent validates and inserts a maintenance event for an existing car.
func (s *Store) AddEvent(ctx context.Context, ev *garage.MaintenanceEvent) error {
	if err := garage.Validate(ev); err != nil {
		return err
	}
	if _, err := s.GetCar(ctx, ev.CarID); err != nil {
		return err
	}

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO maintenance_events (car_id, service_date, odometer, service_type, description, parts, cost, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.CarID, ev.ServiceDate.Format(dateLayout), nullInt(ev.Odometer), string(ev.ServiceType),
		nullString(ev.Description), nullString(ev.Parts), nullFloat(ev.Cost), nullString(ev.Location), now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance event: %w", err)
	}
	if ev.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read event id: %w", err)
	}
	ev.CreatedAt = parseTimestamp(now)
	return nil
}

// ListEventsForCar returns a car's events, newest service first. A limit of
// zero or less returns all of them.
func (s *Store) ListEventsForCar(ctx context.Context, carID int64, limit int) ([]garage.MaintenanceEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM maintenance_events WHERE car_id = ? ORDER BY service_date DESC, id DESC`
	args := []any{carID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryEvents(ctx, query, args...)
}

// ListEvents returns events across all cars, newest service first.
func (s *Store) ListEvents(ctx context.Context, limit int) ([]garage.MaintenanceEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM maintenance_events ORDER BY service_date DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryEvents(ctx, query, args...)
}

// GetEvent returns the event with id, or ErrNotFound.
func (s *Store) GetEvent(ctx context.Context, id int64) (garage.MaintenanceEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM maintenance_events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ev, fmt.Errorf("maintenance event %d: %w", id, ErrNotFound)
	}
	return ev, err
}

// UpdateEvent overwrites every editable field of ev.
func (s *Store) UpdateEvent(ctx context.Context, ev *garage.MaintenanceEvent) error {
	if err := garage.Validate(ev); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE maintenance_events SET service_date = ?, odometer = ?, service_type = ?, description = ?,
		 parts = ?, cost = ?, location = ? WHERE id = ?`,
		ev.ServiceDate.Format(dateLayout), nullInt(ev.Odometer), string(ev.ServiceType), nullString(ev.Description),
		nullString(ev.Parts), nullFloat(ev.Cost), nullString(ev.Location), ev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update maintenance event: %w", err)
	}
	return affectedOrNotFound(res, "maintenance event", ev.ID)
}

// DeleteEvent removes the event with id.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM maintenance_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance event: %w", err)
	}
	return affectedOrNotFound(res, "maintenance event", id)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]garage.MaintenanceEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance events: %w", err)
	}
	defer rows.Close()

	var out []garage.MaintenanceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanEvent(r rowScanner) (garage.MaintenanceEvent, error) {
	var (
		ev                    garage.MaintenanceEvent
		date, serviceType     string
		odometer              sql.NullInt64
		desc, parts, location sql.NullString
		cost                  sql.NullFloat64
		created               string
	)
	err := r.Scan(&ev.ID, &ev.CarID, &date, &odometer, &serviceType, &desc, &parts, &cost, &location, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ev, err
		}
		return ev, fmt.Errorf("failed to scan maintenance event: %w", err)
	}

	ev.ServiceDate, err = time.Parse(dateLayout, date)
	if err != nil {
		return ev, fmt.Errorf("bad stored service date %q: %w", date, err)
	}
	ev.Odometer = intPtr(odometer)
	ev.ServiceType = garage.ServiceType(serviceType)
	ev.Description = desc.String
	ev.Parts = parts.String
	ev.Cost = floatPtr(cost)
	ev.Location = location.String
	ev.CreatedAt = parseTimestamp(created)
	return ev, nil
}
