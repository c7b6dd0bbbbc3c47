package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

const carColumns = `id, nickname, year, make, model, trim, vin, usage_type, current_odometer, notes, created_at, updated_at`

// AddCar validates and inserts car, filling in its ID and timestamps.
func (s *Store) AddCar(ctx context.Context, car *garage.Car) error {
	if err := garage.Validate(car); err != nil {
		return err
	}

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cars (nickname, year, make, model, trim, vin, usage_type, current_odometer, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(car.Nickname), car.Year, car.Make, car.Model, nullString(car.Trim), nullString(car.VIN),
		string(car.UsageType), nullInt(car.CurrentOdometer), nullString(car.Notes), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert car: %w", err)
	}
	if car.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read car id: %w", err)
	}
	car.CreatedAt = parseTimestamp(now)
	car.UpdatedAt = car.CreatedAt
	return nil
}

// ListCars returns every car ordered by id.
func (s *Store) ListCars(ctx context.Context) ([]garage.Car, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+carColumns+` FROM cars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var cars []garage.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// GetCar returns the car with id, or ErrNotFound.
func (s *Store) GetCar(ctx context.Context, id int64) (garage.Car, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = ?`, id)
	c, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return garage.Car{}, fmt.Errorf("car %d: %w", id, ErrNotFound)
	}
	return c, err
}

// UpdateCar overwrites every editable field of car.
func (s *Store) UpdateCar(ctx context.Context, car *garage.Car) error {
	if err := garage.Validate(car); err != nil {
		return err
	}

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`UPDATE cars SET nickname = ?, year = ?, make = ?, model = ?, trim = ?, vin = ?,
		 usage_type = ?, current_odometer = ?, notes = ?, updated_at = ? WHERE id = ?`,
		nullString(car.Nickname), car.Year, car.Make, car.Model, nullString(car.Trim), nullString(car.VIN),
		string(car.UsageType), nullInt(car.CurrentOdometer), nullString(car.Notes), now, car.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	if err := affectedOrNotFound(res, "car", car.ID); err != nil {
		return err
	}
	car.UpdatedAt = parseTimestamp(now)
	return nil
}

// DeleteCar removes a car and its intervals. A car with maintenance events
// or parts is refused with ErrInUse unless force is set, in which case they
// are deleted with it.
func (s *Store) DeleteCar(ctx context.Context, id int64, force bool) error {
	if _, err := s.GetCar(ctx, id); err != nil {
		return err
	}

	var events, parts int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM maintenance_events WHERE car_id = ?),
		        (SELECT COUNT(*) FROM car_parts WHERE car_id = ?)`, id, id,
	).Scan(&events, &parts)
	if err != nil {
		return fmt.Errorf("failed to count car history: %w", err)
	}
	if (events > 0 || parts > 0) && !force {
		return fmt.Errorf("car %d has %d events and %d parts: %w", id, events, parts, ErrInUse)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM maintenance_events WHERE car_id = ?`,
		`DELETE FROM car_parts WHERE car_id = ?`,
		`DELETE FROM maintenance_intervals WHERE car_id = ?`,
		`DELETE FROM cars WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete car: %w", err)
		}
	}
	return tx.Commit()
}

func scanCar(r rowScanner) (garage.Car, error) {
	var (
		c                        garage.Car
		nickname, trim, vin, nts sql.NullString
		usage                    string
		odometer                 sql.NullInt64
		created, updated         string
	)
	err := r.Scan(&c.ID, &nickname, &c.Year, &c.Make, &c.Model, &trim, &vin, &usage, &odometer, &nts, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan car: %w", err)
	}
	c.Nickname = nickname.String
	c.Trim = trim.String
	c.VIN = vin.String
	c.UsageType = garage.UsageType(usage)
	c.CurrentOdometer = intPtr(odometer)
	c.Notes = nts.String
	c.CreatedAt = parseTimestamp(created)
	c.UpdatedAt = parseTimestamp(updated)
	return c, nil
}
