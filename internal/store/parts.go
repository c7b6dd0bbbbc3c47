package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

const partColumns = `id, car_id, part_category, brand, part_number, size_spec, notes, created_at, updated_at`

// AddPart validates and inserts a part for an existing car.
func (s *Store) AddPart(ctx context.Context, p *garage.CarPart) error {
	if err := garage.Validate(p); err != nil {
		return err
	}
	if _, err := s.GetCar(ctx, p.CarID); err != nil {
		return err
	}

	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO car_parts (car_id, part_category, brand, part_number, size_spec, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CarID, string(p.Category), nullString(p.Brand), nullString(p.PartNumber),
		nullString(p.SizeSpec), nullString(p.Notes), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert part: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read part id: %w", err)
	}
	p.CreatedAt = parseTimestamp(now)
	p.UpdatedAt = p.CreatedAt
	return nil
}

// ListParts returns a car's parts ordered by category. A carID of zero
// lists the parts of every car.
func (s *Store) ListParts(ctx context.Context, carID int64) ([]garage.CarPart, error) {
	query := `SELECT ` + partColumns + ` FROM car_parts`
	var args []any
	if carID != 0 {
		query += ` WHERE car_id = ?`
		args = append(args, carID)
	}
	query += ` ORDER BY car_id, part_category, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var out []garage.CarPart
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPart returns the part with id, or ErrNotFound.
func (s *Store) GetPart(ctx context.Context, id int64) (garage.CarPart, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+partColumns+` FROM car_parts WHERE id = ?`, id)
	p, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	return p, err
}

// UpdatePart overwrites every editable field of p.
func (s *Store) UpdatePart(ctx context.Context, p *garage.CarPart) error {
	if err := garage.Validate(p); err != nil {
		return err
	}
	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`UPDATE car_parts SET part_category = ?, brand = ?, part_number = ?, size_spec = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		string(p.Category), nullString(p.Brand), nullString(p.PartNumber), nullString(p.SizeSpec),
		nullString(p.Notes), now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	if err := affectedOrNotFound(res, "part", p.ID); err != nil {
		return err
	}
	p.UpdatedAt = parseTimestamp(now)
	return nil
}

// DeletePart removes the part with id.
func (s *Store) DeletePart(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM car_parts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	return affectedOrNotFound(res, "part", id)
}

func scanPart(r rowScanner) (garage.CarPart, error) {
	var (
		p                          garage.CarPart
		category                   string
		brand, number, size, notes sql.NullString
		created, updated           string
	)
	err := r.Scan(&p.ID, &p.CarID, &category, &brand, &number, &size, &notes, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan part: %w", err)
	}
	p.Category = garage.PartCategory(category)
	p.Brand = brand.String
	p.PartNumber = number.String
	p.SizeSpec = size.String
	p.Notes = notes.String
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return p, nil
}
