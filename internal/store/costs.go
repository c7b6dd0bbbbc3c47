package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CodexForgeBR/crewchief/internal/garage"
)

// MaintenanceCosts summarizes priced events per car and service type. A
// carID of zero covers every car. Cars without priced events are omitted.
func (s *Store) MaintenanceCosts(ctx context.Context, carID int64) ([]garage.CostSummary, error) {
	query := `SELECT car_id, service_type, COUNT(*), SUM(cost), AVG(cost), MIN(cost), MAX(cost)
		FROM maintenance_events WHERE cost IS NOT NULL`
	var args []any
	if carID != 0 {
		query += ` AND car_id = ?`
		args = append(args, carID)
	}
	query += ` GROUP BY car_id, service_type ORDER BY car_id, service_type`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize costs: %w", err)
	}
	defer rows.Close()

	var out []garage.CostSummary
	for rows.Next() {
		var (
			id int64
			st string
			tc garage.TypeCost
		)
		if err := rows.Scan(&id, &st, &tc.Count, &tc.Total, &tc.Average, &tc.Min, &tc.Max); err != nil {
			return nil, fmt.Errorf("failed to scan cost row: %w", err)
		}
		tc.ServiceType = garage.ServiceType(st)

		if len(out) == 0 || out[len(out)-1].CarID != id {
			out = append(out, garage.CostSummary{CarID: id})
		}
		sum := &out[len(out)-1]
		sum.Total += tc.Total
		sum.Count += tc.Count
		sum.ByType = append(sum.ByType, tc)
	}
	return out, rows.Err()
}

// CostPerMile divides a car's total spend by the miles between its first
// recorded service odometer (or zero) and its current odometer. Without a
// current odometer everything is zero.
func (s *Store) CostPerMile(ctx context.Context, carID int64) (garage.CostPerMile, error) {
	var out garage.CostPerMile

	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return out, err
	}
	if car.CurrentOdometer == nil {
		return out, nil
	}

	var total sql.NullFloat64
	var first sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT SUM(cost) FROM maintenance_events WHERE car_id = ? AND cost IS NOT NULL),
		        (SELECT MIN(odometer) FROM maintenance_events WHERE car_id = ? AND odometer IS NOT NULL)`,
		carID, carID,
	).Scan(&total, &first)
	if err != nil {
		return out, fmt.Errorf("failed to compute cost per mile: %w", err)
	}

	out.TotalCost = total.Float64
	out.TotalMiles = *car.CurrentOdometer - int(first.Int64)
	if out.TotalMiles > 0 {
		out.CostPerMile = out.TotalCost / float64(out.TotalMiles)
	}
	return out, nil
}

// Snapshot loads every car, event and part for the AI prompts.
func (s *Store) Snapshot(ctx context.Context) (garage.Snapshot, error) {
	var snap garage.Snapshot
	var err error
	if snap.Cars, err = s.ListCars(ctx); err != nil {
		return snap, err
	}
	if snap.Events, err = s.ListEvents(ctx, 0); err != nil {
		return snap, err
	}
	if snap.Parts, err = s.ListParts(ctx, 0); err != nil {
		return snap, err
	}
	return snap, nil
}
