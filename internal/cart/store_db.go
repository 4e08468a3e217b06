package cart

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	"LaptopStore/internal/upgrade"
	"LaptopStore/pkg/kit"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schemaSQL)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return kit.WithTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

const lineColumns = `
	id, user_id, line_key, product_id, qty, display_name,
	base_price::float8, final_price::float8, customization_cost::float8,
	has_customizations, has_ram_customization, specs, customization, created_at
`

func (s *PostgresStore) Add(ctx context.Context, l Line) (Line, error) {
	specs, err := json.Marshal(l.Specs)
	if err != nil {
		return Line{}, err
	}
	custom, err := json.Marshal(l.Customization)
	if err != nil {
		return Line{}, err
	}

	var out Line
	err = kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			INSERT INTO cart_lines (id, user_id, line_key, product_id, qty, display_name,
			                        base_price, final_price, customization_cost,
			                        has_customizations, has_ram_customization, specs, customization, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13::jsonb, $14)
			ON CONFLICT (user_id, line_key) DO UPDATE SET
				qty = LEAST(cart_lines.qty + EXCLUDED.qty, $15),
				display_name = EXCLUDED.display_name,
				base_price = EXCLUDED.base_price,
				final_price = EXCLUDED.final_price,
				customization_cost = EXCLUDED.customization_cost,
				specs = EXCLUDED.specs
			RETURNING `+lineColumns,
			l.ID, l.UserID, l.Key, l.ProductID, l.Qty, l.DisplayName,
			float64(l.BasePrice), float64(l.FinalPrice), float64(l.CustomizationCost),
			l.HasCustomizations, l.HasRAMCustomization, string(specs), string(custom), l.CreatedAt, MaxQty,
		)
		var err error
		out, err = scanLine(row)
		return err
	})
	if err != nil {
		return Line{}, err
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]Line, error) {
	var out []Line

	err := kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+lineColumns+`
			FROM cart_lines
			WHERE user_id = $1
			ORDER BY created_at ASC, id ASC
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Line, 0, 8)
		for rows.Next() {
			l, err := scanLine(rows)
			if err != nil {
				return err
			}
			out = append(out, l)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Remove(ctx context.Context, userID, lineID string) error {
	return kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = $1 AND user_id = $2`, lineID, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLineNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner) (Line, error) {
	var (
		l                   Line
		base, final, custom float64
		specs, sel          []byte
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.Key, &l.ProductID, &l.Qty, &l.DisplayName,
		&base, &final, &custom,
		&l.HasCustomizations, &l.HasRAMCustomization, &specs, &sel, &l.CreatedAt,
	)
	if err != nil {
		return Line{}, err
	}
	l.BasePrice = upgrade.Price(base)
	l.FinalPrice = upgrade.Price(final)
	l.CustomizationCost = upgrade.Price(custom)
	l.CreatedAt = l.CreatedAt.UTC()

	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &l.Specs); err != nil {
			return Line{}, err
		}
	}
	if err := json.Unmarshal(sel, &l.Customization); err != nil {
		return Line{}, err
	}
	return l, nil
}
