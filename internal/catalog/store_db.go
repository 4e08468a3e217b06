package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"LaptopStore/internal/pricing"
	"LaptopStore/internal/upgrade"
	"LaptopStore/pkg/kit"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	seedTimeout  = 15 * time.Second
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

// SeedIfEmpty loads seed into an empty database. A database that already has
// products is left untouched.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context, seed Seed) (bool, error) {
	seeded := false

	err := kit.WithTimeout(ctx, seedTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var n int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		for _, p := range seed.Products {
			if err := insertProduct(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, o := range seed.Options {
			if err := upsertOption(ctx, tx, o); err != nil {
				return err
			}
		}
		if err := replacePricing(ctx, tx, seed.Pricing); err != nil {
			return err
		}

		seeded = true
		return tx.Commit()
	})
	return seeded, err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return kit.WithTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

const productColumns = `
	id, title, category_id, price::float8, processor, generation, ram, hdd,
	ram_capacity, ram_type, ram_form_factor, custom_upgrade_pricing, ram_speed_prices
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (upgrade.Product, error) {
	var (
		p              upgrade.Product
		price          float64
		custom, speeds []byte
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.CategoryID, &price, &p.Processor, &p.Generation, &p.RAM, &p.HDD,
		&p.RAMCapacity, &p.RAMType, &p.RAMFormFactor, &custom, &speeds,
	)
	if err != nil {
		return upgrade.Product{}, err
	}
	p.Price = upgrade.Price(price)

	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &p.CustomUpgradePricing); err != nil {
			return upgrade.Product{}, err
		}
	}
	if len(speeds) > 0 {
		if err := json.Unmarshal(speeds, &p.RAMSpeedPrices); err != nil {
			return upgrade.Product{}, err
		}
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]upgrade.Product, error) {
	var out []upgrade.Product

	err := kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]upgrade.Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (upgrade.Product, bool, error) {
	var (
		p   upgrade.Product
		err error
	)

	err = kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		p, err = scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return upgrade.Product{}, false, nil
	}
	if err != nil {
		return upgrade.Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) ListUpgradeOptions(ctx context.Context, includeInactive bool) ([]upgrade.UpgradeOption, error) {
	var out []upgrade.UpgradeOption

	err := kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, option_type, size, size_number, display_label, description, applicable_to,
			       min_generation, max_generation, price::float8, is_active, display_order
			FROM upgrade_options
			WHERE is_active OR $1
			ORDER BY option_type ASC, display_order ASC, id ASC
		`, includeInactive)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]upgrade.UpgradeOption, 0, 16)
		for rows.Next() {
			var (
				o              upgrade.UpgradeOption
				minGen, maxGen sql.NullInt64
				price          float64
			)
			if err := rows.Scan(
				&o.ID, &o.OptionType, &o.Size, &o.SizeNumber, &o.DisplayLabel, &o.Description, &o.ApplicableTo,
				&minGen, &maxGen, &price, &o.IsActive, &o.DisplayOrder,
			); err != nil {
				return err
			}
			o.MinGeneration = nullableInt(minGen)
			o.MaxGeneration = nullableInt(maxGen)
			o.Price = upgrade.Price(price)
			out = append(out, o)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) UpsertUpgradeOption(ctx context.Context, o upgrade.UpgradeOption) error {
	return kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return upsertOption(ctx, s.db, o)
	})
}

func (s *PostgresStore) LoadPricing(ctx context.Context) (pricing.Table, error) {
	out := pricing.Table{}

	err := kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT key, value::float8 FROM pricing_settings`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				k string
				v float64
			)
			if err := rows.Scan(&k, &v); err != nil {
				return err
			}
			out[k] = upgrade.Price(v)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

// MergePricing upserts each key inside one transaction. Row-level upserts
// keep concurrent updates to different keys from overwriting each other.
func (s *PostgresStore) MergePricing(ctx context.Context, update pricing.Table) (pricing.Table, error) {
	out := pricing.Table{}

	err := kit.WithTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pricing_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, k := range update.Keys() {
			if _, err := stmt.ExecContext(ctx, k, float64(update[k])); err != nil {
				return err
			}
		}

		rows, err := tx.QueryContext(ctx, `SELECT key, value::float8 FROM pricing_settings`)
		if err != nil {
			return err
		}
		for rows.Next() {
			var (
				k string
				v float64
			)
			if err := rows.Scan(&k, &v); err != nil {
				rows.Close()
				return err
			}
			out[k] = upgrade.Price(v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		return tx.Commit()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProduct(ctx context.Context, db execer, p upgrade.Product) error {
	custom, err := jsonOrNull(p.CustomUpgradePricing)
	if err != nil {
		return err
	}
	speeds, err := jsonOrNull(p.RAMSpeedPrices)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO products (id, title, category_id, price, processor, generation, ram, hdd,
		                      ram_capacity, ram_type, ram_form_factor, custom_upgrade_pricing, ram_speed_prices)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13::jsonb)
	`, p.ID, p.Title, p.CategoryID, float64(p.Price), p.Processor, p.Generation, p.RAM, p.HDD,
		p.RAMCapacity, p.RAMType, p.RAMFormFactor, custom, speeds)
	return err
}

func upsertOption(ctx context.Context, db execer, o upgrade.UpgradeOption) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO upgrade_options (id, option_type, size, size_number, display_label, description,
		                             applicable_to, min_generation, max_generation, price, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			option_type = EXCLUDED.option_type,
			size = EXCLUDED.size,
			size_number = EXCLUDED.size_number,
			display_label = EXCLUDED.display_label,
			description = EXCLUDED.description,
			applicable_to = EXCLUDED.applicable_to,
			min_generation = EXCLUDED.min_generation,
			max_generation = EXCLUDED.max_generation,
			price = EXCLUDED.price,
			is_active = EXCLUDED.is_active,
			display_order = EXCLUDED.display_order
	`, o.ID, string(o.OptionType), o.Size, o.SizeNumber, o.DisplayLabel, o.Description,
		o.ApplicableTo, intOrNull(o.MinGeneration), intOrNull(o.MaxGeneration), float64(o.Price), o.IsActive, o.DisplayOrder)
	return err
}

func replacePricing(ctx context.Context, tx *sql.Tx, t pricing.Table) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pricing_settings`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pricing_settings (key, value) VALUES ($1, $2)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, k := range t.Keys() {
		if _, err := stmt.ExecContext(ctx, k, float64(t[k])); err != nil {
			return err
		}
	}
	return nil
}

func jsonOrNull(m map[string]upgrade.Price) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func intOrNull(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
