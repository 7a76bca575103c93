// Package store persists the unified prices, county reference data, panel,
// and fitted models in SQLite.
//
// Record and row IDs are deterministic, so the annual batch re-run is a pile
// of INSERT OR REPLACE statements: re-processing the same source vintage
// converges to the same database state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// MemoryDSN opens a process-shared in-memory database. Note the shared
// cache: every Open against this DSN sees the same data.
const MemoryDSN = "file::memory:?cache=shared"

const schema = `
CREATE TABLE IF NOT EXISTS prices (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	year INTEGER NOT NULL,
	quarter INTEGER NOT NULL DEFAULT 0,
	period_type TEXT NOT NULL,
	region TEXT,
	county TEXT,
	species TEXT,
	product_type TEXT,
	price_avg REAL,
	price_low REAL,
	price_high REAL,
	unit TEXT,
	price_per_ton REAL,
	conversion_factor REAL,
	sample_size INTEGER,
	notes TEXT,
	processed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prices_source_year ON prices(source, year);

CREATE TABLE IF NOT EXISTS counties (
	fips TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	state TEXT NOT NULL,
	lat REAL,
	lon REAL,
	forest_acres REAL
);

CREATE TABLE IF NOT EXISTS panel (
	fips TEXT NOT NULL,
	year INTEGER NOT NULL,
	market TEXT,
	rent_per_acre REAL,
	price_per_ton REAL,
	harvest_tons REAL,
	site_class REAL,
	mai_cuft REAL,
	tmean_c REAL,
	precip_mm REAL,
	land_value REAL,
	source TEXT NOT NULL,
	vintage TEXT NOT NULL,
	PRIMARY KEY (fips, year)
);
CREATE INDEX IF NOT EXISTS idx_panel_year ON panel(year);

CREATE TABLE IF NOT EXISTS fits (
	fitted_at TEXT PRIMARY KEY,
	model TEXT NOT NULL
);
`

// Store wraps the SQLite connection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent batch writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SavePrices upserts unified price records in one transaction.
func (s *Store) SavePrices(ctx context.Context, recs []stumpage.Record) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO prices
			(id, source, year, quarter, period_type, region, county, species,
			 product_type, price_avg, price_low, price_high, unit,
			 price_per_ton, conversion_factor, sample_size, notes, processed_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range recs {
			_, err := stmt.ExecContext(ctx,
				r.ID, r.Source, r.Year, r.Quarter, string(r.Period), r.Region,
				r.County, r.Species, r.Product,
				nullFloat(r.PriceAvg), nullFloat(r.PriceLow), nullFloat(r.PriceHigh),
				r.Unit, nullFloat(r.PerTon), nullFloat(r.Factor), nullInt(r.SampleSize),
				r.Notes, r.ProcessedAt.UTC().Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("upsert price %s: %w", r.ID, err)
			}
		}
		s.logger.Info("prices saved", "records", len(recs))
		return nil
	})
}

// SaveCounties upserts the county boundary table.
func (s *Store) SaveCounties(ctx context.Context, counties map[string]covariate.County) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO counties (fips, name, state, lat, lon, forest_acres)
			VALUES (?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range counties {
			if _, err := stmt.ExecContext(ctx, c.FIPS, c.Name, c.State, c.Lat, c.Lon, c.ForestAcres); err != nil {
				return fmt.Errorf("upsert county %s: %w", c.FIPS, err)
			}
		}
		return nil
	})
}

// SavePanel upserts panel rows keyed by (fips, year).
func (s *Store) SavePanel(ctx context.Context, rows []panel.Row) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO panel
			(fips, year, market, rent_per_acre, price_per_ton, harvest_tons,
			 site_class, mai_cuft, tmean_c, precip_mm, land_value, source, vintage)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.FIPS, r.Year, string(r.Market), r.RentPerAcre, r.PricePerTon,
				r.HarvestTons, r.SiteClass, r.MAI, r.TmeanC, r.PrecipMM,
				r.LandValue, string(r.Source), r.Vintage.UTC().Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("upsert panel row %s: %w", r.ID(), err)
			}
		}
		s.logger.Info("panel saved", "rows", len(rows))
		return nil
	})
}

// SaveFit stores a fitted model as JSON keyed by its fit timestamp.
func (s *Store) SaveFit(ctx context.Context, fit *ricardian.Fit) error {
	blob, err := json.Marshal(fit)
	if err != nil {
		return fmt.Errorf("marshal fit: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fits (fitted_at, model) VALUES (?,?)`,
		fit.FittedAt.UTC().Format(time.RFC3339Nano), string(blob))
	return err
}

// LatestFit loads the most recently stored model, or nil when none exists.
func (s *Store) LatestFit(ctx context.Context) (*ricardian.Fit, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT model FROM fits ORDER BY fitted_at DESC LIMIT 1`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var fit ricardian.Fit
	if err := json.Unmarshal([]byte(blob), &fit); err != nil {
		return nil, fmt.Errorf("unmarshal fit: %w", err)
	}
	return &fit, nil
}

// LoadPrices reads all unified price records ordered by source and time.
func (s *Store) LoadPrices(ctx context.Context) ([]stumpage.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, year, quarter, period_type, region, county, species,
		       product_type, price_avg, price_low, price_high, unit,
		       price_per_ton, conversion_factor, sample_size, notes, processed_at
		FROM prices ORDER BY source, year, quarter`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stumpage.Record
	for rows.Next() {
		var r stumpage.Record
		var period, processedAt string
		var avg, low, high, perTon, factor sql.NullFloat64
		var sample sql.NullInt64
		err := rows.Scan(&r.ID, &r.Source, &r.Year, &r.Quarter, &period,
			&r.Region, &r.County, &r.Species, &r.Product,
			&avg, &low, &high, &r.Unit, &perTon, &factor, &sample,
			&r.Notes, &processedAt)
		if err != nil {
			return nil, err
		}
		r.Period = stumpage.PeriodType(period)
		r.PriceAvg = floatPtr(avg)
		r.PriceLow = floatPtr(low)
		r.PriceHigh = floatPtr(high)
		r.PerTon = floatPtr(perTon)
		r.Factor = floatPtr(factor)
		r.SampleSize = intPtr(sample)
		if t, err := time.Parse(time.RFC3339, processedAt); err == nil {
			r.ProcessedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadPanel reads all panel rows ordered by FIPS and year.
func (s *Store) LoadPanel(ctx context.Context) ([]panel.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fips, year, market, rent_per_acre, price_per_ton, harvest_tons,
		       site_class, mai_cuft, tmean_c, precip_mm, land_value, source, vintage
		FROM panel ORDER BY fips, year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []panel.Row
	for rows.Next() {
		var r panel.Row
		var mkt, src, vintage string
		err := rows.Scan(&r.FIPS, &r.Year, &mkt, &r.RentPerAcre, &r.PricePerTon,
			&r.HarvestTons, &r.SiteClass, &r.MAI, &r.TmeanC, &r.PrecipMM,
			&r.LandValue, &src, &vintage)
		if err != nil {
			return nil, err
		}
		r.Market = market.TimberMarket(mkt)
		r.Source = panel.RowSource(src)
		if t, err := time.Parse(time.RFC3339, vintage); err == nil {
			r.Vintage = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountPrices returns the number of stored price records.
func (s *Store) CountPrices(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prices`).Scan(&n)
	return n, err
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
