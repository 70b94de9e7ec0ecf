// Package export writes the landing facilities of an IR document to a SQLite
// database for ad hoc querying.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/arloliu/navdb/ir"
)

const schema = `
CREATE TABLE metadata (
	cycle_number    INTEGER NOT NULL,
	effective_date  TEXT NOT NULL,
	expires_date    TEXT NOT NULL,
	snapshot_date   TEXT NOT NULL,
	part_number     TEXT NOT NULL,
	coverage_region TEXT NOT NULL,
	source_blake3   TEXT
);

CREATE TABLE facilities (
	id             INTEGER PRIMARY KEY,
	identifier     TEXT NOT NULL,
	icao_prefix    TEXT NOT NULL,
	icao_region    TEXT NOT NULL,
	type           TEXT NOT NULL,
	name           TEXT NOT NULL,
	city           TEXT NOT NULL,
	state          TEXT,
	latitude       REAL NOT NULL,
	longitude      REAL NOT NULL,
	elevation_feet INTEGER NOT NULL,
	airspace       TEXT,
	avgas          INTEGER NOT NULL,
	jet_fuel       INTEGER NOT NULL,
	radar          INTEGER NOT NULL
);

CREATE TABLE runways (
	facility_id INTEGER NOT NULL REFERENCES facilities(id),
	number      INTEGER NOT NULL,
	suffix      TEXT,
	lighting    TEXT NOT NULL,
	surface     TEXT NOT NULL,
	length_feet INTEGER NOT NULL,
	width_feet  INTEGER NOT NULL
);

CREATE TABLE frequencies (
	facility_id   INTEGER NOT NULL REFERENCES facilities(id),
	type          TEXT NOT NULL,
	frequency_khz INTEGER NOT NULL,
	narrative     TEXT
);

CREATE INDEX idx_facilities_identifier ON facilities(identifier);
CREATE INDEX idx_runways_facility ON runways(facility_id);
CREATE INDEX idx_frequencies_facility ON frequencies(facility_id);
`

// Summary counts the exported rows.
type Summary struct {
	Facilities  int
	Runways     int
	Frequencies int
}

func date(d ir.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// WriteSQLite creates a new database at path holding the metadata, facilities,
// runways and communication frequencies of doc. An existing file is replaced.
//
// Parameters:
//   - ctx: Cancels the export between statements
//   - path: Database file to create
//   - doc: The document to export
//
// Returns:
//   - Summary: Exported row counts
//   - error: Any database error; the partial file is removed
func WriteSQLite(ctx context.Context, path string, doc *ir.NavigationData) (Summary, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Summary{}, fmt.Errorf("replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Summary{}, fmt.Errorf("open database: %w", err)
	}

	sum, err := write(ctx, db, doc)
	if cerr := db.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close database: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return Summary{}, err
	}

	return sum, nil
}

func write(ctx context.Context, db *sql.DB, doc *ir.NavigationData) (Summary, error) {
	var sum Summary
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return sum, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m := doc.Metadata
	var source sql.NullString
	if doc.Source != nil {
		source = nullable(doc.Source.BLAKE3)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO metadata VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.CycleNumber, date(m.EffectiveDate), date(m.ExpiresDate), date(m.SnapshotDate),
		m.PartNumber, m.CoverageRegion, source); err != nil {
		return sum, fmt.Errorf("insert metadata: %w", err)
	}

	facility, err := tx.PrepareContext(ctx, `INSERT INTO facilities VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return sum, err
	}
	defer facility.Close()
	runway, err := tx.PrepareContext(ctx, `INSERT INTO runways VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return sum, err
	}
	defer runway.Close()
	frequency, err := tx.PrepareContext(ctx, `INSERT INTO frequencies VALUES (?, ?, ?, ?)`)
	if err != nil {
		return sum, err
	}
	defer frequency.Close()

	for i, f := range doc.LandingFacilities {
		if _, err := facility.ExecContext(ctx, i, f.Identifier, f.IcaoRegion.IdentifierPrefix, f.IcaoRegion.Region,
			f.Type, f.Name, f.City, nullable(f.State), f.Latitude, f.Longitude, f.ElevationFeet,
			nullable(f.Airspace), f.AvgasAvailable, f.JetFuelAvailable, f.HasRadar); err != nil {
			return sum, fmt.Errorf("insert facility %s: %w", f.Identifier, err)
		}
		sum.Facilities++
		if f.Detail == nil {
			continue
		}

		for _, rw := range f.Detail.Runways {
			if _, err := runway.ExecContext(ctx, i, rw.Number, nullable(rw.Suffix), rw.Lighting, rw.Surface,
				rw.LengthFeet, rw.WidthFeet); err != nil {
				return sum, fmt.Errorf("insert runway of %s: %w", f.Identifier, err)
			}
			sum.Runways++
		}
		for _, cf := range f.Detail.CommunicationFrequencies {
			var narrative sql.NullString
			if cf.Narrative != nil {
				narrative = sql.NullString{String: *cf.Narrative, Valid: true}
			}
			if _, err := frequency.ExecContext(ctx, i, cf.Type, cf.FrequencyKHz, narrative); err != nil {
				return sum, fmt.Errorf("insert frequency of %s: %w", f.Identifier, err)
			}
			sum.Frequencies++
		}
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("commit: %w", err)
	}

	return sum, nil
}
