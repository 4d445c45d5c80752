package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stations (
	area          TEXT    NOT NULL,
	id            TEXT    NOT NULL,
	car_num       TEXT,
	charging_time INTEGER NOT NULL DEFAULT 0 CHECK (charging_time >= 0),
	is_illegal    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (area, id)
);`

// SQLiteStore keeps station documents in an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Name implements Backend.
func (s *SQLiteStore) Name() string { return "sqlite" }

// FetchCollection implements Fetcher.
func (s *SQLiteStore) FetchCollection(ctx context.Context, area string) ([]station.Station, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, car_num, charging_time, is_illegal FROM stations WHERE area = ? ORDER BY id`, area)
	if err != nil {
		return nil, s.classify(area, err)
	}
	defer rows.Close()

	out, err := scanStations(rows)
	if err != nil {
		return nil, s.classify(area, err)
	}
	return out, nil
}

// PutStation implements Writer.
func (s *SQLiteStore) PutStation(ctx context.Context, area string, st station.Station) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stations (area, id, car_num, charging_time, is_illegal)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (area, id) DO UPDATE SET
			car_num = excluded.car_num,
			charging_time = excluded.charging_time,
			is_illegal = excluded.is_illegal`,
		area, st.ID, nullString(st.CarNum), st.ChargingTime, st.IsIllegal)
	if err != nil {
		return fmt.Errorf("put station %s/%s: %w", area, st.ID, err)
	}
	return nil
}

// Close implements io.Closer.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) classify(area string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return denied(area, err)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_READONLY:
			return denied(area, err)
		}
	}
	return failed(area, err)
}

// scanStations reads (id, car_num, charging_time, is_illegal) rows.
func scanStations(rows *sql.Rows) ([]station.Station, error) {
	var out []station.Station
	for rows.Next() {
		var (
			st     station.Station
			carNum sql.NullString
		)
		if err := rows.Scan(&st.ID, &carNum, &st.ChargingTime, &st.IsIllegal); err != nil {
			return nil, err
		}
		st.CarNum = carNum.String
		out = append(out, st)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
