package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

const (
	pgMaxOpenConns = 4
	pgMaxIdleConns = 2
	pgConnLifetime = time.Hour
	pgPingTimeout  = 5 * time.Second
)

// SQLSTATE codes treated as access refusals.
const (
	pgInsufficientPrivilege = "42501"
	pgInvalidAuthorization  = "28000"
	pgInvalidPassword       = "28P01"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stations (
	area          TEXT    NOT NULL,
	id            TEXT    NOT NULL,
	car_num       TEXT,
	charging_time INTEGER NOT NULL DEFAULT 0 CHECK (charging_time >= 0),
	is_illegal    BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (area, id)
)`

// PostgresStore keeps station documents in a Postgres table.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with dsn through the pgx stdlib driver. When
// migrate is set the stations table is created if missing.
func OpenPostgres(ctx context.Context, dsn string, migrate bool) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	db.SetConnMaxLifetime(pgConnLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if migrate {
		if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return &PostgresStore{db: db}, nil
}

// Name implements Backend.
func (p *PostgresStore) Name() string { return "postgres" }

// FetchCollection implements Fetcher.
func (p *PostgresStore) FetchCollection(ctx context.Context, area string) ([]station.Station, error) {
	const query = `
		SELECT id, car_num, charging_time, is_illegal
		FROM stations
		WHERE area = $1
		ORDER BY id
	`
	rows, err := p.db.QueryContext(ctx, query, area)
	if err != nil {
		return nil, classifyPostgres(area, err)
	}
	defer rows.Close()

	out, err := scanStations(rows)
	if err != nil {
		return nil, classifyPostgres(area, err)
	}
	return out, nil
}

// PutStation implements Writer.
func (p *PostgresStore) PutStation(ctx context.Context, area string, st station.Station) error {
	const query = `
		INSERT INTO stations (area, id, car_num, charging_time, is_illegal)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (area, id) DO UPDATE SET
			car_num = EXCLUDED.car_num,
			charging_time = EXCLUDED.charging_time,
			is_illegal = EXCLUDED.is_illegal
	`
	if _, err := p.db.ExecContext(ctx, query, area, st.ID, nullString(st.CarNum), st.ChargingTime, st.IsIllegal); err != nil {
		return fmt.Errorf("put station %s/%s: %w", area, st.ID, err)
	}
	return nil
}

// Close implements io.Closer.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func classifyPostgres(area string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInsufficientPrivilege, pgInvalidAuthorization, pgInvalidPassword:
			return denied(area, err)
		}
	}
	return failed(area, err)
}
