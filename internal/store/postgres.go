// Package store persists collected landmarks in PostgreSQL.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const provider = "lpc"

var ErrNotFound = errors.New("store: landmark not found")

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS landmarks (
			lp_number         TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			object_type       TEXT,
			architect         TEXT,
			style             TEXT,
			street            TEXT,
			borough           TEXT,
			designation_date  TEXT,
			neighborhood      TEXT,
			zip_code          TEXT,
			photo_url         TEXT,
			pdf_report_url    TEXT,
			lpc_id            TEXT,
			bbl               TEXT,
			bin               TEXT,
			block             INTEGER,
			lot               INTEGER,
			historic_district TEXT,
			lat               DOUBLE PRECISION,
			lon               DOUBLE PRECISION,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_fetch_at     TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS idx_landmarks_borough ON landmarks(borough);`,
		`CREATE TABLE IF NOT EXISTS landmark_buildings (
			id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			lp_number        TEXT NOT NULL REFERENCES landmarks(lp_number) ON DELETE CASCADE,
			building_key     TEXT NOT NULL,
			name             TEXT,
			address          TEXT,
			bbl              TEXT,
			bin              TEXT,
			block            INTEGER,
			lot              INTEGER,
			borough_id       TEXT,
			lat              DOUBLE PRECISION,
			lon              DOUBLE PRECISION,
			designation_date TEXT,
			position         INTEGER NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_buildings_key ON landmark_buildings(lp_number, building_key);`,
		`CREATE INDEX IF NOT EXISTS idx_buildings_bbl ON landmark_buildings(bbl);`,
		`CREATE TABLE IF NOT EXISTS landmark_articles (
			lp_number  TEXT NOT NULL REFERENCES landmarks(lp_number) ON DELETE CASCADE,
			url        TEXT NOT NULL,
			position   INTEGER NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (lp_number, url)
		);`,
		`CREATE TABLE IF NOT EXISTS provider_raw_snapshots (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			provider       TEXT NOT NULL,
			endpoint       TEXT NOT NULL,
			external_id    TEXT,
			payload        JSONB NOT NULL,
			fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			payload_sha256 TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_external ON provider_raw_snapshots(provider, external_id, fetched_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// LandmarkInput is one landmark with its buildings and the registry payload
// it was built from. Optional columns use sql.Null* so absent values are
// stored as NULL.
type LandmarkInput struct {
	LPNumber         string
	Name             string
	ObjectType       string
	Architect        string
	Style            string
	Street           string
	Borough          string
	DesignationDate  string
	Neighborhood     string
	ZipCode          string
	PhotoURL         string
	PDFReportURL     string
	LPCID            string
	BBL              sql.NullString
	BIN              sql.NullString
	Block            sql.NullInt64
	Lot              sql.NullInt64
	HistoricDistrict string
	Lat              sql.NullFloat64
	Lon              sql.NullFloat64

	Buildings []BuildingInput

	Endpoint    string
	PayloadJSON []byte
}

type BuildingInput struct {
	Key             string
	Name            string
	Address         string
	BBL             sql.NullString
	BIN             sql.NullString
	Block           sql.NullInt64
	Lot             sql.NullInt64
	BoroughID       string
	Lat             sql.NullFloat64
	Lon             sql.NullFloat64
	DesignationDate string
}

// UpsertLandmark writes the landmark, replaces its buildings and records the
// raw payload in one transaction.
func (s *Store) UpsertLandmark(ctx context.Context, in LandmarkInput) (err error) {
	if s.DB == nil {
		return errors.New("nil db")
	}
	if in.LPNumber == "" {
		return errors.New("store: landmark without lp number")
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO landmarks (lp_number, name, object_type, architect, style, street, borough, designation_date,
			neighborhood, zip_code, photo_url, pdf_report_url, lpc_id, bbl, bin, block, lot, historic_district, lat, lon, last_fetch_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20, now())
		ON CONFLICT (lp_number)
		DO UPDATE SET name=EXCLUDED.name, object_type=EXCLUDED.object_type, architect=EXCLUDED.architect,
			style=EXCLUDED.style, street=EXCLUDED.street, borough=EXCLUDED.borough,
			designation_date=EXCLUDED.designation_date, neighborhood=EXCLUDED.neighborhood,
			zip_code=EXCLUDED.zip_code, photo_url=EXCLUDED.photo_url, pdf_report_url=EXCLUDED.pdf_report_url,
			lpc_id=EXCLUDED.lpc_id, bbl=EXCLUDED.bbl, bin=EXCLUDED.bin, block=EXCLUDED.block, lot=EXCLUDED.lot,
			historic_district=EXCLUDED.historic_district, lat=EXCLUDED.lat, lon=EXCLUDED.lon,
			updated_at=now(), last_fetch_at=now()`,
		in.LPNumber, in.Name, in.ObjectType, in.Architect, in.Style, in.Street, in.Borough, in.DesignationDate,
		in.Neighborhood, in.ZipCode, in.PhotoURL, in.PDFReportURL, in.LPCID, in.BBL, in.BIN, in.Block, in.Lot,
		in.HistoricDistrict, in.Lat, in.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert landmark %s: %w", in.LPNumber, err)
	}

	// buildings: replace current set with new set
	if _, err = tx.ExecContext(ctx, `DELETE FROM landmark_buildings WHERE lp_number=$1`, in.LPNumber); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(in.Buildings))
	for i, b := range in.Buildings {
		if b.Key == "" {
			continue
		}
		if _, dup := seen[b.Key]; dup {
			continue
		}
		seen[b.Key] = struct{}{}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO landmark_buildings (lp_number, building_key, name, address, bbl, bin, block, lot, borough_id, lat, lon, designation_date, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			in.LPNumber, b.Key, b.Name, b.Address, b.BBL, b.BIN, b.Block, b.Lot, b.BoroughID, b.Lat, b.Lon, b.DesignationDate, i,
		)
		if err != nil {
			return fmt.Errorf("insert building %s/%s: %w", in.LPNumber, b.Key, err)
		}
	}

	if len(in.PayloadJSON) > 0 {
		sum := sha256.Sum256(in.PayloadJSON)
		sha := hex.EncodeToString(sum[:])
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO provider_raw_snapshots (provider, endpoint, external_id, payload, payload_sha256)
			VALUES ($1,$2,$3,$4,$5)
		`, provider, in.Endpoint, in.LPNumber, string(in.PayloadJSON), sha); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceArticles stores urls as the article set of lpNumber. The landmark
// must already exist.
func (s *Store) ReplaceArticles(ctx context.Context, lpNumber string, urls []string) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM landmarks WHERE lp_number=$1`, lpNumber).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM landmark_articles WHERE lp_number=$1`, lpNumber); err != nil {
		return err
	}
	for i, u := range urls {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO landmark_articles (lp_number, url, position) VALUES ($1,$2,$3)
			ON CONFLICT (lp_number, url) DO NOTHING`, lpNumber, u, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FetchArticles returns the stored article URLs for lpNumber in stored order.
func (s *Store) FetchArticles(ctx context.Context, lpNumber string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT url FROM landmark_articles WHERE lp_number=$1 ORDER BY position`, lpNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountLandmarks returns how many landmarks are stored.
func (s *Store) CountLandmarks(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT count(*) FROM landmarks`).Scan(&n)
	return n, err
}
