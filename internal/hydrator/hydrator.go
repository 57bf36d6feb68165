package hydrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/yourorg/landmark-api/internal/canon"
	"github.com/yourorg/landmark-api/internal/events"
	"github.com/yourorg/landmark-api/internal/metrics"
	"github.com/yourorg/landmark-api/internal/store"
	"github.com/yourorg/landmark-api/lpc"
)

// LandmarkWriter is the part of *store.Store the Hydrator needs.
type LandmarkWriter interface {
	UpsertLandmark(ctx context.Context, in store.LandmarkInput) error
}

type Hydrator struct {
	Store   LandmarkWriter
	Pub     events.Publisher
	Metrics *metrics.Metrics
}

func (h *Hydrator) Enabled() bool { return h != nil && h.Store != nil }

// Write persists one resolved landmark with the raw registry payload it came
// from, then announces it.
func (h *Hydrator) Write(ctx context.Context, d *lpc.LandmarkDetail, raw []byte) error {
	if !h.Enabled() {
		return nil
	}
	if d == nil {
		return errors.New("hydrator: nil landmark")
	}
	if d.LPNumber == "" || d.LPNumber == lpc.UnknownLPNumber {
		return fmt.Errorf("hydrator: landmark %q has no usable lp number", d.Name)
	}
	if err := h.Store.UpsertLandmark(ctx, BuildInput(d, raw)); err != nil {
		return fmt.Errorf("persist %s: %w", d.LPNumber, err)
	}
	h.Metrics.IncPersisted()
	if h.Pub != nil {
		h.Pub.PublishLandmarkUpdated(ctx, events.LandmarkUpdated{LPNumber: d.LPNumber, Name: d.Name})
	}
	return nil
}

// BuildInput maps a landmark detail onto store columns.
func BuildInput(d *lpc.LandmarkDetail, raw []byte) store.LandmarkInput {
	in := store.LandmarkInput{
		LPNumber:         d.LPNumber,
		Name:             d.Name,
		ObjectType:       d.ObjectType,
		Architect:        d.Architect,
		Style:            d.Style,
		Street:           d.Street,
		Borough:          d.Borough,
		DesignationDate:  d.DesignationDate,
		Neighborhood:     d.Neighborhood,
		ZipCode:          d.ZipCode,
		PhotoURL:         d.PhotoURL,
		PDFReportURL:     d.PDFReportURL,
		LPCID:            d.LPCID,
		BBL:              sqlNullStringPtr(d.BBL),
		BIN:              sqlNullString(d.BIN),
		Block:            sqlNullInt(int64(d.Block)),
		Lot:              sqlNullInt(int64(d.Lot)),
		HistoricDistrict: d.HistoricDistrict,
		Endpoint:         "LpcReport",
		PayloadJSON:      raw,
	}
	if d.Map != nil && d.Map.Center != nil {
		in.Lat = sqlNullFloat(d.Map.Center.Latitude)
		in.Lon = sqlNullFloat(d.Map.Center.Longitude)
	}
	for i, b := range d.Buildings {
		bi := store.BuildingInput{
			Key:             buildingKey(b, i),
			Name:            b.Name,
			Address:         b.Address,
			BBL:             sqlNullStringPtr(b.BBL),
			BIN:             sqlNullString(b.BIN),
			Block:           sqlNullInt(int64(b.Block)),
			Lot:             sqlNullInt(int64(b.Lot)),
			BoroughID:       b.BoroughID,
			DesignationDate: b.DesignationDate,
		}
		if b.Location != nil {
			bi.Lat = sqlNullFloat(b.Location.Latitude)
			bi.Lon = sqlNullFloat(b.Location.Longitude)
		}
		in.Buildings = append(in.Buildings, bi)
	}
	return in
}

// buildingKey identifies a building within its landmark: BIN, then BBL, then
// the normalised address, then its position.
func buildingKey(b lpc.Building, i int) string {
	switch {
	case b.BIN != "":
		return "bin:" + b.BIN
	case b.BBL != nil:
		return "bbl:" + *b.BBL
	}
	if k := canon.AddressKey(b.Address); k != "" {
		return "addr:" + k
	}
	return "idx:" + strconv.Itoa(i)
}

func sqlNullFloat(v float64) sql.NullFloat64 {
	if v == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func sqlNullInt(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func sqlNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sqlNullString(*s)
}
