package lpc

import (
	"context"
	"fmt"
)

// LandUse returns the PLUTO tax-lot records for id (an LP number or BBL). The
// registry answers with a single object or a list; both are accepted.
func (s *Service) LandUse(ctx context.Context, id string) ([]LandUse, error) {
	v, err := s.up.GetLandUse(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return []LandUse{}, nil
		}
		return nil, fmt.Errorf("land use for %s: %w", id, err)
	}

	var objs []map[string]any
	if list, ok := entries(v); ok {
		objs = maps(list)
	} else if m, ok := asMap(v); ok && len(m) > 0 {
		objs = []map[string]any{m}
	} else if v != nil {
		s.logger.Warn("lpc: land use payload has unexpected shape", "id", id)
	}

	out := make([]LandUse, 0, len(objs))
	for _, m := range objs {
		out = append(out, LandUse{
			BBL:           optionalString(m, "bbl", "BBL"),
			Address:       stringField(m, "address"),
			Borough:       stringField(m, "borough"),
			Block:         intField(m, "block"),
			Lot:           intField(m, "lot"),
			ZipCode:       stringField(m, keysZip...),
			LandUse:       stringField(m, "landUse", "landuse"),
			BuildingClass: stringField(m, "bldgClass", "buildingClass"),
			YearBuilt:     intField(m, "yearBuilt", "yearbuilt"),
			OwnerName:     stringField(m, "ownerName", "ownername"),
			Location:      pointField(m, keysLat, keysLon),
		})
	}
	return out, nil
}
