package lpc

import (
	"github.com/yourorg/landmark-api/internal/canon"
)

var (
	keysLat = []string{"latitude", "lat"}
	keysLon = []string{"longitude", "lon", "lng"}
)

// parseDetail builds a LandmarkDetail from one LpcReport object. The embedded
// Landmark goes through the Normalizer so detail and list records share
// defaults.
func (n *Normalizer) parseDetail(m map[string]any, contextID string) *LandmarkDetail {
	d := &LandmarkDetail{
		LPCID:            stringField(m, "lpcId", "id"),
		BBL:              optionalString(m, "bbl", "BBL"),
		BIN:              stringField(m, "binNumber", "bin"),
		Block:            intField(m, "block"),
		Lot:              intField(m, "lot"),
		HistoricDistrict: stringField(m, "historicDistrict"),
	}
	d.Landmark, _ = n.Normalize(RawItem(m), contextID)

	if md, ok := asMap(firstPresent(m, "mapData", "map")); ok {
		d.Map = parseMap(md)
	}
	if list, ok := m["landmarks"].([]any); ok {
		for _, b := range maps(list) {
			d.Buildings = append(d.Buildings, parseBuilding(b))
		}
	}
	return d
}

func parseMap(m map[string]any) *MapData {
	md := &MapData{}
	if z, ok := asFloat(m["zoom"]); ok {
		md.Zoom = z
	}
	if c, ok := asMap(m["centerPoint"]); ok {
		md.Center = pointField(c, keysLat, keysLon)
	}
	if list, ok := firstPresent(m, "mapLandmarks", "markers").([]any); ok {
		for _, mk := range maps(list) {
			p := pointField(mk, keysLat, keysLon)
			if p == nil {
				continue
			}
			md.Markers = append(md.Markers, MapMarker{
				LPNumber: stringField(mk, keysLPNumber...),
				Name:     stringField(mk, keysName...),
				Point:    *p,
			})
		}
	}
	if md.Zoom == 0 && md.Center == nil && len(md.Markers) == 0 {
		return nil
	}
	return md
}

// parseBuilding reads one entry of the buildings endpoint or of a detail's
// "landmarks" list.
func parseBuilding(m map[string]any) Building {
	address := stringField(m, "designatedAddress", "plutoAddress", "address")
	if address == "" {
		address = canon.Address(stringField(m, "number"), stringField(m, "street"))
	}
	return Building{
		Name:             stringField(m, keysName...),
		LPNumber:         stringField(m, keysLPNumber...),
		Address:          address,
		BBL:              optionalString(m, "bbl", "BBL"),
		BIN:              stringField(m, "binNumber", "bin"),
		Block:            intField(m, "block"),
		Lot:              intField(m, "lot"),
		BoroughID:        stringField(m, "boroughId", "borough"),
		Location:         pointField(m, keysLat, keysLon),
		DesignationDate:  stringField(m, keysDesignated...),
		ObjectType:       stringField(m, keysObjectType...),
		HistoricDistrict: stringField(m, "historicDistrict"),
	}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
