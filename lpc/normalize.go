package lpc

import (
	"log/slog"
	"strings"

	"github.com/yourorg/landmark-api/internal/canon"
)

const (
	UnknownName     = "Unknown"
	UnknownLPNumber = "Unknown"
)

// Item is anything Normalizer accepts: a RawItem decoded from JSON, a
// *LandmarkDetail, a Building, or an already canonical Landmark.
type Item interface {
	lpcItem()
}

// RawItem is one decoded JSON object from the registry.
type RawItem map[string]any

func (RawItem) lpcItem() {}
func (Landmark) lpcItem() {}
func (LandmarkDetail) lpcItem() {}
func (Building) lpcItem() {}

// Diagnostic lists what Normalize had to default or discard. A nil
// *Diagnostic means the record converted cleanly.
type Diagnostic struct {
	ContextID string
	Missing   []string
	Invalid   []string
}

func (d *Diagnostic) empty() bool {
	return d == nil || (len(d.Missing) == 0 && len(d.Invalid) == 0)
}

func (d *Diagnostic) missing(field string) { d.Missing = append(d.Missing, field) }
func (d *Diagnostic) invalid(field string) { d.Invalid = append(d.Invalid, field) }

// LogValue lets a Diagnostic be passed to slog as a single attribute.
func (d *Diagnostic) LogValue() slog.Value {
	if d == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.String("context_id", d.ContextID),
		slog.Any("missing", d.Missing),
		slog.Any("invalid", d.Invalid),
	)
}

var (
	keysLPNumber     = []string{"lpNumber", "lp_number", "lpcNumber"}
	keysName         = []string{"name", "landmarkName"}
	keysObjectType   = []string{"objectType", "object_type"}
	keysArchitect    = []string{"architect"}
	keysStyle        = []string{"style"}
	keysStreet       = []string{"street", "address", "designatedAddress"}
	keysBorough      = []string{"borough"}
	keysDesignated   = []string{"dateDesignated", "designationDate", "designation_date"}
	keysNeighborhood = []string{"neighborhood", "historicDistrict"}
	keysZip          = []string{"zipCode", "zipcode", "zip_code"}
	keysPhoto        = []string{"photoUrl", "photoURL", "photo_url"}
	keysPDF          = []string{"pdfReportUrl", "pdfReportURL", "pdf_report_url"}
)

// Normalizer converts any Item into a Landmark. It never fails: missing
// required fields are defaulted and reported through the Diagnostic.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize returns the canonical form of item. contextID is the identifier
// the item was fetched under and backs a missing LP number.
func (n *Normalizer) Normalize(item Item, contextID string) (Landmark, *Diagnostic) {
	diag := &Diagnostic{ContextID: contextID}
	var out Landmark

	switch v := item.(type) {
	case Landmark:
		return v, nil
	case RawItem:
		out = fromRaw(v, contextID, diag)
	case *LandmarkDetail:
		if v == nil {
			diag.missing("record")
			break
		}
		out = fromDetail(v)
	case LandmarkDetail:
		out = fromDetail(&v)
	case Building:
		out = Landmark{
			LPNumber:        v.LPNumber,
			Name:            firstNonEmpty(v.Name, v.Address),
			ObjectType:      v.ObjectType,
			Street:          v.Address,
			Borough:         canon.Borough(v.BoroughID),
			DesignationDate: v.DesignationDate,
			Neighborhood:    v.HistoricDistrict,
		}
	default:
		diag.missing("record")
	}

	finish(&out, contextID, diag)
	if diag.empty() {
		return out, nil
	}
	n.logger.Warn("lpc: record degraded during normalization",
		"lp_number", out.LPNumber, "diagnostic", diag)
	return out, diag
}

func fromDetail(d *LandmarkDetail) Landmark {
	out := d.Landmark
	if out.Neighborhood == "" {
		out.Neighborhood = d.HistoricDistrict
	}
	return out
}

func fromRaw(m RawItem, contextID string, diag *Diagnostic) Landmark {
	lp := stringField(m, keysLPNumber...)
	if lp == "" && strings.TrimSpace(contextID) == "" {
		if ids := canon.StandardizeLPNumber(stringField(m, "id")); len(ids) > 0 {
			diag.missing("lpNumber")
			lp = ids[0]
		}
	}
	return Landmark{
		LPNumber:        lp,
		Name:            stringField(m, keysName...),
		ObjectType:      stringField(m, keysObjectType...),
		Architect:       stringField(m, keysArchitect...),
		Style:           stringField(m, keysStyle...),
		Street:          stringField(m, keysStreet...),
		Borough:         canon.Borough(stringField(m, keysBorough...)),
		DesignationDate: stringField(m, keysDesignated...),
		Neighborhood:    stringField(m, keysNeighborhood...),
		ZipCode:         stringField(m, keysZip...),
		PhotoURL:        stringField(m, keysPhoto...),
		PDFReportURL:    stringField(m, keysPDF...),
	}
}

// finish applies the defaults every non-canonical variant shares.
func finish(l *Landmark, contextID string, diag *Diagnostic) {
	if strings.TrimSpace(l.LPNumber) == "" {
		diag.missing("lpNumber")
		l.LPNumber = firstNonEmpty(strings.TrimSpace(contextID), UnknownLPNumber)
	}
	if strings.TrimSpace(l.Name) == "" {
		diag.missing("name")
		l.Name = UnknownName
	}
	if l.PhotoURL != "" && !validURL(l.PhotoURL) {
		diag.invalid("photoUrl")
		l.PhotoURL = ""
	}
	if l.PDFReportURL != "" && !validURL(l.PDFReportURL) {
		diag.invalid("pdfReportUrl")
		l.PDFReportURL = ""
	}
}
