package lpc

// Landmark is the canonical registry record. LPNumber and Name are always
// populated; URL fields are absolute http(s) URLs or empty.
type Landmark struct {
	LPNumber        string `json:"lpNumber"`
	Name            string `json:"name"`
	ObjectType      string `json:"objectType,omitempty"`
	Architect       string `json:"architect,omitempty"`
	Style           string `json:"style,omitempty"`
	Street          string `json:"street,omitempty"`
	Borough         string `json:"borough,omitempty"`
	DesignationDate string `json:"designationDate,omitempty"`
	Neighborhood    string `json:"neighborhood,omitempty"`
	ZipCode         string `json:"zipCode,omitempty"`
	PhotoURL        string `json:"photoUrl,omitempty"`
	PDFReportURL    string `json:"pdfReportUrl,omitempty"`
}

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MapMarker struct {
	LPNumber string `json:"lpNumber,omitempty"`
	Name     string `json:"name,omitempty"`
	Point
}

type MapData struct {
	Zoom    float64     `json:"zoom,omitempty"`
	Center  *Point      `json:"centerPoint,omitempty"`
	Markers []MapMarker `json:"markers,omitempty"`
}

// LandmarkDetail is the single-report view. Map and Buildings are optional
// independently of the other fields.
type LandmarkDetail struct {
	Landmark
	LPCID            string     `json:"lpcId,omitempty"`
	BBL              *string    `json:"bbl,omitempty"`
	BIN              string     `json:"bin,omitempty"`
	Block            int        `json:"block,omitempty"`
	Lot              int        `json:"lot,omitempty"`
	HistoricDistrict string     `json:"historicDistrict,omitempty"`
	Map              *MapData   `json:"map,omitempty"`
	Buildings        []Building `json:"landmarks,omitempty"`
}

// Building is one structure tied to a landmark. BBL is nil when the registry
// omits it or sends it blank.
type Building struct {
	Name             string  `json:"name,omitempty"`
	LPNumber         string  `json:"lpNumber,omitempty"`
	Address          string  `json:"address,omitempty"`
	BBL              *string `json:"bbl"`
	BIN              string  `json:"bin,omitempty"`
	Block            int     `json:"block,omitempty"`
	Lot              int     `json:"lot,omitempty"`
	BoroughID        string  `json:"boroughId,omitempty"`
	Location         *Point  `json:"location,omitempty"`
	DesignationDate  string  `json:"designationDate,omitempty"`
	ObjectType       string  `json:"objectType,omitempty"`
	HistoricDistrict string  `json:"historicDistrict,omitempty"`
}

// Listing is one reconciled page of the report listing. RangeStart and
// RangeEnd are the 1-based ordinals of the first and last result; an empty
// page has RangeEnd == RangeStart-1.
type Listing struct {
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	RangeStart int        `json:"from"`
	RangeEnd   int        `json:"to"`
	Results    []Landmark `json:"results"`
}

// Filters narrows a report listing. Empty fields are not sent.
type Filters struct {
	Borough         string `json:"borough,omitempty"`
	ObjectType      string `json:"objectType,omitempty"`
	Neighborhood    string `json:"neighborhood,omitempty"`
	SearchText      string `json:"searchText,omitempty"`
	ParentStyleList string `json:"parentStyleList,omitempty"`
	SortColumn      string `json:"sortColumn,omitempty"`
	SortOrder       string `json:"sortOrder,omitempty"`
}

type Photo struct {
	ID          string `json:"id,omitempty"`
	LPNumber    string `json:"lpNumber,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
	URL         string `json:"url"`
}

// LandUse is a PLUTO tax-lot record.
type LandUse struct {
	BBL           *string `json:"bbl"`
	Address       string  `json:"address,omitempty"`
	Borough       string  `json:"borough,omitempty"`
	Block         int     `json:"block,omitempty"`
	Lot           int     `json:"lot,omitempty"`
	ZipCode       string  `json:"zipCode,omitempty"`
	LandUse       string  `json:"landUse,omitempty"`
	BuildingClass string  `json:"buildingClass,omitempty"`
	YearBuilt     int     `json:"yearBuilt,omitempty"`
	OwnerName     string  `json:"ownerName,omitempty"`
	Location      *Point  `json:"location,omitempty"`
}

type ReferenceItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
