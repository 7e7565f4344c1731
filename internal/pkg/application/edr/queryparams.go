package edr

const (
	FormatJSON         string = "json"
	FormatCoverageJSON string = "coveragejson"
)

// QueryParameters carries the EDR query concepts of a request, already
// translated from their query string forms by the presentation layer.
type QueryParameters struct {
	Format string

	BBox   *BBox
	Coords string
	CRS    string

	Datetime      *Selector
	Z             *Selector
	ParameterName *Selector
}

// BBox is the bounding box of a query, parsed from the
// "xmin ymin,xmax ymax" query string form.
type BBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Selector captures the interval forms a value constraint can take in a
// query string: one or more discrete values, a start/end range, or a
// repeated interval.
type Selector struct {
	Values []string
	Range  *ValueRange
	Repeat *ValueRepeat
}

type ValueRange struct {
	Start string
	End   string
}

type ValueRepeat struct {
	Count    int
	Start    string
	Interval string
}
