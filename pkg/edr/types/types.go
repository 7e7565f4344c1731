// Package types holds the domain model for EDR responses: immutable,
// request scoped view objects constructed by a data provider and handed
// to the renderers in pkg/edr/covjson, pkg/edr/geojson and
// pkg/edr/metadata.
package types

import (
	"github.com/diwise/edr-server/pkg/edr/errors"
	"github.com/diwise/edr-server/pkg/edr/internal/jsonw"
)

// Parameter describes a single observed property / measurement channel
// together with its data, which is carried either as inline values or as
// references to external tile sets.
type Parameter struct {
	Name     string
	ID       string
	Type     string
	DataType string

	Axes  []string
	Shape []int

	Body ValueBody

	Description      string
	Unit             Unit
	ObservedProperty ObservedProperty

	CategoryEncoding []CategoryValue
	MeasurementType  *MeasurementType
}

// Validate checks the invariants that the data interface contract
// requires of a parameter before it can be rendered.
func (p Parameter) Validate() error {
	if len(p.Axes) != len(p.Shape) {
		return errors.NewInvalidParameterError(p.Name, "shape", "axis and shape counts differ")
	}

	if p.Body == nil {
		return errors.NewInvalidParameterError(p.Name, "values", "a parameter must carry either values or tile sets")
	}

	return nil
}

// ValueBody is the tagged union of the two value representations a
// parameter may use.
type ValueBody interface {
	isValueBody()
}

// Values holds inline data in axis order. A nil entry marks a missing
// value and renders as JSON null.
type Values []*float64

func (Values) isValueBody() {}

// TileSets holds references to externally served data tiles.
type TileSets []TileSet

func (TileSets) isValueBody() {}

// TileSet points to one tiled rendition of a parameter's data. Entries in
// TileShape may be nil when the corresponding dimension is not tiled.
type TileSet struct {
	TileShape   []*int
	URLTemplate string
}

type Unit struct {
	Label  string
	Symbol string
	ID     string
}

type ObservedProperty struct {
	ID    string
	Label string
}

// CategoryValue maps a palette colour to the value that encodes the
// category. The order of a parameter's category values is significant,
// it doubles as the preferred palette.
type CategoryValue struct {
	Colour string
	Value  int
}

type MeasurementType struct {
	Method string
	Period string
}

// Domain is a spatial/temporal grid descriptor. Axes that are not part
// of the domain are left nil and omitted from the rendered output.
type Domain struct {
	Axes        DomainAxes
	Referencing []Referencing
	Parameters  []Parameter
}

type DomainAxes struct {
	X *Axis
	Y *Axis
	Z *Axis
	T *TimeAxis
}

// Axis holds the point sequence for a numeric axis.
type Axis struct {
	Values []float64
}

// TimeAxis holds the point sequence for the temporal axis. Values render
// as strings.
type TimeAxis struct {
	Values []string
}

// Referencing attaches coordinate reference system metadata to a subset
// of a domain's axes.
type Referencing struct {
	Coordinates []string
	System      System
}

// System identifies a reference system. ID and Calendar are optional and
// independently omitted when empty.
type System struct {
	Type     string
	ID       string
	Calendar string
}

// Property is one ordered key/value pair in a feature's properties.
// Values render as quoted strings.
type Property struct {
	Key   string
	Value string
}

// Feature is a single queryable geospatial feature. BBox is always
// present (4 or 6 numbers), the temporal and vertical intervals are
// optional and independently toggled. Coordinates are kept as strings to
// match the wire format. LinkHref, when non empty, yields a data link in
// items listings.
type Feature struct {
	ID           string
	GeometryType string
	Coordinates  []string
	Properties   []Property

	BBox             []float64
	TemporalInterval []string
	VerticalInterval []float64

	Parameters []Parameter

	LinkHref string
}

// FeatureCollection is a paginated listing of features. NumberReturned
// not exceeding NumberMatched is the data provider's responsibility, the
// renderer does not enforce it.
type FeatureCollection struct {
	Links          []Link
	NumberReturned int
	NumberMatched  int
	TimeStamp      string
	Features       []Feature
}

// Collection is the metadata describing one dataset exposed by the
// server. The temporal and vertical extents are optional, but an extent
// without its reference system is a contract violation.
type Collection struct {
	ID          string
	Title       string
	Description string
	Keywords    []string

	BBox    []float64
	CRS     string
	CRSName string

	TemporalInterval []string
	TemporalValues   []string
	TRS              string
	TemporalName     string

	VerticalInterval []float64
	VerticalValues   []float64
	VRS              string
	VerticalName     string

	Links      []Link
	Parameters []Parameter
}

// HasTemporalExtent reports whether the collection carries a temporal
// extent, failing if the extent lacks a TRS.
func (c Collection) HasTemporalExtent() (bool, error) {
	if len(c.TemporalInterval) == 0 {
		return false, nil
	}

	if c.TRS == "" {
		return false, errors.NewInvalidCollectionError(c.ID, "trs", "at minimum the temporal interval and TRS must be specified")
	}

	return true, nil
}

// HasVerticalExtent reports whether the collection carries a vertical
// extent, failing if the extent lacks a VRS.
func (c Collection) HasVerticalExtent() (bool, error) {
	if len(c.VerticalInterval) == 0 {
		return false, nil
	}

	if c.VRS == "" {
		return false, errors.NewInvalidCollectionError(c.ID, "vrs", "at minimum the vertical interval and VRS must be specified")
	}

	return true, nil
}

// Link describes a related resource in the manner of RFC 8288.
type Link struct {
	Href     string
	Rel      string
	Type     string
	Title    string
	Hreflang string
}

func (l Link) MarshalJSON() ([]byte, error) {
	o := jsonw.Obj().Add("href", l.Href).Add("rel", l.Rel)

	if l.Type != "" {
		o.Add("type", l.Type)
	}
	if l.Title != "" {
		o.Add("title", l.Title)
	}
	if l.Hreflang != "" {
		o.Add("hreflang", l.Hreflang)
	}

	return o.MarshalJSON()
}

// ServiceMetadata describes the service itself for the capabilities
// document served at the API root.
type ServiceMetadata struct {
	Title       string
	Description string
	Keywords    []string
	Provider    Provider
	Contact     Contact
}

type Provider struct {
	Name string
	URL  string
}

type Contact struct {
	Email        string
	Phone        string
	Fax          string
	Hours        string
	Instructions string
	Address      string
	Postcode     string
	City         string
	State        string
	Country      string
}
