package datasets

import (
	"fmt"

	"github.com/diwise/edr-server/pkg/edr/types"
)

// catalogueFile mirrors the YAML layout of a dataset catalogue.
type catalogueFile struct {
	Collections []collectionEntry `yaml:"collections"`
}

type collectionEntry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`

	Extent struct {
		BBox    []float64 `yaml:"bbox"`
		CRS     string    `yaml:"crs"`
		CRSName string    `yaml:"crsname"`

		Temporal struct {
			Interval []string `yaml:"interval"`
			Values   []string `yaml:"values"`
			TRS      string   `yaml:"trs"`
			Name     string   `yaml:"name"`
		} `yaml:"temporal"`

		Vertical struct {
			Interval []float64 `yaml:"interval"`
			Values   []float64 `yaml:"values"`
			VRS      string    `yaml:"vrs"`
			Name     string    `yaml:"name"`
		} `yaml:"vertical"`
	} `yaml:"extent"`

	Parameters []parameterEntry `yaml:"parameters"`
	Locations  []locationEntry  `yaml:"locations"`
}

type parameterEntry struct {
	Name        string   `yaml:"name"`
	ID          string   `yaml:"id"`
	Type        string   `yaml:"type"`
	DataType    string   `yaml:"datatype"`
	Axes        []string `yaml:"axes"`
	Shape       []int    `yaml:"shape"`
	Description string   `yaml:"description"`

	Unit struct {
		Label  string `yaml:"label"`
		Symbol string `yaml:"symbol"`
		ID     string `yaml:"id"`
	} `yaml:"unit"`

	ObservedProperty struct {
		ID    string `yaml:"id"`
		Label string `yaml:"label"`
	} `yaml:"observedproperty"`

	CategoryEncoding []struct {
		Colour string `yaml:"colour"`
		Value  int    `yaml:"value"`
	} `yaml:"categoryencoding"`

	MeasurementType *struct {
		Method string `yaml:"method"`
		Period string `yaml:"period"`
	} `yaml:"measurementtype"`

	Values []*float64 `yaml:"values"`

	TileSets []struct {
		TileShape   []*int `yaml:"tileshape"`
		URLTemplate string `yaml:"urltemplate"`
	} `yaml:"tilesets"`
}

type locationEntry struct {
	ID           string   `yaml:"id"`
	GeometryType string   `yaml:"geometrytype"`
	Coordinates  []string `yaml:"coordinates"`
	Properties   []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"properties"`

	BBox             []float64 `yaml:"bbox"`
	TemporalInterval []string  `yaml:"temporalinterval"`
	VerticalInterval []float64 `yaml:"verticalinterval"`

	Axes struct {
		X []float64 `yaml:"x"`
		Y []float64 `yaml:"y"`
		Z []float64 `yaml:"z"`
		T []string  `yaml:"t"`
	} `yaml:"axes"`

	Referencing []struct {
		Coordinates []string `yaml:"coordinates"`
		Type        string   `yaml:"type"`
		ID          string   `yaml:"id"`
		Calendar    string   `yaml:"calendar"`
	} `yaml:"referencing"`

	Parameters []parameterEntry `yaml:"parameters"`
}

func (c collectionEntry) convert(baseURL string) (types.Collection, []location, error) {
	collection := types.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Keywords:    c.Keywords,

		BBox:    c.Extent.BBox,
		CRS:     c.Extent.CRS,
		CRSName: c.Extent.CRSName,

		TemporalInterval: c.Extent.Temporal.Interval,
		TemporalValues:   c.Extent.Temporal.Values,
		TRS:              c.Extent.Temporal.TRS,
		TemporalName:     c.Extent.Temporal.Name,

		VerticalInterval: c.Extent.Vertical.Interval,
		VerticalValues:   c.Extent.Vertical.Values,
		VRS:              c.Extent.Vertical.VRS,
		VerticalName:     c.Extent.Vertical.Name,

		Links: []types.Link{
			{Href: fmt.Sprintf("%s/collections/%s", baseURL, c.ID), Rel: "self", Type: "application/json"},
			{Href: fmt.Sprintf("%s/collections/%s/items", baseURL, c.ID), Rel: "items", Type: "application/geo+json"},
		},
	}

	for _, p := range c.Parameters {
		parameter, err := p.convert()
		if err != nil {
			return types.Collection{}, nil, err
		}
		collection.Parameters = append(collection.Parameters, parameter)
	}

	locations := make([]location, 0, len(c.Locations))

	for _, l := range c.Locations {
		loc, err := l.convert(baseURL, c.ID)
		if err != nil {
			return types.Collection{}, nil, err
		}
		locations = append(locations, loc)
	}

	return collection, locations, nil
}

func (p parameterEntry) convert() (types.Parameter, error) {
	parameter := types.Parameter{
		Name:        p.Name,
		ID:          p.ID,
		Type:        p.Type,
		DataType:    p.DataType,
		Axes:        p.Axes,
		Shape:       p.Shape,
		Description: p.Description,
		Unit: types.Unit{
			Label:  p.Unit.Label,
			Symbol: p.Unit.Symbol,
			ID:     p.Unit.ID,
		},
		ObservedProperty: types.ObservedProperty{
			ID:    p.ObservedProperty.ID,
			Label: p.ObservedProperty.Label,
		},
	}

	for _, ce := range p.CategoryEncoding {
		parameter.CategoryEncoding = append(parameter.CategoryEncoding, types.CategoryValue{
			Colour: ce.Colour,
			Value:  ce.Value,
		})
	}

	if p.MeasurementType != nil {
		parameter.MeasurementType = &types.MeasurementType{
			Method: p.MeasurementType.Method,
			Period: p.MeasurementType.Period,
		}
	}

	if len(p.TileSets) > 0 {
		tileSets := make(types.TileSets, 0, len(p.TileSets))
		for _, ts := range p.TileSets {
			tileSets = append(tileSets, types.TileSet{
				TileShape:   ts.TileShape,
				URLTemplate: ts.URLTemplate,
			})
		}
		parameter.Body = tileSets
	} else {
		parameter.Body = types.Values(p.Values)
	}

	if err := parameter.Validate(); err != nil {
		return types.Parameter{}, err
	}

	return parameter, nil
}

func (l locationEntry) convert(baseURL, collectionID string) (location, error) {
	id := l.ID
	if id == "" {
		id = newLocationID()
	}

	feature := types.Feature{
		ID:           id,
		GeometryType: l.GeometryType,
		Coordinates:  l.Coordinates,

		BBox:             l.BBox,
		TemporalInterval: l.TemporalInterval,
		VerticalInterval: l.VerticalInterval,

		LinkHref: fmt.Sprintf("%s/collections/%s/locations/%s", baseURL, collectionID, id),
	}

	for _, prop := range l.Properties {
		feature.Properties = append(feature.Properties, types.Property{Key: prop.Key, Value: prop.Value})
	}

	domain := types.Domain{}

	if len(l.Axes.X) > 0 {
		domain.Axes.X = &types.Axis{Values: l.Axes.X}
	}
	if len(l.Axes.Y) > 0 {
		domain.Axes.Y = &types.Axis{Values: l.Axes.Y}
	}
	if len(l.Axes.Z) > 0 {
		domain.Axes.Z = &types.Axis{Values: l.Axes.Z}
	}
	if len(l.Axes.T) > 0 {
		domain.Axes.T = &types.TimeAxis{Values: l.Axes.T}
	}

	for _, r := range l.Referencing {
		domain.Referencing = append(domain.Referencing, types.Referencing{
			Coordinates: r.Coordinates,
			System: types.System{
				Type:     r.Type,
				ID:       r.ID,
				Calendar: r.Calendar,
			},
		})
	}

	for _, p := range l.Parameters {
		parameter, err := p.convert()
		if err != nil {
			return location{}, err
		}
		domain.Parameters = append(domain.Parameters, parameter)
		feature.Parameters = append(feature.Parameters, parameter)
	}

	return location{feature: feature, domain: domain}, nil
}
