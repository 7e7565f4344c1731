// Package geojson renders features and feature collections into the
// GeoJSON derived documents used by the EDR items and locations
// endpoints.
//
// Two format quirks are deliberate and must not be "fixed": geometry
// coordinates and property values render as quoted strings, while bbox
// and vertical interval bounds render as raw numbers and temporal bounds
// as quoted strings.
package geojson

import (
	"github.com/diwise/edr-server/pkg/edr/covjson"
	"github.com/diwise/edr-server/pkg/edr/internal/jsonw"
	"github.com/diwise/edr-server/pkg/edr/types"
)

const (
	// CoverageJSONContentType is the media type advertised by the data
	// links that item listings synthesize for their features.
	CoverageJSONContentType string = "application/cov+json"
)

// Feature wraps a domain feature so that it marshals as a complete
// single feature document.
type Feature struct {
	feature types.Feature
}

func NewFeature(f types.Feature) Feature {
	return Feature{feature: f}
}

func (f Feature) MarshalJSON() ([]byte, error) {
	ft := f.feature

	properties := jsonw.Obj()
	for _, p := range ft.Properties {
		properties.Add(p.Key, p.Value)
	}

	properties.Add("extent", extentNode(ft))

	parameterNames := jsonw.Obj()
	for _, p := range ft.Parameters {
		metadata, err := covjson.ParameterMetadata(p)
		if err != nil {
			return nil, err
		}
		parameterNames.Add(p.Name, metadata)
	}
	properties.Add("parameter_names", parameterNames)

	doc := jsonw.Obj().
		Add("id", ft.ID).
		Add("type", "Feature").
		Add("geometry", geometryNode(ft)).
		Add("properties", properties)

	return doc.MarshalJSON()
}

func extentNode(ft types.Feature) *jsonw.Object {
	bbox := ft.BBox
	if bbox == nil {
		bbox = []float64{}
	}

	extent := jsonw.Obj().Add("spatial", jsonw.Obj().Add("bbox", bbox))

	if len(ft.TemporalInterval) > 0 {
		extent.Add("temporal", jsonw.Obj().Add("interval", [][]string{ft.TemporalInterval}))
	}

	if len(ft.VerticalInterval) > 0 {
		extent.Add("vertical", jsonw.Obj().Add("interval", [][]float64{ft.VerticalInterval}))
	}

	return extent
}

func geometryNode(ft types.Feature) *jsonw.Object {
	coordinates := ft.Coordinates
	if coordinates == nil {
		coordinates = []string{}
	}

	return jsonw.Obj().
		Add("type", ft.GeometryType).
		Add("coordinates", coordinates)
}

// FeatureCollection wraps a feature listing so that it marshals as a
// complete items document.
type FeatureCollection struct {
	collection types.FeatureCollection
}

func NewFeatureCollection(fc types.FeatureCollection) FeatureCollection {
	return FeatureCollection{collection: fc}
}

func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	c := fc.collection

	doc := jsonw.Obj().Add("type", "FeatureCollection")

	if len(c.Links) > 0 {
		doc.Add("links", c.Links)
	}

	doc.Add("numberReturned", c.NumberReturned)
	doc.Add("numberMatched", c.NumberMatched)
	doc.Add("timeStamp", c.TimeStamp)

	features := make([]*jsonw.Object, 0, len(c.Features))
	for _, ft := range c.Features {
		features = append(features, itemNode(ft))
	}
	doc.Add("features", features)

	return doc.MarshalJSON()
}

func itemNode(ft types.Feature) *jsonw.Object {
	properties := jsonw.Obj()
	for _, p := range ft.Properties {
		properties.Add(p.Key, p.Value)
	}

	o := jsonw.Obj().
		Add("id", ft.ID).
		Add("type", "Feature").
		Add("geometry", geometryNode(ft)).
		Add("properties", properties)

	if ft.LinkHref != "" {
		o.Add("links", []types.Link{{
			Href:     ft.LinkHref,
			Rel:      "data",
			Type:     CoverageJSONContentType,
			Hreflang: "en",
		}})
	}

	return o
}
