// Package covjson renders domains and parameters into the CoverageJSON
// style documents mandated by the EDR response formats. Rendering is a
// pure transformation, a failed render returns an error and no partial
// output.
package covjson

import (
	"encoding/json"

	"github.com/diwise/edr-server/pkg/edr/errors"
	"github.com/diwise/edr-server/pkg/edr/internal/jsonw"
	"github.com/diwise/edr-server/pkg/edr/types"
)

// Coverage wraps a domain so that it marshals as a complete coverage
// document: {"domain":{...},"parameters":{...},"ranges":{...}}.
type Coverage struct {
	domain types.Domain
}

func NewCoverage(d types.Domain) Coverage {
	return Coverage{domain: d}
}

func (c Coverage) MarshalJSON() ([]byte, error) {
	domain, err := domainNode(c.domain)
	if err != nil {
		return nil, err
	}

	parameters := jsonw.Obj()
	ranges := jsonw.Obj()

	for _, p := range c.domain.Parameters {
		metadata, err := parameterNode(p, false)
		if err != nil {
			return nil, err
		}
		parameters.Add(p.Name, metadata)

		rng, err := parameterNode(p, true)
		if err != nil {
			return nil, err
		}
		ranges.Add(p.Name, rng)
	}

	doc := jsonw.Obj().
		Add("domain", domain).
		Add("parameters", parameters).
		Add("ranges", ranges)

	return doc.MarshalJSON()
}

// ParameterMetadata renders the metadata object for a parameter, without
// its values or tile sets.
func ParameterMetadata(p types.Parameter) (json.RawMessage, error) {
	node, err := parameterNode(p, false)
	if err != nil {
		return nil, err
	}

	return json.Marshal(node)
}

// ParameterRange renders the full parameter object including its value
// body.
func ParameterRange(p types.Parameter) (json.RawMessage, error) {
	node, err := parameterNode(p, true)
	if err != nil {
		return nil, err
	}

	return json.Marshal(node)
}

func domainNode(d types.Domain) (*jsonw.Object, error) {
	axes := jsonw.Obj()

	// fixed axis iteration order: x, y, z, t
	if d.Axes.X != nil {
		axes.Add("x", axisNode(d.Axes.X.Values))
	}
	if d.Axes.Y != nil {
		axes.Add("y", axisNode(d.Axes.Y.Values))
	}
	if d.Axes.Z != nil {
		axes.Add("z", axisNode(d.Axes.Z.Values))
	}
	if d.Axes.T != nil {
		axes.Add("t", timeAxisNode(d.Axes.T.Values))
	}

	referencing := make([]*jsonw.Object, 0, len(d.Referencing))
	for _, ref := range d.Referencing {
		referencing = append(referencing, referencingNode(ref))
	}

	return jsonw.Obj().Add("axes", axes).Add("referencing", referencing), nil
}

func axisNode(values []float64) *jsonw.Object {
	if values == nil {
		values = []float64{}
	}
	return jsonw.Obj().Add("values", values)
}

func timeAxisNode(values []string) *jsonw.Object {
	if values == nil {
		values = []string{}
	}
	return jsonw.Obj().Add("values", values)
}

func referencingNode(ref types.Referencing) *jsonw.Object {
	system := jsonw.Obj().Add("type", ref.System.Type)

	if ref.System.ID != "" {
		system.Add("id", ref.System.ID)
	}
	if ref.System.Calendar != "" {
		system.Add("calendar", ref.System.Calendar)
	}

	coordinates := ref.Coordinates
	if coordinates == nil {
		coordinates = []string{}
	}

	return jsonw.Obj().Add("coordinates", coordinates).Add("system", system)
}

func parameterNode(p types.Parameter, includeValues bool) (*jsonw.Object, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := jsonw.Obj().
		Add("type", p.Type).
		Add("dataType", p.DataType).
		Add("axisNames", p.Axes).
		Add("shape", p.Shape)

	if p.Description != "" {
		o.Add("description", p.Description)
	}

	o.Add("unit", unitNode(p.Unit))
	o.Add("observedProperty", observedPropertyNode(p.ObservedProperty))

	if p.MeasurementType != nil && p.MeasurementType.Method != "" {
		o.Add("measurementType", jsonw.Obj().
			Add("method", p.MeasurementType.Method).
			Add("period", p.MeasurementType.Period),
		)
	}

	if len(p.CategoryEncoding) > 0 {
		encoding := jsonw.Obj()
		colors := make([]string, 0, len(p.CategoryEncoding))

		for _, cv := range p.CategoryEncoding {
			encoding.Add(cv.Colour, cv.Value)
			colors = append(colors, cv.Colour)
		}

		o.Add("categoryEncoding", encoding)
		o.Add("preferredPalette", jsonw.Obj().Add("colors", colors))
	}

	if !includeValues {
		return o, nil
	}

	switch body := p.Body.(type) {
	case types.Values:
		if body == nil {
			body = types.Values{}
		}
		o.Add("values", body)
	case types.TileSets:
		tileSets := make([]*jsonw.Object, 0, len(body))
		for _, ts := range body {
			tileSets = append(tileSets, tileSetNode(ts))
		}
		o.Add("tileSets", tileSets)
	default:
		return nil, errors.NewInvalidParameterError(p.Name, "values", "unknown value body type")
	}

	return o, nil
}

func tileSetNode(ts types.TileSet) *jsonw.Object {
	tileShape := ts.TileShape
	if tileShape == nil {
		tileShape = []*int{}
	}

	return jsonw.Obj().
		Add("tileShape", tileShape).
		Add("urlTemplate", ts.URLTemplate)
}

func unitNode(u types.Unit) *jsonw.Object {
	o := jsonw.Obj()

	if u.Label != "" {
		o.Add("label", u.Label)
	}
	if u.Symbol != "" {
		o.Add("symbol", u.Symbol)
	}
	if u.ID != "" {
		o.Add("id", u.ID)
	}

	return o
}

func observedPropertyNode(op types.ObservedProperty) *jsonw.Object {
	o := jsonw.Obj()

	if op.ID != "" {
		o.Add("id", op.ID)
	}

	return o.Add("label", op.Label)
}
