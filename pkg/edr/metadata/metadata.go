// Package metadata renders the descriptive documents of the API: single
// collection objects, the capabilities document served at the root and
// the conformance declaration.
package metadata

import (
	"encoding/json"

	"github.com/diwise/edr-server/pkg/edr/covjson"
	"github.com/diwise/edr-server/pkg/edr/internal/jsonw"
	"github.com/diwise/edr-server/pkg/edr/types"
)

// Collection wraps collection metadata so that it marshals as the
// singular collection document.
type Collection struct {
	collection types.Collection
}

func NewCollection(c types.Collection) Collection {
	return Collection{collection: c}
}

func (c Collection) MarshalJSON() ([]byte, error) {
	col := c.collection

	extent, err := extentNode(col)
	if err != nil {
		return nil, err
	}

	keywords := col.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	doc := jsonw.Obj().
		Add("id", col.ID).
		Add("title", col.Title).
		Add("description", col.Description).
		Add("keywords", keywords).
		Add("extent", extent)

	if len(col.Links) > 0 {
		doc.Add("links", col.Links)
	}

	parameterNames := jsonw.Obj()
	for _, p := range col.Parameters {
		metadata, err := covjson.ParameterMetadata(p)
		if err != nil {
			return nil, err
		}
		parameterNames.Add(p.Name, metadata)
	}
	doc.Add("parameter_names", parameterNames)

	return doc.MarshalJSON()
}

func extentNode(col types.Collection) (*jsonw.Object, error) {
	bbox := col.BBox
	if bbox == nil {
		bbox = []float64{}
	}

	spatial := jsonw.Obj().Add("bbox", bbox).Add("crs", col.CRS)
	if col.CRSName != "" {
		spatial.Add("name", col.CRSName)
	}

	extent := jsonw.Obj().Add("spatial", spatial)

	hasTemporal, err := col.HasTemporalExtent()
	if err != nil {
		return nil, err
	}

	if hasTemporal {
		values := col.TemporalValues
		if values == nil {
			values = []string{}
		}

		temporal := jsonw.Obj().
			Add("interval", [][]string{col.TemporalInterval}).
			Add("values", values).
			Add("trs", col.TRS)
		if col.TemporalName != "" {
			temporal.Add("name", col.TemporalName)
		}

		extent.Add("temporal", temporal)
	}

	hasVertical, err := col.HasVerticalExtent()
	if err != nil {
		return nil, err
	}

	if hasVertical {
		values := col.VerticalValues
		if values == nil {
			values = []float64{}
		}

		vertical := jsonw.Obj().
			Add("interval", [][]float64{col.VerticalInterval}).
			Add("values", values).
			Add("vrs", col.VRS)
		if col.VerticalName != "" {
			vertical.Add("name", col.VerticalName)
		}

		extent.Add("vertical", vertical)
	}

	return extent, nil
}

// Capabilities renders the service description served at the API root.
func Capabilities(service types.ServiceMetadata, links []types.Link) (json.RawMessage, error) {
	keywords := service.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	if links == nil {
		links = []types.Link{}
	}

	contact := jsonw.Obj().
		Add("email", service.Contact.Email).
		Add("phone", service.Contact.Phone)

	if service.Contact.Fax != "" {
		contact.Add("fax", service.Contact.Fax)
	}
	if service.Contact.Hours != "" {
		contact.Add("hours", service.Contact.Hours)
	}
	if service.Contact.Instructions != "" {
		contact.Add("instructions", service.Contact.Instructions)
	}

	contact.Add("address", service.Contact.Address).
		Add("postalCode", service.Contact.Postcode).
		Add("city", service.Contact.City)

	if service.Contact.State != "" {
		contact.Add("stateorprovince", service.Contact.State)
	}

	contact.Add("country", service.Contact.Country)

	doc := jsonw.Obj().
		Add("title", service.Title).
		Add("description", service.Description).
		Add("keywords", keywords).
		Add("links", links).
		Add("provider", jsonw.Obj().
			Add("name", service.Provider.Name).
			Add("url", service.Provider.URL),
		).
		Add("contact", contact)

	return json.Marshal(doc)
}

// Conformance renders the conformance declaration.
func Conformance(classes []string) (json.RawMessage, error) {
	if classes == nil {
		classes = []string{}
	}

	return json.Marshal(jsonw.Obj().Add("conformsTo", classes))
}
