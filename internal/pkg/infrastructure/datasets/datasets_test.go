package datasets

import (
	"context"
	"strings"
	"testing"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/edr-server/pkg/edr/types"
	"github.com/matryer/is"
)

func TestLoadCatalogue(t *testing.T) {
	is, p := testSetup(t)

	collections, err := p.Collections(context.Background())
	is.NoErr(err)
	is.Equal(len(collections), 1)

	c := collections[0]
	is.Equal(c.ID, "weather")
	is.Equal(c.BBox, []float64{15.5, 61.5, 18.5, 63.5})
	is.Equal(c.TRS, "Gregorian")
	is.Equal(len(c.Parameters), 1)
	is.Equal(c.Links[0].Href, "http://localhost:8080/collections/weather")
}

func TestUnknownCollectionIsNotFound(t *testing.T) {
	is, p := testSetup(t)

	_, err := p.Collection(context.Background(), "nosuchthing")
	_, ok := err.(app.NotFoundError)
	is.True(ok)
}

func TestItemsListsAllLocations(t *testing.T) {
	is, p := testSetup(t)

	items, err := p.Items(context.Background(), "weather", app.QueryParameters{})
	is.NoErr(err)

	is.Equal(items.NumberReturned, 2)
	is.Equal(items.Features[0].ID, "station-1")
	is.True(strings.HasSuffix(items.Features[0].LinkHref, "/collections/weather/locations/station-1"))
}

func TestItemsRespectsBBox(t *testing.T) {
	is, p := testSetup(t)

	items, err := p.Items(context.Background(), "weather", app.QueryParameters{
		BBox: &app.BBox{XMin: 17.0, YMin: 62.0, XMax: 17.5, YMax: 63.0},
	})
	is.NoErr(err)

	is.Equal(items.NumberReturned, 1)
	is.Equal(items.Features[0].ID, "station-1")
}

func TestLocationsWithoutIDAreAssignedOne(t *testing.T) {
	is, p := testSetup(t)

	items, err := p.Items(context.Background(), "weather", app.QueryParameters{})
	is.NoErr(err)

	is.True(items.Features[1].ID != "")
}

func TestLocationDomain(t *testing.T) {
	is, p := testSetup(t)

	domain, err := p.Location(context.Background(), "weather", "station-1", app.QueryParameters{})
	is.NoErr(err)

	is.Equal(domain.Axes.X.Values, []float64{17.25})
	is.Equal(domain.Axes.T.Values, []string{"2024-03-01T00:00:00Z", "2024-03-01T01:00:00Z"})
	is.Equal(len(domain.Parameters), 1)
	is.Equal(domain.Referencing[0].System.Type, "GeographicCRS")
}

func TestMissingValuesSurviveLoading(t *testing.T) {
	is, p := testSetup(t)

	domain, err := p.Location(context.Background(), "weather", "station-1", app.QueryParameters{})
	is.NoErr(err)

	values := domainValues(is, domain.Parameters[0].Body)
	is.Equal(len(values), 2)
	is.Equal(*values[0], 2.5)
	is.True(values[1] == nil)
}

func TestParameterNameSelection(t *testing.T) {
	is, p := testSetup(t)

	domain, err := p.Location(context.Background(), "weather", "station-1", app.QueryParameters{
		ParameterName: &app.Selector{Values: []string{"nosuchparameter"}},
	})
	is.NoErr(err)

	is.Equal(len(domain.Parameters), 0)
}

func TestPositionFindsTheNearestLocation(t *testing.T) {
	is, p := testSetup(t)

	domain, err := p.Position(context.Background(), "weather", app.QueryParameters{
		Coords: "POINT(16.1 61.9)",
	})
	is.NoErr(err)

	is.Equal(domain.Axes.X.Values, []float64{16.25})
}

func TestPositionRejectsMalformedCoords(t *testing.T) {
	is, p := testSetup(t)

	_, err := p.Position(context.Background(), "weather", app.QueryParameters{
		Coords: "LINESTRING(1 2,3 4)",
	})
	_, ok := err.(app.InvalidQueryError)
	is.True(ok)
}

func TestAreaMergesLocationsWithinThePolygon(t *testing.T) {
	is, p := testSetup(t)

	domain, err := p.Area(context.Background(), "weather", app.QueryParameters{
		Coords: "POLYGON((15.0 61.0,19.0 61.0,19.0 64.0,15.0 64.0,15.0 61.0))",
	})
	is.NoErr(err)

	is.Equal(len(domain.Parameters), 2)
}

func TestAreaOutsideAllLocationsIsNotFound(t *testing.T) {
	is, p := testSetup(t)

	_, err := p.Area(context.Background(), "weather", app.QueryParameters{
		Coords: "POLYGON((0.0 0.0,1.0 0.0,1.0 1.0,0.0 0.0))",
	})
	_, ok := err.(app.NotFoundError)
	is.True(ok)
}

func domainValues(is *is.I, body types.ValueBody) types.Values {
	values, ok := body.(types.Values)
	is.True(ok)
	return values
}

func testSetup(t *testing.T) (*is.I, *Provider) {
	is := is.New(t)

	p, err := Load(strings.NewReader(catalogueYAML), "http://localhost:8080")
	is.NoErr(err)

	return is, p
}

const catalogueYAML string = `
collections:
  - id: weather
    title: Weather observations
    description: Observed weather over mid Sweden
    keywords:
      - weather
    extent:
      bbox: [15.5, 61.5, 18.5, 63.5]
      crs: EPSG:4326
      temporal:
        interval: ["2024-03-01T00:00:00Z", "2024-03-02T00:00:00Z"]
        trs: Gregorian
    parameters:
      - name: temperature
        type: Parameter
        datatype: float
        axes: [t]
        shape: [2]
        unit:
          label: deg C
        observedproperty:
          label: Temperature
        values: [2.5, 3.5]
    locations:
      - id: station-1
        geometrytype: Point
        coordinates: ["17.25", "62.5"]
        properties:
          - key: name
            value: Mid Sweden
        bbox: [17.25, 62.5, 17.25, 62.5]
        axes:
          x: [17.25]
          y: [62.5]
          t: ["2024-03-01T00:00:00Z", "2024-03-01T01:00:00Z"]
        referencing:
          - coordinates: [x, y]
            type: GeographicCRS
            id: http://www.opengis.net/def/crs/EPSG/0/4326
        parameters:
          - name: temperature
            type: Parameter
            datatype: float
            axes: [t]
            shape: [2]
            unit:
              label: deg C
            observedproperty:
              label: Temperature
            values: [2.5, null]
      - geometrytype: Point
        coordinates: ["16.25", "61.75"]
        bbox: [16.25, 61.75, 16.25, 61.75]
        axes:
          x: [16.25]
          y: [61.75]
          t: ["2024-03-01T00:00:00Z"]
        parameters:
          - name: humidity
            type: Parameter
            datatype: float
            axes: [t]
            shape: [1]
            unit:
              label: percent
            observedproperty:
              label: Humidity
            values: [82.5]
`
