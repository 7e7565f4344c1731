package edr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/edr-server/pkg/edr/types"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func TestGetCapabilities(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"title":"Environmental data"`))
}

func TestGetConformance(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/conformance")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"conformsTo"`))
}

func TestGetCollections(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"id":"weather"`))
}

func TestGetSingleCollection(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"id":"weather"`))
}

func TestGetUnknownCollectionReturns404(t *testing.T) {
	provider := newMockProvider()
	provider.collectionFunc = func(ctx context.Context, collectionID string) (types.Collection, error) {
		return types.Collection{}, app.NewNotFoundError("collection " + collectionID + " does not exist")
	}

	is, ts := testSetup(t, provider)
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/nosuchthing")
	is.Equal(status, http.StatusNotFound)
	is.True(strings.Contains(body, `"code":404`))
	is.True(strings.Contains(body, "collection nosuchthing does not exist"))
}

func TestGetItems(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/items")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"type":"FeatureCollection"`))
}

func TestGetSingleItem(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/items/station-1")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"id":"station-1"`))
	is.True(strings.Contains(body, `"type":"Feature"`))
}

func TestGetLocations(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/locations")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"type":"FeatureCollection"`))
}

func TestGetSingleLocationReturnsACoverage(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/locations/station-1")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"domain"`))
	is.True(strings.Contains(body, `"ranges"`))
}

func TestGetPositionRequiresCoords(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/position")
	is.Equal(status, http.StatusBadRequest)
	is.True(strings.Contains(body, "required position query argument 'coords' not present in query string"))
}

func TestGetPosition(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/position?coords=POINT%2817.25%2062.5%29")
	is.Equal(status, http.StatusOK)
	is.True(strings.Contains(body, `"domain"`))
}

func TestGetAreaRequiresCoords(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/area")
	is.Equal(status, http.StatusBadRequest)
	is.True(strings.Contains(body, "required area query argument 'coords'"))
}

func TestUnknownReturnTypeReturns415(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/items?f=xml")
	is.Equal(status, http.StatusUnsupportedMediaType)
	is.True(strings.Contains(body, `"code":415`))
}

func TestCoverageJSONReturnTypeReturns501(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/items?f=coveragejson")
	is.Equal(status, http.StatusNotImplemented)
	is.True(strings.Contains(body, "only JSON response type is implemented"))
}

func TestUnimplementedQueryTypesReturn501(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	for _, queryType := range []string{"radius", "cube", "corridor", "trajectory"} {
		status, body := get(is, ts.URL+"/collections/weather/"+queryType)
		is.Equal(status, http.StatusNotImplemented)
		is.True(strings.Contains(body, "get "+queryType+" request is not implemented"))
	}
}

func TestContractViolationsSurfaceAsInternalErrors(t *testing.T) {
	provider := newMockProvider()
	provider.locationFunc = func(ctx context.Context, collectionID, locationID string, params app.QueryParameters) (types.Domain, error) {
		return types.Domain{
			Parameters: []types.Parameter{{
				Name:  "temperature",
				Axes:  []string{"x", "y"},
				Shape: []int{1},
			}},
		}, nil
	}

	is, ts := testSetup(t, provider)
	defer ts.Close()

	status, body := get(is, ts.URL+"/collections/weather/locations/station-1")
	is.Equal(status, http.StatusInternalServerError)
	is.True(strings.Contains(body, `"code":500`))
}

func TestRefreshCollections(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/admin/refresh_collections", "application/json", nil)
	is.NoErr(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(string(body), "refreshed cache with 1 collections")
}

func TestHealthEndpoint(t *testing.T) {
	is, ts := testSetup(t, newMockProvider())
	defer ts.Close()

	status, _ := get(is, ts.URL+"/health")
	is.Equal(status, http.StatusNoContent)
}

func testSetup(t *testing.T, provider app.DataProvider) (*is.I, *httptest.Server) {
	is := is.New(t)
	ctx := context.Background()

	a, err := app.New(provider, types.ServiceMetadata{Title: "Environmental data"}, "http://localhost:8080", nil)
	is.NoErr(err)

	r := chi.NewRouter()
	is.NoErr(RegisterHandlers(ctx, r, a, nil))

	return is, httptest.NewServer(r)
}

func get(is *is.I, url string) (int, string) {
	resp, err := http.Get(url)
	is.NoErr(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	return resp.StatusCode, string(body)
}

type mockProvider struct {
	collectionFunc func(ctx context.Context, collectionID string) (types.Collection, error)
	locationFunc   func(ctx context.Context, collectionID, locationID string, params app.QueryParameters) (types.Domain, error)
}

func newMockProvider() *mockProvider {
	return &mockProvider{}
}

func (m *mockProvider) Collections(ctx context.Context) ([]types.Collection, error) {
	return []types.Collection{{
		ID:   "weather",
		BBox: []float64{15.5, 61.5, 18.5, 63.5},
		CRS:  "EPSG:4326",
	}}, nil
}

func (m *mockProvider) Collection(ctx context.Context, collectionID string) (types.Collection, error) {
	if m.collectionFunc != nil {
		return m.collectionFunc(ctx, collectionID)
	}
	return types.Collection{ID: collectionID, CRS: "EPSG:4326"}, nil
}

func (m *mockProvider) Items(ctx context.Context, collectionID string, params app.QueryParameters) (types.FeatureCollection, error) {
	return types.FeatureCollection{
		NumberReturned: 1,
		NumberMatched:  1,
		TimeStamp:      "2024-03-01T12:00:00Z",
		Features:       []types.Feature{m.feature()},
	}, nil
}

func (m *mockProvider) Item(ctx context.Context, collectionID, itemID string) (types.Feature, error) {
	return m.feature(), nil
}

func (m *mockProvider) Locations(ctx context.Context, collectionID string, params app.QueryParameters) (types.FeatureCollection, error) {
	return m.Items(ctx, collectionID, params)
}

func (m *mockProvider) Location(ctx context.Context, collectionID, locationID string, params app.QueryParameters) (types.Domain, error) {
	if m.locationFunc != nil {
		return m.locationFunc(ctx, collectionID, locationID, params)
	}
	return m.domain(), nil
}

func (m *mockProvider) Position(ctx context.Context, collectionID string, params app.QueryParameters) (types.Domain, error) {
	return m.domain(), nil
}

func (m *mockProvider) Area(ctx context.Context, collectionID string, params app.QueryParameters) (types.Domain, error) {
	return m.domain(), nil
}

func (m *mockProvider) feature() types.Feature {
	return types.Feature{
		ID:           "station-1",
		GeometryType: "Point",
		Coordinates:  []string{"17.25", "62.5"},
		BBox:         []float64{17.25, 62.5, 17.25, 62.5},
	}
}

func (m *mockProvider) domain() types.Domain {
	v := 2.5

	return types.Domain{
		Axes: types.DomainAxes{
			X: &types.Axis{Values: []float64{17.25}},
			Y: &types.Axis{Values: []float64{62.5}},
		},
		Parameters: []types.Parameter{{
			Name:             "temperature",
			Type:             "Parameter",
			DataType:         "float",
			Axes:             []string{"x", "y"},
			Shape:            []int{1, 1},
			Unit:             types.Unit{Label: "deg C"},
			ObservedProperty: types.ObservedProperty{Label: "Temperature"},
			Body:             types.Values{&v},
		}},
	}
}
