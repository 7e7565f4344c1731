// Package datasets implements the data interface backing the server
// with an in-memory catalogue seeded from a YAML file.
package datasets

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/edr-server/pkg/edr/types"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v2"
)

const timestampFormat string = "2006-01-02T15:04:05Z"

type Provider struct {
	collections []types.Collection
	locations   map[string][]location
}

type location struct {
	feature types.Feature
	domain  types.Domain
}

// Load seeds a provider from a YAML catalogue. Locations without an id
// are assigned one. The base URL is baked into the data links of the
// location features.
func Load(data io.Reader, baseURL string) (*Provider, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	catalogue := &catalogueFile{}
	if err := yaml.Unmarshal(buf, catalogue); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset catalogue: %w", err)
	}

	p := &Provider{
		locations: map[string][]location{},
	}

	for _, c := range catalogue.Collections {
		collection, locations, err := c.convert(baseURL)
		if err != nil {
			return nil, err
		}

		p.collections = append(p.collections, collection)
		p.locations[collection.ID] = locations
	}

	return p, nil
}

func (p *Provider) Collections(ctx context.Context) ([]types.Collection, error) {
	return p.collections, nil
}

func (p *Provider) Collection(ctx context.Context, collectionID string) (types.Collection, error) {
	for _, c := range p.collections {
		if c.ID == collectionID {
			return c, nil
		}
	}

	return types.Collection{}, app.NewNotFoundError(fmt.Sprintf("collection %s does not exist", collectionID))
}

func (p *Provider) Items(ctx context.Context, collectionID string, params app.QueryParameters) (types.FeatureCollection, error) {
	locations, ok := p.locations[collectionID]
	if !ok {
		return types.FeatureCollection{}, app.NewNotFoundError(fmt.Sprintf("collection %s does not exist", collectionID))
	}

	features := make([]types.Feature, 0, len(locations))
	for _, l := range locations {
		if params.BBox != nil && !within(l.feature, params.BBox) {
			continue
		}
		features = append(features, l.feature)
	}

	return types.FeatureCollection{
		NumberReturned: len(features),
		NumberMatched:  len(features),
		TimeStamp:      time.Now().UTC().Format(timestampFormat),
		Features:       features,
	}, nil
}

func (p *Provider) Item(ctx context.Context, collectionID, itemID string) (types.Feature, error) {
	l, err := p.findLocation(collectionID, itemID)
	if err != nil {
		return types.Feature{}, err
	}

	return l.feature, nil
}

func (p *Provider) Locations(ctx context.Context, collectionID string, params app.QueryParameters) (types.FeatureCollection, error) {
	return p.Items(ctx, collectionID, params)
}

func (p *Provider) Location(ctx context.Context, collectionID, locationID string, params app.QueryParameters) (types.Domain, error) {
	l, err := p.findLocation(collectionID, locationID)
	if err != nil {
		return types.Domain{}, err
	}

	return selectParameters(l.domain, params), nil
}

func (p *Provider) Position(ctx context.Context, collectionID string, params app.QueryParameters) (types.Domain, error) {
	locations, ok := p.locations[collectionID]
	if !ok {
		return types.Domain{}, app.NewNotFoundError(fmt.Sprintf("collection %s does not exist", collectionID))
	}

	x, y, err := parsePoint(params.Coords)
	if err != nil {
		return types.Domain{}, app.NewInvalidQueryError(err.Error())
	}

	nearest := -1
	shortest := 0.0

	for i, l := range locations {
		lx, ly, err := origin(l.feature)
		if err != nil {
			continue
		}

		d := (lx-x)*(lx-x) + (ly-y)*(ly-y)
		if nearest < 0 || d < shortest {
			nearest = i
			shortest = d
		}
	}

	if nearest < 0 {
		return types.Domain{}, app.NewNotFoundError(fmt.Sprintf("no data near position in collection %s", collectionID))
	}

	return selectParameters(locations[nearest].domain, params), nil
}

func (p *Provider) Area(ctx context.Context, collectionID string, params app.QueryParameters) (types.Domain, error) {
	locations, ok := p.locations[collectionID]
	if !ok {
		return types.Domain{}, app.NewNotFoundError(fmt.Sprintf("collection %s does not exist", collectionID))
	}

	box, err := parsePolygonExtent(params.Coords)
	if err != nil {
		return types.Domain{}, app.NewInvalidQueryError(err.Error())
	}

	merged := types.Domain{}
	found := false

	for _, l := range locations {
		x, y, err := origin(l.feature)
		if err != nil {
			continue
		}

		if x < box.XMin || x > box.XMax || y < box.YMin || y > box.YMax {
			continue
		}

		if !found {
			merged.Axes = l.domain.Axes
			merged.Referencing = l.domain.Referencing
			found = true
		}

		merged.Parameters = append(merged.Parameters, l.domain.Parameters...)
	}

	if !found {
		return types.Domain{}, app.NewNotFoundError(fmt.Sprintf("no data within area in collection %s", collectionID))
	}

	return selectParameters(merged, params), nil
}

func (p *Provider) findLocation(collectionID, locationID string) (location, error) {
	locations, ok := p.locations[collectionID]
	if !ok {
		return location{}, app.NewNotFoundError(fmt.Sprintf("collection %s does not exist", collectionID))
	}

	for _, l := range locations {
		if l.feature.ID == locationID {
			return l, nil
		}
	}

	return location{}, app.NewNotFoundError(fmt.Sprintf("location %s does not exist in collection %s", locationID, collectionID))
}

// selectParameters applies any parameter-name constraint to a domain.
func selectParameters(domain types.Domain, params app.QueryParameters) types.Domain {
	if params.ParameterName == nil || len(params.ParameterName.Values) == 0 {
		return domain
	}

	wanted := map[string]bool{}
	for _, name := range params.ParameterName.Values {
		wanted[name] = true
	}

	selected := make([]types.Parameter, 0, len(domain.Parameters))
	for _, p := range domain.Parameters {
		if wanted[p.Name] {
			selected = append(selected, p)
		}
	}

	domain.Parameters = selected
	return domain
}

func within(f types.Feature, box *app.BBox) bool {
	x, y, err := origin(f)
	if err != nil {
		return false
	}

	return x >= box.XMin && x <= box.XMax && y >= box.YMin && y <= box.YMax
}

// origin returns the first coordinate pair of a feature's geometry.
func origin(f types.Feature) (float64, float64, error) {
	if len(f.Coordinates) < 2 {
		return 0, 0, fmt.Errorf("feature %s has no usable geometry", f.ID)
	}

	x, err := strconv.ParseFloat(f.Coordinates[0], 64)
	if err != nil {
		return 0, 0, err
	}

	y, err := strconv.ParseFloat(f.Coordinates[1], 64)
	if err != nil {
		return 0, 0, err
	}

	return x, y, nil
}

// parsePoint parses well known text of the form POINT(x y).
func parsePoint(coords string) (float64, float64, error) {
	body, ok := wktBody(coords, "POINT")
	if !ok {
		return 0, 0, fmt.Errorf("coords %q is not a well known text point", coords)
	}

	fields := strings.Fields(body)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("a point consists of exactly two ordinates")
	}

	x, errX := strconv.ParseFloat(fields[0], 64)
	y, errY := strconv.ParseFloat(fields[1], 64)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("point ordinates in %q are not numbers", coords)
	}

	return x, y, nil
}

// parsePolygonExtent parses well known text of the form
// POLYGON((x y,x y,...)) and returns the bounding box of its exterior
// ring.
func parsePolygonExtent(coords string) (*app.BBox, error) {
	body, ok := wktBody(coords, "POLYGON")
	if !ok {
		return nil, fmt.Errorf("coords %q is not a well known text polygon", coords)
	}

	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return nil, fmt.Errorf("polygon %q has no exterior ring", coords)
	}

	ring := strings.TrimSuffix(strings.TrimPrefix(body, "("), ")")
	points := strings.Split(ring, ",")
	if len(points) < 3 {
		return nil, fmt.Errorf("a polygon ring consists of at least three points")
	}

	box := &app.BBox{}

	for i, point := range points {
		fields := strings.Fields(strings.TrimSpace(point))
		if len(fields) != 2 {
			return nil, fmt.Errorf("a polygon point consists of exactly two ordinates")
		}

		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("polygon ordinates in %q are not numbers", point)
		}

		if i == 0 || x < box.XMin {
			box.XMin = x
		}
		if i == 0 || x > box.XMax {
			box.XMax = x
		}
		if i == 0 || y < box.YMin {
			box.YMin = y
		}
		if i == 0 || y > box.YMax {
			box.YMax = y
		}
	}

	return box, nil
}

func wktBody(coords, keyword string) (string, bool) {
	coords = strings.TrimSpace(coords)

	if !strings.HasPrefix(strings.ToUpper(coords), keyword) {
		return "", false
	}

	rest := strings.TrimSpace(coords[len(keyword):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}

	return rest[1 : len(rest)-1], true
}

func newLocationID() string {
	return uuid.NewString()
}
