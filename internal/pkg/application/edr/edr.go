// Package edr holds the application layer of the server: the data
// provider contract and the response assembler that turns provider
// supplied domain objects into complete JSON documents.
package edr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diwise/edr-server/pkg/edr/covjson"
	"github.com/diwise/edr-server/pkg/edr/geojson"
	"github.com/diwise/edr-server/pkg/edr/metadata"
	"github.com/diwise/edr-server/pkg/edr/types"
	"github.com/prometheus/client_golang/prometheus"
)

// CollectionsProvider supplies collection metadata.
type CollectionsProvider interface {
	Collections(ctx context.Context) ([]types.Collection, error)
	Collection(ctx context.Context, collectionID string) (types.Collection, error)
}

// ItemsProvider supplies paginated feature listings and single features.
// Pagination math is the provider's responsibility, the assembler only
// renders what it is handed.
type ItemsProvider interface {
	Items(ctx context.Context, collectionID string, params QueryParameters) (types.FeatureCollection, error)
	Item(ctx context.Context, collectionID, itemID string) (types.Feature, error)
}

// LocationsProvider supplies the locations of a collection and the
// coverage domain of a single location.
type LocationsProvider interface {
	Locations(ctx context.Context, collectionID string, params QueryParameters) (types.FeatureCollection, error)
	Location(ctx context.Context, collectionID, locationID string, params QueryParameters) (types.Domain, error)
}

// CoverageProvider supplies coverage domains for spatial queries.
type CoverageProvider interface {
	Position(ctx context.Context, collectionID string, params QueryParameters) (types.Domain, error)
	Area(ctx context.Context, collectionID string, params QueryParameters) (types.Domain, error)
}

// DataProvider is the full contract an EDR data interface implements.
// Provided domain objects are expected to already satisfy the model
// invariants, the assembler never reorders, deduplicates or coerces
// their contents.
type DataProvider interface {
	CollectionsProvider
	ItemsProvider
	LocationsProvider
	CoverageProvider
}

const collectionsListingKey string = "#collections"

// ConformanceClasses lists the conformance classes declared by this
// server.
var ConformanceClasses = []string{
	"http://www.opengis.net/spec/ogcapi-common-1/1.0/conf/core",
	"http://www.opengis.net/spec/ogcapi-edr-1/1.0/conf/core",
	"http://www.opengis.net/spec/ogcapi-edr-1/1.0/conf/collections",
	"http://www.opengis.net/spec/ogcapi-edr-1/1.0/conf/json",
}

type App struct {
	provider DataProvider
	service  types.ServiceMetadata
	baseURL  string

	memo *documentMemo
}

// New creates the response assembler. The base URL is baked into the
// links of the capabilities and collections documents, which are memoized
// between refreshes. A nil registerer leaves the memo counters
// unregistered, which is what the tests want.
func New(provider DataProvider, service types.ServiceMetadata, baseURL string, registerer prometheus.Registerer) (*App, error) {
	memo, err := newDocumentMemo(collectionsMemoSize, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to create collections memo: %w", err)
	}

	return &App{
		provider: provider,
		service:  service,
		baseURL:  baseURL,
		memo:     memo,
	}, nil
}

// CapabilitiesDocument renders the service description served at the API
// root.
func (a *App) CapabilitiesDocument(ctx context.Context) ([]byte, error) {
	links := []types.Link{
		{Href: a.baseURL + "/", Rel: "self", Type: "application/json", Title: "this document"},
		{Href: a.baseURL + "/conformance", Rel: "conformance", Type: "application/json"},
		{Href: a.baseURL + "/collections", Rel: "data", Type: "application/json"},
	}

	return metadata.Capabilities(a.service, links)
}

// ConformanceDocument renders the conformance declaration.
func (a *App) ConformanceDocument(ctx context.Context) ([]byte, error) {
	return metadata.Conformance(ConformanceClasses)
}

// CollectionsDocument renders the collections listing, served from the
// memo when possible.
func (a *App) CollectionsDocument(ctx context.Context) ([]byte, error) {
	if doc, ok := a.memo.get(collectionsListingKey); ok {
		return doc, nil
	}

	doc, _, err := a.refreshCollections(ctx)
	return doc, err
}

// CollectionDocument renders the metadata document for a single
// collection, served from the memo when possible.
func (a *App) CollectionDocument(ctx context.Context, collectionID string) ([]byte, error) {
	if doc, ok := a.memo.get(collectionID); ok {
		return doc, nil
	}

	collection, err := a.provider.Collection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(metadata.NewCollection(collection))
	if err != nil {
		return nil, err
	}

	a.memo.add(collectionID, doc)
	return doc, nil
}

// RefreshCollections discards all memoized collection documents and
// renders them anew, returning the number of collections refreshed.
func (a *App) RefreshCollections(ctx context.Context) (int, error) {
	a.memo.purge()

	_, count, err := a.refreshCollections(ctx)
	return count, err
}

func (a *App) refreshCollections(ctx context.Context) ([]byte, int, error) {
	collections, err := a.provider.Collections(ctx)
	if err != nil {
		return nil, 0, err
	}

	rendered := make([]json.RawMessage, 0, len(collections))

	for _, c := range collections {
		doc, err := json.Marshal(metadata.NewCollection(c))
		if err != nil {
			return nil, 0, err
		}

		a.memo.add(c.ID, doc)
		rendered = append(rendered, doc)
	}

	listing := struct {
		Links       []types.Link      `json:"links"`
		Collections []json.RawMessage `json:"collections"`
	}{
		Links: []types.Link{
			{Href: a.baseURL + "/collections", Rel: "self", Type: "application/json"},
		},
		Collections: rendered,
	}

	doc, err := json.Marshal(listing)
	if err != nil {
		return nil, 0, err
	}

	a.memo.add(collectionsListingKey, doc)
	return doc, len(collections), nil
}

// ItemsDocument renders the items listing of a collection.
func (a *App) ItemsDocument(ctx context.Context, collectionID string, params QueryParameters) ([]byte, error) {
	items, err := a.provider.Items(ctx, collectionID, params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(geojson.NewFeatureCollection(items))
}

// ItemDocument renders a single feature document.
func (a *App) ItemDocument(ctx context.Context, collectionID, itemID string) ([]byte, error) {
	item, err := a.provider.Item(ctx, collectionID, itemID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(geojson.NewFeature(item))
}

// LocationsDocument renders the locations listing of a collection.
func (a *App) LocationsDocument(ctx context.Context, collectionID string, params QueryParameters) ([]byte, error) {
	locations, err := a.provider.Locations(ctx, collectionID, params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(geojson.NewFeatureCollection(locations))
}

// LocationDocument renders the coverage document for a single location.
func (a *App) LocationDocument(ctx context.Context, collectionID, locationID string, params QueryParameters) ([]byte, error) {
	domain, err := a.provider.Location(ctx, collectionID, locationID, params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(covjson.NewCoverage(domain))
}

// PositionDocument renders the coverage document answering a position
// query.
func (a *App) PositionDocument(ctx context.Context, collectionID string, params QueryParameters) ([]byte, error) {
	domain, err := a.provider.Position(ctx, collectionID, params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(covjson.NewCoverage(domain))
}

// AreaDocument renders the coverage document answering an area query.
func (a *App) AreaDocument(ctx context.Context, collectionID string, params QueryParameters) ([]byte, error) {
	domain, err := a.provider.Area(ctx, collectionID, params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(covjson.NewCoverage(domain))
}
