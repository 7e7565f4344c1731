// Package client provides a typed client for environmental data
// retrieval servers.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type EDRClient interface {
	Collections(ctx context.Context) (json.RawMessage, error)
	Collection(ctx context.Context, collectionID string) (json.RawMessage, error)
	Items(ctx context.Context, collectionID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error)
	Item(ctx context.Context, collectionID, itemID string) (json.RawMessage, error)
	Locations(ctx context.Context, collectionID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error)
	Location(ctx context.Context, collectionID, locationID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error)
	Position(ctx context.Context, collectionID, coords string, parameters ...RequestDecoratorFunc) (json.RawMessage, error)
	Area(ctx context.Context, collectionID, coords string, parameters ...RequestDecoratorFunc) (json.RawMessage, error)
}

// RequestDecoratorFunc appends query string arguments to a request.
type RequestDecoratorFunc func([]string) []string

func Datetime(value string) RequestDecoratorFunc {
	return func(args []string) []string {
		return append(args, "datetime="+url.QueryEscape(value))
	}
}

func ParameterName(names ...string) RequestDecoratorFunc {
	return func(args []string) []string {
		return append(args, "parameter-name="+url.QueryEscape(strings.Join(names, ",")))
	}
}

func Z(value string) RequestDecoratorFunc {
	return func(args []string) []string {
		return append(args, "z="+url.QueryEscape(value))
	}
}

func BBox(value string) RequestDecoratorFunc {
	return func(args []string) []string {
		return append(args, "bbox="+url.QueryEscape(value))
	}
}

const TraceAttributeCollectionID string = "collection-id"

var tracer = otel.Tracer("edr-client")

func New(serverURL string) EDRClient {
	return &edrClient{baseURL: strings.TrimSuffix(serverURL, "/")}
}

type edrClient struct {
	baseURL string
}

// RequestFailedError carries the code and description of an error
// payload returned by the server.
type RequestFailedError struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func (rfe RequestFailedError) Error() string {
	return fmt.Sprintf("request failed with code %d: %s", rfe.Code, rfe.Description)
}

func (c edrClient) Collections(ctx context.Context) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-collections", "/collections")
}

func (c edrClient) Collection(ctx context.Context, collectionID string) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-collection", "/collections/"+url.PathEscape(collectionID),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Items(ctx context.Context, collectionID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-items",
		"/collections/"+url.PathEscape(collectionID)+"/items"+query(parameters),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Item(ctx context.Context, collectionID, itemID string) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-item",
		"/collections/"+url.PathEscape(collectionID)+"/items/"+url.PathEscape(itemID),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Locations(ctx context.Context, collectionID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-locations",
		"/collections/"+url.PathEscape(collectionID)+"/locations"+query(parameters),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Location(ctx context.Context, collectionID, locationID string, parameters ...RequestDecoratorFunc) (json.RawMessage, error) {
	return c.retrieve(ctx, "get-location",
		"/collections/"+url.PathEscape(collectionID)+"/locations/"+url.PathEscape(locationID)+query(parameters),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Position(ctx context.Context, collectionID, coords string, parameters ...RequestDecoratorFunc) (json.RawMessage, error) {
	parameters = append(parameters, func(args []string) []string {
		return append(args, "coords="+url.QueryEscape(coords))
	})

	return c.retrieve(ctx, "get-position",
		"/collections/"+url.PathEscape(collectionID)+"/position"+query(parameters),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) Area(ctx context.Context, collectionID, coords string, parameters ...RequestDecoratorFunc) (json.RawMessage, error) {
	parameters = append(parameters, func(args []string) []string {
		return append(args, "coords="+url.QueryEscape(coords))
	})

	return c.retrieve(ctx, "get-area",
		"/collections/"+url.PathEscape(collectionID)+"/area"+query(parameters),
		trace.WithAttributes(attribute.String(TraceAttributeCollectionID, collectionID)),
	)
}

func (c edrClient) retrieve(ctx context.Context, spanName, path string, spanOpts ...trace.SpanStartOption) (json.RawMessage, error) {
	var err error

	ctx, span := tracer.Start(ctx, spanName, spanOpts...)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		rfe := RequestFailedError{Code: resp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, &rfe); jsonErr != nil || rfe.Description == "" {
			rfe.Description = strings.TrimSpace(string(respBody))
		}

		err = rfe
		return nil, err
	}

	return respBody, nil
}

func query(parameters []RequestDecoratorFunc) string {
	args := []string{}
	for _, decorate := range parameters {
		args = decorate(args)
	}

	if len(args) == 0 {
		return ""
	}

	return "?" + strings.Join(args, "&")
}
