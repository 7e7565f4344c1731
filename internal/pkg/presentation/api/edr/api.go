package edr

import (
	"context"
	"net/http"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("edr-server/api")

// RegisterHandlers mounts the environmental data retrieval endpoints,
// the admin endpoint and the service endpoints on the router.
func RegisterHandlers(ctx context.Context, r chi.Router, a *app.App, metricsHandler http.Handler) error {

	log := logging.GetFromContext(ctx)

	r.Get("/", capabilitiesHandler(log, a))
	r.Get("/conformance", conformanceHandler(log, a))

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", collectionsHandler(log, a))

		r.Route("/{collectionId}", func(r chi.Router) {
			r.Get("/", collectionHandler(log, a))

			r.Get("/items", itemsHandler(log, a))
			r.Get("/items/{itemId}", itemHandler(log, a))

			r.Get("/locations", locationsHandler(log, a))
			r.Get("/locations/{locationId}", locationHandler(log, a))

			r.Get("/position", positionHandler(log, a))
			r.Get("/area", areaHandler(log, a))

			r.Get("/radius", notImplementedHandler("radius"))
			r.Get("/cube", notImplementedHandler("cube"))
			r.Get("/corridor", notImplementedHandler("corridor"))
			r.Get("/trajectory", notImplementedHandler("trajectory"))
		})
	})

	r.Post("/admin/refresh_collections", refreshCollectionsHandler(log, a))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return nil
}
