package edr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
)

func capabilitiesHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-capabilities")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		doc, err := a.CapabilitiesDocument(ctx)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func conformanceHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-conformance")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		doc, err := a.ConformanceDocument(ctx)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func collectionsHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-collections")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		doc, err := a.CollectionsDocument(ctx)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func collectionHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-collection")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		doc, err := a.CollectionDocument(ctx, chi.URLParam(r, "collectionId"))
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func itemsHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-items")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		doc, err := a.ItemsDocument(ctx, chi.URLParam(r, "collectionId"), params)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func itemHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-item")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		doc, err := a.ItemDocument(ctx, chi.URLParam(r, "collectionId"), chi.URLParam(r, "itemId"))
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func locationsHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-locations")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		doc, err := a.LocationsDocument(ctx, chi.URLParam(r, "collectionId"), params)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func locationHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-location")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		doc, err := a.LocationDocument(ctx, chi.URLParam(r, "collectionId"), chi.URLParam(r, "locationId"), params)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func positionHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return coverageQueryHandler(log, "get-position", "position", a.PositionDocument)
}

func areaHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return coverageQueryHandler(log, "get-area", "area", a.AreaDocument)
}

func coverageQueryHandler(
	log *slog.Logger,
	spanName, queryType string,
	document func(ctx context.Context, collectionID string, params app.QueryParameters) ([]byte, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), spanName)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params, err := parseQueryParameters(r)
		if err != nil {
			reportQueryError(w, err)
			return
		}

		if params.Format != app.FormatJSON {
			reportError(w, http.StatusNotImplemented, "only JSON response type is implemented")
			return
		}

		if params.Coords == "" {
			err = app.NewInvalidQueryError(
				fmt.Sprintf("required %s query argument 'coords' not present in query string", queryType),
			)
			reportQueryError(w, err)
			return
		}

		doc, err := document(ctx, chi.URLParam(r, "collectionId"), params)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		writeDocument(w, doc)
	}
}

func refreshCollectionsHandler(log *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "refresh-collections")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		count, err := a.RefreshCollections(ctx)
		if err != nil {
			reportProviderError(w, logger, err)
			return
		}

		msg := fmt.Sprintf("refreshed cache with %d collections", count)
		logger.Info(msg)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(msg))
	}
}

func notImplementedHandler(queryType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reportError(w, http.StatusNotImplemented,
			fmt.Sprintf("get %s request is not implemented", queryType),
		)
	}
}

func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
