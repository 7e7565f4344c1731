package edr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	edrerrors "github.com/diwise/edr-server/pkg/edr/errors"
)

type unsupportedFormatError struct {
	format string
}

func (ufe unsupportedFormatError) Error() string {
	return fmt.Sprintf("return type \"%s\" is not supported", ufe.format)
}

// reportError writes an EDR error payload, {"code":...,"description":...},
// to the response.
func reportError(w http.ResponseWriter, code int, description string) {
	body, err := json.Marshal(struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	}{
		Code:        code,
		Description: description,
	})
	if err != nil {
		http.Error(w, description, code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// reportQueryError maps query translation failures to their status codes.
func reportQueryError(w http.ResponseWriter, err error) {
	var ufe unsupportedFormatError
	if errors.As(err, &ufe) {
		reportError(w, http.StatusUnsupportedMediaType, ufe.Error())
		return
	}

	reportError(w, http.StatusBadRequest, err.Error())
}

// reportProviderError maps application and renderer failures to their
// status codes. Renderer failures are contract violations by the data
// provider and surface as internal errors with an actionable log entry.
func reportProviderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		nfe app.NotFoundError
		iqe app.InvalidQueryError
		ipe edrerrors.InvalidParameterError
		ice edrerrors.InvalidCollectionError
	)

	// render failures arrive wrapped by encoding/json
	switch {
	case errors.As(err, &nfe):
		reportError(w, http.StatusNotFound, nfe.Error())
	case errors.As(err, &iqe):
		reportError(w, http.StatusBadRequest, iqe.Error())
	case errors.As(err, &ipe):
		logger.Error("data interface handed us an invalid parameter", "parameter", ipe.Parameter, "field", ipe.Field, "err", ipe.Error())
		reportError(w, http.StatusInternalServerError, ipe.Error())
	case errors.As(err, &ice):
		logger.Error("data interface handed us an invalid collection", "collection", ice.Collection, "field", ice.Field, "err", ice.Error())
		reportError(w, http.StatusInternalServerError, ice.Error())
	default:
		logger.Error("request failed", "err", err.Error())
		reportError(w, http.StatusInternalServerError, err.Error())
	}
}
