package edr

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
)

// parseQueryParameters translates the EDR concepts in the query string
// into their application layer representation. The return type "f"
// defaults to json.
func parseQueryParameters(r *http.Request) (app.QueryParameters, error) {
	q := r.URL.Query()

	params := app.QueryParameters{Format: app.FormatJSON}

	if f := q.Get("f"); f != "" {
		f = strings.ToLower(f)
		if f != app.FormatJSON && f != app.FormatCoverageJSON {
			return params, unsupportedFormatError{format: f}
		}
		params.Format = f
	}

	if bbox := q.Get("bbox"); bbox != "" {
		b, err := parseBBox(bbox)
		if err != nil {
			return params, app.NewInvalidQueryError(err.Error())
		}
		params.BBox = b
	}

	params.Coords = q.Get("coords")
	params.CRS = q.Get("crs")

	for arg, target := range map[string]**app.Selector{
		"datetime":       &params.Datetime,
		"z":              &params.Z,
		"parameter-name": &params.ParameterName,
	} {
		if value := q.Get(arg); value != "" {
			selector, err := parseSelector(value)
			if err != nil {
				return params, app.NewInvalidQueryError(fmt.Sprintf("malformed query argument %s: %s", arg, err.Error()))
			}
			*target = selector
		}
	}

	return params, nil
}

// parseBBox parses a bounding box of the form "xmin ymin,xmax ymax".
func parseBBox(value string) (*app.BBox, error) {
	corners := strings.Split(value, ",")
	if len(corners) != 2 {
		return nil, fmt.Errorf("a bbox consists of exactly two corners, got %d", len(corners))
	}

	lower := strings.Fields(corners[0])
	upper := strings.Fields(corners[1])

	if len(lower) != 2 || len(upper) != 2 {
		return nil, fmt.Errorf("each bbox corner consists of exactly two ordinates")
	}

	ordinates := make([]float64, 0, 4)
	for _, s := range []string{lower[0], lower[1], upper[0], upper[1]} {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bbox ordinate \"%s\" is not a number", s)
		}
		ordinates = append(ordinates, f)
	}

	return &app.BBox{
		XMin: ordinates[0], YMin: ordinates[1],
		XMax: ordinates[2], YMax: ordinates[3],
	}, nil
}

// parseSelector parses the interval forms a query value can take:
// a single value "v", discrete values "v1,v2,v3", a repeated interval
// "Rn/start/interval", or a range "start/end".
func parseSelector(value string) (*app.Selector, error) {
	if strings.Contains(value, ",") {
		return &app.Selector{Values: strings.Split(value, ",")}, nil
	}

	if strings.Contains(value, "/") {
		if strings.HasPrefix(value, "R") {
			parts := strings.Split(strings.TrimPrefix(value, "R"), "/")
			if len(parts) != 3 {
				return nil, fmt.Errorf("a repeated interval takes the form Rn/start/interval")
			}

			count, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("repeat count \"%s\" is not a number", parts[0])
			}

			return &app.Selector{Repeat: &app.ValueRepeat{
				Count:    count,
				Start:    parts[1],
				Interval: parts[2],
			}}, nil
		}

		parts := strings.Split(value, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("a range takes the form start/end")
		}

		return &app.Selector{Range: &app.ValueRange{Start: parts[0], End: parts[1]}}, nil
	}

	return &app.Selector{Values: []string{value}}, nil
}
