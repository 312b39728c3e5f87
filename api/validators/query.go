package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

// ParseQueryInt reads a bounded integer query parameter.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseOptionalQueryInt returns 0 when the parameter is absent and leaves range
// handling to the caller.
func ParseOptionalQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseSortOrder reads the sort query parameter. Absent means no ordering.
func ParseSortOrder(r *http.Request, key string) (enums.SortOrder, error) {
	sort, err := enums.ParseSortOrder(r.URL.Query().Get(key))
	if err != nil {
		return enums.SortOrderNone, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort order").
			WithDetails(map[string]string{"field": key})
	}
	return sort, nil
}
