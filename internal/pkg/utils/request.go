package utils

import (
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func BuildPaginationRequest(r *http.Request) *requests.Pagination {
	pageStr := r.URL.Query().Get(constvars.QueryParamPage)
	pageSizeStr := r.URL.Query().Get(constvars.QueryParamPageSize)

	page, err := strconv.Atoi(pageStr)
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize <= 0 {
		pageSize = constvars.AppDefaultPageSize
	}

	return &requests.Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// GetGuestID returns the trimmed x-guest-id header value.
func GetGuestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(constvars.HeaderXGuestID))
}

// ParseOptionalFloatQuery returns nil when the query param is absent.
func ParseOptionalFloatQuery(r *http.Request, key string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// ParseOptionalDateQuery parses a YYYY-MM-DD query param in loc.
func ParseOptionalDateQuery(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	date, err := time.ParseInLocation(constvars.DateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
