package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

// decodeJSON decodes the request body into dst and maps failures to
// ErrInvalidJSON.
func decodeJSON(r *http.Request, dst any) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// invoiceFilter reads status, dateFrom, dateTo, clientId and search from
// the query string.
func invoiceFilter(r *http.Request) (models.InvoiceFilter, error) {
	q := r.URL.Query()
	filter := models.InvoiceFilter{
		Status: models.InvoiceStatus(strings.TrimSpace(q.Get("status"))),
		Search: q.Get("search"),
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return models.InvoiceFilter{}, fmt.Errorf("%w: status %q", ErrInvalidQuery, filter.Status)
	}

	var errs []error
	parseDate := func(name string) *models.Date {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrInvalidQuery, name, raw))
			return nil
		}
		return &d
	}
	filter.DateFrom = parseDate("dateFrom")
	filter.DateTo = parseDate("dateTo")

	if raw := q.Get("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, fmt.Errorf("%w: clientId %q", ErrInvalidQuery, raw))
		}
		filter.ClientID = id
	}

	if len(errs) > 0 {
		return models.InvoiceFilter{}, errors.Join(errs...)
	}
	return filter, nil
}

// clientMeta describes the caller for the session row.
func clientMeta(r *http.Request) models.ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return models.ClientMeta{IPAddress: ip, UserAgent: r.UserAgent()}
}

// currentUserID is set by the auth middleware on every protected route.
func currentUserID(r *http.Request) (int64, bool) {
	return utils.GetUserIDFromContext(r.Context())
}
