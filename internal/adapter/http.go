package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.HTTPAddress and configures the underlying resty client with it and
// cfg.RequestTimeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	a := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}
	a.client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		a.logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Msg("api call")
		return nil
	})

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.SanitizedUser, error) {
	return h.authenticate(ctx, "/auth/register", req)
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.SanitizedUser, error) {
	return h.authenticate(ctx, "/auth/login", req)
}

// authenticate posts body to path and keeps the session token from the
// Authorization response header.
func (h *httpServerAdapter) authenticate(ctx context.Context, path string, body any) (models.SanitizedUser, error) {
	var result models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.SanitizedUser{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SanitizedUser{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.SanitizedUser{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}
	h.SetToken(token)

	if result.User == nil {
		return models.SanitizedUser{}, nil
	}
	return *result.User, nil
}

func (h *httpServerAdapter) Logout(ctx context.Context) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Post("/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	// an already revoked session is as good as a logout
	if err = mapHTTPError(resp); err != nil && resp.StatusCode() != http.StatusUnauthorized {
		return err
	}

	h.SetToken("")
	return nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.SanitizedUser, error) {
	var result models.AuthResponse
	if err := h.get(ctx, "/auth/me", nil, &result); err != nil {
		return models.SanitizedUser{}, err
	}
	if result.User == nil {
		return models.SanitizedUser{}, fmt.Errorf("me: empty user in response")
	}
	return *result.User, nil
}

func (h *httpServerAdapter) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.DateFrom != nil {
		query.Set("dateFrom", filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		query.Set("dateTo", filter.DateTo.String())
	}
	if filter.ClientID != 0 {
		query.Set("clientId", strconv.FormatInt(filter.ClientID, 10))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var invoices []models.Invoice
	err := h.get(ctx, "/invoices", query, &invoices)
	return invoices, err
}

func (h *httpServerAdapter) GetInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	var invoice models.Invoice
	err := h.get(ctx, invoicePath(id), nil, &invoice)
	return invoice, err
}

func (h *httpServerAdapter) CreateInvoice(ctx context.Context, input models.InvoiceInput) (models.Invoice, error) {
	var invoice models.Invoice
	err := h.send(ctx, http.MethodPost, "/invoices", input, &invoice)
	return invoice, err
}

func (h *httpServerAdapter) DeleteInvoice(ctx context.Context, id int64) error {
	return h.send(ctx, http.MethodDelete, invoicePath(id), nil, nil)
}

func (h *httpServerAdapter) SetInvoiceStatus(ctx context.Context, id int64, status models.InvoiceStatus) (models.Invoice, error) {
	var invoice models.Invoice
	err := h.send(ctx, http.MethodPut, invoicePath(id)+"/status", models.StatusUpdate{Status: status}, &invoice)
	return invoice, err
}

func (h *httpServerAdapter) DuplicateInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	var invoice models.Invoice
	err := h.send(ctx, http.MethodPost, invoicePath(id)+"/duplicate", nil, &invoice)
	return invoice, err
}

func (h *httpServerAdapter) SpawnRecurring(ctx context.Context, id int64) (models.Invoice, bool, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.Invoice{}, false, err
	}

	var invoice models.Invoice
	resp, err := req.SetResult(&invoice).Post(invoicePath(id) + "/recurring")
	if err != nil {
		return models.Invoice{}, false, fmt.Errorf("spawn recurring request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Invoice{}, false, err
	}
	if resp.StatusCode() == http.StatusNoContent {
		return models.Invoice{}, false, nil
	}
	return invoice, true, nil
}

func (h *httpServerAdapter) ShareInvoice(ctx context.Context, id int64) (models.ShareLink, error) {
	var link models.ShareLink
	err := h.send(ctx, http.MethodPost, invoicePath(id)+"/share", nil, &link)
	return link, err
}

func (h *httpServerAdapter) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := h.get(ctx, "/clients", nil, &clients)
	return clients, err
}

func (h *httpServerAdapter) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	var created models.Client
	err := h.send(ctx, http.MethodPost, "/clients", client, &created)
	return created, err
}

func (h *httpServerAdapter) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := h.get(ctx, "/dashboard/stats", nil, &stats)
	return stats, err
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	var version models.VersionResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&version).
		Get("/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return version.Version, nil
}

// authedRequest returns a request carrying the session token, or
// ErrNotLoggedIn when there is none.
func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token), nil
}

func (h *httpServerAdapter) get(ctx context.Context, path string, query url.Values, result any) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.SetResult(result).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) send(ctx context.Context, method, path string, body, result any) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return mapHTTPError(resp)
}

func invoicePath(id int64) string {
	return "/invoices/" + strconv.FormatInt(id, 10)
}
