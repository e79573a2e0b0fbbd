// Package lexoffice implementa ports.AccountingClient sobre la API pública REST de lexoffice.
//
// Usa net/http de la librería estándar con estructuras tipadas de request/response.
// Todas las llamadas pasan por un limitador de tasa compartido (golang.org/x/time/rate)
// que actúa como techo absoluto; las esperas fijas del motor de sincronización van aparte.
package lexoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa AccountingClient.
var _ ports.AccountingClient = (*Client)(nil)

const (
	// DefaultBaseURL endpoint público de lexoffice.
	DefaultBaseURL = "https://api.lexoffice.io"

	maxJSONBody = 8 << 20
	maxFileBody = 32 << 20
)

// Options configuración del cliente.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // <= 0 desactiva el limitador
	HTTPClient    *http.Client
}

// OptionsFrom opciones del cliente a partir de la configuración de la aplicación.
func OptionsFrom(c config.AccountingConfig) Options {
	return Options{
		BaseURL:       c.BaseURL,
		Timeout:       c.HTTPTimeout,
		RatePerSecond: c.RatePerSecond,
	}
}

// Client adaptador HTTP autenticado con Bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient construye un cliente con su propio limitador.
func NewClient(apiKey string, opts Options) *Client {
	return newClient(apiKey, opts, newLimiter(opts.RatePerSecond))
}

// NewFactory devuelve una fábrica de clientes que comparten limitador y http.Client,
// de modo que el techo de peticiones se respeta aunque cambie la API key.
func NewFactory(opts Options) ports.AccountingClientFactory {
	limiter := newLimiter(opts.RatePerSecond)
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: timeoutOrDefault(opts.Timeout)}
	}
	return func(apiKey string) ports.AccountingClient {
		return newClient(apiKey, opts, limiter)
	}
}

func newClient(apiKey string, opts Options, limiter *rate.Limiter) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeoutOrDefault(opts.Timeout)}
	}
	return &Client{baseURL: base, apiKey: apiKey, httpClient: hc, limiter: limiter}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ── Contactos ─────────────────────────────────────────────────────────────────

// ListContacts GET /v1/contacts?page=&size=
func (c *Client) ListContacts(ctx context.Context, page, size int) (*dto.Page[dto.RemoteContact], error) {
	q := pageQuery(page, size)
	var out dto.Page[dto.RemoteContact]
	if err := c.doJSON(ctx, http.MethodGet, "/v1/contacts", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateContact POST /v1/contacts
func (c *Client) CreateContact(ctx context.Context, contact *dto.RemoteContact) (*dto.CreatedResource, error) {
	var out dto.CreatedResource
	if err := c.doJSON(ctx, http.MethodPost, "/v1/contacts", nil, contact, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Facturas ──────────────────────────────────────────────────────────────────

// ListInvoiceVouchers GET /v1/voucherlist?voucherType=invoice&voucherStatus=...
func (c *Client) ListInvoiceVouchers(ctx context.Context, statuses []string, page, size int) (*dto.Page[dto.VoucherSummary], error) {
	q := pageQuery(page, size)
	q.Set("voucherType", "invoice")
	q.Set("voucherStatus", strings.Join(statuses, ","))
	var out dto.Page[dto.VoucherSummary]
	if err := c.doJSON(ctx, http.MethodGet, "/v1/voucherlist", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvoice GET /v1/invoices/{id}
func (c *Client) GetInvoice(ctx context.Context, id string) (*dto.RemoteInvoice, error) {
	var out dto.RemoteInvoice
	if err := c.doJSON(ctx, http.MethodGet, "/v1/invoices/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvoiceDocument GET /v1/invoices/{id}/document
func (c *Client) GetInvoiceDocument(ctx context.Context, invoiceID string) (*dto.DocumentFileRef, error) {
	var out dto.DocumentFileRef
	if err := c.doJSON(ctx, http.MethodGet, "/v1/invoices/"+url.PathEscape(invoiceID)+"/document", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadFile GET /v1/files/{id}; devuelve el binario del PDF.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/files/"+url.PathEscape(fileID), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	data, err := readLimited(resp.Body, maxFileBody)
	if err != nil {
		return nil, fmt.Errorf("lexoffice: leer archivo %s: %w", fileID, err)
	}
	return data, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("lexoffice: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	raw, err := readLimited(resp.Body, maxJSONBody)
	if err != nil {
		return fmt.Errorf("lexoffice: leer respuesta: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("lexoffice: decodificar %s %s: %w", method, path, err)
	}
	return nil
}

// readLimited lee como mucho limit bytes. Un cuerpo mayor es un error: nunca se
// devuelve un contenido truncado.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: más de %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("lexoffice: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("lexoffice: limitador: %w", err)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("lexoffice: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("lexoffice: llamada HTTP fallida: %w", err)
	}
	return resp, nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}
