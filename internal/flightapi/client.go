// Package flightapi is the HTTP client for the remote flight/booking service.
// Every response is wrapped in a {success, message, <data>} envelope; a
// success=false envelope is reported the same way as a non-2xx status.
package flightapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/Domenick1991/airbooking-desk/config"
	"github.com/Domenick1991/airbooking-desk/internal/domain"
)

const maxBodyBytes = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.FlightAPIConfig) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()})
}

// NewClientWithHTTP lets tests point the client at an httptest server.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

type searchRequest struct {
	FromCity string `json:"fromCity"`
	ToCity   string `json:"toCity"`
}

// SearchFlights returns one record per element the service sent. Elements
// that are not JSON objects come back as empty, invalid records so the
// sanitizer drops and counts them. Callers must sanitize the result.
func (c *Client) SearchFlights(ctx context.Context, fromCity, toCity string) ([]domain.FlightRecord, error) {
	var raw []json.RawMessage
	found, err := c.do(ctx, http.MethodPost, "/flights/search", searchRequest{FromCity: fromCity, ToCity: toCity}, "flights", &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.FlightRecord{}, nil
	}

	flights := make([]domain.FlightRecord, 0, len(raw))
	for i, item := range raw {
		rec, err := domain.ParseFlight(item)
		if err != nil {
			log.Printf("flight record %d is not an object: %v", i, err)
			rec = domain.FlightRecord{}
		}
		flights = append(flights, rec)
	}
	return flights, nil
}

func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.required(ctx, http.MethodPost, "/bookings", req, "booking", &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.required(ctx, http.MethodGet, "/bookings", nil, "bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.required(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, "booking", &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) BookingsByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.required(ctx, http.MethodGet, "/bookings/email/"+url.PathEscape(email), nil, "bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) SupportedCities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := c.required(ctx, http.MethodGet, "/cities", nil, "cities", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// required is do for endpoints whose data key must be present on success.
func (c *Client) required(ctx context.Context, method, path string, body interface{}, key string, out interface{}) error {
	found, err := c.do(ctx, method, path, body, key, out)
	if err != nil {
		return err
	}
	if !found {
		return &domain.TransportError{Op: opName(method, path), Err: fmt.Errorf("response has no %q", key)}
	}
	return nil
}

// do sends the request and decodes the envelope. It reports whether the data
// key was present; out is left untouched when it was not.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, key string, out interface{}) (bool, error) {
	op := opName(method, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, &domain.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the message is optional on error statuses
		return false, &domain.ServiceError{Status: resp.StatusCode, Message: env.message()}
	}
	if decodeErr != nil {
		return false, &domain.TransportError{Op: op, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if !env.succeeded() {
		return false, &domain.ServiceError{Status: resp.StatusCode, Message: env.message()}
	}

	raw, ok := env[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, &domain.TransportError{Op: op, Err: fmt.Errorf("decode %s: %w", key, err)}
	}
	return true, nil
}

// envelope keeps the data key raw because its name differs per endpoint.
type envelope map[string]json.RawMessage

func (e envelope) succeeded() bool {
	var ok bool
	if err := json.Unmarshal(e["success"], &ok); err != nil {
		return false
	}
	return ok
}

func (e envelope) message() string {
	var msg string
	if raw, ok := e["message"]; ok {
		_ = json.Unmarshal(raw, &msg)
	}
	return msg
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func opName(method, path string) string {
	return method + " " + path
}

// IsNotFound reports whether the service answered 404.
func IsNotFound(err error) bool {
	var svcErr *domain.ServiceError
	return errors.As(err, &svcErr) && svcErr.Status == http.StatusNotFound
}
