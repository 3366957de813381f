package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"roombook/pkg/model"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	defaultCreateAttempts = 3
	defaultRetryBackoff   = 200 * time.Millisecond
)

type BookingClient struct {
	httpClient   *HttpClient
	attempts     int
	retryBackoff time.Duration
}

func NewBookingClient(baseURL string, timeout time.Duration) *BookingClient {
	return &BookingClient{
		httpClient:   NewHttpClient(baseURL, timeout),
		attempts:     defaultCreateAttempts,
		retryBackoff: defaultRetryBackoff,
	}
}

// WaitForHealthy blocks until the service answers /health or maxWait passes.
func (c *BookingClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}

// Create books a room. Transport failures and 5xx replies are retried with the
// same Idempotency-Key, so the server replays a booking it already stored
// instead of reporting a conflict against it.
func (c *BookingClient) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, errors.CombineErrors(ctx.Err(), lastErr)
			case <-time.After(c.retryBackoff):
			}
		}

		resp, err := c.httpClient.POST(ctx, "/api/v1/bookings", req, headers)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = asAPIError(resp)
			continue
		}

		var booking model.Booking
		if err := decodeData(resp, http.StatusCreated, &booking); err != nil {
			return nil, err
		}
		return &booking, nil
	}
	return nil, errors.Wrapf(lastErr, "create booking failed after %d attempts", c.attempts)
}

func (c *BookingClient) Get(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, http.StatusOK, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Update(ctx context.Context, id string, update model.BookingUpdate) (*model.Booking, error) {
	resp, err := c.httpClient.PATCH(ctx, "/api/v1/bookings/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, http.StatusOK, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/bookings/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return decodeData(resp, http.StatusOK, nil)
}

func (c *BookingClient) Slots(ctx context.Context, date string) (*model.Availability, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/slots?date="+url.QueryEscape(date))
	if err != nil {
		return nil, err
	}
	var availability model.Availability
	if err := decodeData(resp, http.StatusOK, &availability); err != nil {
		return nil, err
	}
	return &availability, nil
}

func (c *BookingClient) Rooms(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/rooms")
	if err != nil {
		return nil, err
	}
	var rooms []string
	if err := decodeData(resp, http.StatusOK, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func decodeData(resp *Response, want int, target any) error {
	if resp.StatusCode != want {
		return asAPIError(resp)
	}
	if target == nil {
		return nil
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: target}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
