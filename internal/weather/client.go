package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

const (
	DefaultBaseURL   = "http://api.weatherapi.com/v1"
	DefaultUserAgent = "greenhouse-sim/1.0"
	hourLayout       = "2006-01-02 15:04"
)

// Client represents a client for the weatherapi.com history API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
}

// NewClient creates a new client with a 30 s timeout
func NewClient(apiKey string) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: 30 * time.Second}, apiKey)
}

// NewClientWithHTTPClient creates a new client with a custom HTTP client
func NewClientWithHTTPClient(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		userAgent:  DefaultUserAgent,
	}
}

// SetBaseURL sets the base URL for the API (useful for testing)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// Hourly fetches every day of [start, end] and concatenates the hours.
func (c *Client) Hourly(ctx context.Context, city string, start, end time.Time) (Series, error) {
	if err := ValidateRange(city, start, end); err != nil {
		return Series{}, err
	}
	if c.apiKey == "" {
		return Series{}, &ValidationError{Field: "api_key", Message: "must be configured"}
	}

	var series Series
	for i, day := range days(start, end) {
		resp, err := c.History(ctx, city, day)
		if err != nil {
			return Series{}, err
		}
		if i == 0 {
			series.Location = Location{
				Name:      resp.Location.Name,
				Region:    resp.Location.Region,
				Country:   resp.Location.Country,
				Latitude:  resp.Location.Lat,
				Longitude: resp.Location.Lon,
				TimeZone:  resp.Location.TzID,
			}
		}
		samples, err := resp.Samples()
		if err != nil {
			return Series{}, fmt.Errorf("weather %s %s: %w", city, day.Format(DateLayout), err)
		}
		series.Samples = append(series.Samples, samples...)
	}
	return series, nil
}

// History retrieves one day of hourly history for city
func (c *Client) History(ctx context.Context, city string, day time.Time) (*HistoryResponse, error) {
	reqURL, err := c.buildURL(city, day)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Operation: "history request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Operation: "read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var history HistoryResponse
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &history, nil
}

// buildURL constructs the API URL with query parameters
func (c *Client) buildURL(city string, day time.Time) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/history.json"

	query := u.Query()
	query.Set("key", c.apiKey)
	query.Set("q", city)
	query.Set("dt", day.Format(DateLayout))
	query.Set("aqi", "no")
	query.Set("alerts", "no")
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// Samples converts the hourly payload, in the location's time zone.
func (h *HistoryResponse) Samples() ([]greenhouse.Sample, error) {
	loc := time.UTC
	if h.Location.TzID != "" {
		if l, err := time.LoadLocation(h.Location.TzID); err == nil {
			loc = l
		}
	}

	var out []greenhouse.Sample
	for _, day := range h.Forecast.ForecastDay {
		for _, hour := range day.Hour {
			ts, err := hour.timestamp(loc)
			if err != nil {
				return nil, err
			}
			if hour.TempC == nil {
				return nil, fmt.Errorf("%w: hour %q has no temp_c", greenhouse.ErrMalformedInput, hour.Time)
			}
			out = append(out, greenhouse.Sample{Timestamp: ts, ExternalTemperature: *hour.TempC})
		}
	}
	return out, nil
}

func (h HistoryHour) timestamp(loc *time.Location) (time.Time, error) {
	if h.TimeEpoch != nil {
		return time.Unix(*h.TimeEpoch, 0).In(loc), nil
	}
	ts, err := time.ParseInLocation(hourLayout, h.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: hour %q: %v", greenhouse.ErrMalformedInput, h.Time, err)
	}
	return ts, nil
}
