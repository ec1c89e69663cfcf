package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

func historyBody(date string, temps ...float64) string {
	hours := make([]string, len(temps))
	for i, temp := range temps {
		hours[i] = fmt.Sprintf(`{"time":"%s %02d:00","temp_c":%g}`, date, i, temp)
	}
	return fmt.Sprintf(`{
		"location":{"name":"Chicago","region":"Illinois","country":"United States of America","lat":41.85,"lon":-87.65,"tz_id":"America/Chicago"},
		"forecast":{"forecastday":[{"date":"%s","hour":[%s]}]}
	}`, date, strings.Join(hours, ","))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient("secret")
	c.SetBaseURL(srv.URL)
	return c
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate("date", s)
	require.NoError(t, err)
	return d
}

func TestClient_Hourly_FetchesEveryDay(t *testing.T) {
	var requested []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history.json", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "Chicago", r.URL.Query().Get("q"))
		dt := r.URL.Query().Get("dt")
		requested = append(requested, dt)
		_, _ = w.Write([]byte(historyBody(dt, 10, 11, 12)))
	})

	series, err := c.Hourly(context.Background(), "Chicago", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-02"))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, requested)
	assert.Equal(t, "Chicago", series.Location.Name)
	assert.Equal(t, "America/Chicago", series.Location.TimeZone)
	assert.True(t, series.Location.HasCoordinates())
	require.Len(t, series.Samples, 6)

	first := series.Samples[0]
	assert.Equal(t, 10.0, first.ExternalTemperature)
	assert.Equal(t, "America/Chicago", first.Timestamp.Location().String())
	assert.Equal(t, 0, first.Timestamp.Hour())
	assert.Equal(t, 2, series.Samples[3].Timestamp.Day())
}

func TestClient_Hourly_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	})

	_, err := c.Hourly(context.Background(), "Atlantis", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-01"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "No matching location found.", apiErr.Message)
}

func TestClient_Hourly_MissingTemperature(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"location":{"name":"X","tz_id":"UTC"},"forecast":{"forecastday":[{"date":"2024-05-01","hour":[{"time":"2024-05-01 00:00"}]}]}}`))
	})

	_, err := c.Hourly(context.Background(), "X", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, greenhouse.ErrMalformedInput))
}

func TestClient_Hourly_Validation(t *testing.T) {
	c := NewClient("secret")
	var vErr *ValidationError

	_, err := c.Hourly(context.Background(), "  ", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-01"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "city", vErr.Field)

	_, err = c.Hourly(context.Background(), "Chicago", mustDate(t, "2024-05-02"), mustDate(t, "2024-05-01"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end_date", vErr.Field)

	_, err = NewClient("").Hourly(context.Background(), "Chicago", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-01"))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "api_key", vErr.Field)
}

func TestClient_Hourly_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient("secret")
	c.SetBaseURL(srv.URL)
	srv.Close()

	_, err := c.Hourly(context.Background(), "Chicago", mustDate(t, "2024-05-01"), mustDate(t, "2024-05-01"))
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("start_date", "05/01/2024")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "start_date", vErr.Field)
}

func TestClient_Hourly_SpringForwardUsesEpoch(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	midnight := time.Date(2024, time.March, 10, 0, 0, 0, 0, loc).Unix()

	// "2024-03-10 02:00" does not exist in Chicago; only the epochs are exact.
	hours := make([]string, 24)
	for i := range hours {
		hours[i] = fmt.Sprintf(`{"time_epoch":%d,"time":"2024-03-10 %02d:00","temp_c":%d}`, midnight+int64(i)*3600, i, i)
	}
	body := fmt.Sprintf(`{
		"location":{"name":"Chicago","lat":41.85,"lon":-87.65,"tz_id":"America/Chicago"},
		"forecast":{"forecastday":[{"date":"2024-03-10","hour":[%s]}]}
	}`, strings.Join(hours, ","))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	day := mustDate(t, "2024-03-10")
	series, err := c.Hourly(context.Background(), "Chicago", day, day)
	require.NoError(t, err)
	require.Len(t, series.Samples, 24)
	require.NoError(t, greenhouse.ValidateSamples(series.Samples))

	assert.Equal(t, 1, series.Samples[1].Timestamp.Hour())
	assert.Equal(t, 3, series.Samples[2].Timestamp.Hour())
	assert.Equal(t, time.Hour, series.Samples[2].Timestamp.Sub(series.Samples[1].Timestamp))
	assert.Equal(t, "America/Chicago", series.Samples[2].Timestamp.Location().String())
}

func TestHistoryResponse_Samples_StringFallback(t *testing.T) {
	var resp HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(historyBody("2024-05-01", 7, 8)), &resp))

	samples, err := resp.Samples()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 1, samples[1].Timestamp.Hour())
	assert.Equal(t, 8.0, samples[1].ExternalTemperature)
}
