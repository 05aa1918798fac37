package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/autocomplete"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDataset struct {
	primary  string
	fallback string

	primaryCalls  atomic.Int32
	fallbackCalls atomic.Int32
}

func (f *fakeDataset) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("$q") != "" {
		f.fallbackCalls.Add(1)
		io.WriteString(w, f.fallback)
		return
	}
	f.primaryCalls.Add(1)
	io.WriteString(w, f.primary)
}

func newTestServer(t *testing.T, dataset *fakeDataset) *httptest.Server {
	t.Helper()

	upstreamServer := httptest.NewServer(dataset)
	t.Cleanup(upstreamServer.Close)

	client, err := upstream.New(upstream.Options{DatasetURL: upstreamServer.URL}, logger.Discard())
	require.NoError(t, err)

	svc := autocomplete.NewService(client, nil, logger.Discard())
	ts := httptest.NewServer(newHTTPServer(svc, logger.Discard()).router())
	t.Cleanup(ts.Close)
	return ts
}

func getSuggestions(t *testing.T, url string) (*http.Response, dal.SuggestionResponse) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Contains(t, raw, "suggestions")
	require.True(t, strings.HasPrefix(string(raw["suggestions"]), "["), "suggestions must be an array, got %s", raw["suggestions"])

	var out dal.SuggestionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return resp, out
}

func TestServer(t *testing.T) {
	rows := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, fmt.Sprintf(`{"bbl":"30111700%02d","address":"%d PROSPECT PARK WEST","borough":"BK","zipcode":"11215","unitsres":"%d"}`, i, i, 12-i))
	}
	manyRows := "[" + strings.Join(rows, ",") + "]"

	tests := []struct {
		name          string
		path          string
		dataset       *fakeDataset
		expected      []dal.Suggestion
		expectedLen   int
		primaryCalls  int32
		fallbackCalls int32
	}{
		{
			name:     "MissingQuery",
			path:     "/api/autocomplete",
			dataset:  &fakeDataset{primary: manyRows},
			expected: []dal.Suggestion{},
		},
		{
			name:     "ShortQuery",
			path:     "/api/autocomplete?q=p",
			dataset:  &fakeDataset{primary: manyRows},
			expected: []dal.Suggestion{},
		},
		{
			name: "PrimaryOnly",
			path: "/api/autocomplete?q=prospect",
			dataset: &fakeDataset{
				primary: `[{"bbl":"3011170001","address":"100 PROSPECT PARK WEST","borough":"BK","zipcode":"11215","unitsres":"24"},
					{"bbl":"3011170002","address":"100 PROSPECT PARK WEST","borough":"BK","zipcode":"11215","unitsres":"3"},
					{"bbl":"","address":"NO BBL","borough":"BK"}]`,
				fallback: `[{"bbl":"1","address":"SHOULD NOT APPEAR"}]`,
			},
			expected: []dal.Suggestion{
				{BBL: "3011170001", Address: "100 PROSPECT PARK WEST", Borough: "Brooklyn", Zipcode: "11215", Neighborhood: "Park Slope", Units: 24},
			},
			primaryCalls: 1,
		},
		{
			name: "Fallback",
			path: "/api/autocomplete?q=battery",
			dataset: &fakeDataset{
				primary:  `[]`,
				fallback: `[{"bbl":"1000010010","address":"1 BATTERY PARK","borough":"MN","zipcode":"10004"}]`,
			},
			expected: []dal.Suggestion{
				{BBL: "1000010010", Address: "1 BATTERY PARK", Borough: "Manhattan", Zipcode: "10004", Neighborhood: "Financial District"},
			},
			primaryCalls:  1,
			fallbackCalls: 1,
		},
		{
			name:          "Truncated",
			path:          "/api/autocomplete?q=prospect",
			dataset:       &fakeDataset{primary: manyRows},
			expectedLen:   autocomplete.MaxSuggestions,
			primaryCalls:  1,
			fallbackCalls: 0,
		},
		{
			name:         "UpstreamNotJSON",
			path:         "/api/autocomplete?q=prospect",
			dataset:      &fakeDataset{primary: `<html>oops</html>`},
			expected:     []dal.Suggestion{},
			primaryCalls: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.dataset)

			resp, got := getSuggestions(t, ts.URL+tc.path)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			if tc.expected != nil {
				assert.Equal(t, tc.expected, got.Suggestions)
			} else {
				assert.Len(t, got.Suggestions, tc.expectedLen)
			}
			assert.Equal(t, tc.primaryCalls, tc.dataset.primaryCalls.Load())
			assert.Equal(t, tc.fallbackCalls, tc.dataset.fallbackCalls.Load())
		})
	}
}

func TestServerUpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	client, err := upstream.New(upstream.Options{DatasetURL: downURL}, logger.Discard())
	require.NoError(t, err)
	svc := autocomplete.NewService(client, nil, logger.Discard())
	ts := httptest.NewServer(newHTTPServer(svc, logger.Discard()).router())
	defer ts.Close()

	resp, got := getSuggestions(t, ts.URL+"/api/autocomplete?q=prospect")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, got.Suggestions)
}

type panicSuggester struct{}

func (panicSuggester) Suggest(context.Context, string) []dal.Suggestion {
	panic("boom")
}

func TestServerRecoversPanic(t *testing.T) {
	ts := httptest.NewServer(newHTTPServer(panicSuggester{}, logger.Discard()).router())
	defer ts.Close()

	resp, got := getSuggestions(t, ts.URL+"/api/autocomplete?q=prospect")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, got.Suggestions)
}

func TestRequestID(t *testing.T) {
	ts := httptest.NewServer(newHTTPServer(panicSuggester{}, logger.Discard()).router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	resp2, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(RequestIDHeader))

	var report HealthReport
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&report))
	assert.Equal(t, "ok", report.Status)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := httptest.NewServer(newHTTPServer(panicSuggester{}, logger.Discard()).router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/autocomplete?q=prospect", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
