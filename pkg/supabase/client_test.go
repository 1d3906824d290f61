package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confposter/pkg/logger"
	"confposter/pkg/models"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "test-anon-key", 5*time.Second, logger.NewTestLogger())
}

func TestFetchConfessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/confessions_fc", r.URL.Path)
		assert.Equal(t, selectColumns, r.URL.Query().Get("select"))
		assert.Equal(t, "sr_no.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "test-anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-anon-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"sr_no":1,"confession":"first","timestamp":"2025-06-01T10:00:00Z","post_number":2,"accept":"✓","reject":null,"imagekit_url":"https://ik.example.com/1.png","is_posted":null},
			{"sr_no":2,"confession":"second","timestamp":"2025-06-02T11:00:00Z","post_number":null,"accept":null,"reject":"✓","imagekit_url":null,"is_posted":null}
		]`))
	}))
	defer server.Close()

	rows := newTestClient(server.URL).FetchConfessions(context.Background(), "confessions_fc")

	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].SrNo)
	assert.Equal(t, "first", rows[0].Confession)
	assert.Equal(t, 2, rows[0].PostNumber)
	assert.Equal(t, models.AcceptedMark, rows[0].Accept)
	assert.Empty(t, rows[0].IsPosted, "null decodes to the zero string")
	assert.Empty(t, rows[1].Accept)
	assert.Empty(t, rows[1].ImagekitURL)
}

func TestFetchConfessionsDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			"unauthorized",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad key", http.StatusUnauthorized)
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"an array"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			rows := newTestClient(server.URL).FetchConfessions(context.Background(), "confessions_fc")
			assert.Empty(t, rows)
		})
	}
}

func TestFetchConfessionsUnreachableHost(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	assert.Empty(t, client.FetchConfessions(context.Background(), "confessions_fc"))
}

func TestSetPosted(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/rest/v1/confessions_fc", r.URL.Path)
		assert.Equal(t, "eq.7", r.URL.Query().Get("sr_no"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	t.Run("set marker", func(t *testing.T) {
		ok := client.SetPosted(context.Background(), "confessions_fc", 7, true)
		assert.True(t, ok)
		assert.Equal(t, map[string]interface{}{"is_posted": models.PostedMark}, gotBody)
	})

	t.Run("clear marker", func(t *testing.T) {
		ok := client.SetPosted(context.Background(), "confessions_fc", 7, false)
		assert.True(t, ok)
		assert.Equal(t, map[string]interface{}{"is_posted": nil}, gotBody)
	})
}

func TestSetPostedFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "conflict", http.StatusConflict)
		}))
		defer server.Close()

		assert.False(t, newTestClient(server.URL).SetPosted(context.Background(), "confessions_fc", 1, true))
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := newTestClient("http://127.0.0.1:1")
		assert.False(t, client.SetPosted(context.Background(), "confessions_fc", 1, true))
	})
}

func TestSetPostedIsIdempotent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.True(t, client.SetPosted(context.Background(), "confessions_fc", 3, true))
	assert.True(t, client.SetPosted(context.Background(), "confessions_fc", 3, true))
	assert.Equal(t, 2, calls)
}
