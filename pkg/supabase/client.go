package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"confposter/pkg/logger"
	"confposter/pkg/models"
)

// selectColumns is the projection fetched for candidate selection. Columns
// not used downstream are not requested.
const selectColumns = "sr_no,confession,timestamp,post_number,accept,reject,imagekit_url,is_posted"

// Client talks to the Supabase REST (PostgREST) endpoint holding the
// confession tables. It is the single point of durable state mutation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     logger.Logger
}

// NewClient creates a row store client for the given project URL and key.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     log,
	}
}

// FetchConfessions returns all rows of the table ordered by sr_no
// ascending. Any transport, status or parse failure degrades to an empty
// slice: a fetch that fails means "nothing to do", never a hard error.
func (c *Client) FetchConfessions(ctx context.Context, table string) []models.Confession {
	q := url.Values{}
	q.Set("select", selectColumns)
	q.Set("order", "sr_no.asc")
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.WithError(err).WithField("table", table).Error("failed to build fetch request")
		return nil
	}
	c.setHeaders(req)

	resp, err := c.do(req)
	if err != nil {
		c.logger.WithError(err).WithField("table", table).Error("failed to fetch confessions")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorWithFields("unexpected status fetching confessions", map[string]interface{}{
			"table":  table,
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil
	}

	var rows []models.Confession
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		c.logger.WithError(err).WithField("table", table).Error("failed to parse confessions response")
		return nil
	}

	c.logger.DebugWithFields("fetched confessions", map[string]interface{}{
		"table": table,
		"rows":  len(rows),
	})
	return rows
}

// SetPosted updates exactly one row's is_posted marker, setting it when
// posted is true and clearing it otherwise. The PATCH is keyed by the
// unique sr_no, so repeating the call converges on the same row state.
// Returns false on any error.
func (c *Client) SetPosted(ctx context.Context, table string, srNo int64, posted bool) bool {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?sr_no=eq.%d", c.baseURL, table, srNo)

	var marker interface{}
	if posted {
		marker = models.PostedMark
	}
	body, err := json.Marshal(map[string]interface{}{"is_posted": marker})
	if err != nil {
		c.logger.WithError(err).Error("failed to encode posted status update")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.WithError(err).WithField("table", table).Error("failed to build update request")
		return false
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"table": table,
			"sr_no": srNo,
		}).Error("failed to update posted status")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.ErrorWithFields("unexpected status updating posted status", map[string]interface{}{
			"table":  table,
			"sr_no":  srNo,
			"status": resp.StatusCode,
		})
		return false
	}

	c.logger.InfoWithFields("updated posted status", map[string]interface{}{
		"table":  table,
		"sr_no":  srNo,
		"posted": posted,
	})
	return true
}

// setHeaders applies the PostgREST auth headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// do performs the request with request/response debug logging.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	c.logger.DebugWithFields("sending row store request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("row store request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})
	return resp, nil
}
