package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	errs "confposter/pkg/errors"
	"confposter/pkg/logger"
	"confposter/pkg/models"
	"confposter/pkg/ratelimit"
)

// Client publishes media for one Instagram business account through the
// Graph API and reads its content publishing quota. Publishing is a
// two-phase protocol: create a media container, then publish it.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accountID   string
	accessToken string
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// NewClient creates a Graph API client for the given business account.
// The limiter paces requests locally; pass nil to disable pacing.
func NewClient(accountID, accessToken string, timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     GraphBaseURL,
		accountID:   accountID,
		accessToken: accessToken,
		limiter:     limiter,
		logger:      log,
	}
}

// SetBaseURL overrides the Graph API base URL. Tests point it at a fake.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// CreateMedia submits an image URL and caption as a media container and
// returns the container's creation id.
func (c *Client) CreateMedia(ctx context.Context, imageURL, caption string) (string, error) {
	body := createMediaRequest{
		ImageURL:    imageURL,
		Caption:     caption,
		AccessToken: c.accessToken,
	}

	var resp idResponse
	if err := c.postJSON(ctx, MediaURL(c.baseURL, c.accountID), body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errs.New(errs.ErrorTypeUnknown, 0, "media creation returned no id")
	}

	c.logger.DebugWithFields("media container created", map[string]interface{}{
		"account_id":  c.accountID,
		"creation_id": resp.ID,
	})
	return resp.ID, nil
}

// PublishMedia finalizes publication of a previously created container and
// returns the published media id.
func (c *Client) PublishMedia(ctx context.Context, creationID string) (string, error) {
	body := publishMediaRequest{
		CreationID:  creationID,
		AccessToken: c.accessToken,
	}

	var resp idResponse
	if err := c.postJSON(ctx, MediaPublishURL(c.baseURL, c.accountID), body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errs.New(errs.ErrorTypeUnknown, 0, "media publish returned no id")
	}

	c.logger.InfoWithFields("media published", map[string]interface{}{
		"account_id": c.accountID,
		"media_id":   resp.ID,
	})
	return resp.ID, nil
}

// ContentPublishingLimit fetches the current publish quota snapshot.
// Returns nil when the response is malformed or unreachable; the caller
// must treat nil as "quota unknown, do not publish".
func (c *Client) ContentPublishingLimit(ctx context.Context) *models.Quota {
	endpoint := ContentPublishingLimitURL(c.baseURL, c.accountID, c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.WithError(err).Error("failed to build quota request")
		return nil
	}

	resp, err := c.do(req)
	if err != nil {
		c.logger.WithError(err).WithField("account_id", c.accountID).Error("failed to fetch publishing limit")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.ErrorWithFields("unexpected status fetching publishing limit", map[string]interface{}{
			"account_id": c.accountID,
			"status":     resp.StatusCode,
		})
		return nil
	}

	var parsed publishingLimitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.WithError(err).Error("failed to parse publishing limit response")
		return nil
	}
	if len(parsed.Data) == 0 || parsed.Data[0].QuotaUsage == nil {
		c.logger.ErrorWithFields("publishing limit response missing quota usage", map[string]interface{}{
			"account_id": c.accountID,
		})
		return nil
	}

	quota := &models.Quota{
		Usage: *parsed.Data[0].QuotaUsage,
		Limit: DefaultQuotaLimit,
	}
	if parsed.Data[0].Quota != nil {
		quota.Limit = *parsed.Data[0].Quota
	}

	c.logger.DebugWithFields("publishing limit fetched", map[string]interface{}{
		"account_id": c.accountID,
		"usage":      quota.Usage,
		"limit":      quota.Limit,
	})
	return quota
}

// postJSON performs a JSON POST and decodes the JSON response into target.
func (c *Client) postJSON(ctx context.Context, url string, body, target interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorWithFields("graph API error response", map[string]interface{}{
			"url":    req.URL.Path,
			"status": resp.StatusCode,
			"body":   string(preview),
		})
		return errs.FromStatusCode(resp.StatusCode, req.URL.Path)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse response: %v", err)
	}
	return nil
}

// do paces the request through the local limiter, then performs it with
// debug logging.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, errs.New(errs.ErrorTypeNetwork, 0, "request pacing cancelled: %v", err)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending graph API request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.Path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	c.logger.DebugWithFields("graph API request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})
	return resp, nil
}
