package instagram

import "fmt"

const (
	// GraphBaseURL is the Facebook Graph API base for the pinned version
	GraphBaseURL = "https://graph.facebook.com/v19.0"

	// DefaultQuotaLimit applies when the limit response omits the quota field
	DefaultQuotaLimit = 100
)

// MediaURL is the media container creation endpoint for a business account
func MediaURL(baseURL, accountID string) string {
	return fmt.Sprintf("%s/%s/media", baseURL, accountID)
}

// MediaPublishURL is the container publish endpoint for a business account
func MediaPublishURL(baseURL, accountID string) string {
	return fmt.Sprintf("%s/%s/media_publish", baseURL, accountID)
}

// ContentPublishingLimitURL is the quota usage endpoint for a business account
func ContentPublishingLimitURL(baseURL, accountID, accessToken string) string {
	return fmt.Sprintf("%s/%s/content_publishing_limit?access_token=%s", baseURL, accountID, accessToken)
}
