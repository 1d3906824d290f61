package instagram

// createMediaRequest is the body for the media container creation call
type createMediaRequest struct {
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

// publishMediaRequest is the body for the container publish call
type publishMediaRequest struct {
	CreationID  string `json:"creation_id"`
	AccessToken string `json:"access_token"`
}

// idResponse is the id-bearing response both publish phases return
type idResponse struct {
	ID string `json:"id"`
}

// publishingLimitResponse wraps the content publishing limit payload.
// QuotaUsage is a pointer so a missing or non-numeric field is
// distinguishable from a legitimate zero.
type publishingLimitResponse struct {
	Data []publishingLimitEntry `json:"data"`
}

type publishingLimitEntry struct {
	QuotaUsage *int `json:"quota_usage"`
	Quota      *int `json:"quota"`
}
