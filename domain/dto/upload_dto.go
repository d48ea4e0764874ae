package dto

// TikTokUploadResult is the outcome of a completed inbox upload. Status is
// "published" when the trailing publish step succeeded and
// "uploaded_to_inbox" when the bytes landed but publish was rejected; the
// latter is still a success from the caller's point of view.
type TikTokUploadResult struct {
	Status       string        `json:"status"`
	PublishID    string        `json:"publish_id"`
	VideoID      string        `json:"video_id,omitempty"`
	VideoURL     string        `json:"video_url,omitempty"`
	Message      string        `json:"message,omitempty"`
	PublishError *RemoteDetail `json:"publish_error,omitempty"`
}

// RemoteDetail embeds the status and decoded body of a remote API response.
type RemoteDetail struct {
	Status int         `json:"status"`
	Detail interface{} `json:"detail"`
}

// TikTokPublishRequest is the JSON body of POST /api/tiktok/publish.
type TikTokPublishRequest struct {
	VideoRef         string   `json:"video_ref"`
	Title            string   `json:"title"`
	Hashtags         []string `json:"hashtags"`
	PrivacyLevel     string   `json:"privacy_level"`
	CommentDisabled  bool     `json:"comment_disabled"`
	DuetDisabled     bool     `json:"duet_disabled"`
	StitchDisabled   bool     `json:"stitch_disabled"`
	IsBrandedContent bool     `json:"is_branded_content"`
	BrandContentType []string `json:"brand_content_type"`
}

// TikTokPublishResult is the success shape of POST /api/tiktok/publish.
type TikTokPublishResult struct {
	Success   bool   `json:"success"`
	VideoID   string `json:"video_id"`
	VideoURL  string `json:"video_url,omitempty"`
	PublishID string `json:"publish_id"`
}

// YouTubeUploadMeta carries the video metadata fields of the multipart
// upload form. Tags arrive as one comma-separated string.
type YouTubeUploadMeta struct {
	Title       string
	Description string
	Privacy     string
	Tags        string
}

// YouTubeUploadResult is the success shape of POST /api/youtube/upload.
type YouTubeUploadResult struct {
	Success   bool   `json:"success"`
	PublishID string `json:"publish_id"`
	VideoID   string `json:"video_id"`
	Platform  string `json:"platform"`
	UploadURL string `json:"upload_url"`
}
