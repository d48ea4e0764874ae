package model

// Profile is the canonical creator profile produced by the normalizer from
// a provider-specific user object.
type Profile struct {
	OpenID          string      `json:"open_id,omitempty"`
	DisplayName     string      `json:"display_name"`
	AvatarURL       string      `json:"avatar_url,omitempty"`
	ProfileDeepLink string      `json:"profile_deep_link,omitempty"`
	Handle          string      `json:"handle"`
	Username        string      `json:"username"`
	Stats           interface{} `json:"stats,omitempty"`
	FollowersCount  int64       `json:"followers_count,omitempty"`
	Platform        string      `json:"platform,omitempty"`
}

// ChannelProfile is the YouTube-specific profile shape returned by /api/me.
type ChannelProfile struct {
	Platform        string `json:"platform"`
	ChannelID       string `json:"channel_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	SubscriberCount uint64 `json:"subscriber_count,omitempty"`
	VideoCount      uint64 `json:"video_count,omitempty"`
	ViewCount       uint64 `json:"view_count,omitempty"`
}
