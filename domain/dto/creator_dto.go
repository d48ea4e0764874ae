package dto

// PrivacyOption is one entry of the privacy selector offered to the
// frontend before publishing.
type PrivacyOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InteractionSettings mirrors TikTok's per-post interaction toggles.
type InteractionSettings struct {
	AllowComment bool `json:"allow_comment"`
	AllowDuet    bool `json:"allow_duet"`
	AllowStitch  bool `json:"allow_stitch"`
}

// CreatorInfo is the success shape of GET /api/tiktok/creator_info.
type CreatorInfo struct {
	AvatarURL           string              `json:"avatar_url"`
	Nickname            string              `json:"nickname"`
	Handle              string              `json:"handle"`
	CanPost             bool                `json:"can_post"`
	PrivacyLevelOptions []PrivacyOption     `json:"privacy_level_options"`
	InteractionSettings InteractionSettings `json:"interaction_settings"`
}

// CreateProjectRequest is the JSON body of POST /api/projects.
type CreateProjectRequest struct {
	Name      string   `json:"name"`
	Platforms []string `json:"platforms"`
}

// SaveVideoRequest is the JSON body of POST /api/videos.
type SaveVideoRequest struct {
	ProjectID string `json:"projectId"`
	VideoName string `json:"videoName"`
	PublishID string `json:"publishId"`
	Status    string `json:"status"`
}
