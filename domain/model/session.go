package model

import "time"

// Platform names accepted by the OAuth exchange and logout endpoints.
const (
	PlatformTikTok  = "tiktok"
	PlatformYouTube = "youtube"
)

// RefreshMargin is subtracted from a credential's expiry before comparing it
// against the current time, so tokens are renewed slightly ahead of expiry.
const RefreshMargin = 60 * time.Second

// SessionTTL is how long session, project and video keys live in the backing
// store without activity.
const SessionTTL = 30 * 24 * time.Hour

// PlatformCredential is the stored OAuth token bundle for one provider.
// It is mutated only by the token exchanger and never shared across sessions.
type PlatformCredential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	Scope        string `json:"scope,omitempty"`
}

// NeedsRefresh reports whether the credential is within the safety margin of
// its expiry and carries a refresh token to renew with.
func (c PlatformCredential) NeedsRefresh(now time.Time) bool {
	if c.ExpiresAt == 0 || c.RefreshToken == "" {
		return false
	}
	return now.Unix() > c.ExpiresAt-int64(RefreshMargin.Seconds())
}

// Session holds the per-platform token bundles for one opaque session id.
type Session struct {
	TikTok  *PlatformCredential `json:"tiktok,omitempty"`
	YouTube *PlatformCredential `json:"youtube,omitempty"`
}

// Credential returns the stored bundle for a platform, or nil.
func (s *Session) Credential(platform string) *PlatformCredential {
	switch platform {
	case PlatformTikTok:
		return s.TikTok
	case PlatformYouTube:
		return s.YouTube
	}
	return nil
}

// SetCredential stores a bundle under a platform name.
func (s *Session) SetCredential(platform string, cred *PlatformCredential) {
	switch platform {
	case PlatformTikTok:
		s.TikTok = cred
	case PlatformYouTube:
		s.YouTube = cred
	}
}

// DropCredential removes one platform's bundle and reports whether the
// platform name was valid.
func (s *Session) DropCredential(platform string) bool {
	switch platform {
	case PlatformTikTok:
		s.TikTok = nil
	case PlatformYouTube:
		s.YouTube = nil
	default:
		return false
	}
	return true
}
