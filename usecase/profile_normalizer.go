package usecase

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sshamanello/reelflow/domain/model"
)

// Field resolution chains, tried in order. Provider payloads differ by
// granted scope: user.info.basic carries no username or profile_deep_link,
// so the normalizer synthesizes a handle from whatever it finds first.
var (
	avatarFields = []string{
		"avatar_url",
		"avatar_url_100",
		"avatar_large_url",
		"avatars.0",
		"avatarLarge",
		"avatarMedium",
		"avatarThumb",
		"avatar",
	}
	displayFields = []string{
		"display_name",
		"nickname",
		"full_name",
		"name",
		"open_id",
	}
	followerFields = []string{
		"stats_data.followers_count",
		"follower_count",
		"followers_count",
	}
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// NormalizeProfile maps a provider-specific user object into the canonical
// profile shape. It is idempotent: feeding it an already-normalized profile
// yields the same handle.
func NormalizeProfile(raw []byte) *model.Profile {
	u := gjson.ParseBytes(raw)

	display := firstString(u, displayFields)
	if display == "" {
		display = "Creator"
	}

	handle := firstString(u, []string{"username", "handle"})
	if handle == "" {
		if d := firstString(u, displayFields); d != "" {
			handle = strings.ToLower(whitespaceRuns.ReplaceAllString(d, "_"))
		} else if openID := u.Get("open_id").String(); openID != "" {
			handle = openID
		} else {
			// A payload with no usable name fields gets the literal
			// placeholder, not a handle derived from the "Creator" display
			// default.
			handle = "your_handle"
		}
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}

	profile := &model.Profile{
		OpenID:          u.Get("open_id").String(),
		DisplayName:     display,
		AvatarURL:       firstString(u, avatarFields),
		ProfileDeepLink: u.Get("profile_deep_link").String(),
		Handle:          handle,
		Username:        handle,
	}

	if stats := u.Get("stats_data"); stats.Exists() {
		profile.Stats = stats.Value()
	} else if stats := u.Get("stats"); stats.Exists() {
		profile.Stats = stats.Value()
	}
	for _, field := range followerFields {
		if v := u.Get(field); v.Exists() {
			profile.FollowersCount = v.Int()
			break
		}
	}
	return profile
}

func firstString(u gjson.Result, fields []string) string {
	for _, field := range fields {
		if v := u.Get(field); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
