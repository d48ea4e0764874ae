package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
)

// Errors shared by the usecases; handlers translate them to status codes
// and stable error tags.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidPlatform     = errors.New("invalid_platform")
	ErrUnsupportedPlatform = errors.New("unsupported_platform")
	ErrNoAccessToken       = errors.New("no_access_token")
	ErrNoTikTokToken       = errors.New("no_tiktok_token")
	ErrNoYouTubeToken      = errors.New("no_youtube_token")
)

// sessions wraps the key-value store with the session key scheme and TTL.
type sessions struct {
	store repository.ISessionStore
}

func sessionKey(sid string) string { return "sid:" + sid }

// get returns the stored session or nil when the sid is unknown.
func (s sessions) get(ctx context.Context, sid string) (*model.Session, error) {
	if sid == "" {
		return nil, nil
	}
	raw, found, err := s.store.Get(ctx, sessionKey(sid))
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !found {
		return nil, nil
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

// put stores the session, refreshing its TTL.
func (s sessions) put(ctx context.Context, sid string, sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.store.Put(ctx, sessionKey(sid), raw, model.SessionTTL); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// NewSID mints an opaque URL-safe session id.
func NewSID() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
