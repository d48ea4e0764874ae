package repository

import (
	"context"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
)

// ITikTok is the TikTok open-api client surface: OAuth token exchange,
// profile lookup and the inbox chunked-upload engine.
type ITikTok interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error)
	Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error)
	// UserInfo returns the raw provider user object; the profile normalizer
	// turns it into the canonical shape. Failures are *dto.ProfileError.
	UserInfo(ctx context.Context, accessToken string) ([]byte, error)
	Upload(ctx context.Context, accessToken string, video []byte) (*dto.TikTokUploadResult, error)
	Publish(ctx context.Context, accessToken string, req *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error)
}
