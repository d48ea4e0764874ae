package repository

import (
	"context"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
)

// IYouTube is the Google/YouTube client surface: OAuth token exchange,
// channel profile lookup and the resumable upload engine.
type IYouTube interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error)
	Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error)
	Channel(ctx context.Context, accessToken string) (*model.ChannelProfile, error)
	Upload(ctx context.Context, accessToken string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error)
}
