package usecase

import (
	"context"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
)

// IPublishUsecase drives the platform upload engines and the TikTok
// publish/creator-info calls on behalf of a session.
type IPublishUsecase interface {
	UploadTikTok(ctx context.Context, sid string, video []byte) (*dto.TikTokUploadResult, error)
	PublishTikTok(ctx context.Context, sid string, req *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error)
	CreatorInfo(ctx context.Context, sid string) (*dto.CreatorInfo, error)
	UploadYouTube(ctx context.Context, sid string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error)
}

type publishUsecase struct {
	sessions sessions
	tiktok   repository.ITikTok
	youtube  repository.IYouTube
}

func NewPublishUsecase(store repository.ISessionStore, tiktok repository.ITikTok, youtube repository.IYouTube) IPublishUsecase {
	return &publishUsecase{
		sessions: sessions{store: store},
		tiktok:   tiktok,
		youtube:  youtube,
	}
}

// accessToken loads the session and returns the platform's access token.
func (u *publishUsecase) accessToken(ctx context.Context, sid, platform string) (string, error) {
	sess, err := u.sessions.get(ctx, sid)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrUnauthorized
	}
	cred := sess.Credential(platform)
	if cred == nil || cred.AccessToken == "" {
		if platform == model.PlatformYouTube {
			return "", ErrNoYouTubeToken
		}
		return "", ErrNoTikTokToken
	}
	return cred.AccessToken, nil
}

func (u *publishUsecase) UploadTikTok(ctx context.Context, sid string, video []byte) (*dto.TikTokUploadResult, error) {
	token, err := u.accessToken(ctx, sid, model.PlatformTikTok)
	if err != nil {
		return nil, err
	}
	return u.tiktok.Upload(ctx, token, video)
}

func (u *publishUsecase) PublishTikTok(ctx context.Context, sid string, req *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error) {
	token, err := u.accessToken(ctx, sid, model.PlatformTikTok)
	if err != nil {
		return nil, err
	}
	return u.tiktok.Publish(ctx, token, req)
}

func (u *publishUsecase) CreatorInfo(ctx context.Context, sid string) (*dto.CreatorInfo, error) {
	token, err := u.accessToken(ctx, sid, model.PlatformTikTok)
	if err != nil {
		return nil, err
	}
	raw, err := u.tiktok.UserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	profile := NormalizeProfile(raw)

	return &dto.CreatorInfo{
		AvatarURL: profile.AvatarURL,
		Nickname:  profile.DisplayName,
		Handle:    profile.Handle,
		// holding a valid token implies posting rights for this app
		CanPost: true,
		PrivacyLevelOptions: []dto.PrivacyOption{
			{Value: "PUBLIC_TO_EVERYONE", Label: "Public"},
			{Value: "MUTUAL_FOLLOW_FRIEND", Label: "Friends"},
			{Value: "SELF_ONLY", Label: "Only Me"},
		},
		InteractionSettings: dto.InteractionSettings{
			AllowComment: true,
			AllowDuet:    true,
			AllowStitch:  true,
		},
	}, nil
}

func (u *publishUsecase) UploadYouTube(ctx context.Context, sid string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error) {
	token, err := u.accessToken(ctx, sid, model.PlatformYouTube)
	if err != nil {
		return nil, err
	}
	return u.youtube.Upload(ctx, token, video, mime, meta)
}
