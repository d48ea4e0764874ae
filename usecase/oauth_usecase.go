package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
	"github.com/sshamanello/reelflow/infrastructure/logger"
)

// ExchangeResult is the outcome of one OAuth code exchange. The exchange
// succeeds whenever the token is stored; ProfileError is populated instead
// of Profile when the follow-up profile fetch failed.
type ExchangeResult struct {
	SID          string
	Platform     string
	Profile      interface{}
	ProfileError *dto.ProfileError
}

type IOAuthUsecase interface {
	Exchange(ctx context.Context, sid, platform, code, redirectURI string) (*ExchangeResult, error)
	Profiles(ctx context.Context, sid string) (map[string]interface{}, error)
	Logout(ctx context.Context, sid, platform string) error
}

type oauthUsecase struct {
	sessions sessions
	tiktok   repository.ITikTok
	youtube  repository.IYouTube
	now      func() time.Time
}

func NewOAuthUsecase(store repository.ISessionStore, tiktok repository.ITikTok, youtube repository.IYouTube) IOAuthUsecase {
	return &oauthUsecase{
		sessions: sessions{store: store},
		tiktok:   tiktok,
		youtube:  youtube,
		now:      time.Now,
	}
}

// Exchange trades an authorization code for a token bundle, stores it under
// the session (minting a new sid when the caller supplied none) and fetches
// the platform profile best-effort.
func (u *oauthUsecase) Exchange(ctx context.Context, sid, platform, code, redirectURI string) (*ExchangeResult, error) {
	newSession := sid == ""
	if newSession {
		sid = NewSID()
	}

	sess, err := u.sessions.get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &model.Session{}
	}

	result := &ExchangeResult{SID: sid, Platform: platform}

	switch platform {
	case model.PlatformTikTok:
		cred, err := u.tiktok.ExchangeCode(ctx, code, redirectURI)
		if err != nil {
			return nil, err
		}
		if cred.AccessToken == "" {
			return nil, ErrNoAccessToken
		}
		sess.TikTok = cred

		if raw, perr := u.tiktok.UserInfo(ctx, cred.AccessToken); perr != nil {
			result.ProfileError = asProfileError(perr)
		} else {
			profile := NormalizeProfile(raw)
			profile.Platform = model.PlatformTikTok
			result.Profile = profile
		}

	case model.PlatformYouTube:
		cred, err := u.youtube.ExchangeCode(ctx, code, redirectURI)
		if err != nil {
			return nil, err
		}
		if cred.AccessToken == "" {
			return nil, ErrNoAccessToken
		}
		sess.YouTube = cred

		if profile, perr := u.youtube.Channel(ctx, cred.AccessToken); perr != nil {
			result.ProfileError = asProfileError(perr)
		} else {
			result.Profile = profile
		}

	default:
		return nil, ErrUnsupportedPlatform
	}

	if err := u.sessions.put(ctx, sid, sess); err != nil {
		return nil, err
	}
	return result, nil
}

// Profiles returns the current profile per connected platform, renewing
// credentials that are within the refresh margin of expiry. Refresh
// failures are logged and the stale token is used anyway; platforms whose
// profile fetch fails are omitted from the result.
func (u *oauthUsecase) Profiles(ctx context.Context, sid string) (map[string]interface{}, error) {
	sess, err := u.sessions.get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrUnauthorized
	}

	profiles := map[string]interface{}{}

	if sess.TikTok != nil {
		cred := u.freshCredential(ctx, sid, sess, model.PlatformTikTok)
		if raw, perr := u.tiktok.UserInfo(ctx, cred.AccessToken); perr == nil {
			profile := NormalizeProfile(raw)
			profile.Platform = model.PlatformTikTok
			profiles[model.PlatformTikTok] = profile
		} else {
			logger.GetLogger().WithField("error", perr).Warn("TikTok profile fetch failed")
		}
	}

	if sess.YouTube != nil {
		cred := u.freshCredential(ctx, sid, sess, model.PlatformYouTube)
		if profile, perr := u.youtube.Channel(ctx, cred.AccessToken); perr == nil {
			profiles[model.PlatformYouTube] = profile
		} else {
			logger.GetLogger().WithField("error", perr).Warn("YouTube profile fetch failed")
		}
	}

	return profiles, nil
}

// freshCredential refreshes a near-expiry credential best-effort and
// persists the renewed bundle before it is used. On refresh failure the
// stored (possibly stale) credential is returned unchanged.
func (u *oauthUsecase) freshCredential(ctx context.Context, sid string, sess *model.Session, platform string) *model.PlatformCredential {
	cred := sess.Credential(platform)
	if !cred.NeedsRefresh(u.now()) {
		return cred
	}

	var renewed *model.PlatformCredential
	var err error
	switch platform {
	case model.PlatformTikTok:
		renewed, err = u.tiktok.Refresh(ctx, cred.RefreshToken)
	case model.PlatformYouTube:
		renewed, err = u.youtube.Refresh(ctx, cred.RefreshToken)
	}
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"platform": platform,
			"error":    err,
		}).Error("Token refresh failed, proceeding with stale token")
		return cred
	}
	if renewed.RefreshToken == "" {
		renewed.RefreshToken = cred.RefreshToken
	}

	sess.SetCredential(platform, renewed)
	if err := u.sessions.put(ctx, sid, sess); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to persist refreshed credential")
	}
	return renewed
}

// Logout drops one platform's credential from the session.
func (u *oauthUsecase) Logout(ctx context.Context, sid, platform string) error {
	sess, err := u.sessions.get(ctx, sid)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrUnauthorized
	}
	if !sess.DropCredential(platform) {
		return ErrInvalidPlatform
	}
	return u.sessions.put(ctx, sid, sess)
}

func asProfileError(err error) *dto.ProfileError {
	var perr *dto.ProfileError
	if errors.As(err, &perr) {
		return perr
	}
	return &dto.ProfileError{Status: 0, Body: err.Error()}
}
