package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/infrastructure/logger"
	"github.com/sshamanello/reelflow/interfaces/middleware"
	"github.com/sshamanello/reelflow/usecase"
)

// IOAuthHandler serves the OAuth exchange, profile and logout endpoints.
type IOAuthHandler interface {
	Exchange(ctx *gin.Context)
	Me(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type OAuthHandler struct {
	oauthUsecase usecase.IOAuthUsecase
	cookieName   string
	cookieTTL    int // days
}

func NewOAuthHandler(oauthUsecase usecase.IOAuthUsecase, cookieName string, cookieTTLDays int) IOAuthHandler {
	return &OAuthHandler{
		oauthUsecase: oauthUsecase,
		cookieName:   cookieName,
		cookieTTL:    cookieTTLDays,
	}
}

// Exchange handles POST /api/oauth/exchange (and the legacy
// /api/tiktok/exchange route).
func (h *OAuthHandler) Exchange(ctx *gin.Context) {
	var req dto.ExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal exchange request")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.Code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_code"})
		return
	}
	if req.RedirectURI == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_redirect_uri"})
		return
	}
	if req.Platform == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_platform"})
		return
	}

	result, err := h.oauthUsecase.Exchange(ctx.Request.Context(), middleware.SID(ctx), req.Platform, req.Code, req.RedirectURI)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnsupportedPlatform):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_platform"})
		case errors.Is(err, usecase.ErrNoAccessToken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "no_access_token"})
		default:
			logger.GetLogger().WithField("error", err).Error("OAuth exchange failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "exchange_failed", "message": err.Error()})
		}
		return
	}

	h.setSessionCookie(ctx, result.SID)

	if result.Profile != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"profile": result.Profile,
			"sid":     result.SID,
		})
		return
	}
	// token stored, profile fetch failed: still a success
	ctx.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"sid":           result.SID,
		"platform":      result.Platform,
		"profile_error": result.ProfileError,
	})
}

// setSessionCookie sets the session cookie the way a cross-site frontend
// needs it: HttpOnly, Secure and SameSite=None.
func (h *OAuthHandler) setSessionCookie(ctx *gin.Context, sid string) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(h.cookieName, sid, h.cookieTTL*86400, "/", "", true, true)
}

// Me handles GET /api/me (and the legacy /api/tiktok/me route).
func (h *OAuthHandler) Me(ctx *gin.Context) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profiles, err := h.oauthUsecase.Profiles(ctx.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Failed to resolve profiles")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// Logout handles POST /api/oauth/logout.
func (h *OAuthHandler) Logout(ctx *gin.Context) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_platform"})
		return
	}

	if err := h.oauthUsecase.Logout(ctx.Request.Context(), sid, req.Platform); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, usecase.ErrInvalidPlatform):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_platform"})
		default:
			logger.GetLogger().WithField("error", err).Error("Logout failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "platform": req.Platform})
}
