package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/infrastructure/clients/tiktok"
	"github.com/sshamanello/reelflow/infrastructure/logger"
	"github.com/sshamanello/reelflow/interfaces/middleware"
	"github.com/sshamanello/reelflow/usecase"
)

// ITikTokHandler serves the TikTok upload, publish and creator-info
// endpoints.
type ITikTokHandler interface {
	Upload(ctx *gin.Context)
	Publish(ctx *gin.Context)
	CreatorInfo(ctx *gin.Context)
}

type TikTokHandler struct {
	publishUsecase usecase.IPublishUsecase
}

func NewTikTokHandler(publishUsecase usecase.IPublishUsecase) ITikTokHandler {
	return &TikTokHandler{publishUsecase: publishUsecase}
}

// Upload handles POST /api/tiktok/upload. The video arrives as the
// multipart form field "file" and is pushed to the TikTok inbox in
// chunks.
func (h *TikTokHandler) Upload(ctx *gin.Context) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "no_file",
			"message": "Provide a video file in form-data: file=<blob>",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to open uploaded file")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no_file"})
		return
	}
	defer file.Close()

	video, err := io.ReadAll(file)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to read uploaded file")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "upload_error", "message": err.Error()})
		return
	}

	result, err := h.publishUsecase.UploadTikTok(ctx.Request.Context(), sid, video)
	if err != nil {
		h.respondUploadError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *TikTokHandler) respondUploadError(ctx *gin.Context, err error) {
	var uploadErr *tiktok.UploadError
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, usecase.ErrNoTikTokToken):
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "no_tiktok_token",
			"message": "Please connect TikTok account first",
		})
	case errors.Is(err, model.ErrInvalidFileSize):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_file_size",
			"message": "File size must be > 0",
		})
	case errors.As(err, &uploadErr):
		h.respondRemoteUploadError(ctx, uploadErr)
	default:
		logger.GetLogger().WithField("error", err).Error("TikTok upload failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "upload_error", "message": err.Error()})
	}
}

func (h *TikTokHandler) respondRemoteUploadError(ctx *gin.Context, err *tiktok.UploadError) {
	logger.GetLogger().
		WithField("tag", err.Tag).
		WithField("status", err.Status).
		Error("TikTok rejected the upload")

	switch err.Tag {
	case "init_failed", "init_missing_fields":
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  err.Tag,
			"status": err.Status,
			"detail": err.Detail,
		})
	case "chunk_upload_failed":
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":      err.Tag,
			"status":     err.Status,
			"range":      err.Range,
			"body":       err.Detail,
			"publish_id": err.PublishID,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Tag,
			"status": err.Status,
			"detail": err.Detail,
		})
	}
}

// Publish handles POST /api/tiktok/publish: moving an already-uploaded
// inbox video into a draft post with title, hashtags and privacy.
func (h *TikTokHandler) Publish(ctx *gin.Context) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.TikTokPublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.VideoRef == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_video_ref"})
		return
	}
	if req.PrivacyLevel == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_privacy_level"})
		return
	}
	// branded content may not be posted as a private video
	if req.IsBrandedContent && lo.Contains(req.BrandContentType, "BRANDED_CONTENT") && req.PrivacyLevel == "SELF_ONLY" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_privacy_branded_content",
			"message": "Branded content cannot be private",
		})
		return
	}

	result, err := h.publishUsecase.PublishTikTok(ctx.Request.Context(), sid, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, usecase.ErrNoTikTokToken):
			ctx.JSON(http.StatusUnauthorized, gin.H{
				"error":   "no_tiktok_token",
				"message": "Please connect TikTok account first",
			})
		default:
			var uploadErr *tiktok.UploadError
			if errors.As(err, &uploadErr) {
				ctx.JSON(http.StatusInternalServerError, gin.H{
					"error":  uploadErr.Tag,
					"status": uploadErr.Status,
					"detail": uploadErr.Detail,
				})
				return
			}
			logger.GetLogger().WithField("error", err).Error("TikTok publish failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "publish_failed", "message": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// CreatorInfo handles GET /api/tiktok/creator_info.
func (h *TikTokHandler) CreatorInfo(ctx *gin.Context) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	info, err := h.publishUsecase.CreatorInfo(ctx.Request.Context(), sid)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthorized):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		case errors.Is(err, usecase.ErrNoTikTokToken):
			ctx.JSON(http.StatusUnauthorized, gin.H{
				"error":   "no_tiktok_token",
				"message": "Please connect TikTok account first",
			})
		default:
			var profileErr *dto.ProfileError
			if errors.As(err, &profileErr) {
				ctx.JSON(http.StatusInternalServerError, gin.H{
					"error":  "tiktok_api_error",
					"detail": profileErr.Body,
				})
				return
			}
			logger.GetLogger().WithField("error", err).Error("Creator info request failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, info)
}
