package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/infrastructure/clients/youtube"
	"github.com/sshamanello/reelflow/infrastructure/logger"
	"github.com/sshamanello/reelflow/interfaces/middleware"
	"github.com/sshamanello/reelflow/usecase"
)

// IYouTubeHandler serves the YouTube resumable upload endpoint.
type IYouTubeHandler interface {
	Upload(ctx *gin.Context)
}

type YouTubeHandler struct {
	publishUsecase usecase.IPublishUsecase
}

func NewYouTubeHandler(publishUsecase usecase.IPublishUsecase) IYouTubeHandler {
	return &YouTubeHandler{publishUsecase: publishUsecase}
}

// Upload handles POST /api/youtube/upload. The video arrives as the
// multipart form field "file" alongside optional title, description,
// privacy and tags fields.
func (h *YouTubeHandler) Upload(ctx *gin.Context) {
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

	mime := fileHeader.Header.Get("Content-Type")
	if mime == "" {
		mime = "video/mp4"
	}
	meta := dto.YouTubeUploadMeta{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Privacy:     ctx.PostForm("privacy"),
		Tags:        ctx.PostForm("tags"),
	}

	result, err := h.publishUsecase.UploadYouTube(ctx.Request.Context(), sid, video, mime, meta)
	if err != nil {
		h.respondUploadError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *YouTubeHandler) respondUploadError(ctx *gin.Context, err error) {
	var uploadErr *youtube.UploadError
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, usecase.ErrNoYouTubeToken):
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "no_youtube_token",
			"message": "Please connect YouTube account first",
		})
	case errors.Is(err, model.ErrInvalidFileSize):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_file_size",
			"message": "File size must be > 0",
		})
	case errors.As(err, &uploadErr):
		// Status carries the remote response code; init can fail with a 2xx
		// remote status (200 without a Location header), which must not
		// become the relay's own status.
		status := uploadErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		logger.GetLogger().
			WithField("tag", uploadErr.Tag).
			WithField("status", uploadErr.Status).
			Error("YouTube rejected the upload")
		ctx.JSON(status, gin.H{
			"error":  uploadErr.Tag,
			"status": uploadErr.Status,
			"detail": uploadErr.Detail,
		})
	default:
		logger.GetLogger().WithField("error", err).Error("YouTube upload failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "upload_error", "message": err.Error()})
	}
}
