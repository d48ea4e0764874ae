package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/infrastructure/logger"
	"github.com/sshamanello/reelflow/interfaces/middleware"
	"github.com/sshamanello/reelflow/usecase"
)

// ILibraryHandler serves the per-session project and video library.
type ILibraryHandler interface {
	Projects(ctx *gin.Context)
	CreateProject(ctx *gin.Context)
	Videos(ctx *gin.Context)
	SaveVideo(ctx *gin.Context)
	DeleteVideo(ctx *gin.Context)
	Stats(ctx *gin.Context)
}

type LibraryHandler struct {
	libraryUsecase usecase.ILibraryUsecase
}

func NewLibraryHandler(libraryUsecase usecase.ILibraryUsecase) ILibraryHandler {
	return &LibraryHandler{libraryUsecase: libraryUsecase}
}

func (h *LibraryHandler) sid(ctx *gin.Context) (string, bool) {
	sid := middleware.SID(ctx)
	if sid == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return sid, true
}

// Projects handles GET /api/projects.
func (h *LibraryHandler) Projects(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	projects, err := h.libraryUsecase.Projects(ctx.Request.Context(), sid)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load projects")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject handles POST /api/projects.
func (h *LibraryHandler) CreateProject(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.Name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_name"})
		return
	}
	if len(req.Platforms) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing_platforms"})
		return
	}

	project, err := h.libraryUsecase.CreateProject(ctx.Request.Context(), sid, &req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to create project")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"project": project})
}

// Videos handles GET /api/videos.
func (h *LibraryHandler) Videos(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	videos, err := h.libraryUsecase.Videos(ctx.Request.Context(), sid)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load videos")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"videos": videos})
}

// SaveVideo handles POST /api/videos.
func (h *LibraryHandler) SaveVideo(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	var req dto.SaveVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	video, err := h.libraryUsecase.SaveVideo(ctx.Request.Context(), sid, &req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to save video")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"video": video})
}

// DeleteVideo handles DELETE /api/videos/:id.
func (h *LibraryHandler) DeleteVideo(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	if err := h.libraryUsecase.DeleteVideo(ctx.Request.Context(), sid, ctx.Param("id")); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to delete video")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Stats handles GET /api/stats.
func (h *LibraryHandler) Stats(ctx *gin.Context) {
	sid, ok := h.sid(ctx)
	if !ok {
		return
	}

	stats, err := h.libraryUsecase.Stats(ctx.Request.Context(), sid)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to compute stats")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
