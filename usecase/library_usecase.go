package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
	"github.com/sshamanello/reelflow/infrastructure/logger"
)

// ILibraryUsecase is the session-scoped project/video library: plain JSON
// lists in the key-value store, same TTL discipline as sessions.
type ILibraryUsecase interface {
	Projects(ctx context.Context, sid string) ([]model.Project, error)
	CreateProject(ctx context.Context, sid string, req *dto.CreateProjectRequest) (*model.Project, error)
	Videos(ctx context.Context, sid string) ([]model.Video, error)
	SaveVideo(ctx context.Context, sid string, req *dto.SaveVideoRequest) (*model.Video, error)
	DeleteVideo(ctx context.Context, sid, videoID string) error
	Stats(ctx context.Context, sid string) (*model.Stats, error)
}

type libraryUsecase struct {
	store repository.ISessionStore
	now   func() time.Time
}

func NewLibraryUsecase(store repository.ISessionStore) ILibraryUsecase {
	return &libraryUsecase{store: store, now: time.Now}
}

func projectsKey(sid string) string { return "projects:" + sid }
func videosKey(sid string) string   { return "videos:" + sid }

func getList[T any](ctx context.Context, store repository.ISessionStore, key string) ([]T, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list get: %w", err)
	}
	if !found {
		return []T{}, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("list decode: %w", err)
	}
	return list, nil
}

func putList[T any](ctx context.Context, store repository.ISessionStore, key string, list []T) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("list encode: %w", err)
	}
	if err := store.Put(ctx, key, raw, model.SessionTTL); err != nil {
		return fmt.Errorf("list put: %w", err)
	}
	return nil
}

func (u *libraryUsecase) Projects(ctx context.Context, sid string) ([]model.Project, error) {
	return getList[model.Project](ctx, u.store, projectsKey(sid))
}

func (u *libraryUsecase) CreateProject(ctx context.Context, sid string, req *dto.CreateProjectRequest) (*model.Project, error) {
	projects, err := u.Projects(ctx, sid)
	if err != nil {
		return nil, err
	}

	project := model.Project{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Platforms:  req.Platforms,
		Videos:     0,
		LastActive: "just_now",
		Status:     "active",
		CreatedAt:  u.now().UTC(),
	}
	projects = append(projects, project)
	if err := putList(ctx, u.store, projectsKey(sid), projects); err != nil {
		return nil, err
	}
	return &project, nil
}

func (u *libraryUsecase) Videos(ctx context.Context, sid string) ([]model.Video, error) {
	return getList[model.Video](ctx, u.store, videosKey(sid))
}

func (u *libraryUsecase) SaveVideo(ctx context.Context, sid string, req *dto.SaveVideoRequest) (*model.Video, error) {
	videos, err := u.Videos(ctx, sid)
	if err != nil {
		return nil, err
	}

	name := req.VideoName
	if name == "" {
		name = "Untitled"
	}
	status := req.Status
	if status == "" {
		status = model.VideoStatusUploaded
	}
	video := model.Video{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Name:      name,
		PublishID: req.PublishID,
		Status:    status,
		CreatedAt: u.now().UTC(),
	}
	videos = append(videos, video)
	if err := putList(ctx, u.store, videosKey(sid), videos); err != nil {
		return nil, err
	}

	u.bumpProjectCount(ctx, sid, req.ProjectID)
	return &video, nil
}

// bumpProjectCount increments the owning project's video counter. Failures
// only affect the counter, not the saved record, so they are logged and
// dropped.
func (u *libraryUsecase) bumpProjectCount(ctx context.Context, sid, projectID string) {
	if projectID == "" {
		return
	}
	projects, err := u.Projects(ctx, sid)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to load projects for video count update")
		return
	}
	_, idx, found := lo.FindIndexOf(projects, func(p model.Project) bool { return p.ID == projectID })
	if !found {
		return
	}
	projects[idx].Videos++
	projects[idx].LastActive = "just_now"
	if err := putList(ctx, u.store, projectsKey(sid), projects); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to persist project video count")
	}
}

func (u *libraryUsecase) DeleteVideo(ctx context.Context, sid, videoID string) error {
	videos, err := u.Videos(ctx, sid)
	if err != nil {
		return err
	}
	remaining := lo.Filter(videos, func(v model.Video, _ int) bool { return v.ID != videoID })
	return putList(ctx, u.store, videosKey(sid), remaining)
}

func (u *libraryUsecase) Stats(ctx context.Context, sid string) (*model.Stats, error) {
	videos, err := u.Videos(ctx, sid)
	if err != nil {
		return nil, err
	}
	counts := lo.CountValuesBy(videos, func(v model.Video) string { return v.Status })
	return &model.Stats{
		Uploaded:  counts[model.VideoStatusUploaded],
		Published: counts[model.VideoStatusPublished],
		Errors:    counts[model.VideoStatusFailed],
		Scheduled: counts[model.VideoStatusScheduled],
	}, nil
}
