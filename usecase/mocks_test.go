package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
)

// fakeStore is an in-process ISessionStore that ignores TTLs.
type fakeStore struct {
	data map[string][]byte
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

type MockTikTok struct {
	mock.Mock
}

func (m *MockTikTok) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error) {
	args := m.Called(ctx, code, redirectURI)
	cred, _ := args.Get(0).(*model.PlatformCredential)
	return cred, args.Error(1)
}

func (m *MockTikTok) Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error) {
	args := m.Called(ctx, refreshToken)
	cred, _ := args.Get(0).(*model.PlatformCredential)
	return cred, args.Error(1)
}

func (m *MockTikTok) UserInfo(ctx context.Context, accessToken string) ([]byte, error) {
	args := m.Called(ctx, accessToken)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *MockTikTok) Upload(ctx context.Context, accessToken string, video []byte) (*dto.TikTokUploadResult, error) {
	args := m.Called(ctx, accessToken, video)
	res, _ := args.Get(0).(*dto.TikTokUploadResult)
	return res, args.Error(1)
}

func (m *MockTikTok) Publish(ctx context.Context, accessToken string, req *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error) {
	args := m.Called(ctx, accessToken, req)
	res, _ := args.Get(0).(*dto.TikTokPublishResult)
	return res, args.Error(1)
}

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error) {
	args := m.Called(ctx, code, redirectURI)
	cred, _ := args.Get(0).(*model.PlatformCredential)
	return cred, args.Error(1)
}

func (m *MockYouTube) Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error) {
	args := m.Called(ctx, refreshToken)
	cred, _ := args.Get(0).(*model.PlatformCredential)
	return cred, args.Error(1)
}

func (m *MockYouTube) Channel(ctx context.Context, accessToken string) (*model.ChannelProfile, error) {
	args := m.Called(ctx, accessToken)
	profile, _ := args.Get(0).(*model.ChannelProfile)
	return profile, args.Error(1)
}

func (m *MockYouTube) Upload(ctx context.Context, accessToken string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error) {
	args := m.Called(ctx, accessToken, video, mime, meta)
	res, _ := args.Get(0).(*dto.YouTubeUploadResult)
	return res, args.Error(1)
}
