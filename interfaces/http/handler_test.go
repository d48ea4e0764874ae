package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/infrastructure/clients/tiktok"
	"github.com/sshamanello/reelflow/infrastructure/clients/youtube"
	"github.com/sshamanello/reelflow/interfaces/middleware"
	"github.com/sshamanello/reelflow/usecase"
)

type MockOAuthUsecase struct {
	mock.Mock
}

func (m *MockOAuthUsecase) Exchange(ctx context.Context, sid, platform, code, redirectURI string) (*usecase.ExchangeResult, error) {
	args := m.Called(ctx, sid, platform, code, redirectURI)
	res, _ := args.Get(0).(*usecase.ExchangeResult)
	return res, args.Error(1)
}

func (m *MockOAuthUsecase) Profiles(ctx context.Context, sid string) (map[string]interface{}, error) {
	args := m.Called(ctx, sid)
	res, _ := args.Get(0).(map[string]interface{})
	return res, args.Error(1)
}

func (m *MockOAuthUsecase) Logout(ctx context.Context, sid, platform string) error {
	return m.Called(ctx, sid, platform).Error(0)
}

type MockPublishUsecase struct {
	mock.Mock
}

func (m *MockPublishUsecase) UploadTikTok(ctx context.Context, sid string, video []byte) (*dto.TikTokUploadResult, error) {
	args := m.Called(ctx, sid, video)
	res, _ := args.Get(0).(*dto.TikTokUploadResult)
	return res, args.Error(1)
}

func (m *MockPublishUsecase) PublishTikTok(ctx context.Context, sid string, req *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error) {
	args := m.Called(ctx, sid, req)
	res, _ := args.Get(0).(*dto.TikTokPublishResult)
	return res, args.Error(1)
}

func (m *MockPublishUsecase) CreatorInfo(ctx context.Context, sid string) (*dto.CreatorInfo, error) {
	args := m.Called(ctx, sid)
	res, _ := args.Get(0).(*dto.CreatorInfo)
	return res, args.Error(1)
}

func (m *MockPublishUsecase) UploadYouTube(ctx context.Context, sid string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error) {
	args := m.Called(ctx, sid, video, mime, meta)
	res, _ := args.Get(0).(*dto.YouTubeUploadResult)
	return res, args.Error(1)
}

func newTestRouter(oauthUC usecase.IOAuthUsecase, publishUC usecase.IPublishUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("api")
	api.Use(middleware.Session("rf_sid"))

	if oauthUC != nil {
		h := NewOAuthHandler(oauthUC, "rf_sid", 30)
		api.POST("/oauth/exchange", h.Exchange)
		api.POST("/oauth/logout", h.Logout)
		api.GET("/me", h.Me)
	}
	if publishUC != nil {
		th := NewTikTokHandler(publishUC)
		api.POST("/tiktok/upload", th.Upload)
		api.POST("/tiktok/publish", th.Publish)
		api.GET("/tiktok/creator_info", th.CreatorInfo)
		yh := NewYouTubeHandler(publishUC)
		api.POST("/youtube/upload", yh.Upload)
	}
	return router
}

func postJSON(router *gin.Engine, path, sid string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(middleware.SessionHeader, sid)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func multipartVideo(t *testing.T, video []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	if video != nil {
		part, err := writer.CreateFormFile("file", "clip.mp4")
		assert.NoError(t, err)
		_, err = part.Write(video)
		assert.NoError(t, err)
	}
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	assert.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestExchangeHandler_Validation(t *testing.T) {
	router := newTestRouter(new(MockOAuthUsecase), nil)

	cases := []struct {
		name string
		body map[string]string
		tag  string
	}{
		{"missing code", map[string]string{"redirect_uri": "https://cb", "platform": "tiktok"}, "missing_code"},
		{"missing redirect", map[string]string{"code": "c", "platform": "tiktok"}, "missing_redirect_uri"},
		{"missing platform", map[string]string{"code": "c", "redirect_uri": "https://cb"}, "missing_platform"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(router, "/api/oauth/exchange", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.tag, decodeJSON(t, rec)["error"])
		})
	}
}

func TestExchangeHandler_SuccessSetsCookie(t *testing.T) {
	oauthUC := new(MockOAuthUsecase)
	oauthUC.On("Exchange", mock.Anything, "", "tiktok", "the-code", "https://cb").
		Return(&usecase.ExchangeResult{
			SID:      "new-sid",
			Platform: "tiktok",
			Profile:  &model.Profile{Handle: "@dana"},
		}, nil).
		Once()

	router := newTestRouter(oauthUC, nil)
	rec := postJSON(router, "/api/oauth/exchange", "", map[string]string{
		"code": "the-code", "redirect_uri": "https://cb", "platform": "tiktok",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["ok"])
	assert.Equal(t, "new-sid", payload["sid"])

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "rf_sid", cookies[0].Name)
	assert.Equal(t, "new-sid", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
	assert.Equal(t, 30*86400, cookies[0].MaxAge)
	oauthUC.AssertExpectations(t)
}

func TestExchangeHandler_ProfileErrorStillOK(t *testing.T) {
	oauthUC := new(MockOAuthUsecase)
	oauthUC.On("Exchange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&usecase.ExchangeResult{
			SID:          "sid-1",
			Platform:     "tiktok",
			ProfileError: &dto.ProfileError{Status: 500, Body: "upstream"},
		}, nil).
		Once()

	router := newTestRouter(oauthUC, nil)
	rec := postJSON(router, "/api/oauth/exchange", "", map[string]string{
		"code": "c", "redirect_uri": "https://cb", "platform": "tiktok",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["ok"])
	assert.NotNil(t, payload["profile_error"])
}

func TestExchangeHandler_UnsupportedPlatform(t *testing.T) {
	oauthUC := new(MockOAuthUsecase)
	oauthUC.On("Exchange", mock.Anything, mock.Anything, "vimeo", mock.Anything, mock.Anything).
		Return(nil, usecase.ErrUnsupportedPlatform).
		Once()

	router := newTestRouter(oauthUC, nil)
	rec := postJSON(router, "/api/oauth/exchange", "", map[string]string{
		"code": "c", "redirect_uri": "https://cb", "platform": "vimeo",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_platform", decodeJSON(t, rec)["error"])
}

func TestMeHandler_NoSession(t *testing.T) {
	router := newTestRouter(new(MockOAuthUsecase), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeJSON(t, rec)["error"])
}

func TestMeHandler_Profiles(t *testing.T) {
	oauthUC := new(MockOAuthUsecase)
	oauthUC.On("Profiles", mock.Anything, "sid-1").
		Return(map[string]interface{}{"tiktok": &model.Profile{Handle: "@dana"}}, nil).
		Once()

	router := newTestRouter(oauthUC, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer sid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	profiles, ok := payload["profiles"].(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, profiles, "tiktok")
}

func TestLogoutHandler(t *testing.T) {
	oauthUC := new(MockOAuthUsecase)
	oauthUC.On("Logout", mock.Anything, "sid-1", "tiktok").Return(nil).Once()

	router := newTestRouter(oauthUC, nil)
	rec := postJSON(router, "/api/oauth/logout", "sid-1", map[string]string{"platform": "tiktok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "tiktok", payload["platform"])
}

func TestTikTokUpload_NoSession(t *testing.T) {
	router := newTestRouter(nil, new(MockPublishUsecase))

	body, contentType := multipartVideo(t, []byte("abc"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTikTokUpload_NoFile(t *testing.T) {
	router := newTestRouter(nil, new(MockPublishUsecase))

	body, contentType := multipartVideo(t, nil, map[string]string{"other": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.SessionHeader, "sid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_file", decodeJSON(t, rec)["error"])
}

func TestTikTokUpload_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		tag    string
	}{
		{"no token", usecase.ErrNoTikTokToken, http.StatusUnauthorized, "no_tiktok_token"},
		{"empty file", model.ErrInvalidFileSize, http.StatusBadRequest, "invalid_file_size"},
		{"init failed", &tiktok.UploadError{Tag: "init_failed", Status: 400}, http.StatusBadRequest, "init_failed"},
		{"chunk failed", &tiktok.UploadError{Tag: "chunk_upload_failed", Status: 416, Range: "bytes 0-2/3"}, http.StatusBadGateway, "chunk_upload_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			publishUC := new(MockPublishUsecase)
			publishUC.On("UploadTikTok", mock.Anything, "sid-1", mock.Anything).
				Return(nil, tc.err).
				Once()
			router := newTestRouter(nil, publishUC)

			body, contentType := multipartVideo(t, []byte("abc"), nil)
			req := httptest.NewRequest(http.MethodPost, "/api/tiktok/upload", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set(middleware.SessionHeader, "sid-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.tag, decodeJSON(t, rec)["error"])
		})
	}
}

func TestTikTokUpload_Success(t *testing.T) {
	publishUC := new(MockPublishUsecase)
	publishUC.On("UploadTikTok", mock.Anything, "sid-1", []byte("video-bytes")).
		Return(&dto.TikTokUploadResult{Status: "published", PublishID: "pub-1", VideoID: "vid-1"}, nil).
		Once()
	router := newTestRouter(nil, publishUC)

	body, contentType := multipartVideo(t, []byte("video-bytes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/tiktok/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.SessionHeader, "sid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, "published", payload["status"])
	assert.Equal(t, "pub-1", payload["publish_id"])
	publishUC.AssertExpectations(t)
}

func TestTikTokPublish_Validation(t *testing.T) {
	router := newTestRouter(nil, new(MockPublishUsecase))

	rec := postJSON(router, "/api/tiktok/publish", "sid-1", map[string]interface{}{"privacy_level": "SELF_ONLY"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_video_ref", decodeJSON(t, rec)["error"])

	rec = postJSON(router, "/api/tiktok/publish", "sid-1", map[string]interface{}{"video_ref": "pub-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_privacy_level", decodeJSON(t, rec)["error"])

	rec = postJSON(router, "/api/tiktok/publish", "sid-1", map[string]interface{}{
		"video_ref":          "pub-1",
		"privacy_level":      "SELF_ONLY",
		"is_branded_content": true,
		"brand_content_type": []string{"BRANDED_CONTENT"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_privacy_branded_content", decodeJSON(t, rec)["error"])
}

func TestYouTubeUpload_ErrorStatusPassthrough(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantTag    string
	}{
		{
			name:       "no token",
			err:        usecase.ErrNoYouTubeToken,
			wantStatus: http.StatusUnauthorized,
			wantTag:    "no_youtube_token",
		},
		{
			name:       "remote init status forwarded",
			err:        &youtube.UploadError{Tag: "youtube_init_failed", Status: http.StatusForbidden, Detail: "quota"},
			wantStatus: http.StatusForbidden,
			wantTag:    "youtube_init_failed",
		},
		{
			name:       "missing session url is a server error despite remote 200",
			err:        &youtube.UploadError{Tag: "no_upload_url", Status: http.StatusOK, Detail: "YouTube did not return upload URL"},
			wantStatus: http.StatusInternalServerError,
			wantTag:    "no_upload_url",
		},
		{
			name:       "unknown remote status defaults to 500",
			err:        &youtube.UploadError{Tag: "youtube_upload_failed", Detail: "connection reset"},
			wantStatus: http.StatusInternalServerError,
			wantTag:    "youtube_upload_failed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			publishUC := new(MockPublishUsecase)
			publishUC.On("UploadYouTube", mock.Anything, "sid-1", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.err).
				Once()
			router := newTestRouter(nil, publishUC)

			body, contentType := multipartVideo(t, []byte("abc"), map[string]string{"title": "T"})
			req := httptest.NewRequest(http.MethodPost, "/api/youtube/upload", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set(middleware.SessionHeader, "sid-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantTag, decodeJSON(t, rec)["error"])
		})
	}
}

func TestYouTubeUpload_ForwardsMeta(t *testing.T) {
	publishUC := new(MockPublishUsecase)
	meta := dto.YouTubeUploadMeta{Title: "Clip", Description: "d", Privacy: "unlisted", Tags: "a,b"}
	publishUC.On("UploadYouTube", mock.Anything, "sid-1", []byte("abc"), mock.Anything, meta).
		Return(&dto.YouTubeUploadResult{Success: true, VideoID: "vid-1"}, nil).
		Once()
	router := newTestRouter(nil, publishUC)

	body, contentType := multipartVideo(t, []byte("abc"), map[string]string{
		"title": "Clip", "description": "d", "privacy": "unlisted", "tags": "a,b",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/youtube/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(middleware.SessionHeader, "sid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["success"])
	publishUC.AssertExpectations(t)
}

func TestCreatorInfoHandler(t *testing.T) {
	publishUC := new(MockPublishUsecase)
	publishUC.On("CreatorInfo", mock.Anything, "sid-1").
		Return(&dto.CreatorInfo{Nickname: "Dana", CanPost: true}, nil).
		Once()
	router := newTestRouter(nil, publishUC)

	req := httptest.NewRequest(http.MethodGet, "/api/tiktok/creator_info", nil)
	req.Header.Set(middleware.SessionHeader, "sid-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Dana"))
}
