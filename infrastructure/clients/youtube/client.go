package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
	"github.com/sshamanello/reelflow/infrastructure/logger"
)

const (
	defaultUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"
	watchURLPrefix   = "https://www.youtube.com/watch?v="

	defaultTitle      = "ReelFlow Upload"
	defaultCategoryID = "22" // People & Blogs
	defaultPrivacy    = "public"
)

// Config holds the Google OAuth client credentials. Endpoint, API and
// upload base URLs are overridable for tests.
type Config struct {
	ClientID     string
	ClientSecret string
	Endpoint     oauth2.Endpoint
	APIBaseURL   string
	UploadURL    string
	HTTPClient   *http.Client
}

// Client talks to Google OAuth and the YouTube Data API for channel profile
// lookups and resumable video uploads.
type Client struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	apiBaseURL   string
	uploadURL    string
	httpClient   *http.Client
}

// NewClient creates a YouTube API client.
func NewClient(cfg *Config) repository.IYouTube {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	uploadURL := cfg.UploadURL
	if uploadURL == "" {
		uploadURL = defaultUploadURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		endpoint:     endpoint,
		apiBaseURL:   cfg.APIBaseURL,
		uploadURL:    uploadURL,
		httpClient:   httpClient,
	}
}

// APIError is a tagged failure of a Google OAuth endpoint, embedding the
// remote response body.
type APIError struct {
	Tag    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status=%d body=%s", e.Tag, e.Status, e.Body)
}

// UploadError is a tagged failure of the resumable upload engine.
type UploadError struct {
	Tag    string
	Status int
	Detail interface{}
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: status=%d", e.Tag, e.Status)
}

func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     c.endpoint,
	}
}

// ExchangeCode trades an authorization code for a token bundle.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, tokenError("youtube_token_failed", err)
	}
	return credentialFromToken(token), nil
}

// Refresh renews a token bundle from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	source := c.oauthConfig("").TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, tokenError("youtube_refresh_failed", err)
	}
	cred := credentialFromToken(token)
	if cred.RefreshToken == "" {
		cred.RefreshToken = refreshToken
	}
	return cred, nil
}

func credentialFromToken(token *oauth2.Token) *model.PlatformCredential {
	expiresAt := token.Expiry.Unix()
	if token.Expiry.IsZero() {
		expiresAt = time.Now().Unix() + 3600
	}
	return &model.PlatformCredential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

// tokenError keeps the remote response detail when the oauth2 package
// surfaces it.
func tokenError(tag string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &APIError{Tag: tag, Status: status, Body: string(retrieveErr.Body)}
	}
	return &APIError{Tag: tag, Body: err.Error()}
}

// Channel fetches the authenticated user's channel profile. Failures are
// *dto.ProfileError so the exchange can proceed without a profile.
func (c *Client) Channel(ctx context.Context, accessToken string) (*model.ChannelProfile, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if c.apiBaseURL != "" {
		opts = append(opts, option.WithEndpoint(c.apiBaseURL))
	}
	service, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		return nil, &dto.ProfileError{Status: 0, Body: err.Error()}
	}

	response, err := service.Channels.List([]string{"snippet", "statistics"}).Mine(true).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &dto.ProfileError{Status: gerr.Code, Body: gerr.Body}
		}
		return nil, &dto.ProfileError{Status: 0, Body: err.Error()}
	}
	if len(response.Items) == 0 {
		return nil, &dto.ProfileError{Status: http.StatusNotFound, Body: "No channel found"}
	}

	channel := response.Items[0]
	profile := &model.ChannelProfile{
		Platform:  model.PlatformYouTube,
		ChannelID: channel.Id,
	}
	if channel.Snippet != nil {
		profile.Title = channel.Snippet.Title
		profile.Description = channel.Snippet.Description
		if channel.Snippet.Thumbnails != nil {
			if channel.Snippet.Thumbnails.Default != nil {
				profile.Thumbnail = channel.Snippet.Thumbnails.Default.Url
			} else if channel.Snippet.Thumbnails.Medium != nil {
				profile.Thumbnail = channel.Snippet.Thumbnails.Medium.Url
			}
		}
	}
	if channel.Statistics != nil {
		profile.SubscriberCount = channel.Statistics.SubscriberCount
		profile.VideoCount = channel.Statistics.VideoCount
		profile.ViewCount = channel.Statistics.ViewCount
	}
	return profile, nil
}

// Upload performs a resumable upload: an init request declaring size and
// MIME type yields a session URL in the Location header, then the whole
// buffer goes up in a single PUT. The resumable session semantics beyond
// that are the remote endpoint's concern.
func (c *Client) Upload(ctx context.Context, accessToken string, video []byte, mime string, meta dto.YouTubeUploadMeta) (*dto.YouTubeUploadResult, error) {
	size := int64(len(video))
	if size <= 0 {
		return nil, model.ErrInvalidFileSize
	}
	if mime == "" {
		mime = "video/mp4"
	}

	sessionURL, err := c.initResumable(ctx, accessToken, size, mime, meta)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, bytes.NewReader(video))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", mime)
	req.ContentLength = size

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UploadError{Tag: "youtube_upload_failed", Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.GetLogger().WithField("status", resp.StatusCode).Error("YouTube upload PUT failed")
		return nil, &UploadError{Tag: "youtube_upload_failed", Status: resp.StatusCode, Detail: string(body)}
	}

	var videoData youtubeapi.Video
	if err := json.Unmarshal(body, &videoData); err != nil {
		return nil, &UploadError{Tag: "youtube_upload_failed", Status: resp.StatusCode, Detail: string(body)}
	}

	logger.GetLogger().WithField("videoId", videoData.Id).Info("YouTube upload finished")
	return &dto.YouTubeUploadResult{
		Success:   true,
		PublishID: videoData.Id,
		VideoID:   videoData.Id,
		Platform:  model.PlatformYouTube,
		UploadURL: watchURLPrefix + videoData.Id,
	}, nil
}

func (c *Client) initResumable(ctx context.Context, accessToken string, size int64, mime string, meta dto.YouTubeUploadMeta) (string, error) {
	title := meta.Title
	if title == "" {
		title = defaultTitle
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = defaultPrivacy
	}

	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:                title,
			Description:          meta.Description,
			CategoryId:           defaultCategoryID,
			DefaultLanguage:      "en",
			DefaultAudioLanguage: "en",
			Tags:                 splitTags(meta.Tags),
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
	payload, err := json.Marshal(video)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.uploadURL+"?uploadType=resumable&part=snippet,status,contentDetails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Length", fmt.Sprintf("%d", size))
	req.Header.Set("X-Upload-Content-Type", mime)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Tag: "youtube_init_failed", Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.GetLogger().WithField("status", resp.StatusCode).Error("YouTube resumable init failed")
		return "", &UploadError{Tag: "youtube_init_failed", Status: resp.StatusCode, Detail: string(body)}
	}

	sessionURL := resp.Header.Get("Location")
	if sessionURL == "" {
		return "", &UploadError{Tag: "no_upload_url", Status: resp.StatusCode, Detail: "YouTube did not return upload URL"}
	}
	return sessionURL, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(tags, ","), func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	})
}
