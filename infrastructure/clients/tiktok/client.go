package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/tidwall/gjson"

	"github.com/sshamanello/reelflow/domain/dto"
	"github.com/sshamanello/reelflow/domain/model"
	"github.com/sshamanello/reelflow/domain/repository"
	"github.com/sshamanello/reelflow/infrastructure/logger"
)

const (
	defaultBaseURL = "https://open.tiktokapis.com"

	tokenPath      = "/v2/oauth/token/"
	userInfoPath   = "/v2/user/info/"
	uploadInitPath = "/v2/post/publish/inbox/video/init/"
	publishPath    = "/v2/post/publish/inbox/video/publish/"
)

// userInfoFields are the only fields available under the user.info.basic
// scope; asking for more makes the whole request fail.
var userInfoFields = []string{
	"open_id",
	"union_id",
	"avatar_url",
	"avatar_url_100",
	"avatar_large_url",
	"display_name",
}

// Config holds the TikTok open-api client credentials. BaseURL and
// HTTPClient are overridable for tests.
type Config struct {
	ClientKey    string
	ClientSecret string
	BaseURL      string
	HTTPClient   *http.Client
}

// Client talks to the TikTok open-api: OAuth token endpoints, user info and
// the inbox chunked-upload flow.
type Client struct {
	clientKey    string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
}

// NewClient creates a TikTok API client.
func NewClient(cfg *Config) repository.ITikTok {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		httpClient:   httpClient,
	}
}

// APIError is a tagged failure of a TikTok OAuth endpoint, embedding the
// remote response body.
type APIError struct {
	Tag    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status=%d body=%s", e.Tag, e.Status, e.Body)
}

// UploadError is a tagged failure of the upload engine. Range and PublishID
// are set on chunk failures so the caller can inspect orphaned remote state.
type UploadError struct {
	Tag       string
	Status    int
	Detail    interface{}
	Range     string
	PublishID string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: status=%d range=%s", e.Tag, e.Status, e.Range)
}

type tokenForm struct {
	ClientKey    string `url:"client_key"`
	ClientSecret string `url:"client_secret,omitempty"`
	GrantType    string `url:"grant_type"`
	Code         string `url:"code,omitempty"`
	RedirectURI  string `url:"redirect_uri,omitempty"`
	RefreshToken string `url:"refresh_token,omitempty"`
}

// ExchangeCode trades an authorization code for a token bundle.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*model.PlatformCredential, error) {
	form := tokenForm{
		ClientKey:    c.clientKey,
		ClientSecret: c.clientSecret,
		GrantType:    "authorization_code",
		Code:         code,
		RedirectURI:  redirectURI,
	}
	return c.tokenRequest(ctx, form, "token_exchange_failed")
}

// Refresh renews a token bundle from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.PlatformCredential, error) {
	form := tokenForm{
		ClientKey:    c.clientKey,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	}
	return c.tokenRequest(ctx, form, "refresh_failed")
}

func (c *Client) tokenRequest(ctx context.Context, form tokenForm, failTag string) (*model.PlatformCredential, error) {
	vals, err := query.Values(form)
	if err != nil {
		return nil, fmt.Errorf("encode token form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(vals.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiktok token request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	logger.GetLogger().WithField("status", resp.StatusCode).Debug("TikTok token response")

	if !gjson.ValidBytes(body) {
		return nil, &APIError{Tag: "token_parse_failed", Status: resp.StatusCode, Body: string(body)}
	}
	root := gjson.ParseBytes(body)
	// token payload may arrive under a data envelope
	if data := root.Get("data"); data.Exists() && data.IsObject() {
		root = data
	}
	if resp.StatusCode != http.StatusOK || root.Get("error").Exists() {
		return nil, &APIError{Tag: failTag, Status: resp.StatusCode, Body: string(body)}
	}

	expiresIn := root.Get("expires_in").Int()
	if expiresIn == 0 {
		expiresIn = 3600
	}
	return &model.PlatformCredential{
		AccessToken:  root.Get("access_token").String(),
		RefreshToken: root.Get("refresh_token").String(),
		ExpiresAt:    time.Now().Unix() + expiresIn,
		Scope:        root.Get("scope").String(),
	}, nil
}

// UserInfo fetches the raw user object for the token's owner. Failures are
// reported as *dto.ProfileError so exchange can proceed without a profile.
func (c *Client) UserInfo(ctx context.Context, accessToken string) ([]byte, error) {
	qs := url.Values{}
	qs.Set("fields", strings.Join(userInfoFields, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userInfoPath+"?"+qs.Encode(), nil)
	if err != nil {
		return nil, &dto.ProfileError{Status: 0, Body: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &dto.ProfileError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &dto.ProfileError{Status: resp.StatusCode, Body: string(body)}
	}

	root := gjson.ParseBytes(body)
	user := root.Get("data.user")
	if !user.Exists() {
		user = root.Get("data")
	}
	if !user.Exists() {
		return []byte("{}"), nil
	}
	return []byte(user.Raw), nil
}

type sourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int64  `json:"video_size"`
	ChunkSize       int64  `json:"chunk_size"`
	TotalChunkCount int64  `json:"total_chunk_count"`
}

type initRequest struct {
	SourceInfo sourceInfo `json:"source_info"`
}

// Upload transfers a complete video buffer to the inbox endpoint using the
// declared chunking contract, then triggers the inbox publish step. A failed
// publish is not fatal: the result reports uploaded_to_inbox with the
// publish error attached.
func (c *Client) Upload(ctx context.Context, accessToken string, video []byte) (*dto.TikTokUploadResult, error) {
	plan, err := model.NewUploadPlan(int64(len(video)))
	if err != nil {
		return nil, err
	}

	uploadURL, publishID, err := c.initUpload(ctx, accessToken, plan)
	if err != nil {
		return nil, err
	}

	for _, chunk := range plan.Chunks() {
		if err := c.putChunk(ctx, uploadURL, publishID, plan, chunk, video); err != nil {
			return nil, err
		}
	}

	return c.finishUpload(ctx, accessToken, publishID)
}

func (c *Client) initUpload(ctx context.Context, accessToken string, plan model.UploadPlan) (uploadURL, publishID string, err error) {
	initBody, err := json.Marshal(initRequest{SourceInfo: sourceInfo{
		Source:          "FILE_UPLOAD",
		VideoSize:       plan.TotalSize,
		ChunkSize:       plan.BaseChunkSize,
		TotalChunkCount: plan.TotalChunkCount,
	}})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadInitPath, bytes.NewReader(initBody))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", &UploadError{Tag: "init_failed", Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	logger.GetLogger().WithField("status", resp.StatusCode).Info("TikTok inbox init response")

	root := gjson.ParseBytes(body)
	// the open-api reports failures both via HTTP status and an error.code
	// other than "ok" in a 200 body
	errCode := root.Get("error.code")
	ok := resp.StatusCode == http.StatusOK && (!errCode.Exists() || errCode.String() == "ok")
	if !ok {
		return "", "", &UploadError{Tag: "init_failed", Status: resp.StatusCode, Detail: decodeBody(body)}
	}

	uploadURL = root.Get("data.upload_url").String()
	publishID = root.Get("data.publish_id").String()
	if uploadURL == "" || publishID == "" {
		return "", "", &UploadError{Tag: "init_missing_fields", Status: resp.StatusCode, Detail: decodeBody(body)}
	}
	return uploadURL, publishID, nil
}

func (c *Client) putChunk(ctx context.Context, uploadURL, publishID string, plan model.UploadPlan, chunk model.Chunk, video []byte) error {
	contentRange := plan.ContentRange(chunk)
	data := video[chunk.Start : chunk.End+1]

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Content-Range", contentRange)
	req.Header.Set("Accept", "application/json")
	req.ContentLength = chunk.Length()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UploadError{Tag: "chunk_upload_failed", Range: contentRange, PublishID: publishID, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent:
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	logger.GetLogger().WithFields(map[string]interface{}{
		"status": resp.StatusCode,
		"range":  contentRange,
	}).Error("TikTok chunk PUT failed")
	return &UploadError{
		Tag:       "chunk_upload_failed",
		Status:    resp.StatusCode,
		Range:     contentRange,
		PublishID: publishID,
		Detail:    string(body),
	}
}

func (c *Client) finishUpload(ctx context.Context, accessToken, publishID string) (*dto.TikTokUploadResult, error) {
	status, body, err := c.postPublish(ctx, accessToken, map[string]interface{}{"publish_id": publishID})
	if err != nil {
		status = 0
		body = []byte(err.Error())
	}
	if err != nil || status != http.StatusOK {
		// publish rejection is an expected "needs approval" condition, not a
		// transfer failure
		logger.GetLogger().WithField("status", status).Info("TikTok inbox publish rejected, returning uploaded_to_inbox")
		return &dto.TikTokUploadResult{
			Status:    "uploaded_to_inbox",
			PublishID: publishID,
			Message:   "Video uploaded to TikTok inbox. Note: Content Publishing API may require approval before videos appear in drafts.",
			PublishError: &dto.RemoteDetail{
				Status: status,
				Detail: decodeBody(body),
			},
		}, nil
	}

	root := gjson.ParseBytes(body)
	videoID := root.Get("data.video_id").String()
	if videoID == "" {
		videoID = publishID
	}
	return &dto.TikTokUploadResult{
		Status:    "published",
		PublishID: publishID,
		VideoID:   videoID,
		VideoURL:  root.Get("data.video_url").String(),
	}, nil
}

// Publish moves an uploaded asset from inbox state to drafts. This is the
// inbox->draft transition, not a public post.
func (c *Client) Publish(ctx context.Context, accessToken string, pub *dto.TikTokPublishRequest) (*dto.TikTokPublishResult, error) {
	payload := map[string]interface{}{
		"video_ref":          pub.VideoRef,
		"title":              pub.Title,
		"hashtags":           pub.Hashtags,
		"privacy_level":      pub.PrivacyLevel,
		"comment_disabled":   pub.CommentDisabled,
		"duet_disabled":      pub.DuetDisabled,
		"stitch_disabled":    pub.StitchDisabled,
		"brand_authorized":   pub.IsBrandedContent,
		"brand_content_type": pub.BrandContentType,
	}
	status, body, err := c.postPublish(ctx, accessToken, payload)
	if err != nil {
		return nil, &UploadError{Tag: "publish_failed", Detail: err.Error()}
	}
	if status != http.StatusOK {
		return nil, &UploadError{Tag: "publish_failed", Status: status, Detail: decodeBody(body)}
	}

	root := gjson.ParseBytes(body)
	return &dto.TikTokPublishResult{
		Success:   true,
		VideoID:   root.Get("data.video_id").String(),
		VideoURL:  root.Get("data.video_url").String(),
		PublishID: pub.VideoRef,
	}, nil
}

func (c *Client) postPublish(ctx context.Context, accessToken string, payload map[string]interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+publishPath, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("tiktok publish request: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, nil
}

// decodeBody returns the parsed JSON body when possible and the raw string
// otherwise, matching what gets surfaced to the frontend as detail.
func decodeBody(body []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}
