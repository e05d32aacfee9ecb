package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
)

// HTTPClient talks to the sync server over HTTP/JSON. The access token is
// attached as a bearer header on every authenticated call.
type HTTPClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.accessToken = token
}

type errorResponse struct {
	Error string `json:"error"`
}

// doJSON performs a single request. A non-nil in is JSON-encoded as the
// body; a non-nil out receives the decoded response body.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorTransport, err)
		}
	}

	return nil
}

// mapError converts an HTTP error status to a sentinel error. The body is
// read so the message can be attached, but classification is by status
// code alone.
func (c *HTTPClient) mapError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrorNotFarmMember
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorAlreadyExists
	default:
		sentinel = common.ErrorInternal
	}

	if er.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, er.Error)
	}
	return sentinel
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) error {
	req := map[string]string{"email": email, "password": password, "name": name}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{"email": email, "password": password}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return "", err
	}

	c.accessToken = resp.AccessToken
	return resp.AccessToken, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, []Farm, error) {
	var resp struct {
		User  User   `json:"user"`
		Farms []Farm `json:"farms"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.User, resp.Farms, nil
}

func (c *HTTPClient) CreateFarm(ctx context.Context, name, currency, timezone string) (*Farm, error) {
	req := map[string]string{"name": name, "currency": currency, "timezone": timezone}

	var farm Farm
	if err := c.doJSON(ctx, http.MethodPost, "/farms", req, &farm); err != nil {
		return nil, err
	}
	return &farm, nil
}

func (c *HTTPClient) InviteStaff(ctx context.Context, farmID string) (*Invite, error) {
	var invite Invite
	path := "/farms/" + url.PathEscape(farmID) + "/invite"
	if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (c *HTTPClient) JoinFarm(ctx context.Context, code string) (*Farm, error) {
	req := map[string]string{"code": code}

	var farm Farm
	if err := c.doJSON(ctx, http.MethodPost, "/farms/join", req, &farm); err != nil {
		return nil, err
	}
	return &farm, nil
}

func (c *HTTPClient) Push(ctx context.Context, req *syncx.PushRequest) (*PushResult, error) {
	var resp syncx.PushResponse
	if err := c.doJSON(ctx, http.MethodPost, "/sync/push", req, &resp); err != nil {
		return nil, err
	}
	return &PushResult{Applied: resp.Applied, ServerTime: resp.ServerTime}, nil
}

func (c *HTTPClient) Pull(ctx context.Context, farmID string, since timex.Timestamp) (*PullResult, error) {
	q := url.Values{}
	q.Set("farm_id", farmID)
	q.Set("since", since.String())

	var resp syncx.PullResponse
	if err := c.doJSON(ctx, http.MethodGet, "/sync/pull?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &PullResult{Payload: resp.Payload, ServerTime: resp.ServerTime}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/ping", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return common.ErrorTransport
	}
	return nil
}
