package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnauthorized marks an upstream 401/403: the stored bearer token
	// is no longer accepted and the session cookie must be cleared.
	ErrUnauthorized = errors.New("upstream rejected token")
	// ErrBadPayload marks an upstream body that failed to parse as the
	// expected JSON structure.
	ErrBadPayload = errors.New("invalid response from backend")
)

// Client talks to the upstream ruas REST API with the caller's bearer
// token attached. It holds no session state of its own.
type Client struct {
	baseURL string
	http    *http.Client
}

// Response is a raw upstream reply, kept for passthrough routes.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r Response) Unauthorized() bool {
	return r.StatusCode == http.StatusUnauthorized || r.StatusCode == http.StatusForbidden
}

func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Login exchanges credentials for a token via the upstream /login
// endpoint. The upstream expects a multipart form and answers with a
// status flag plus the token and its lifetime in seconds.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := NewForm()
	form.Set("username", username)
	form.Set("password", password)

	res, err := c.do(ctx, http.MethodPost, "/login", "", nil, form)
	if err != nil {
		return LoginResult{}, err
	}

	return decodeLogin(res)
}

// ListRuas fetches one page of segments. show passes the upstream's
// listing filter (e.g. active_only) through untouched.
func (c *Client) ListRuas(ctx context.Context, token string, page, perPage int, show string) (Listing, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	if show != "" {
		query.Set("show", show)
	}

	res, err := c.do(ctx, http.MethodGet, "/ruas", token, query, nil)
	if err != nil {
		return Listing{}, err
	}

	return decodeListing(res)
}

func (c *Client) GetRuas(ctx context.Context, token string, id int64) (Response, error) {
	return c.do(ctx, http.MethodGet, "/ruas/"+strconv.FormatInt(id, 10), token, nil, nil)
}

func (c *Client) CreateRuas(ctx context.Context, token string, form *Form) (Response, error) {
	return c.do(ctx, http.MethodPost, "/ruas", token, nil, form)
}

// UpdateRuas sends the edit as a POST carrying a _method=PUT override
// field; the upstream only accepts POST for multipart bodies.
func (c *Client) UpdateRuas(ctx context.Context, token string, id int64, form *Form) (Response, error) {
	form.Set("_method", "PUT")
	return c.do(ctx, http.MethodPost, "/ruas/"+strconv.FormatInt(id, 10), token, nil, form)
}

func (c *Client) DeleteRuas(ctx context.Context, token string, id int64) (Response, error) {
	return c.do(ctx, http.MethodDelete, "/ruas/"+strconv.FormatInt(id, 10), token, nil, nil)
}

func (c *Client) ListUnits(ctx context.Context, token string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/unit", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, form *Form) (Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	var contentType string
	if form != nil {
		encoded, ct, err := form.Encode()
		if err != nil {
			return Response{}, fmt.Errorf("encode form: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("build upstream request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("call upstream %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read upstream body: %w", err)
	}

	return Response{StatusCode: res.StatusCode, Body: payload}, nil
}
