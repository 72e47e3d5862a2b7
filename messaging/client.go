// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/talkchat/talkchat/lib/netutil"
	"github.com/talkchat/talkchat/lib/secret"
)

// DefaultAuthHeader is the header the backend reads the bearer token from.
const DefaultAuthHeader = "X-Authorization"

// DefaultRequestTimeout bounds each backend call when
// ClientConfig.RequestTimeout is zero.
const DefaultRequestTimeout = 15 * time.Second

// TokenSource supplies the current bearer token. An empty token means
// the request is sent without credentials.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Endpoints holds the URL of each backend resource.
type Endpoints struct {
	Auth   string
	Users  string
	Chats  string
	Upload string
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Endpoints are the four resource URLs. All are required.
	Endpoints Endpoints
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Tokens supplies the bearer token on every call. If nil, requests
	// carry no credentials.
	Tokens TokenSource
	// AuthHeader names the token header. Default: X-Authorization.
	AuthHeader string
	// RequestTimeout bounds each call. Default: 15s.
	RequestTimeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// Client is the backend gateway. Safe for concurrent use.
type Client struct {
	endpoints      map[resource]string
	httpClient     *http.Client
	logger         *slog.Logger
	tokens         TokenSource
	authHeader     string
	requestTimeout time.Duration
	userAgent      string
}

// NewClient validates the endpoint URLs and returns a Client.
func NewClient(config ClientConfig) (*Client, error) {
	endpoints := map[resource]string{
		resourceAuth:   config.Endpoints.Auth,
		resourceUsers:  config.Endpoints.Users,
		resourceChats:  config.Endpoints.Chats,
		resourceUpload: config.Endpoints.Upload,
	}
	for name, endpoint := range endpoints {
		if endpoint == "" {
			return nil, fmt.Errorf("messaging: %s endpoint is required", name)
		}
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("messaging: invalid %s endpoint %q: %w", name, endpoint, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("messaging: %s endpoint %q is not an absolute URL", name, endpoint)
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHeader := config.AuthHeader
	if authHeader == "" {
		authHeader = DefaultAuthHeader
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return &Client{
		endpoints:      endpoints,
		httpClient:     httpClient,
		logger:         logger,
		tokens:         config.Tokens,
		authHeader:     authHeader,
		requestTimeout: requestTimeout,
		userAgent:      config.UserAgent,
	}, nil
}

// CloseIdleConnections closes idle connections in the transport pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

type resource string

const (
	resourceAuth   resource = "auth"
	resourceUsers  resource = "users"
	resourceChats  resource = "chats"
	resourceUpload resource = "upload"
)

// Operation names, used in logs and in RemoteError.Action.
const (
	actionLogin       = "auth.login"
	actionSendCode    = "auth.send-code"
	actionRegister    = "auth.register"
	actionMe          = "users.me"
	actionSearch      = "users.search"
	actionListUsers   = "users.list"
	actionProfile     = "users.profile"
	actionBan         = "users.ban"
	actionUnban       = "users.unban"
	actionSetRole     = "users.set-role"
	actionListChats   = "chats.list"
	actionContacts    = "chats.contacts"
	actionMessages    = "chats.messages"
	actionCreateChat  = "chats.create"
	actionSendMessage = "chats.send"
	actionAddContact  = "chats.add-contact"
	actionUploadImage = "upload.image"
)

// operation maps an action name onto the resource, HTTP method and the
// ?action= value the backend dispatches on. An empty wire action sends
// no discriminator.
type operation struct {
	resource resource
	method   string
	wire     string
}

var operations = map[string]operation{
	actionLogin:       {resourceAuth, http.MethodPost, "login"},
	actionSendCode:    {resourceAuth, http.MethodPost, "send-code"},
	actionRegister:    {resourceAuth, http.MethodPost, "register"},
	actionMe:          {resourceUsers, http.MethodGet, "me"},
	actionSearch:      {resourceUsers, http.MethodGet, "search"},
	actionListUsers:   {resourceUsers, http.MethodGet, "list"},
	actionProfile:     {resourceUsers, http.MethodPut, "profile"},
	actionBan:         {resourceUsers, http.MethodPost, "ban"},
	actionUnban:       {resourceUsers, http.MethodPost, "unban"},
	actionSetRole:     {resourceUsers, http.MethodPost, "set-role"},
	actionListChats:   {resourceChats, http.MethodGet, "list"},
	actionContacts:    {resourceChats, http.MethodGet, "contacts"},
	actionMessages:    {resourceChats, http.MethodGet, "messages"},
	actionCreateChat:  {resourceChats, http.MethodPost, "create"},
	actionSendMessage: {resourceChats, http.MethodPost, "send"},
	actionAddContact:  {resourceChats, http.MethodPost, "add-contact"},
	actionUploadImage: {resourceUpload, http.MethodPost, ""},
}

// call performs one backend operation. requestBody, if non-nil, is sent
// as JSON. On 2xx the body is decoded into out (if non-nil). On non-2xx
// a *RemoteError is returned; on transport failure a *NetworkError.
func (c *Client) call(ctx context.Context, action string, query url.Values, requestBody, out any) error {
	op, ok := operations[action]
	if !ok {
		return fmt.Errorf("messaging: unknown action %q", action)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if query == nil {
		query = url.Values{}
	}
	if op.wire != "" {
		query.Set("action", op.wire)
	}
	requestURL := c.endpoints[op.resource]
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("messaging: failed to encode %s request: %w", action, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, op.method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("messaging: failed to create %s request: %w", action, err)
	}

	requestID := uuid.NewString()
	request.Header.Set("X-Request-ID", requestID)
	request.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	var tokenFingerprint string
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("messaging: reading token for %s: %w", action, err)
		}
		if token != "" {
			request.Header.Set(c.authHeader, "Bearer "+token)
			tokenFingerprint = secret.Fingerprint(token)
		}
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("backend request failed",
			"action", action,
			"request_id", requestID,
			"duration", time.Since(started),
			"error", err,
		)
		return &NetworkError{Action: action, Err: err}
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return &NetworkError{Action: action, Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.logger.Debug("backend request",
		"action", action,
		"request_id", requestID,
		"status", response.StatusCode,
		"duration", time.Since(started),
		"token", tokenFingerprint,
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return newRemoteError(action, response.StatusCode, responseBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("messaging: failed to parse %s response: %w", action, err)
	}
	return nil
}

func newRemoteError(action string, status int, body []byte) *RemoteError {
	remoteErr := &RemoteError{StatusCode: status, Action: action}

	var errorBody struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errorBody); err == nil && errorBody.Error != "" {
		remoteErr.Message = errorBody.Error
	} else {
		remoteErr.Message = fallbackMessage(action)
	}
	return remoteErr
}
