package door

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	apperrors "homebase/internal/errors"
)

const serviceName = "door service"

// TriggerState is the body sent to /get-data when the panel button is pressed.
const TriggerState = "Button is pressed"

// ClientConfig configures the companion service client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// StatusPath is the JSONPath of the person status in /person-status replies.
	StatusPath string
}

// Client talks to the smart-door companion service.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	statusPath string
}

// TriggerResult is what the service returned for a button press.
type TriggerResult struct {
	Reply string
	Image []byte
}

func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.NewInvalidInputError("door.base_url", cfg.BaseURL, "must be an absolute URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.StatusPath == "" {
		cfg.StatusPath = "$.status"
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
	}

	return &Client{
		baseURL:    u,
		http:       &http.Client{Transport: tr, Timeout: cfg.Timeout},
		statusPath: cfg.StatusPath,
	}, nil
}

// PersonStatus reads the person status from GET /person-status.
func (c *Client) PersonStatus(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/person-status", nil)
	if err != nil {
		return "", err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", apperrors.NewUnavailableError(serviceName, fmt.Errorf("person-status is not JSON: %w", err))
	}
	v, err := jsonpath.Get(c.statusPath, doc)
	if err != nil {
		return "", apperrors.NewUnavailableError(serviceName, fmt.Errorf("person-status %s: %w", c.statusPath, err))
	}
	return stringify(v), nil
}

// ServerStatus reads GET /server-status. The message field is returned when
// the reply is a JSON object carrying one, otherwise the raw body.
func (c *Client) ServerStatus(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/server-status", nil)
	if err != nil {
		return "", err
	}
	var reply struct {
		Message *string `json:"message"`
	}
	if json.Unmarshal(body, &reply) == nil && reply.Message != nil {
		return *reply.Message, nil
	}
	return strings.TrimSpace(string(body)), nil
}

// Trigger presses the panel button: POST /get-data, then GET /get-image.
func (c *Client) Trigger(ctx context.Context) (TriggerResult, error) {
	payload, err := json.Marshal(map[string]string{"state": TriggerState})
	if err != nil {
		return TriggerResult{}, err
	}
	reply, err := c.do(ctx, http.MethodPost, "/get-data", payload)
	if err != nil {
		return TriggerResult{}, err
	}

	img, err := c.do(ctx, http.MethodGet, "/get-image", nil)
	if err != nil {
		return TriggerResult{}, err
	}
	return TriggerResult{Reply: strings.TrimSpace(string(reply)), Image: img}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.FromRemote(serviceName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.FromRemote(serviceName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewUnavailableError(serviceName, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)).
			WithContext("status", resp.StatusCode)
	}
	return data, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
