package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultUserAgent = "equitydesk/1.0"

type Client struct {
	client    *resty.Client
	host      string
	userAgent string
}

// ClientOptions 客户端选项（零值即默认值）
type ClientOptions struct {
	Timeout            time.Duration
	RetryCount         int
	InsecureSkipVerify bool // 本地开发证书（https://localhost）
	UserAgent          string
}

func NewClient(host string, opts ClientOptions) *Client {
	host = strings.TrimSuffix(host, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY）
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(retryReadsOnly)
	if opts.InsecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}

	return &Client{client: client, host: host, userAgent: opts.UserAgent}
}

// retryReadsOnly 只重试 GET 的传输错误；POST 下单不可重放
func retryReadsOnly(r *resty.Response, err error) bool {
	return err != nil && r != nil && r.Request != nil && r.Request.Method == http.MethodGet
}

// Host returns the base URL requests are resolved against.
func (c *Client) Host() string {
	return c.host
}

type RequestOptions struct {
	Headers map[string]string
	Data    any
	Params  map[string]any
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Http failure response for %s: %s", e.URL, e.Status)
}

// DecodeError is returned when a 2xx body cannot be decoded into the caller's value.
type DecodeError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Http failure during parsing for %s", e.URL)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// 仅设置本次请求的默认 Header（不要再改 client 级 Header）
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	r.SetHeader("User-Agent", c.userAgent)
	r.SetHeader("X-Request-ID", uuid.NewString())
	return r
}

// DoRequest sends a request and decodes a 2xx JSON body into out (when non-nil).
// Connectivity failures are wrapped transport errors; status and decode
// failures come back as *StatusError and *DecodeError.
func (c *Client) DoRequest(ctx context.Context, method, endpoint string, opt *RequestOptions, out any) (*resty.Response, error) {
	rc := c.newRequest(ctx)
	if opt != nil {
		for k, v := range opt.Headers {
			rc.SetHeader(k, v)
		}
		if opt.Params != nil {
			rc.SetQueryParamsFromValues(toValues(opt.Params))
		}
		if opt.Data != nil {
			rc.SetHeader("Content-Type", "application/json")
			rc.SetBody(opt.Data)
		}
	}

	var (
		resp *resty.Response
		err  error
	)
	switch strings.ToUpper(method) {
	case http.MethodGet:
		resp, err = rc.Get(endpoint)
	case http.MethodPost:
		resp, err = rc.Post(endpoint)
	case http.MethodDelete:
		resp, err = rc.Delete(endpoint)
	case http.MethodPut:
		resp, err = rc.Put(endpoint)
	default:
		return nil, errors.Errorf("unsupported method: %s", method)
	}
	return resp, c.checkResponse(method, endpoint, resp, err, out)
}

func (c *Client) checkResponse(method, endpoint string, resp *resty.Response, err error, out any) error {
	url := c.host + endpoint
	if err != nil {
		return errors.Wrapf(err, "%s %s", strings.ToUpper(method), url)
	}
	if !resp.IsSuccess() {
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			URL:        url,
			Body:       resp.Body(),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &DecodeError{StatusCode: resp.StatusCode(), URL: url, Err: err}
	}
	return nil
}

func toValues(m map[string]any) map[string][]string {
	v := make(map[string][]string, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case []string:
			v[k] = t
		default:
			v[k] = []string{fmt.Sprint(val)}
		}
	}
	return v
}
