package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoRequestDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", ClientOptions{})
	var out struct {
		Name string `json:"name"`
	}
	_, err := c.DoRequest(context.Background(), http.MethodGet, "/things", &RequestOptions{Params: map[string]any{"limit": 7}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	assert.Equal(t, srv.URL, c.Host())
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, ClientOptions{})
	_, err := c.DoRequest(context.Background(), http.MethodPost, "/x", &RequestOptions{Data: map[string]int{"a": 1}}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, se.Error(), srv.URL+"/x")
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, ClientOptions{})
	var out map[string]any
	_, err := c.DoRequest(context.Background(), http.MethodGet, "/x", nil, &out)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, http.StatusOK, de.StatusCode)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, ClientOptions{})
	_, err := c.DoRequest(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClient_UnsupportedMethod(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", ClientOptions{})
	_, err := c.DoRequest(context.Background(), "PATCH", "/x", nil, nil)
	assert.EqualError(t, err, "unsupported method: PATCH")
}

func TestClient_RetriesReadsOnly(t *testing.T) {
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := hits.LoadOrStore(r.Method, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, ClientOptions{RetryCount: 1})
	count := func(method string) int32 {
		n, ok := hits.Load(method)
		if !ok {
			return 0
		}
		return n.(*atomic.Int32).Load()
	}

	_, err := c.DoRequest(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(2), count(http.MethodGet))

	_, err = c.DoRequest(context.Background(), http.MethodPost, "/x", &RequestOptions{Data: map[string]int{"a": 1}}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), count(http.MethodPost))
}
