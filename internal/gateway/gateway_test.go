package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zap.ErrorLevel)
	return New("test-token", nil, zap.New(core)), srv, logs
}

func TestGetAttachesHeaders(t *testing.T) {
	var gotAuth, gotType, gotMethod string
	var gotBody []byte
	client, srv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"items":[]}`))
	})

	raw, err := client.Get(context.Background(), srv.URL+"/v3.0/workbench/alerts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Empty(t, gotBody)
}

func TestPostSerializesBody(t *testing.T) {
	var got map[string]string
	client, srv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	})

	raw, err := client.Post(context.Background(), srv.URL+"/notes", map[string]string{"content": "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(raw))
	assert.Equal(t, "hello", got["content"])
}

func TestPostNoContentReturnsEmptyObject(t *testing.T) {
	client, srv, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := client.Post(context.Background(), srv.URL+"/notes", map[string]string{"content": "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
	assert.Zero(t, logs.Len())
}

func TestServerErrorReturnsFetchError(t *testing.T) {
	client, srv, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal failure"))
	})

	for _, call := range []func() (json.RawMessage, error){
		func() (json.RawMessage, error) { return client.Get(context.Background(), srv.URL+"/a") },
		func() (json.RawMessage, error) { return client.Post(context.Background(), srv.URL+"/a", struct{}{}) },
	} {
		raw, err := call()
		require.Nil(t, raw)
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
		assert.Equal(t, "internal failure", fe.Body)
		assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	}
	assert.Equal(t, 2, logs.Len())
}

func TestInvalidJSONReturnsFetchError(t *testing.T) {
	client, srv, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	raw, err := client.Get(context.Background(), srv.URL)
	require.Nil(t, raw)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusOK, fe.StatusCode)
	assert.Equal(t, 1, logs.Len())
}

func TestNetworkFailureReturnsFetchError(t *testing.T) {
	client, srv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Get(context.Background(), srv.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.Zero(t, StatusOf(err))
}

func TestGetInto(t *testing.T) {
	client, srv, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"alert","count":3}`))
	})

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	got, err := GetInto[payload](context.Background(), client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "alert", got.Name)
	assert.Equal(t, 3, got.Count)

	type mismatched struct {
		Name int `json:"name"`
	}
	_, err = GetInto[mismatched](context.Background(), client, srv.URL)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
}

func TestNullBodyReturnsFetchError(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			client, srv, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(" null\n"))
			})

			var err error
			if method == http.MethodGet {
				_, err = client.Get(context.Background(), srv.URL+"/alerts/WB-1")
			} else {
				_, err = client.Post(context.Background(), srv.URL+"/alerts/WB-1/notes", map[string]string{"content": "x"})
			}

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.ErrorIs(t, err, ErrNullBody)
			assert.Equal(t, http.StatusOK, fe.StatusCode)
			assert.Equal(t, 1, logs.Len())
		})
	}
}
