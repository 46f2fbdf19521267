package http_test

import (
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/pkg/http"
)

func TestPostMarshalsJSONBody(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(gohttp.StatusCreated)
	}))
	defer srv.Close()

	resp, err := http.Post(srv.URL).Body(map[string]string{"text": "order placed"}).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "order placed", got["text"])
}

func TestSendRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Retry(3, 10*time.Millisecond).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.EqualValues(t, 3, hits.Load())
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		hits.Add(1)
		w.WriteHeader(gohttp.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Retry(3, 10*time.Millisecond).Send()
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, hits.Load())
	assert.Error(t, resp.Throw())
}

func TestResponseJSONAndBearer(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		w.Write([]byte(`{"name":"Cotton Kurta","price":129900}`))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL).Bearer("sekrit").Send()
	require.NoError(t, err)

	var item struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	require.NoError(t, resp.JSON(&item))
	assert.Equal(t, "Cotton Kurta", item.Name)
	assert.EqualValues(t, 129900, item.Price)
}
