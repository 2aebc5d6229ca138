package shell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherResolvesRelativePaths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, srv.Client())

	body, err := f.Fetch(context.Background(), "./style.css?v=1.0.2")
	require.NoError(t, err)
	assert.Equal(t, "asset body", string(body))
	assert.Equal(t, "/style.css?v=1.0.2", gotPath)

	_, err = f.Fetch(context.Background(), "./")
	require.NoError(t, err)
	assert.Equal(t, "/", gotPath)
}

func TestHTTPFetcherRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, srv.Client())
	_, err := f.Fetch(context.Background(), "./missing.js")
	require.Error(t, err)
}
