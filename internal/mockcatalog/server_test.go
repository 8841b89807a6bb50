package mockcatalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsEndpointShape(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	// Decode with raw field names so a schema drift fails loudly
	var body struct {
		Products []map[string]any `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Products)

	first := body.Products[0]
	assert.Contains(t, first, "productId")
	assert.Contains(t, first, "productName")
	assert.Contains(t, first, "productPrice")
	assert.Contains(t, first, "productImage")
}

func TestCustomProductFixture(t *testing.T) {
	ts := httptest.NewServer(NewServer(WithProducts([]Product{
		{ID: "x", Name: "Only Item", Price: 1},
	})).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Products []Product `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Only Item", body.Products[0].Name)
}

func TestImageEndpoint(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/images/1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestFailingImageIDsReturn503(t *testing.T) {
	ts := httptest.NewServer(NewServer(WithFailingImages("2")).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/images/2")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// Other ids still serve
	resp, err = http.Get(ts.URL + "/images/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownImageIs404(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/images/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResolveImageURLs(t *testing.T) {
	products := ResolveImageURLs(DefaultFixture(), "http://host:1234")
	require.NotEmpty(t, products)
	assert.Equal(t, "http://host:1234/images/1", products[0].ImageURL)
}
