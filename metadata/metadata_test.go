package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchhub/launchhub.go/lib/logging"
)

func TestPublishReturnsURI(t *testing.T) {
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-png"))
	}))
	defer imageSrv.Close()

	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "AgentCoin", r.FormValue("name"))
		assert.Equal(t, "AGNT", r.FormValue("symbol"))
		_, _, err := r.FormFile("file")
		assert.NoError(t, err)
		w.Write([]byte(`{"metadataUri":"ipfs://QmTest"}`))
	}))
	defer storeSrv.Close()

	client := NewClient(storeSrv.URL, 5, logging.Logger(""))
	uri := client.Publish(context.Background(), &TokenMetadata{
		Name:        "AgentCoin",
		Symbol:      "AGNT",
		Description: "test",
		ImageURL:    imageSrv.URL + "/img.png",
	})
	assert.Equal(t, "ipfs://QmTest", uri)
}

func TestPublishDegradesOnStoreFailure(t *testing.T) {
	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pin queue full", http.StatusServiceUnavailable)
	}))
	defer storeSrv.Close()

	client := NewClient(storeSrv.URL, 5, logging.Logger(""))
	uri := client.Publish(context.Background(), &TokenMetadata{Name: "A", Symbol: "B"})
	assert.Equal(t, "", uri)
}

func TestPublishDegradesOnImageFailure(t *testing.T) {
	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadataUri":"ipfs://QmTest"}`))
	}))
	defer storeSrv.Close()

	client := NewClient(storeSrv.URL, 5, logging.Logger(""))
	uri := client.Publish(context.Background(), &TokenMetadata{
		Name:     "A",
		Symbol:   "B",
		ImageURL: "http://127.0.0.1:1/nope.png",
	})
	assert.Equal(t, "", uri)
}

func TestPublishNoEndpointConfigured(t *testing.T) {
	client := NewClient("", 5, logging.Logger(""))
	assert.Equal(t, "", client.Publish(context.Background(), &TokenMetadata{Name: "A", Symbol: "B"}))
}
