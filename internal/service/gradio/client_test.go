package gradio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gradiomodel "github.com/taskmatrix/facade/internal/model/gradio"
)

func TestNewClientSessionHash(t *testing.T) {
	c := NewClient("http://localhost:11220/", "")
	assert.NotEmpty(t, c.SessionHash())
	assert.Equal(t, "http://localhost:11220", c.BaseURL())

	c = NewClient("http://localhost:11220", "manual-123")
	assert.Equal(t, "manual-123", c.SessionHash())
}

func TestCheckConnection(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "")
	require.NoError(t, c.CheckConnection(context.Background()))
}

func TestCheckConnectionNonOK(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "")
	require.Error(t, c.CheckConnection(context.Background()))
}

func TestAppConfig(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/config", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fingerprint":"abc123","version":"3.23.0"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "")
	doc, err := c.AppConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", doc["fingerprint"])
}

func TestRunTextPayload(t *testing.T) {
	var got gradiomodel.PredictRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/run/text", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":["a reply"],"duration":0.4}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "hash-1")
	history := gradiomodel.History{{"hi", "hello"}}
	resp, err := c.RunText(context.Background(), "describe a cat", history, "English")
	require.NoError(t, err)

	assert.Equal(t, fnIndexRunText, got.FnIndex)
	assert.Equal(t, "hash-1", got.SessionHash)
	require.Len(t, got.Data, 3)
	assert.Equal(t, "describe a cat", got.Data[0])
	assert.Equal(t, "English", got.Data[2])

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "a reply", resp.Data[0])
}

func TestRunTextNilHistory(t *testing.T) {
	var got gradiomodel.PredictRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "hash-1")
	_, err := c.RunText(context.Background(), "hello", nil, "English")
	require.NoError(t, err)

	// nil history must serialize as [], not null.
	require.Len(t, got.Data, 3)
	assert.Equal(t, []any{}, got.Data[1])
}

func TestClearMemory(t *testing.T) {
	var got gradiomodel.PredictRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/run/clear", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "hash-2")
	_, err := c.ClearMemory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fnIndexClearMemory, got.FnIndex)
	assert.Empty(t, got.Data)
}

func TestRunImageMultipart(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png-bytes"), 0o644))

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/run/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "2", r.FormValue("fn_index"))
		assert.Equal(t, "hash-3", r.FormValue("session_hash"))

		var data []any
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &data))
		require.Len(t, data, 3)
		assert.Equal(t, "what is this", data[0])

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "image.png", header.Filename)

		_, _ = w.Write([]byte(`{"data":["an image of a cat"]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "hash-3")
	resp, err := c.RunImage(context.Background(), imagePath, "what is this", nil, "English")
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
}

func TestRunImageMissingFile(t *testing.T) {
	c := NewClient("http://localhost:11220", "")
	_, err := c.RunImage(context.Background(), "/does/not/exist.png", "", nil, "English")
	require.Error(t, err)
}

func TestTools(t *testing.T) {
	tools := Tools()
	assert.Len(t, tools, 11)
	assert.Contains(t, tools, "VisualQuestionAnswering")
}
