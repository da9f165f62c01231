package gradio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	gradiomodel "github.com/taskmatrix/facade/internal/model/gradio"
)

// Function indices assumed from the upstream app's event wiring. The upstream
// publishes no stable names for these, only positions.
const (
	fnIndexRunText     = 1
	fnIndexRunImage    = 2
	fnIndexClearMemory = 3
)

// Client talks to the TaskMatrix Gradio app's internal endpoints. These are
// best-effort integration points, not a guaranteed contract.
type Client struct {
	baseURL     string
	sessionHash string
	httpc       *http.Client
}

// NewClient creates a client for the given upstream root. An empty sessionHash
// gets a generated one; the upstream only requires it to be unique per client.
func NewClient(baseURL, sessionHash string) *Client {
	if sessionHash == "" {
		sessionHash = uuid.NewString()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sessionHash: sessionHash,
		httpc:       &http.Client{},
	}
}

// BaseURL returns the upstream root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionHash returns the hash sent with every /run/* call.
func (c *Client) SessionHash() string {
	return c.sessionHash
}

// CheckConnection verifies the upstream answers its root path with 200.
func (c *Client) CheckConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connection failed: status %d", resp.StatusCode)
	}
	return nil
}

// AppConfig fetches the upstream's /config document (fingerprint, components).
// The shape varies across upstream versions, so it stays loosely typed.
func (c *Client) AppConfig(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, "/config")
}

// QueueStatus fetches the upstream's /queue/status document.
func (c *Client) QueueStatus(ctx context.Context) (map[string]any, error) {
	return c.getJSON(ctx, "/queue/status")
}

// RunText submits a text-only query through the upstream chat function.
func (c *Client) RunText(ctx context.Context, text string, history gradiomodel.History, lang string) (*gradiomodel.PredictResponse, error) {
	if history == nil {
		history = gradiomodel.History{}
	}
	req := gradiomodel.PredictRequest{
		Data:        []any{text, history, lang},
		FnIndex:     fnIndexRunText,
		SessionHash: c.sessionHash,
	}
	return c.postPredict(ctx, "/run/text", req)
}

// ClearMemory resets the upstream's conversation memory for this session.
func (c *Client) ClearMemory(ctx context.Context) (*gradiomodel.PredictResponse, error) {
	req := gradiomodel.PredictRequest{
		Data:        []any{},
		FnIndex:     fnIndexClearMemory,
		SessionHash: c.sessionHash,
	}
	return c.postPredict(ctx, "/run/clear", req)
}

// RunImage submits an image query as a multipart upload: the image bytes as a
// file part plus the positional payload as form fields.
func (c *Client) RunImage(ctx context.Context, imagePath, text string, history gradiomodel.History, lang string) (*gradiomodel.PredictResponse, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", imagePath, err)
	}

	if history == nil {
		history = gradiomodel.History{}
	}
	data, err := json.Marshal([]any{text, history, lang})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="image.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}

	if err := writer.WriteField("data", string(data)); err != nil {
		return nil, fmt.Errorf("write data field: %w", err)
	}
	if err := writer.WriteField("fn_index", strconv.Itoa(fnIndexRunImage)); err != nil {
		return nil, fmt.Errorf("write fn_index field: %w", err)
	}
	if err := writer.WriteField("session_hash", c.sessionHash); err != nil {
		return nil, fmt.Errorf("write session_hash field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run/image", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.decodePredict(req)
}

// Tools lists the tool names bundled with the upstream. The list is a static
// description of the deployment, not a live capability query.
func Tools() []string {
	return []string{
		"ImageCaptioning",
		"Text2Image",
		"Image2Pose",
		"Pose2Image",
		"Image2Seg",
		"Seg2Image",
		"Image2Depth",
		"Depth2Image",
		"Image2Normal",
		"Normal2Image",
		"VisualQuestionAnswering",
	}
}

func (c *Client) getJSON(ctx context.Context, path string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return doc, nil
}

func (c *Client) postPredict(ctx context.Context, path string, payload gradiomodel.PredictRequest) (*gradiomodel.PredictResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.decodePredict(req)
}

func (c *Client) decodePredict(req *http.Request) (*gradiomodel.PredictResponse, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post %s: status %d", req.URL.Path, resp.StatusCode)
	}

	var predict gradiomodel.PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predict); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return &predict, nil
}
