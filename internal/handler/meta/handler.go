package meta

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskmatrix/facade/internal/config"
	"github.com/taskmatrix/facade/pkg/utils"
)

const (
	serviceName        = "TaskMatrix API"
	serviceVersion     = "1.0.0"
	serviceTitle       = "TaskMatrix Visual ChatGPT"
	serviceDescription = "Visual ChatGPT - Multi-Modal AI Assistant"
)

// Handler serves the static service documents: /health, / and /info.
// None of them ever touch the upstream.
type Handler struct {
	cfg *config.Config
}

// New creates the metadata handler.
func New(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes mounts the metadata routes at the router root.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/", h.handleRoot)
	r.Get("/info", h.handleInfo)
}

type healthDocument struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	GradioPort int    `json:"gradio_port"`
	HTTPPort   int    `json:"http_port"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, healthDocument{
		Status:     "healthy",
		Service:    serviceName,
		Version:    serviceVersion,
		GradioPort: h.cfg.Upstream.Port,
		HTTPPort:   h.cfg.Server.Port,
	})
}

type endpointList struct {
	Health  string `json:"health"`
	Message string `json:"message"`
	Gradio  string `json:"gradio"`
}

type rootDocument struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Endpoints   endpointList `json:"endpoints"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, rootDocument{
		Name:        serviceName,
		Version:     serviceVersion,
		Description: serviceDescription,
		Endpoints: endpointList{
			Health:  "/health",
			Message: "/api/message (POST)",
			Gradio:  h.cfg.Upstream.BaseURL(),
		},
	})
}

type infoDocument struct {
	Service      string   `json:"service"`
	Version      string   `json:"version"`
	GradioHost   string   `json:"gradio_host"`
	GradioPort   int      `json:"gradio_port"`
	HTTPPort     int      `json:"http_port"`
	Capabilities []string `json:"capabilities"`
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, infoDocument{
		Service:    serviceTitle,
		Version:    serviceVersion,
		GradioHost: h.cfg.Upstream.Host,
		GradioPort: h.cfg.Upstream.Port,
		HTTPPort:   h.cfg.Server.Port,
		// Hardcoded description of the deployment, not live introspection
		// of the upstream.
		Capabilities: []string{
			"Image Captioning",
			"Text to Image Generation",
			"Visual Question Answering",
			"Conversation Memory",
			"Multi-language support",
		},
	})
}
