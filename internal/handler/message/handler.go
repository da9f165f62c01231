package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taskmatrix/facade/internal/model/api"
	"github.com/taskmatrix/facade/internal/service/probe"
	"github.com/taskmatrix/facade/pkg/utils"
)

const replyTemplate = "TaskMatrix Visual ChatGPT is running. Access the Gradio interface at %s"

// Handler serves POST /api/message: validate, probe the upstream once, and
// map the outcome to the response envelope. The upstream has no machine
// callable chat endpoint, so the reply only confirms liveness and hands back
// the direct access point; message content is never forwarded.
type Handler struct {
	prober    *probe.Prober
	gradioURL string
}

// New creates the message handler.
func New(prober *probe.Prober, gradioURL string) *Handler {
	return &Handler{prober: prober, gradioURL: gradioURL}
}

// RegisterRoutes mounts the message route on the /api subrouter.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/message", h.handleSendMessage)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload api.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	// Accepted for contract compatibility; the facade never forwards it.
	if payload.Language == "" {
		payload.Language = api.DefaultLanguage
	}

	if err := h.prober.Check(r.Context()); err != nil {
		if errors.Is(err, probe.ErrUnavailable) {
			utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		// Residual failures degrade to a well-formed envelope.
		utils.RespondJSON(w, http.StatusOK, api.FailureResponse(err.Error()))
		return
	}

	utils.RespondJSON(w, http.StatusOK, api.SuccessResponse(fmt.Sprintf(replyTemplate, h.gradioURL)))
}
