// README: Inbound message handler; one POST is one conversation turn.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farelink/internal/dialog"
)

type MessageHandler struct {
	dialog *dialog.Machine
}

func NewMessageHandler(machine *dialog.Machine) *MessageHandler {
	return &MessageHandler{dialog: machine}
}

type messageRequest struct {
	UserID   string `json:"user_id"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type messageResponse struct {
	Reply      dialog.Reply `json:"reply"`
	Superseded bool         `json:"superseded,omitempty"`
}

// Handle runs a full dialog turn. Turn-internal failures still return
// 200 with a user-facing reply; only malformed requests are 4xx.
func (h *MessageHandler) Handle(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" || req.Text == "" {
		writeError(c, http.StatusBadRequest, "user_id and text are required")
		return
	}

	reply, err := h.dialog.HandleMessage(c.Request.Context(), req.UserID, req.Text, req.Language)
	if err != nil {
		// the machine already shaped a safe user-facing reply
		_ = c.Error(err)
	}
	writeJSON(c, http.StatusOK, messageResponse{
		Reply:      reply,
		Superseded: reply.Text == "",
	})
}
