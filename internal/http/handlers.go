// README: HTTP handlers; thin JSON adapters over the assistant and history store.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fetii/internal/dataset"
	"fetii/internal/history"
	"fetii/internal/service"
)

// Handler adapts the assistant pipeline and chat history to HTTP.
type Handler struct {
	assistant *service.Assistant
	history   *history.Store
}

func NewHandler(assistant *service.Assistant, store *history.Store) *Handler {
	return &Handler{assistant: assistant, history: store}
}

type loadDatasetRequest struct {
	Path string `json:"path" binding:"required"`
}

// LoadDataset loads an Excel workbook from a server-local path and replaces
// the active dataset. A failed load leaves the previous dataset in place.
func (h *Handler) LoadDataset(c *gin.Context) {
	var req loadDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "path is required")
		return
	}
	summary, err := h.assistant.LoadWorkbook(req.Path)
	if err != nil {
		if errors.Is(err, dataset.ErrNoTripSheet) {
			writeError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DatasetSummary profiles the currently loaded dataset.
func (h *Handler) DatasetSummary(c *gin.Context) {
	summary, err := h.assistant.Summary()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type createSessionRequest struct {
	Title string `json:"title"`
}

// CreateSession starts a new conversation thread.
func (h *Handler) CreateSession(c *gin.Context) {
	// An empty body is fine; only malformed JSON is rejected.
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	sess, err := h.history.CreateSession(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, sess)
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type askResponse struct {
	Session string `json:"session"`
	service.Answer
}

// AskQuestion runs one question through the pipeline and records both turns
// in the session history.
func (h *Handler) AskQuestion(c *gin.Context) {
	sessionID := c.Param("id")

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "question is required")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.history.GetSession(ctx, sessionID); err != nil {
		writeHistoryError(c, err)
		return
	}

	answer, err := h.assistant.Ask(ctx, req.Question)
	if err != nil {
		// A failed question records nothing; the session history only
		// ever holds complete user/assistant pairs.
		writeServiceError(c, err)
		return
	}

	if _, err := h.history.AppendMessage(ctx, sessionID, "user", req.Question, ""); err != nil {
		writeHistoryError(c, err)
		return
	}
	if _, err := h.history.AppendMessage(ctx, sessionID, "assistant", answer.Answer, string(answer.Intent)); err != nil {
		writeHistoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, askResponse{Session: sessionID, Answer: answer})
}

// SessionHistory returns every turn of one session in order.
func (h *Handler) SessionHistory(c *gin.Context) {
	msgs, err := h.history.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeHistoryError(c, err)
		return
	}
	if msgs == nil {
		msgs = []history.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SearchDestinations returns fuzzy catalog suggestions for ?q=.
func (h *Handler) SearchDestinations(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		writeError(c, http.StatusBadRequest, "q is required")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	suggestions, err := h.assistant.SearchDestinations(term, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoDataset):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, history.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
