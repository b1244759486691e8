package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/internal/service/session"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// PanelHandler adapts the per-user order session to HTTP. The caller identity
// comes from the auth proxy's X-Remote-User header; every response carries
// the server messages drained from the session.
type PanelHandler struct {
	sessions   *session.Manager
	gatewayURL string
	logger     *zap.Logger
}

// NewPanelHandler constructs the HTTP handler adapter.
func NewPanelHandler(sessions *session.Manager, gatewayURL string, logger *zap.Logger) *PanelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PanelHandler{sessions: sessions, gatewayURL: gatewayURL, logger: logger}
}

func (h *PanelHandler) session(c *gin.Context) (*session.Session, bool) {
	username := c.GetHeader("X-Remote-User")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-Remote-User header"})
		return nil, false
	}
	return h.sessions.Get(username), true
}

// Open bootstraps (or re-bootstraps) the caller's session and returns the
// first snapshot.
func (h *PanelHandler) Open(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Open(c.Request.Context()); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// Snapshot returns the current view of the selected date.
func (h *PanelHandler) Snapshot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// FetchMonth loads a month into the session calendar.
func (h *PanelHandler) FetchMonth(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month must be integers"})
		return
	}
	if err := s.FetchMonth(c.Request.Context(), year, month); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// SelectDay moves the selection to another date.
func (h *PanelHandler) SelectDay(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY/MM/DD"})
		return
	}
	if err := s.SelectDay(c.Request.Context(), date); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// AddItem adds one unit of an item to the selected date's order.
func (h *PanelHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be an integer"})
		return
	}
	if err := s.AddItem(c.Request.Context(), itemID); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusCreated, s, s.Snapshot())
}

// RemoveItem removes one unit of an item from the selected date's order.
func (h *PanelHandler) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be an integer"})
		return
	}
	if err := s.RemoveItem(c.Request.Context(), itemID); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// SetNote updates the note of the selected date's order.
func (h *PanelHandler) SetNote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.SetNote(c.Request.Context(), req.Note); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// SelectBuilding runs the first step of the delivery cascade.
func (h *PanelHandler) SelectBuilding(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Building string `json:"building" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.SelectBuilding(req.Building); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// SelectFloor commits the delivery place for one meal of the selected date.
func (h *PanelHandler) SelectFloor(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		MealType string `json:"mealType" binding:"required"`
		Floor    string `json:"floor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.SelectFloor(c.Request.Context(), models.MealType(req.MealType), req.Floor); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// Like toggles the like reaction on an item.
func (h *PanelHandler) Like(c *gin.Context) {
	h.react(c, (*session.Session).Like)
}

// Dislike toggles the dislike reaction on an item.
func (h *PanelHandler) Dislike(c *gin.Context) {
	h.react(c, (*session.Session).Dislike)
}

func (h *PanelHandler) react(c *gin.Context, call func(*session.Session, context.Context, int) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be an integer"})
		return
	}
	if err := call(s, c.Request.Context(), itemID); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// Impersonate enters an acting-on-behalf-of session for admins.
func (h *PanelHandler) Impersonate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
		Comment  string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.Impersonate(c.Request.Context(), req.Username, req.Reason, req.Comment); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

// StopImpersonation returns the session to the real user.
func (h *PanelHandler) StopImpersonation(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.StopImpersonation(c.Request.Context()); err != nil {
		h.fail(c, s, err)
		return
	}
	h.ok(c, http.StatusOK, s, s.Snapshot())
}

func (h *PanelHandler) ok(c *gin.Context, status int, s *session.Session, data any) {
	c.JSON(status, gin.H{
		"data":     data,
		"messages": s.Messages(),
	})
}

// fail maps engine and ledger errors onto HTTP statuses. Ledger rejections
// keep their status and messages; expired auth gets the gateway redirect.
func (h *PanelHandler) fail(c *gin.Context, s *session.Session, err error) {
	messages := s.Messages()

	var capErr *session.CapacityError
	var serverErr *ledger.ServerError
	switch {
	case errors.Is(err, ledger.ErrReauthRequired):
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "authentication expired",
			"redirect": h.gatewayURL,
			"messages": messages,
		})
	case errors.As(err, &capErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "messages": messages})
	case session.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "messages": messages})
	case errors.As(err, &serverErr):
		c.JSON(serverErr.StatusCode, gin.H{
			"error":    "request rejected",
			"messages": append(messages, serverErr.Messages...),
		})
	default:
		h.logger.Error("ledger call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "order ledger unavailable", "messages": messages})
	}
}
