package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"losiento/internal/app"
	"losiento/internal/selector"
)

// Register mounts every route of the public surface onto r.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.POST("/games", h.host)
	api.GET("/games", h.joinable)
	api.POST("/games/:gameId/join", h.join)
	api.POST("/games/:gameId/leave", h.leave)
	api.POST("/games/:gameId/kick", h.kick)
	api.POST("/games/:gameId/seats", h.configureSeat)
	api.POST("/games/:gameId/start", h.start)
	api.POST("/games/:gameId/autofill", h.autoFillCheck)
	api.GET("/games/:gameId", h.state)
	api.GET("/games/:gameId/legalMovers", h.legalMovers)
	api.POST("/games/:gameId/play", h.play)
	api.POST("/games/:gameId/botStep", h.botStep)
	api.POST("/rejoin", h.rejoin)
}

type hostRequest struct {
	DisplayName string `json:"displayName"`
	MaxSeats    int    `json:"maxSeats"`
}

func (h *Handler) host(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req hostRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.MaxSeats == 0 {
		req.MaxSeats = 4
	}
	g, err := h.Session.Host(c.Request.Context(), uid, req.DisplayName, req.MaxSeats)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.ToClient(g, uid))
}

func (h *Handler) joinable(c *gin.Context) {
	uid, _ := userID(c)
	games, err := h.Session.ListJoinable(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]app.GameView, 0, len(games))
	for _, g := range games {
		views = append(views, app.ToClient(g, uid))
	}
	c.JSON(http.StatusOK, gin.H{"games": views})
}

type joinRequest struct {
	DisplayName string `json:"displayName"`
}

func (h *Handler) join(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	g, err := h.Session.Join(c.Request.Context(), uid, c.Param("gameId"), req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) leave(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	g, err := h.Session.Leave(c.Request.Context(), uid, c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

type kickRequest struct {
	SeatIndex int `json:"seatIndex"`
}

func (h *Handler) kick(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req kickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	g, err := h.Session.Kick(c.Request.Context(), uid, c.Param("gameId"), req.SeatIndex)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

type configureSeatRequest struct {
	SeatIndex int  `json:"seatIndex"`
	IsBot     bool `json:"isBot"`
}

func (h *Handler) configureSeat(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req configureSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	g, err := h.Session.ConfigureSeat(c.Request.Context(), uid, c.Param("gameId"), req.SeatIndex, req.IsBot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) start(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	g, err := h.Session.Start(c.Request.Context(), uid, c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) autoFillCheck(c *gin.Context) {
	uid, _ := userID(c)
	g, err := h.Session.AutoFillCheck(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) state(c *gin.Context) {
	uid, _ := userID(c)
	g, err := h.Session.Store().GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) legalMovers(c *gin.Context) {
	g, err := h.Session.Store().GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := app.LegalMoversPreview(g)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type playRequest struct {
	selector.Payload
	Follow *selector.Payload `json:"follow,omitempty"`
}

func (h *Handler) play(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	g, err := h.Turn.PlayHuman(c.Request.Context(), uid, c.Param("gameId"), req.Payload, req.Follow)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) botStep(c *gin.Context) {
	uid, _ := userID(c)
	g, err := h.Turn.BotStep(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}

func (h *Handler) rejoin(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	g, err := h.Session.Rejoin(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.ToClient(g, uid))
}
