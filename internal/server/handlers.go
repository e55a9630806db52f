package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"homebase/internal/domain"
	"homebase/internal/realtime"
)

const maxEventBody = 8 << 20

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ========== To-do List ==========

type taskRequest struct {
	Text string `json:"text"`
	Due  string `json:"due"`
}

func (s *Server) listTasks(c *gin.Context) {
	board, err := s.api.TaskBoard(c.Request.Context(), c.Query("view") == "sorted")
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) addTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid task body")
		return
	}
	task, err := s.api.AddTask(c.Request.Context(), req.Text, req.Due)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid task body")
		return
	}
	task, err := s.api.UpdateTask(c.Request.Context(), id, req.Text, req.Due)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) toggleTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, found, err := s.api.ToggleTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.api.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearCompleted(c *gin.Context) {
	n, err := s.api.ClearCompleted(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (s *Server) taskStats(c *gin.Context) {
	stats, err := s.api.TaskStats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "task id must be a number")
		return 0, false
	}
	return id, true
}

// ========== Expenses ==========

type expenseRequest struct {
	Name   string          `json:"name"`
	Amount json.RawMessage `json:"amount"`
}

// amountText accepts the amount as a JSON number or a string.
func (r expenseRequest) amountText() string {
	raw := strings.TrimSpace(string(r.Amount))
	var s string
	if err := json.Unmarshal(r.Amount, &s); err == nil {
		return s
	}
	return raw
}

func (s *Server) listExpenses(c *gin.Context) {
	ledger, err := s.api.Ledger(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expenses": ledger.Expenses(),
		"total":    ledger.Total().String(),
	})
}

func (s *Server) addExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid expense body")
		return
	}
	expense, err := s.api.AddExpense(c.Request.Context(), req.Name, req.amountText())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (s *Server) deleteExpense(c *gin.Context) {
	if err := s.api.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearExpenses(c *gin.Context) {
	n, err := s.api.ClearExpenses(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

// ========== Catalog and Cart ==========

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products":   s.api.Products(c.Query("category")),
		"categories": s.api.Categories(),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.api.Product(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getCart(c *gin.Context) {
	view, err := s.api.Cart(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid cart body")
		return
	}
	view, err := s.api.AddToCart(c.Request.Context(), req.ProductID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) setCartQuantity(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}
	view, err := s.api.SetCartQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.api.ClearCart(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========== Feedback Wall ==========

func (s *Server) listFeedback(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative number")
			return
		}
		limit = n
	}
	entries, err := s.api.RecentFeedback(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}

func (s *Server) submitFeedback(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Rating  int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid feedback body")
		return
	}
	entry, err := s.api.SubmitFeedback(c.Request.Context(), req.Name, req.Message, req.Rating)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ========== Carousel ==========

func (s *Server) slides(c *gin.Context) {
	index := 0
	if raw := c.Query("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "index must be a number")
			return
		}
		index = n
	}
	c.JSON(http.StatusOK, s.api.Carousel(index))
}

// ========== Smart Door ==========

func (s *Server) personStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": s.api.DoorState().Presence()})
}

func (s *Server) serverStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
}

// getData acknowledges a panel button press.
func (s *Server) getData(c *gin.Context) {
	var req struct {
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid button body")
		return
	}
	s.log.Info("door panel button", "state", req.State)
	c.JSON(http.StatusOK, gin.H{"status": "received", "code": http.StatusOK})
}

func (s *Server) getImage(c *gin.Context) {
	img := s.api.DoorState().Image
	if len(img) == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "no image captured yet", Code: "NOT_FOUND"}})
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(img), img)
}

func (s *Server) doorState(c *gin.Context) {
	c.JSON(http.StatusOK, s.api.DoorState())
}

// publishDoorEvent takes a device event. The body is the raw event payload.
func (s *Server) publishDoorEvent(c *gin.Context) {
	s.publishEvent(c, s.api.PublishDoorEvent)
}

func (s *Server) doorStream(c *gin.Context) {
	s.stream(c, realtime.ChannelDoor)
}

// ========== Smart Home ==========

func (s *Server) homeState(c *gin.Context) {
	c.JSON(http.StatusOK, s.api.HomeState())
}

// publishHomeEvent relays btnClick and ledState from a client. An empty
// body is allowed for btnClick.
func (s *Server) publishHomeEvent(c *gin.Context) {
	s.publishEvent(c, s.api.PublishHomeEvent)
}

func (s *Server) homeStream(c *gin.Context) {
	s.stream(c, realtime.ChannelHome)
}

type publishFunc func(ctx context.Context, name string, data json.RawMessage) error

// publishEvent reads a raw JSON event body and hands it to publish.
func (s *Server) publishEvent(c *gin.Context, publish publishFunc) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody))
	if err != nil {
		badRequest(c, "unreadable event body")
		return
	}
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		badRequest(c, "event body must be JSON")
		return
	}
	if err := publish(c.Request.Context(), c.Param("name"), json.RawMessage(body)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received", "code": http.StatusOK})
}

// stream serves one bus channel as server-sent events.
func (s *Server) stream(c *gin.Context, channel string) {
	client := s.hub.NewClient()
	s.hub.AddChannel(client, channel)
	s.log.Debug("stream open", "channel", channel, "clientID", client.ID)

	s.hub.ServeHTTP(c.Writer, c.Request, client)
	s.hub.CloseClient(client)
}
