// Package server is the companion HTTP server: JSON endpoints for the
// household apps, the smart-door and smart-home endpoints, and their live
// event streams.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"homebase/internal/api"
	"homebase/internal/door"
	"homebase/internal/home"
	"homebase/internal/logging"
	"homebase/internal/realtime"
)

// Config holds the listener settings.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// ServiceName, when set, turns on otelgin request spans.
	ServiceName string
}

// Server serves the companion HTTP API.
type Server struct {
	cfg    Config
	api    api.BusinessAPI
	bus    realtime.Bus
	hub    *realtime.Hub
	log    *logging.Logger
	engine *gin.Engine
}

func New(cfg Config, businessAPI api.BusinessAPI, bus realtime.Bus, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg: cfg,
		api: businessAPI,
		bus: bus,
		hub: realtime.NewHub(log),
		log: log.With("component", "HTTPServer"),
	}
	s.engine = s.newRouter()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub is the SSE hub fed by Forward.
func (s *Server) Hub() *realtime.Hub {
	return s.hub
}

// Forward copies bus messages into the SSE hub until ctx is done.
func (s *Server) Forward(ctx context.Context) error {
	if s.bus == nil {
		<-ctx.Done()
		return nil
	}
	if err := s.bus.Subscribe(ctx, s.hub.Broadcast); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.Forward(ctx)
	})
	g.Go(func() error {
		// Keeps the door state served on /person-status and /get-image live.
		return s.api.WatchDoor(ctx, func(door.State) {})
	})
	if s.bus != nil {
		g.Go(func() error {
			// Keeps /home/state live.
			return s.api.WatchHome(ctx, func(home.State) {})
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(s.cfg.ServiceName))
	}
	r.Use(RequestContext())
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.AllowedOrigins))

	r.GET("/healthcheck", s.healthCheck)

	apiGroup := r.Group("/api")
	{
		// To-do list
		apiGroup.GET("/tasks", s.listTasks)
		apiGroup.POST("/tasks", s.addTask)
		apiGroup.GET("/tasks/stats", s.taskStats)
		apiGroup.PUT("/tasks/:id", s.updateTask)
		apiGroup.POST("/tasks/:id/toggle", s.toggleTask)
		apiGroup.DELETE("/tasks/:id", s.deleteTask)
		apiGroup.DELETE("/tasks/completed", s.clearCompleted)

		// Expenses
		apiGroup.GET("/expenses", s.listExpenses)
		apiGroup.POST("/expenses", s.addExpense)
		apiGroup.DELETE("/expenses/:id", s.deleteExpense)
		apiGroup.DELETE("/expenses", s.clearExpenses)

		// Catalog and cart
		apiGroup.GET("/products", s.listProducts)
		apiGroup.GET("/products/:id", s.getProduct)
		apiGroup.GET("/cart", s.getCart)
		apiGroup.POST("/cart/items", s.addCartItem)
		apiGroup.PUT("/cart/items/:id", s.setCartQuantity)
		apiGroup.DELETE("/cart", s.clearCart)

		// Feedback wall
		apiGroup.GET("/feedback", s.listFeedback)
		apiGroup.POST("/feedback", s.submitFeedback)

		// Carousel
		apiGroup.GET("/slides", s.slides)
	}

	// Smart door, on the paths the door panel already calls
	r.GET("/person-status", s.personStatus)
	r.GET("/server-status", s.serverStatus)
	r.POST("/get-data", s.getData)
	r.GET("/get-image", s.getImage)

	doorGroup := r.Group("/door")
	{
		doorGroup.GET("/state", s.doorState)
		doorGroup.POST("/events/:name", s.publishDoorEvent)
		doorGroup.GET("/stream", s.doorStream)
	}

	// Smart home relay
	homeGroup := r.Group("/home")
	{
		homeGroup.GET("/state", s.homeState)
		homeGroup.POST("/events/:name", s.publishHomeEvent)
		homeGroup.GET("/stream", s.homeStream)
	}

	return r
}
