package api

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"homebase/internal/domain"
	"homebase/internal/door"
	"homebase/internal/errors"
	"homebase/internal/home"
	"homebase/internal/logging"
	"homebase/internal/realtime"
	"homebase/internal/services"
)

// TaskBoard is the to-do list as the views show it
type TaskBoard struct {
	Tasks []domain.Task      `json:"tasks"`
	Stats services.TaskStats `json:"stats"`
}

// CarouselView is the carousel positioned at one slide
type CarouselView struct {
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Direction string         `json:"direction"`
	Slide     domain.Slide   `json:"slide"`
	Slides    []domain.Slide `json:"slides"`
}

// DoorClient is the part of the companion service client the API uses
type DoorClient interface {
	PersonStatus(ctx context.Context) (string, error)
	ServerStatus(ctx context.Context) (string, error)
	Trigger(ctx context.Context) (door.TriggerResult, error)
}

// BusinessAPI defines the operations shared by the CLI, the TUI and the HTTP server
type BusinessAPI interface {
	// ========== To-do List ==========

	// ListTasks returns the whole list, restored from storage
	ListTasks(ctx context.Context) (domain.TaskList, error)

	// TaskBoard returns tasks (sorted by due date when sorted is set) with their stats
	TaskBoard(ctx context.Context, sorted bool) (*TaskBoard, error)

	AddTask(ctx context.Context, text, due string) (domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error)
	UpdateTask(ctx context.Context, id int64, text, due string) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) (int, error)
	TaskStats(ctx context.Context) (services.TaskStats, error)

	// ========== Expenses ==========

	AddExpense(ctx context.Context, name, amount string) (domain.Expense, error)
	Ledger(ctx context.Context) (domain.Ledger, error)
	DeleteExpense(ctx context.Context, id string) error
	ClearExpenses(ctx context.Context) (int64, error)

	// ========== Shopping Cart ==========

	// Products lists the catalog, filtered by category when one is given
	Products(category string) []domain.Product
	Categories() []string
	Product(id string) (domain.Product, error)
	Cart(ctx context.Context) (services.CartView, error)
	AddToCart(ctx context.Context, productID string) (services.CartView, error)
	SetCartQuantity(ctx context.Context, productID string, qty int) (services.CartView, error)
	ClearCart(ctx context.Context) error

	// ========== Feedback Wall ==========

	SubmitFeedback(ctx context.Context, name, message string, rating int) (domain.Feedback, error)
	RecentFeedback(ctx context.Context, limit int) ([]domain.Feedback, error)

	// WatchFeedback blocks, calling fn on every change, until ctx is done
	WatchFeedback(ctx context.Context, limit int, fn func([]domain.Feedback)) error

	// ========== Carousel ==========

	// Carousel positions the slide deck at index, wrapping around its length
	Carousel(index int) CarouselView

	// PlaySlides calls fn with the slide at start and then advances one slide
	// every interval until ctx is done
	PlaySlides(ctx context.Context, start int, interval time.Duration, fn func(CarouselView)) error

	// ========== Smart Door ==========

	PersonStatus(ctx context.Context) (string, error)
	ServerStatus(ctx context.Context) (string, error)
	TriggerDoor(ctx context.Context) (door.TriggerResult, error)
	DoorState() door.State

	// PublishDoorEvent checks a device event and announces it on the bus
	PublishDoorEvent(ctx context.Context, name string, data json.RawMessage) error

	// WatchDoor keeps the door state live (bus events plus status polling when
	// enabled) and calls fn after every change until ctx is done
	WatchDoor(ctx context.Context, fn func(door.State)) error

	// ========== Smart Home ==========

	HomeState() home.State

	// PublishHomeEvent relays a client event (btnClick or ledState) to the
	// other clients on the bus
	PublishHomeEvent(ctx context.Context, name string, data json.RawMessage) error

	// WatchHome calls fn with the relay state and then after every relayed
	// event until ctx is done
	WatchHome(ctx context.Context, fn func(home.State)) error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
	door     DoorClient
	monitor  *door.Monitor
	poller   *door.Poller
	panel    *home.Panel
	bus      realtime.Bus
	slides   []domain.Slide
	today    func() domain.Date
	log      *logging.Logger
}

// Options carries the collaborators of the business API. Door, Poller and
// Bus are optional; the matching operations report the service unavailable.
type Options struct {
	Services *services.ServiceContainer
	Door     DoorClient
	Monitor  *door.Monitor
	Poller   *door.Poller
	Bus      realtime.Bus
	Slides   []domain.Slide
	Today    func() domain.Date
	Log      *logging.Logger
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(opts Options) BusinessAPI {
	b := &businessAPIImpl{
		services: opts.Services,
		door:     opts.Door,
		monitor:  opts.Monitor,
		poller:   opts.Poller,
		bus:      opts.Bus,
		slides:   opts.Slides,
		today:    opts.Today,
		log:      opts.Log,
	}
	if b.log == nil {
		b.log = logging.Nop()
	}
	if b.monitor == nil {
		b.monitor = door.NewMonitor(b.log)
	}
	b.panel = home.NewPanel(b.log)
	if b.slides == nil {
		b.slides = domain.DefaultSlides()
	}
	if b.today == nil {
		b.today = domain.Today
	}
	return b
}

// ========== To-do List ==========

func (b *businessAPIImpl) ListTasks(ctx context.Context) (domain.TaskList, error) {
	return b.services.TaskService.ListTasks(ctx)
}

func (b *businessAPIImpl) TaskBoard(ctx context.Context, sorted bool) (*TaskBoard, error) {
	list, err := b.services.TaskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := list.Tasks()
	if sorted {
		tasks = list.SortedView()
	}
	today := b.today()
	return &TaskBoard{
		Tasks: tasks,
		Stats: services.TaskStats{
			Total:     list.Len(),
			Remaining: list.RemainingCount(),
			Completed: list.CompletedCount(),
			Overdue:   len(list.Overdue(today)),
			Progress:  list.Progress(),
		},
	}, nil
}

func (b *businessAPIImpl) AddTask(ctx context.Context, text, due string) (domain.Task, error) {
	return b.services.TaskService.AddTask(ctx, text, due)
}

func (b *businessAPIImpl) ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error) {
	return b.services.TaskService.ToggleTask(ctx, id)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id int64, text, due string) (domain.Task, error) {
	return b.services.TaskService.UpdateTask(ctx, id, text, due)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id int64) error {
	return b.services.TaskService.DeleteTask(ctx, id)
}

func (b *businessAPIImpl) ClearCompleted(ctx context.Context) (int, error) {
	return b.services.TaskService.ClearCompleted(ctx)
}

func (b *businessAPIImpl) TaskStats(ctx context.Context) (services.TaskStats, error) {
	return b.services.TaskService.Stats(ctx, b.today())
}

// ========== Expenses ==========

func (b *businessAPIImpl) AddExpense(ctx context.Context, name, amount string) (domain.Expense, error) {
	return b.services.ExpenseService.AddExpense(ctx, name, amount)
}

func (b *businessAPIImpl) Ledger(ctx context.Context) (domain.Ledger, error) {
	return b.services.ExpenseService.Ledger(ctx)
}

func (b *businessAPIImpl) DeleteExpense(ctx context.Context, id string) error {
	return b.services.ExpenseService.DeleteExpense(ctx, id)
}

func (b *businessAPIImpl) ClearExpenses(ctx context.Context) (int64, error) {
	return b.services.ExpenseService.ClearExpenses(ctx)
}

// ========== Shopping Cart ==========

func (b *businessAPIImpl) Products(category string) []domain.Product {
	return b.services.CartService.Catalog().ByCategory(strings.TrimSpace(category))
}

func (b *businessAPIImpl) Categories() []string {
	return b.services.CartService.Catalog().Categories()
}

func (b *businessAPIImpl) Product(id string) (domain.Product, error) {
	return b.services.CartService.Product(id)
}

func (b *businessAPIImpl) Cart(ctx context.Context) (services.CartView, error) {
	return b.services.CartService.Cart(ctx)
}

func (b *businessAPIImpl) AddToCart(ctx context.Context, productID string) (services.CartView, error) {
	return b.services.CartService.AddProduct(ctx, productID)
}

func (b *businessAPIImpl) SetCartQuantity(ctx context.Context, productID string, qty int) (services.CartView, error) {
	return b.services.CartService.UpdateQuantity(ctx, productID, qty)
}

func (b *businessAPIImpl) ClearCart(ctx context.Context) error {
	return b.services.CartService.ClearCart(ctx)
}

// ========== Feedback Wall ==========

func (b *businessAPIImpl) SubmitFeedback(ctx context.Context, name, message string, rating int) (domain.Feedback, error) {
	return b.services.FeedbackService.Submit(ctx, name, message, rating)
}

func (b *businessAPIImpl) RecentFeedback(ctx context.Context, limit int) ([]domain.Feedback, error) {
	return b.services.FeedbackService.Recent(ctx, limit)
}

func (b *businessAPIImpl) WatchFeedback(ctx context.Context, limit int, fn func([]domain.Feedback)) error {
	return b.services.FeedbackService.Watch(ctx, limit, fn)
}

// ========== Carousel ==========

func (b *businessAPIImpl) Carousel(index int) CarouselView {
	return carouselView(domain.NewCarousel(b.slides).SlideTo(index))
}

func carouselView(c domain.Carousel) CarouselView {
	slide, _ := c.Current()
	return CarouselView{
		Index:     c.Index(),
		Total:     c.Len(),
		Direction: c.Direction().String(),
		Slide:     slide,
		Slides:    c.Slides(),
	}
}

// PlaySlides is the carousel autoplay.
func (b *businessAPIImpl) PlaySlides(ctx context.Context, start int, interval time.Duration, fn func(CarouselView)) error {
	if interval <= 0 {
		return errors.NewInvalidInputError("interval", interval.String(), "must be positive")
	}
	c := domain.NewCarousel(b.slides).SlideTo(start)
	if c.Len() == 0 {
		return nil
	}
	fn(carouselView(c))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c = c.Next()
			fn(carouselView(c))
		}
	}
}

// ========== Smart Door ==========

func (b *businessAPIImpl) PersonStatus(ctx context.Context) (string, error) {
	if b.door == nil {
		return "", errors.NewUnavailableError("door service", nil)
	}
	status, err := b.door.PersonStatus(ctx)
	if err != nil {
		b.monitor.SetError(err)
		return "", err
	}
	b.monitor.SetPersonStatus(status)
	return status, nil
}

func (b *businessAPIImpl) ServerStatus(ctx context.Context) (string, error) {
	if b.door == nil {
		return "", errors.NewUnavailableError("door service", nil)
	}
	status, err := b.door.ServerStatus(ctx)
	if err != nil {
		b.monitor.SetError(err)
		return "", err
	}
	b.monitor.SetServerStatus(status)
	return status, nil
}

func (b *businessAPIImpl) TriggerDoor(ctx context.Context) (door.TriggerResult, error) {
	if b.door == nil {
		return door.TriggerResult{}, errors.NewUnavailableError("door service", nil)
	}
	res, err := b.door.Trigger(ctx)
	if err != nil {
		b.monitor.SetError(err)
		return door.TriggerResult{}, err
	}
	if len(res.Image) > 0 {
		b.monitor.SetImage(res.Image)
	}
	return res, nil
}

func (b *businessAPIImpl) DoorState() door.State {
	return b.monitor.State()
}

func (b *businessAPIImpl) PublishDoorEvent(ctx context.Context, name string, data json.RawMessage) error {
	// Run the reducer on a scratch state so malformed events are refused
	// before anyone sees them.
	if _, err := door.Apply(door.NewState(), door.Event{Name: name, Data: data}); err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	if b.bus == nil {
		return errors.NewUnavailableError("realtime bus", nil)
	}
	return b.bus.Publish(ctx, realtime.Message{Channel: realtime.ChannelDoor, Event: name, Data: data})
}

// WatchDoor calls fn with the current state and then after every change
// until ctx is done. Calls to fn never overlap.
func (b *businessAPIImpl) WatchDoor(ctx context.Context, fn func(door.State)) error {
	var mu sync.Mutex
	deliver := func(s door.State) {
		mu.Lock()
		defer mu.Unlock()
		fn(s)
	}

	// Hold mu across registration so no change is delivered ahead of the
	// initial snapshot.
	mu.Lock()
	stop := b.monitor.Listen(deliver)
	fn(b.monitor.State())
	mu.Unlock()
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if b.bus != nil {
		if err := b.monitor.Consume(ctx, b.bus); err != nil {
			return err
		}
	}
	if b.poller != nil {
		g.Go(func() error { return b.poller.Run(ctx) })
	}
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return g.Wait()
}

// ========== Smart Home ==========

func (b *businessAPIImpl) HomeState() home.State {
	return b.panel.State()
}

func (b *businessAPIImpl) PublishHomeEvent(ctx context.Context, name string, data json.RawMessage) error {
	out, err := home.Relay(name)
	if err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	if _, err := home.Apply(home.NewState(), home.Event{Name: out, Data: data}); err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	if b.bus == nil {
		return errors.NewUnavailableError("realtime bus", nil)
	}
	return b.bus.Publish(ctx, realtime.Message{Channel: realtime.ChannelHome, Event: out, Data: data})
}

// WatchHome calls fn serially, starting with the current state.
func (b *businessAPIImpl) WatchHome(ctx context.Context, fn func(home.State)) error {
	if b.bus == nil {
		return errors.NewUnavailableError("realtime bus", nil)
	}
	var mu sync.Mutex
	deliver := func(s home.State) {
		mu.Lock()
		defer mu.Unlock()
		fn(s)
	}

	mu.Lock()
	stop := b.panel.Listen(deliver)
	fn(b.panel.State())
	mu.Unlock()
	defer stop()

	if err := b.panel.Consume(ctx, b.bus); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
