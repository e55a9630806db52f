package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"homebase/internal/api"
	"homebase/internal/config"
	"homebase/internal/domain"
	"homebase/internal/door"
	"homebase/internal/errors"
	"homebase/internal/home"
	"homebase/internal/services"
	"homebase/internal/validation"
)

// mockBusinessAPI implements the BusinessAPI interface in memory for testing
type mockBusinessAPI struct {
	tasks    domain.TaskList
	ledger   domain.Ledger
	catalog  domain.Catalog
	cart     domain.Cart
	feedback []domain.Feedback
	nextID   int

	doorState   door.State
	doorErr     error
	trigger     door.TriggerResult
	doorUpdates []door.State

	homeState   home.State
	homeUpdates []home.State
	homeEvents  []string

	slideTicks    int
	slideInterval time.Duration

	// failWith, when set, is returned by every storage-backed call.
	failWith error
}

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		tasks:     domain.NewTaskList(),
		catalog:   domain.DefaultCatalog(),
		doorState: door.NewState(),
		homeState: home.NewState(),
	}
}

func (m *mockBusinessAPI) id() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *mockBusinessAPI) ListTasks(ctx context.Context) (domain.TaskList, error) {
	return m.tasks, m.failWith
}

func (m *mockBusinessAPI) TaskBoard(ctx context.Context, sorted bool) (*api.TaskBoard, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	tasks := m.tasks.Tasks()
	if sorted {
		tasks = m.tasks.SortedView()
	}
	stats, _ := m.TaskStats(ctx)
	return &api.TaskBoard{Tasks: tasks, Stats: stats}, nil
}

func (m *mockBusinessAPI) AddTask(ctx context.Context, text, due string) (domain.Task, error) {
	if m.failWith != nil {
		return domain.Task{}, m.failWith
	}
	if strings.TrimSpace(text) == "" {
		ve := validation.NewValidationError()
		ve.AddError("text", validation.ErrorTypeRequired, "Task text is required", nil)
		return domain.Task{}, ve
	}
	var d *domain.Date
	if due != "" {
		parsed, err := domain.ParseDate(due)
		if err != nil {
			ve := validation.NewValidationError()
			ve.AddInvalidFormatError("due", due, "YYYY-MM-DD")
			return domain.Task{}, ve
		}
		d = &parsed
	}
	list, task, _ := m.tasks.Add(text, d)
	m.tasks = list
	return task, nil
}

func (m *mockBusinessAPI) ToggleTask(ctx context.Context, id int64) (domain.Task, bool, error) {
	if m.failWith != nil {
		return domain.Task{}, false, m.failWith
	}
	m.tasks = m.tasks.Toggle(id)
	task, ok := m.tasks.Get(id)
	return task, ok, nil
}

func (m *mockBusinessAPI) UpdateTask(ctx context.Context, id int64, text, due string) (domain.Task, error) {
	var d *domain.Date
	if due != "" {
		parsed, err := domain.ParseDate(due)
		if err != nil {
			return domain.Task{}, err
		}
		d = &parsed
	}
	list, ok := m.tasks.Edit(id, text, d)
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", fmt.Sprintf("%d", id))
	}
	m.tasks = list
	task, _ := list.Get(id)
	return task, nil
}

func (m *mockBusinessAPI) DeleteTask(ctx context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.tasks = m.tasks.Delete(id)
	return nil
}

func (m *mockBusinessAPI) ClearCompleted(ctx context.Context) (int, error) {
	before := m.tasks.Len()
	m.tasks = m.tasks.ClearCompleted()
	return before - m.tasks.Len(), nil
}

func (m *mockBusinessAPI) TaskStats(ctx context.Context) (services.TaskStats, error) {
	return services.TaskStats{
		Total:     m.tasks.Len(),
		Remaining: m.tasks.RemainingCount(),
		Completed: m.tasks.CompletedCount(),
		Overdue:   len(m.tasks.Overdue(domain.NewDate(2024, 2, 1))),
		Progress:  m.tasks.Progress(),
	}, nil
}

func (m *mockBusinessAPI) AddExpense(ctx context.Context, name, amount string) (domain.Expense, error) {
	money, err := domain.ParseMoney(amount)
	if err != nil || money <= 0 {
		ve := validation.NewValidationError()
		ve.AddError("amount", validation.ErrorTypeInvalidValue, "Amount must be a positive number", amount)
		return domain.Expense{}, ve
	}
	e := domain.Expense{ID: m.id(), Name: name, Amount: money, CreatedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)}
	m.ledger = m.ledger.Add(e)
	return e, nil
}

func (m *mockBusinessAPI) Ledger(ctx context.Context) (domain.Ledger, error) {
	return m.ledger, m.failWith
}

func (m *mockBusinessAPI) DeleteExpense(ctx context.Context, id string) error {
	m.ledger = m.ledger.Delete(id)
	return nil
}

func (m *mockBusinessAPI) ClearExpenses(ctx context.Context) (int64, error) {
	n := int64(m.ledger.Len())
	m.ledger = m.ledger.Clear()
	return n, nil
}

func (m *mockBusinessAPI) Products(category string) []domain.Product {
	if category == "" {
		return m.catalog.Products()
	}
	return m.catalog.ByCategory(category)
}

func (m *mockBusinessAPI) Categories() []string {
	return m.catalog.Categories()
}

func (m *mockBusinessAPI) Product(id string) (domain.Product, error) {
	p, ok := m.catalog.Get(id)
	if !ok {
		return domain.Product{}, errors.NewNotFoundError("product", id)
	}
	return p, nil
}

func (m *mockBusinessAPI) Cart(ctx context.Context) (services.CartView, error) {
	view := services.CartView{Count: m.cart.Count(), Subtotal: m.cart.Subtotal(m.catalog)}
	for _, item := range m.cart.Items() {
		p, _ := m.catalog.Get(item.ProductID)
		view.Lines = append(view.Lines, services.CartLine{Product: p, Quantity: item.Quantity, LineTotal: p.Price * int64(item.Quantity)})
	}
	return view, nil
}

func (m *mockBusinessAPI) AddToCart(ctx context.Context, productID string) (services.CartView, error) {
	if _, err := m.Product(productID); err != nil {
		return services.CartView{}, err
	}
	m.cart = m.cart.Add(productID)
	return m.Cart(ctx)
}

func (m *mockBusinessAPI) SetCartQuantity(ctx context.Context, productID string, qty int) (services.CartView, error) {
	m.cart = m.cart.UpdateQuantity(productID, qty)
	return m.Cart(ctx)
}

func (m *mockBusinessAPI) ClearCart(ctx context.Context) error {
	m.cart = m.cart.Clear()
	return nil
}

func (m *mockBusinessAPI) SubmitFeedback(ctx context.Context, name, message string, rating int) (domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		ve := validation.NewValidationError()
		ve.AddError("rating", validation.ErrorTypeInvalidRange, "Please provide a rating.", rating)
		return domain.Feedback{}, ve
	}
	fb := domain.Feedback{ID: m.id(), Name: name, Message: message, Rating: rating,
		CreatedAt: time.Date(2024, 2, 1, 10, 0, m.nextID, 0, time.UTC)}
	m.feedback = append(m.feedback, fb)
	return fb, nil
}

func (m *mockBusinessAPI) RecentFeedback(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 10
	}
	return domain.RecentFeedback(m.feedback, limit), nil
}

func (m *mockBusinessAPI) WatchFeedback(ctx context.Context, limit int, fn func([]domain.Feedback)) error {
	entries, _ := m.RecentFeedback(ctx, limit)
	fn(entries)
	<-ctx.Done()
	return nil
}

func (m *mockBusinessAPI) Carousel(index int) api.CarouselView {
	c := domain.NewCarousel(domain.DefaultSlides()).SlideTo(index)
	slide, _ := c.Current()
	return api.CarouselView{Index: c.Index(), Total: c.Len(), Direction: c.Direction().String(), Slide: slide, Slides: c.Slides()}
}

func (m *mockBusinessAPI) PersonStatus(ctx context.Context) (string, error) {
	if m.doorErr != nil {
		return "", m.doorErr
	}
	return m.doorState.PersonStatus, nil
}

func (m *mockBusinessAPI) ServerStatus(ctx context.Context) (string, error) {
	if m.doorErr != nil {
		return "", m.doorErr
	}
	return m.doorState.ServerStatus, nil
}

func (m *mockBusinessAPI) TriggerDoor(ctx context.Context) (door.TriggerResult, error) {
	return m.trigger, m.doorErr
}

func (m *mockBusinessAPI) DoorState() door.State {
	return m.doorState.Clone()
}

func (m *mockBusinessAPI) PublishDoorEvent(ctx context.Context, name string, data json.RawMessage) error {
	next, err := door.Apply(m.doorState, door.Event{Name: name, Data: data})
	if err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	m.doorState = next
	return nil
}

func (m *mockBusinessAPI) WatchDoor(ctx context.Context, fn func(door.State)) error {
	fn(m.doorState.Clone())
	for _, s := range m.doorUpdates {
		fn(s)
	}
	<-ctx.Done()
	return nil
}

// PlaySlides advances slideTicks times without waiting, then blocks
func (m *mockBusinessAPI) PlaySlides(ctx context.Context, start int, interval time.Duration, fn func(api.CarouselView)) error {
	m.slideInterval = interval
	for i := 0; i <= m.slideTicks; i++ {
		fn(m.Carousel(start + i))
	}
	<-ctx.Done()
	return nil
}

func (m *mockBusinessAPI) HomeState() home.State {
	return m.homeState
}

func (m *mockBusinessAPI) PublishHomeEvent(ctx context.Context, name string, data json.RawMessage) error {
	out, err := home.Relay(name)
	if err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	next, err := home.Apply(m.homeState, home.Event{Name: out, Data: data})
	if err != nil {
		return errors.NewInvalidInputError("event", name, err.Error())
	}
	m.homeState = next
	m.homeEvents = append(m.homeEvents, out+" "+string(data))
	return nil
}

func (m *mockBusinessAPI) WatchHome(ctx context.Context, fn func(home.State)) error {
	fn(m.homeState)
	for _, s := range m.homeUpdates {
		fn(s)
	}
	<-ctx.Done()
	return nil
}

// setupTestAppWithMockBusinessAPI returns an app writing to the returned buffer
func setupTestAppWithMockBusinessAPI(t *testing.T) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	mockAPI := newMockBusinessAPI()
	out := &bytes.Buffer{}
	app := NewApp(mockAPI, config.NewConfig(), out, nil)
	app.today = func() domain.Date { return domain.NewDate(2024, 2, 1) }
	app.registry = NewCommandRegistry(app)
	return app, mockAPI, out
}
