package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebase/internal/domain"
	"homebase/internal/door"
	apperrors "homebase/internal/errors"
	"homebase/internal/home"
)

func TestTaskCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("add prints the new task", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "task add", []string{"Buy", "milk"})
		require.NoError(t, err)

		assert.Equal(t, "Added task 1: Buy milk\n", out.String())
		assert.Equal(t, 1, mock.tasks.Len())
	})

	t.Run("add passes the due flag", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		app.flags.Due = "2024-01-31"

		require.NoError(t, app.Run(ctx, "task add", []string{"Pay rent"}))

		task, ok := mock.tasks.Get(1)
		require.True(t, ok)
		require.NotNil(t, task.Due)
		assert.Equal(t, "2024-01-31", task.Due.String())
	})

	t.Run("blank text reports the field message", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "task add", []string{"   "})
		assert.EqualError(t, err, "failed to add task: Task text is required")
		assert.Equal(t, 0, mock.tasks.Len())
	})

	t.Run("add without text shows usage", func(t *testing.T) {
		app, _, _ := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "task add", nil)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	})

	t.Run("list marks completed and overdue tasks", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		past := domain.NewDate(2024, 1, 10)
		mock.tasks, _, _ = mock.tasks.Add("Old chore", &past)
		mock.tasks, _, _ = mock.tasks.Add("Done chore", nil)
		mock.tasks = mock.tasks.Toggle(2)

		require.NoError(t, app.Run(ctx, "task list", nil))

		assert.Equal(t,
			"  1 [ ] Old chore (due 2024-01-10) overdue\n"+
				"  2 [x] Done chore\n"+
				"\n1 of 2 tasks remaining\n",
			out.String())
	})

	t.Run("list sorted puts undated tasks last", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		later := domain.NewDate(2024, 3, 1)
		mock.tasks, _, _ = mock.tasks.Add("Undated", nil)
		mock.tasks, _, _ = mock.tasks.Add("Dated", &later)
		app.flags.Sorted = true

		require.NoError(t, app.Run(ctx, "task list", nil))

		assert.Equal(t,
			"  2 [ ] Dated (due 2024-03-01)\n"+
				"  1 [ ] Undated\n"+
				"\n2 of 2 tasks remaining\n",
			out.String())
	})

	t.Run("empty list", func(t *testing.T) {
		app, _, out := setupTestAppWithMockBusinessAPI(t)

		require.NoError(t, app.Run(ctx, "task list", nil))
		assert.Equal(t, "No tasks found\n", out.String())
	})

	t.Run("done toggles back and forth", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.tasks, _, _ = mock.tasks.Add("Water plants", nil)

		require.NoError(t, app.Run(ctx, "task done", []string{"1"}))
		require.NoError(t, app.Run(ctx, "task done", []string{"1"}))

		assert.Equal(t, "Completed task 1: Water plants\nReopened task 1: Water plants\n", out.String())
	})

	t.Run("done on an unknown id is not an error", func(t *testing.T) {
		app, _, out := setupTestAppWithMockBusinessAPI(t)

		require.NoError(t, app.Run(ctx, "task done", []string{"42"}))
		assert.Equal(t, "No task with id 42\n", out.String())
	})

	t.Run("bad id", func(t *testing.T) {
		app, _, _ := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "task rm", []string{"abc"})
		assert.EqualError(t, err, "failed to delete task: invalid input for id: must be a positive number")
	})

	t.Run("rm and clear-done", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.tasks, _, _ = mock.tasks.Add("a", nil)
		mock.tasks, _, _ = mock.tasks.Add("b", nil)
		mock.tasks, _, _ = mock.tasks.Add("c", nil)
		mock.tasks = mock.tasks.Toggle(3)

		require.NoError(t, app.Run(ctx, "task rm", []string{"1"}))
		require.NoError(t, app.Run(ctx, "task clear-done", nil))

		assert.Equal(t, "Deleted task 1\nRemoved 1 completed task(s)\n", out.String())
		assert.Equal(t, 1, mock.tasks.Len())
	})

	t.Run("edit", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.tasks, _, _ = mock.tasks.Add("draft", nil)

		require.NoError(t, app.Run(ctx, "task edit", []string{"1", "final", "text"}))
		assert.Equal(t, "Updated task 1: final text\n", out.String())

		err := app.Run(ctx, "task edit", []string{"9", "nothing"})
		assert.EqualError(t, err, "failed to update task: task not found: 9")
	})

	t.Run("stats", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		past := domain.NewDate(2024, 1, 1)
		mock.tasks, _, _ = mock.tasks.Add("late", &past)
		mock.tasks, _, _ = mock.tasks.Add("done", nil)
		mock.tasks = mock.tasks.Toggle(2)

		require.NoError(t, app.Run(ctx, "task stats", nil))
		assert.Equal(t, "1 of 2 tasks remaining\nCompleted: 1\nOverdue:   1\nProgress:  50%\n", out.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		mock.failWith = apperrors.NewDatabaseError("list tasks", nil)

		err := app.Run(ctx, "task list", nil)
		assert.EqualError(t, err, "failed to list tasks: A database error occurred. Please try again.")
	})
}

func TestExpenseCommands(t *testing.T) {
	ctx := context.Background()
	app, mock, out := setupTestAppWithMockBusinessAPI(t)

	require.NoError(t, app.Run(ctx, "expense add", []string{"Coffee", "4.5"}))
	require.NoError(t, app.Run(ctx, "expense add", []string{"Lunch", "3"}))
	assert.Equal(t, "Added expense Coffee: 4.50\nAdded expense Lunch: 3.00\n", out.String())

	out.Reset()
	require.NoError(t, app.Run(ctx, "expense total", nil))
	assert.Equal(t, "7.50\n", out.String())

	out.Reset()
	require.NoError(t, app.Run(ctx, "expense list", nil))
	assert.Contains(t, out.String(), "Lunch")
	assert.Contains(t, out.String(), "Total: 7.50")
	assert.Less(t, strings.Index(out.String(), "Lunch"), strings.Index(out.String(), "Coffee"), "newest first")

	err := app.Run(ctx, "expense add", []string{"Tea", "-1"})
	assert.EqualError(t, err, "failed to add expense: Amount must be a positive number")

	out.Reset()
	require.NoError(t, app.Run(ctx, "expense rm", []string{mock.ledger.Expenses()[0].ID}))
	require.NoError(t, app.Run(ctx, "expense clear", nil))
	assert.Contains(t, out.String(), "Removed 1 expense(s)")

	out.Reset()
	require.NoError(t, app.Run(ctx, "expense list", nil))
	assert.Equal(t, "No expenses recorded\n", out.String())
}

func TestCartCommands(t *testing.T) {
	ctx := context.Background()
	app, _, out := setupTestAppWithMockBusinessAPI(t)

	require.NoError(t, app.Run(ctx, "cart catalog", []string{"Home"}))
	assert.Contains(t, out.String(), "p5")
	assert.Contains(t, out.String(), "₹699")
	assert.NotContains(t, out.String(), "p1")

	out.Reset()
	require.NoError(t, app.Run(ctx, "cart add", []string{"p1"}))
	require.NoError(t, app.Run(ctx, "cart add", []string{"p1"}))
	assert.Contains(t, out.String(), "2 item(s), subtotal ₹9998")

	out.Reset()
	require.NoError(t, app.Run(ctx, "cart set", []string{"p1", "0"}))
	assert.Equal(t, "Cart is empty\n", out.String())

	err := app.Run(ctx, "cart add", []string{"p9"})
	assert.EqualError(t, err, "failed to add to cart: product not found: p9")

	err = app.Run(ctx, "cart set", []string{"p1", "many"})
	assert.EqualError(t, err, "failed to update cart: invalid input for quantity: must be a whole number")
}

func TestFeedbackCommands(t *testing.T) {
	ctx := context.Background()
	app, _, out := setupTestAppWithMockBusinessAPI(t)

	require.NoError(t, app.Run(ctx, "feedback add", []string{"Asha", "5", "Lovely", "app"}))
	assert.Equal(t, "Thanks Asha, your feedback was recorded\n", out.String())

	err := app.Run(ctx, "feedback add", []string{"Ravi", "0", "meh"})
	assert.EqualError(t, err, "failed to submit feedback: Please provide a rating.")

	out.Reset()
	require.NoError(t, app.Run(ctx, "feedback list", nil))
	assert.Contains(t, out.String(), "***** Asha: Lovely app")

	t.Run("watch prints the snapshot and stops on cancel", func(t *testing.T) {
		out.Reset()
		watchCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		require.NoError(t, app.Run(watchCtx, "feedback watch", nil))
		assert.Contains(t, out.String(), "Asha: Lovely app")
	})
}

func TestDoorCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.doorState.ServerStatus = "Server is running"
		mock.doorState.PersonStatus = "Asha is at the door"

		require.NoError(t, app.Run(ctx, "door status", nil))
		assert.Equal(t, "Server: Server is running\nPerson: Asha is at the door\n", out.String())
	})

	t.Run("service down", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		mock.doorErr = apperrors.NewUnavailableError("door service", nil)

		err := app.Run(ctx, "door status", nil)
		assert.EqualError(t, err, "failed to reach door service: door service is unavailable. Please try again later.")
	})

	t.Run("trigger saves the image", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.trigger = door.TriggerResult{Reply: "ok", Image: []byte{0xff, 0xd8, 0xff}}
		path := filepath.Join(t.TempDir(), "door.jpg")
		app.flags.Out = path

		require.NoError(t, app.Run(ctx, "door trigger", nil))

		saved, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, saved)
		assert.Equal(t, "Door service: ok\nSaved image to "+path+"\n", out.String())
	})

	t.Run("trigger without output file", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.trigger = door.TriggerResult{Image: []byte("abcd")}

		require.NoError(t, app.Run(ctx, "door trigger", nil))
		assert.Equal(t, "Received 4 byte image\n", out.String())
	})

	t.Run("watch prints every state", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		next := door.NewState()
		next.FaceName = "Asha"
		next.DoorStatus = "Door opened"
		mock.doorUpdates = []door.State{next}

		watchCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		require.NoError(t, app.Run(watchCtx, "door watch", nil))

		assert.Equal(t, "No one at the door\nAsha is at the door | door: Door opened\n", out.String())
	})
}

func TestSlidesCommand(t *testing.T) {
	ctx := context.Background()
	app, _, out := setupTestAppWithMockBusinessAPI(t)

	require.NoError(t, app.Run(ctx, "slides", []string{"-1"}))
	assert.Contains(t, out.String(), "> 9. Earth’s texture")
	assert.Contains(t, out.String(), "  1. Blooming petals")

	err := app.Run(ctx, "slides", []string{"first"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestSlidesCommand_Play(t *testing.T) {
	t.Run("advances from the start index and wraps", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		app.flags.Play = true
		app.flags.Interval = time.Second
		mock.slideTicks = 2

		playCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		require.NoError(t, app.Run(playCtx, "slides", []string{"8"}))

		assert.Equal(t, "9/9 Earth’s texture - A close look at the ground beneath our feet\n"+
			"1/9 Blooming petals - A close-up of nature’s gentle colors\n"+
			"2/9 Aurora Borealis - Dancing lights under a starry sky\n", out.String())
		assert.Equal(t, time.Second, mock.slideInterval)
	})

	t.Run("defaults to four seconds a slide", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		app.flags.Play = true

		playCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		require.NoError(t, app.Run(playCtx, "slides", nil))

		assert.Equal(t, 4*time.Second, mock.slideInterval)
	})
}

func TestHomeCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("press relays a click", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)

		require.NoError(t, app.Run(ctx, "home press", []string{`{"from":"kitchen"}`}))

		assert.Equal(t, "Button press relayed\n", out.String())
		assert.Equal(t, []string{`button_click_client {"from":"kitchen"}`}, mock.homeEvents)
	})

	t.Run("press refuses a payload that is not JSON", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "home press", []string{"kitchen"})
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
		assert.Empty(t, mock.homeEvents)
	})

	t.Run("led reports the state", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)

		require.NoError(t, app.Run(ctx, "home led", []string{"on"}))
		assert.Equal(t, "LED is on\n", out.String())
		assert.Equal(t, home.LEDOn, mock.homeState.LED)

		require.NoError(t, app.Run(ctx, "home state", nil))
		assert.Contains(t, out.String(), "LED: on")
	})

	t.Run("led rejects other values", func(t *testing.T) {
		app, _, _ := setupTestAppWithMockBusinessAPI(t)

		err := app.Run(ctx, "home led", []string{"dim"})
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	})

	t.Run("watch as device toggles on each click", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		app.flags.Device = true
		pressed := home.NewState()
		pressed.PressedAt = time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)
		mock.homeUpdates = []home.State{pressed}

		watchCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		require.NoError(t, app.Run(watchCtx, "home watch", nil))

		assert.Equal(t, "LED: off\nLED: off | last press: 18:00:00\n", out.String())
		assert.Equal(t, []string{`ledState {"ledState":"on"}`}, mock.homeEvents)
	})

	t.Run("watch without device only prints", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		pressed := home.NewState()
		pressed.PressedAt = time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)
		mock.homeUpdates = []home.State{pressed}

		watchCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		require.NoError(t, app.Run(watchCtx, "home watch", nil))

		assert.Empty(t, mock.homeEvents)
	})
}
