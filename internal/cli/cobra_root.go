package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homebase/internal/api"
	"homebase/internal/config"
	"homebase/internal/logging"
	"homebase/internal/observability"
	"homebase/internal/realtime"
	"homebase/internal/server"
	"homebase/internal/tui"
)

// annotationPollDoor marks commands that keep the door state live and so
// always poll the door service.
const annotationPollDoor = "homebase/poll-door"

// Runtime is what commands run against once configuration is final
type Runtime struct {
	API   api.BusinessAPI
	Bus   realtime.Bus
	Log   *logging.Logger
	Close func() error
}

// RuntimeFactory builds the runtime from the final configuration
type RuntimeFactory func(ctx context.Context, cfg *config.Config) (*Runtime, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	config  *config.Config
	factory RuntimeFactory
	runtime *Runtime
	app     *App
	flags   CommandFlags
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config, factory RuntimeFactory) *RootCommand {
	root := &RootCommand{
		config:  cfg,
		factory: factory,
	}

	root.cmd = &cobra.Command{
		Use:   "hb",
		Short: "Household toolbox: to-do list, expenses, shopping cart, feedback wall, smart door and smart home",
		Long: `homebase (hb) keeps a household's small apps in one place.

FEATURES:
  • To-do list with due dates, overdue markers and an interactive terminal UI
  • Expense ledger with running total
  • Shopping cart over a fixed product catalog
  • Feedback wall with live updates
  • Smart-door monitor: person status, doorbell trigger and a live event stream
  • Smart-home relay: button clicks and LED state shared between clients
  • Image carousel with autoplay
  • Companion HTTP server for the web and mobile clients

EXAMPLES:
  hb task add "Pay rent" --due 2024-01-31   # Add a task with a due date
  hb task list --all-sorted                 # List tasks by due date
  hb task done 3                            # Toggle task 3
  hb todo                                   # Interactive to-do list
  hb expense add Coffee 4.50                # Record an expense
  hb cart add p1                            # Put a product in the cart
  hb feedback add Asha 5 "Lovely app"       # Post to the feedback wall
  hb door status                            # Ask who is at the door
  hb home press                             # Click the button on every other client
  hb slides --play                          # Autoplay the carousel
  hb serve --addr :5000                     # Run the companion server

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is ~/.hb/config.yaml, or the file named by HB_CONFIG.

  Database Configuration:
    HB_DB_DIR                              Database directory (default: ~/.hb)
    HB_DB_FILENAME                         Database filename (default: hb.db)
    HB_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    HB_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Display Configuration:
    HB_DISPLAY_OVERDUE_MARKER              Overdue marker text (default: overdue)

  Application Configuration:
    HB_APP_TIMEOUT                         Command timeout (default: 60s)
    HB_LOG_MODE                            development or production (default: development)
    HB_LOG_LEVEL                           debug, info, warn, error (default: warn)
    HB_DEBUG                               Force debug logging

  Smart Door Configuration:
    HB_DOOR_URL                            Door service URL (default: http://localhost:5000)
    HB_DOOR_POLL                           Poll person status while serving (default: false)
    HB_DOOR_POLL_INTERVAL                  Poll interval (default: 15s)
    HB_DOOR_STATUS_PATH                    JSONPath of the person status (default: $.status)

  Server Configuration:
    HB_SERVER_ADDR                         Listen address (default: :5000)
    HB_SERVER_ALLOWED_ORIGINS              Comma separated CORS origins (default: *)
    HB_REDIS_ADDR                          Redis address for the event bus (default: in-process)
    HB_TELEMETRY_ENABLED                   Export request traces to stderr (default: false)

GETTING HELP:
  hb [command] --help                      # Get help for any specific command
  hb completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsRuntime(cmd) {
				return nil
			}
			return root.prepare(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the cobra command, mainly for tests.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases the runtime afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) close() {
	if r.runtime != nil && r.runtime.Close != nil {
		if err := r.runtime.Close(); err != nil && r.runtime.Log != nil {
			r.runtime.Log.Warn("shutdown incomplete", "error", err)
		}
	}
	r.runtime = nil
}

// prepare applies flag overrides, then builds the runtime and the app
func (r *RootCommand) prepare(cmd *cobra.Command) error {
	if err := r.getConfigFromFlags(cmd); err != nil {
		return err
	}
	if cmd.Annotations[annotationPollDoor] == "true" {
		r.config.Door.Poll = true
	}
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rt, err := r.factory(cmd.Context(), r.config)
	if err != nil {
		return err
	}
	r.runtime = rt
	r.app = NewApp(rt.API, r.config, cmd.OutOrStdout(), &r.flags)
	return nil
}

// needsRuntime is false for help and shell completion
func needsRuntime(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides HB_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides HB_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides HB_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides HB_DB_WRITE_TIMEOUT)")

	// Validation configuration
	flags.Int("task-text-max-length", 0, "Maximum task text length (overrides HB_VALIDATION_TASK_TEXT_MAX)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides HB_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides HB_APP_VERBOSE)")

	// Door configuration
	flags.String("door-url", "", "Door service URL (overrides HB_DOOR_URL)")
	flags.Duration("door-poll-interval", 0, "Door status poll interval (overrides HB_DOOR_POLL_INTERVAL)")
	flags.Bool("door-poll", false, "Poll the door service while serving (overrides HB_DOOR_POLL)")

	// Event bus configuration
	flags.String("redis-addr", "", "Redis address for the event bus (overrides HB_REDIS_ADDR)")
	flags.Bool("telemetry", false, "Export request traces (overrides HB_TELEMETRY_ENABLED)")
}

// getConfigFromFlags updates the configuration with the flags the user set
func (r *RootCommand) getConfigFromFlags(cmd *cobra.Command) error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		overrides.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		overrides.DBWriteTimeout = &v
	}

	if flags.Changed("task-text-max-length") {
		v, _ := flags.GetInt("task-text-max-length")
		overrides.TaskTextMaxLength = &v
	}

	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	if flags.Changed("door-url") {
		v, _ := flags.GetString("door-url")
		overrides.DoorURL = &v
	}
	if flags.Changed("door-poll-interval") {
		v, _ := flags.GetDuration("door-poll-interval")
		overrides.DoorPollInterval = &v
	}
	if flags.Changed("door-poll") {
		v, _ := flags.GetBool("door-poll")
		overrides.DoorPoll = &v
	}

	if flags.Changed("redis-addr") {
		v, _ := flags.GetString("redis-addr")
		overrides.RedisAddr = &v
	}
	if flags.Changed("telemetry") {
		v, _ := flags.GetBool("telemetry")
		overrides.Telemetry = &v
	}

	// Only serve defines --addr.
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		v := f.Value.String()
		overrides.ServerAddr = &v
	}

	config.ApplyOverrides(r.config, overrides)
	return nil
}

// getAppTimeout returns the configured command timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// run dispatches a registered handler under the command timeout
func (r *RootCommand) run(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()
		return r.app.Run(ctx, name, args)
	}
}

// stream dispatches a handler that runs until interrupted
func (r *RootCommand) stream(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return r.app.Run(cmd.Context(), name, args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.taskCommand(),
		r.todoCommand(),
		r.expenseCommand(),
		r.cartCommand(),
		r.feedbackCommand(),
		r.doorCommand(),
		r.homeCommand(),
		r.slidesCommand(),
		r.serveCommand(),
	)
}

func (r *RootCommand) taskCommand() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the to-do list",
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a task",
		Long: `Add a task to the to-do list. Blank text is rejected.

Examples:
  hb task add "Buy milk"
  hb task add "Pay rent" --due 2024-01-31`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run("task add"),
	}
	addCmd.Flags().StringVar(&r.flags.Due, "due", "", "Due date (YYYY-MM-DD)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE:  r.run("task list"),
	}
	listCmd.Flags().BoolVar(&r.flags.Sorted, "all-sorted", false, "Order by due date, undated tasks last")

	editCmd := &cobra.Command{
		Use:   "edit [id] [text]",
		Short: "Change the text and due date of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE:  r.run("task edit"),
	}
	editCmd.Flags().StringVar(&r.flags.Due, "due", "", "Due date (YYYY-MM-DD), empty clears it")

	taskCmd.AddCommand(
		addCmd,
		listCmd,
		&cobra.Command{
			Use:   "done [id]",
			Short: "Toggle whether a task is completed",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("task done"),
		},
		editCmd,
		&cobra.Command{
			Use:     "rm [id]",
			Aliases: []string{"delete"},
			Short:   "Delete a task",
			Args:    cobra.ExactArgs(1),
			RunE:    r.run("task rm"),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show remaining, completed and overdue counts",
			Args:  cobra.NoArgs,
			RunE:  r.run("task stats"),
		},
		&cobra.Command{
			Use:   "clear-done",
			Short: "Delete all completed tasks",
			Args:  cobra.NoArgs,
			RunE:  r.run("task clear-done"),
		},
	)
	return taskCmd
}

func (r *RootCommand) todoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "todo",
		Short: "Interactive to-do list",
		Long: `Open the to-do list full screen.

Keys:
  a        add a task ("text | YYYY-MM-DD" sets a due date)
  space    toggle the selected task
  d        delete the selected task
  j/k ↑/↓  move
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.Deps{
				Store:         r.runtime.API,
				OverdueMarker: r.config.Display.OverdueMarker,
				Timeout:       r.config.Database.QueryTimeout,
				Log:           r.runtime.Log,
			})
		},
	}
}

func (r *RootCommand) expenseCommand() *cobra.Command {
	expenseCmd := &cobra.Command{
		Use:   "expense",
		Short: "Track expenses",
	}
	expenseCmd.AddCommand(
		&cobra.Command{
			Use:   "add [name] [amount]",
			Short: "Record an expense",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run("expense add"),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List expenses, newest first",
			Args:  cobra.NoArgs,
			RunE:  r.run("expense list"),
		},
		&cobra.Command{
			Use:   "rm [id]",
			Short: "Delete an expense",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("expense rm"),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all expenses",
			Args:  cobra.NoArgs,
			RunE:  r.run("expense clear"),
		},
		&cobra.Command{
			Use:   "total",
			Short: "Print the total spent",
			Args:  cobra.NoArgs,
			RunE:  r.run("expense total"),
		},
	)
	return expenseCmd
}

func (r *RootCommand) cartCommand() *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Browse the catalog and manage the shopping cart",
	}
	cartCmd.AddCommand(
		&cobra.Command{
			Use:   "catalog [category]",
			Short: "List products, optionally in one category",
			Args:  cobra.MaximumNArgs(1),
			RunE:  r.run("cart catalog"),
		},
		&cobra.Command{
			Use:   "add [product-id]",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("cart add"),
		},
		&cobra.Command{
			Use:   "set [product-id] [qty]",
			Short: "Set a quantity; 0 removes the line",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run("cart set"),
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart with its subtotal",
			Args:  cobra.NoArgs,
			RunE:  r.run("cart show"),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE:  r.run("cart clear"),
		},
	)
	return cartCmd
}

func (r *RootCommand) feedbackCommand() *cobra.Command {
	feedbackCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Post to and read the feedback wall",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent feedback",
		Args:  cobra.NoArgs,
		RunE:  r.run("feedback list"),
	}
	listCmd.Flags().IntVar(&r.flags.Limit, "limit", 0, "Number of entries (default from HB_FEEDBACK_LIMIT)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the wall whenever feedback arrives",
		Args:  cobra.NoArgs,
		RunE:  r.stream("feedback watch"),
	}
	watchCmd.Flags().IntVar(&r.flags.Limit, "limit", 0, "Number of entries (default from HB_FEEDBACK_LIMIT)")

	feedbackCmd.AddCommand(
		&cobra.Command{
			Use:   "add [name] [rating] [message]",
			Short: "Post feedback with a 1-5 rating",
			Args:  cobra.MinimumNArgs(3),
			RunE:  r.run("feedback add"),
		},
		listCmd,
		watchCmd,
	)
	return feedbackCmd
}

func (r *RootCommand) doorCommand() *cobra.Command {
	doorCmd := &cobra.Command{
		Use:   "door",
		Short: "Talk to the smart-door service",
	}

	triggerCmd := &cobra.Command{
		Use:   "trigger",
		Short: "Press the doorbell button and fetch the camera image",
		Args:  cobra.NoArgs,
		RunE:  r.run("door trigger"),
	}
	triggerCmd.Flags().StringVar(&r.flags.Out, "out", "", "Write the image to this file")

	doorCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the service status and who is at the door",
			Args:  cobra.NoArgs,
			RunE:  r.run("door status"),
		},
		triggerCmd,
		&cobra.Command{
			Use:         "watch",
			Short:       "Print the door state after every change",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationPollDoor: "true"},
			RunE:        r.stream("door watch"),
		},
	)
	return doorCmd
}

func (r *RootCommand) homeCommand() *cobra.Command {
	homeCmd := &cobra.Command{
		Use:   "home",
		Short: "Relay button clicks and LED state between smart-home clients",
		Long: `Relay button clicks and LED state between smart-home clients.

A click is forwarded to the other clients as button_click_client. A device
answers by toggling its LED and reporting the result with "hb home led".
Clients in other processes need a shared bus (HB_REDIS_ADDR).`,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the relay state after every event",
		Args:  cobra.NoArgs,
		RunE:  r.stream("home watch"),
	}
	watchCmd.Flags().BoolVar(&r.flags.Device, "device", false, "Act as the LED device: toggle and report on every click")

	homeCmd.AddCommand(
		&cobra.Command{
			Use:   "state",
			Short: "Show the last reported LED state",
			Args:  cobra.NoArgs,
			RunE:  r.run("home state"),
		},
		&cobra.Command{
			Use:   "press [payload]",
			Short: "Click the button on every other client",
			Args:  cobra.MaximumNArgs(1),
			RunE:  r.run("home press"),
		},
		&cobra.Command{
			Use:       "led <on|off>",
			Short:     "Report the LED state",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE:      r.run("home led"),
		},
		watchCmd,
	)
	return homeCmd
}

func (r *RootCommand) slidesCommand() *cobra.Command {
	slidesCmd := &cobra.Command{
		Use:   "slides [index]",
		Short: "Show the carousel slides",
		Long: `Show the carousel slides with the one at index marked.

With --play the carousel advances one slide per interval until interrupted.

Examples:
  hb slides 3
  hb slides --play --interval 2s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if r.flags.Play {
				return r.stream("slides")(cmd, args)
			}
			return r.run("slides")(cmd, args)
		},
	}
	slidesCmd.Flags().BoolVar(&r.flags.Play, "play", false, "Advance through the slides until interrupted")
	slidesCmd.Flags().DurationVar(&r.flags.Interval, "interval", defaultSlideInterval, "Time each slide is shown with --play")
	return slidesCmd
}

func (r *RootCommand) serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion HTTP server",
		Long: `Serve the JSON API, the smart-door endpoints and the live door stream.

Stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := r.runtime.Log

			shutdown, err := observability.InitTracing(ctx, r.config.Telemetry, log, observability.Options{})
			if err != nil {
				return fmt.Errorf("failed to start tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.Server.ShutdownTimeout)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn("tracing shutdown failed", "error", err)
				}
			}()

			serviceName := ""
			if r.config.Telemetry.Enabled {
				serviceName = r.config.Telemetry.ServiceName
			}
			srv := server.New(server.Config{
				Addr:            r.config.Server.Addr,
				AllowedOrigins:  r.config.Server.AllowedOrigins,
				ShutdownTimeout: r.config.Server.ShutdownTimeout,
				ServiceName:     serviceName,
			}, r.runtime.API, r.runtime.Bus, log)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", r.config.Server.Addr)
			return srv.Run(ctx)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides HB_SERVER_ADDR)")
	return serveCmd
}
