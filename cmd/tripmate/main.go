package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/tripmate/tripmate-client/config"
	"github.com/tripmate/tripmate-client/internal/adapters/oidc"
	"github.com/tripmate/tripmate-client/internal/bootstrap"
	"github.com/tripmate/tripmate-client/internal/observability/notify"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	Err    io.Writer

	// App is opened on first use and closed by main.
	App *bootstrap.App
}

const defaultStartTimeout = 30 * time.Second

func main() {
	cfg, err := bootstrap.LoadConfig()
	logger := bootstrap.InitLogger(os.Stderr, cfg.Observability)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	runErr := cmd.run(cmdCtx, os.Args[2:])
	if closeErr := cmdCtx.close(); closeErr != nil {
		logger.Warn("shutdown incomplete", "error", closeErr)
	}
	stop()
	if runErr != nil {
		if errors.Is(runErr, errGateBlocked) {
			os.Exit(3) //nolint:forbidigo // distinct status lets scripts tell a gated command from a failure
		}
		logger.Error("command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

// app opens the session context on first use: restore the stored session, bind a
// client, and wait until the session state has settled.
func (c *commandContext) app() (*bootstrap.App, error) {
	if c.App != nil {
		return c.App, nil
	}
	app, err := bootstrap.NewApp(c.Ctx, bootstrap.AppOptions{
		Config:   c.Config,
		Logger:   c.Logger,
		Notifier: notify.NewWriterSink(c.Err),
		Prompt:   oidc.WriterPrompt(c.Err),
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(c.Ctx, defaultStartTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		if cerr := app.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}
	c.App = app
	return app, nil
}

func (c *commandContext) close() error {
	if c.App == nil {
		return nil
	}
	err := c.App.Close()
	c.App = nil
	return err
}

func commands() map[string]command {
	list := []command{
		{"login", "Log in and store the session locally", runLogin},
		{"logout", "Forget the stored session", runLogout},
		{"whoami", "Show the session state, principal and profile", runWhoami},
		{"profile-create", "Create your profile (--role traveler|business --name NAME)", runProfileCreate},
		{"profile-save", "Update your profile name or role", runProfileSave},
		{"trips", "List your trip plans", runTrips},
		{"trip-create", "Plan a trip and print the generated plan", runTripCreate},
		{"listings", "List promoted listings (--category, --sorted)", runListings},
		{"listings-mine", "List the listings you own", runListingsMine},
		{"listing-create", "Publish a promoted listing", runListingCreate},
		{"listing-update", "Update one of your listings", runListingUpdate},
		{"listing-delete", "Delete one of your listings", runListingDelete},
		{"dashboard", "Show profile, trips and listings in one view", runDashboard},
		{"role", "Show your access role and admin flag", runRole},
		{"admin-profiles", "List every profile (admin)", runAdminProfiles},
		{"admin-profile", "Show one user's profile (admin)", runAdminProfile},
		{"admin-assign-role", "Assign an access role to a principal (admin)", runAdminAssignRole},
	}
	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: tripmate <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-20s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
