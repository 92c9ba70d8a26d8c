package client

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MKhiriev/go-invoicer/internal/adapter"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

type command struct {
	usage string
	min   int
	run   func(ctx context.Context, args []string) error
}

type App struct {
	api       adapter.ServerAdapter
	buildInfo models.AppBuildInfo
	out       io.Writer

	commands map[string]command
	logger   *logger.Logger
}

// NewApp returns an App printing to out. A non-empty token is reused as the
// current session.
func NewApp(api adapter.ServerAdapter, token string, buildInfo models.AppBuildInfo, out io.Writer, logger *logger.Logger) *App {
	if token != "" {
		api.SetToken(token)
	}

	a := &App{
		api:       api,
		buildInfo: buildInfo,
		out:       out,
		logger:    logger,
	}
	a.commands = map[string]command{
		"version":  {usage: "version", run: a.version},
		"register": {usage: "register <name> <email> <password>", min: 3, run: a.register},
		"login":    {usage: "login <email> <password>", min: 2, run: a.login},
		"logout":   {usage: "logout", run: a.logout},
		"me":       {usage: "me", run: a.me},
		"invoices": {usage: "invoices [status]", run: a.listInvoices},
		"invoice":  {usage: "invoice <id>", min: 1, run: a.showInvoice},
		"status":   {usage: "status <id> <draft|sent|paid|overdue|cancelled>", min: 2, run: a.setStatus},
		"dup":      {usage: "dup <id>", min: 1, run: a.duplicate},
		"recur":    {usage: "recur <id>", min: 1, run: a.spawnRecurring},
		"share":    {usage: "share <id>", min: 1, run: a.share},
		"delete":   {usage: "delete <id>", min: 1, run: a.deleteInvoice},
		"clients":  {usage: "clients", run: a.listClients},
		"client":   {usage: "client <name> [email]", min: 1, run: a.createClient},
		"stats":    {usage: "stats", run: a.stats},
	}

	return a
}

// Run executes args[0] with the remaining operands. Without a command it
// prints the usage.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.printUsage()
		return nil
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	if len(args)-1 < cmd.min {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	a.logger.Debug().Str("command", args[0]).Msg("running command")
	return cmd.run(ctx, args[1:])
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "commands:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", a.commands[name].usage)
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(a.out)
	}
}
