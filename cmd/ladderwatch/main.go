package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ladderwatch/fs"
	"github.com/fwojciec/ladderwatch/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Directory holding the database, state and request files.
	// Set before calling Run().
	DataDir string

	// SQLite database used by the character store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ladderwatch"),
		kong.Description("Rate-limited ladder character ingestion"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"db_path":       filepath.Join(m.DataDir, "ladderwatch.db"),
			"state_path":    filepath.Join(m.DataDir, "state.json"),
			"requests_path": filepath.Join(m.DataDir, "requests.json"),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ladderwatch --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.States = fs.NewStateStore(cli.StatePath)
	deps.Requests = fs.NewRequestStore(cli.RequestsPath)

	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "run" || cmd == "show" || cmd == "list" {
		m.DB = sqlite.NewDB(cli.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LADDERWATCH_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DBPath, err)
		}
		defer m.Close()

		deps.DB = m.DB
		deps.Characters = sqlite.NewCharacterService(m.DB)
	}

	return kongCtx.Run(deps)
}

func defaultDataDir() string {
	if dir := os.Getenv("LADDERWATCH_HOME"); dir != "" {
		_ = os.MkdirAll(dir, 0755)
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".ladderwatch")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
