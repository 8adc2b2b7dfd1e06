package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
	"github.com/fwojciec/ladderwatch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Characters ladderwatch.CharacterService
	States     ladderwatch.StateStore
	Requests   ladderwatch.RequestStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DBPath       string `name:"db" env:"LADDERWATCH_DB" default:"${db_path}" help:"SQLite database path"`
	StatePath    string `name:"state-file" env:"LADDERWATCH_STATE" default:"${state_path}" help:"Crawl state file"`
	RequestsPath string `name:"requests-file" env:"LADDERWATCH_REQUESTS" default:"${requests_path}" help:"Priority request list file"`
	Verbose      bool   `short:"v" help:"Enable debug logging"`

	Run     RunCmd     `cmd:"" help:"Run the ingestion pipeline until interrupted"`
	Request RequestCmd `cmd:"" help:"Queue a priority re-check of an account"`
	State   StateCmd   `cmd:"" help:"Show crawl state statistics"`
	Show    ShowCmd    `cmd:"" help:"Show a stored character"`
	List    ListCmd    `cmd:"" help:"List stored characters"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	BaseURL string `name:"base-url" env:"LADDERWATCH_BASE_URL" required:"" help:"Upstream API base URL"`
	Season  int    `env:"LADDERWATCH_SEASON" default:"1" help:"Ladder season stamped on ingested records"`

	Cooldown        time.Duration `default:"1s" help:"Minimum spacing between upstream requests"`
	HostRate        float64       `name:"host-rate" default:"1" help:"Hard per-host request ceiling per second (0 disables)"`
	Blackout        string        `help:"Daily quiet window HH:MM-HH:MM in UTC (empty disables)"`
	BlackoutRecheck time.Duration `name:"blackout-recheck" default:"1m" help:"How often a held request re-checks the quiet window"`
	Timeout         time.Duration `short:"t" default:"10s" help:"Upstream request timeout"`

	Recheck           time.Duration `default:"24h" help:"Minimum interval before an account is enumerated again"`
	DiscoveryInterval time.Duration `name:"discovery-interval" default:"30m" help:"Discovery pass period"`
	PriorityInterval  time.Duration `name:"priority-interval" default:"1m" help:"Priority request polling period"`
	IdleInterval      time.Duration `name:"idle-interval" default:"5s" help:"Consumer sleep when the queue is empty"`
	ErrorBackoff      time.Duration `name:"error-backoff" default:"10s" help:"Consumer sleep after a failed item"`
	MonitorInterval   time.Duration `name:"monitor-interval" default:"60s" help:"Request rate log period"`
	MinLevel          int           `name:"min-level" default:"80" help:"Minimum character level to ingest"`

	Words       string `type:"existingfile" help:"Objectionable word list (defaults to the built-in list)"`
	MetricsAddr string `name:"metrics-addr" env:"LADDERWATCH_METRICS_ADDR" help:"Serve Prometheus metrics on this address"`
}

// RequestCmd is the "request" subcommand.
type RequestCmd struct {
	Account string `arg:"" help:"Account name"`
	IP      string `name:"ip" help:"Requester address recorded with the request"`
}

// StateCmd is the "state" subcommand.
type StateCmd struct {
	Accounts bool `short:"a" help:"List accounts with their last check time"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name   string `arg:"" help:"Character name"`
	Mode   string `short:"m" enum:"softcore,hardcore" default:"softcore" help:"Game mode (softcore, hardcore)"`
	Season int    `env:"LADDERWATCH_SEASON" default:"1" help:"Ladder season"`
	Raw    bool   `help:"Print the stored upstream detail"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Mode   string `short:"m" help:"Filter by game mode (softcore, hardcore)"`
	Season int    `help:"Filter by ladder season (0 for all)"`
	Class  string `short:"c" help:"Filter by class"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of characters"`
}
