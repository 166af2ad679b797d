// Command driver launches the target MCP server as a child process, performs
// the initialize handshake over its stdio, runs the configured fetch
// scenarios, and reports the outcome of each. The child is terminated on
// every exit path, interrupts included.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mcp-fetch-driver/internal/config"
	"mcp-fetch-driver/internal/driver"
	"mcp-fetch-driver/internal/journal"
	"mcp-fetch-driver/internal/logging"
	"mcp-fetch-driver/internal/process"
	"mcp-fetch-driver/internal/report"
	"mcp-fetch-driver/internal/session"
	"mcp-fetch-driver/internal/transport"
	"mcp-fetch-driver/pkg/mcp/protocol"
)

// Exit codes: 0 all scenarios succeeded, 1 at least one scenario failed,
// 2 the run aborted before scenarios could complete (config, spawn, handshake).
const (
	exitOK      = 0
	exitFailed  = 1
	exitAborted = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitAborted
	}

	log := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level)).WithComponent("driver")

	// an operator interrupt cancels the context; the deferred Terminate below
	// still runs, so the child is reaped on that path too
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emitter := report.NewEmitter(os.Stdout)
	emitter.Banner(cfg.Target.String())

	handle, err := process.Spawn(cfg.Target.Command, cfg.Target.Args, cfg.Target.Dir)
	if err != nil {
		log.Error("failed to start target server", "error", err)
		return exitAborted
	}
	defer handle.Terminate(cfg.Timeouts.TerminateGrace())
	log.Info("target server started", "pid", handle.PID(), "command", cfg.Target.String())

	sess := session.NewSession(transport.New(handle.Stdout(), handle.Stdin()), log)

	start := time.Now()
	initResult, err := driver.Initialize(ctx, sess, protocol.ClientInfo{
		Name:    cfg.Client.Name,
		Version: cfg.Client.Version,
	}, cfg.Timeouts.Handshake())
	if err != nil {
		log.Error("handshake failed", "error", err)
		if tail := handle.StderrTail(); tail != "" {
			log.Error("target server stderr", "tail", tail)
		}
		return exitAborted
	}
	log.Info("server initialized", "server", initResult.ServerInfo.Name, "version", initResult.ServerInfo.Version)

	runner := driver.NewRunner(sess, cfg.Timeouts.Call(), cfg.Timeouts.FetchSeconds, log)
	outcomes := runner.RunAll(ctx, cfg.Scenarios)

	for _, out := range outcomes {
		emitter.Emit(out)
	}
	emitter.Summary(outcomes, time.Since(start))

	failed := 0
	for _, out := range outcomes {
		if out.Kind != driver.OutcomeSuccess {
			failed++
		}
	}
	if failed > 0 {
		if tail := handle.StderrTail(); tail != "" {
			log.Error("target server stderr", "tail", tail)
		}
	}

	if cfg.Journal.Enabled {
		recordRun(cfg, start, outcomes, log)
	}

	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

// recordRun is best effort; a broken journal must not change the run's result.
func recordRun(cfg *config.Config, start time.Time, outcomes []driver.Outcome, log logging.Logger) {
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Warn("journal unavailable", "error", err)
		return
	}
	defer j.Close()

	if err := j.RecordRun(uuid.NewString(), start, cfg.Target.String(), outcomes); err != nil {
		log.Warn("failed to record run", "error", err)
	}
}
