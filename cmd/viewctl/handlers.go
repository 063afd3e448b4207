package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/viewengine/internal/config"
	"github.com/haasonsaas/viewengine/internal/observability"
	"github.com/haasonsaas/viewengine/internal/view"
	"github.com/haasonsaas/viewengine/internal/view/inspector"
	"github.com/haasonsaas/viewengine/internal/view/viewtape"
	"github.com/haasonsaas/viewengine/pkg/models"
)

// =============================================================================
// Build Command Handler
// =============================================================================

func runBuild(ctx context.Context, configPath, tapePath string, strict bool, outPath string) error {
	tape, err := loadTape(tapePath)
	if err != nil {
		return err
	}

	raw, err := tape.RawEvents()
	if err != nil {
		return fmt.Errorf("decode tape raw events: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	builder := view.NewBuilder(raw)
	if strict || cfg.Matching.Strict {
		builder = builder.Strict()
	}

	start := time.Now()
	v, err := builder.Build()
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("build view: %w", err)
	}

	fmt.Printf("raw events:       %d\n", len(raw))
	fmt.Printf("validated events: %d\n", len(v.Validated))
	fmt.Printf("build time:       %s\n", elapsed)
	fmt.Printf("unhandled condensation request: %t\n", v.UnhandledCondensationRequest)
	if v.MostRecentSummary != nil {
		fmt.Printf("most recent summary: %q\n", *v.MostRecentSummary)
	}

	if outPath == "" {
		return nil
	}

	indices := builder.Indices()
	out := viewtape.New(tape.RunID, time.Now())
	if err := out.RecordRaw(raw); err != nil {
		return fmt.Errorf("record raw events: %w", err)
	}
	if err := out.RecordView(v, indices); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	data, err := out.Marshal()
	if err != nil {
		return fmt.Errorf("marshal tape: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write tape: %w", err)
	}
	fmt.Printf("wrote validated tape to %s\n", outPath)
	return nil
}

// =============================================================================
// Indices Command Handler
// =============================================================================

func runIndices(ctx context.Context, tapePath string, threshold int, strict bool) error {
	tape, err := loadTape(tapePath)
	if err != nil {
		return err
	}

	raw, err := tape.RawEvents()
	if err != nil {
		return fmt.Errorf("decode tape raw events: %w", err)
	}

	calc := view.NewManipulationIndexCalculator(raw, nil)

	if threshold < 0 {
		indices := calc.Indices()
		data, err := json.Marshal(indices)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	next := calc.NextIndex(threshold, strict)
	fmt.Println(next)
	return nil
}

// =============================================================================
// Serve Command Handler
// =============================================================================

func runServe(ctx context.Context, configPath, tapePath, addrOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level := parseLogLevel(cfg.Log.Level); level != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *level})))
	}
	addr := cfg.Server.Addr
	if addrOverride != "" {
		addr = addrOverride
	}

	tape, err := loadTape(tapePath)
	if err != nil {
		return err
	}
	raw, err := tape.RawEvents()
	if err != nil {
		return fmt.Errorf("decode tape raw events: %w", err)
	}

	runID := tape.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	metrics := observability.NewViewMetrics()
	insp := inspector.NewServer(runID, nil).WithMetrics(metrics)
	emitter := observability.NewEventEmitter(runID, insp)

	mux := http.NewServeMux()
	mux.Handle("/ws", insp.Handler())
	mux.Handle("/healthz", insp.HealthHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go replayBuild(ctx, emitter, metrics, runID, raw)

	fmt.Printf("dev inspector listening on %s (ws: /ws, health: /healthz)\n", addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return httpServer.Shutdown(shutdownCtx)
}

// replayBuild runs one build over raw and streams its lifecycle through
// emitter, so a freshly connected inspector client has something to see.
func replayBuild(ctx context.Context, emitter *observability.EventEmitter, metrics *observability.ViewMetrics, runID string, raw []view.Event) {
	started := time.Now()
	stats := &models.RunStats{RunID: runID, StartedAt: started}

	emitter.BuildStarted(ctx, len(raw))
	builder := view.NewBuilder(raw)
	v, err := builder.Build()
	if err != nil {
		emitter.BuildError(ctx, err, false)
		metrics.RecordBuild("error", len(raw), 0, time.Since(started).Seconds())
		return
	}
	forgotten := 0
	if v.MostRecentSummary != nil {
		forgotten = len(raw) - len(v.Validated)
	}
	emitter.BuildValidated(ctx, len(raw), len(v.Validated), forgotten, v.UnhandledCondensationRequest)

	indices := builder.Indices()
	emitter.BuildIndicesComputed(ctx, len(raw), len(indices))

	replayToolEvents(ctx, emitter, raw)

	stats.FinishedAt = time.Now()
	stats.WallTime = stats.FinishedAt.Sub(started)
	stats.Builds = 1
	stats.TotalForgotten = forgotten
	emitter.BuildFinished(ctx, stats)

	metrics.RecordBuild("ok", len(raw), len(v.Validated), stats.WallTime.Seconds())
}

// replayToolEvents walks raw for ActionEvent/ObservationEvent pairs and
// emits a view.build.tool_replayed event for each: one when the action is
// found (requested), and one when its matching observation is found
// (succeeded, failed, or denied, per the observation's kind).
func replayToolEvents(ctx context.Context, emitter *observability.EventEmitter, raw []view.Event) {
	toolNames := make(map[view.ToolCallId]string)

	for _, e := range raw {
		switch ev := e.(type) {
		case view.ActionEvent:
			toolNames[ev.ToolCallID] = ev.ToolName
			emitter.ToolReplayed(ctx, models.ToolEvent{
				ToolCallID: string(ev.ToolCallID),
				ToolName:   ev.ToolName,
				Stage:      models.ToolEventRequested,
				Input:      json.RawMessage(ev.Input),
				StartedAt:  time.Now(),
			})
		case view.ObservationEvent:
			tool := models.ToolEvent{
				ToolCallID: string(ev.ToolCallID),
				ToolName:   toolNames[ev.ToolCallID],
				Output:     ev.Content,
				FinishedAt: time.Now(),
			}
			switch ev.Kind {
			case view.ObservationUserRejected:
				tool.Stage = models.ToolEventDenied
			case view.ObservationAgentError:
				tool.Stage = models.ToolEventFailed
				tool.Error = ev.Content
			default:
				tool.Stage = models.ToolEventSucceeded
			}
			emitter.ToolReplayed(ctx, tool)
		}
	}
}

// =============================================================================
// Shared Helpers
// =============================================================================

func parseLogLevel(level string) *slog.Level {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil
	}
	return &l
}

func loadTape(path string) (*viewtape.Tape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tape %s: %w", path, err)
	}
	tape, err := viewtape.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tape %s: %w", path, err)
	}
	return tape, nil
}
