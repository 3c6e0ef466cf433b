package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/config"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/llm"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/retry"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/sizing"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

// env is what every command needs: settings plus the objects built from
// them.
type env struct {
	settings config.Settings
	logger   *slog.Logger
	sizer    *sizing.Engine
	measurer *sizing.FontMeasurer
	store    store.Store
}

func newLogger(w io.Writer, s config.LogSettings) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.SlogLevel()}
	if strings.EqualFold(s.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newSizing builds the sizing engine from settings. The font measurer is
// returned so the caller can close it.
func newSizing(s config.SizingSettings, logger *slog.Logger) (*sizing.Engine, *sizing.FontMeasurer, error) {
	rules := sizing.DefaultRules
	rules.MinWidth = s.MinWidth
	rules.MaxWidth = s.MaxWidth
	rules.MinHeight = s.MinHeight

	opts := []sizing.Option{sizing.WithDefaultRules(rules), sizing.WithLogger(logger)}
	var fm *sizing.FontMeasurer
	if s.Measurer == "font" {
		var err error
		fm, err = sizing.NewFontMeasurer(s.FontSize)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, sizing.WithMeasurer(fm))
	}
	return sizing.NewEngine(opts...), fm, nil
}

func setup(o *rootOptions) (*env, error) {
	settings, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.driver != "" {
		settings.Store.Driver = o.driver
	}
	if o.dbPath != "" {
		settings.Store.Path = o.dbPath
	}
	if o.verbose {
		settings.Log.Level = "debug"
	}

	e := &env{settings: settings, logger: newLogger(os.Stderr, settings.Log)}
	e.sizer, e.measurer, err = newSizing(settings.Sizing, e.logger)
	if err != nil {
		return nil, err
	}
	e.store, err = store.Open(settings.Store.Driver, settings.Store.Path)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.measurer != nil {
		_ = e.measurer.Close()
	}
}

func (e *env) suggester() suggest.Service {
	s := e.settings.Suggest
	client := llm.NewClaudeCLI(
		llm.WithClaudePath(s.ClaudePath),
		llm.WithModel(s.Model),
		llm.WithTimeout(s.Timeout),
	)
	return suggest.NewLLMService(client, suggest.WithLogger(e.logger))
}

// open opens a canvas on documentID with settings applied.
func (e *env) open(ctx context.Context, documentID string, extra ...flowcanvas.Option) (*flowcanvas.Canvas, error) {
	a := e.settings.Autosave
	l := e.settings.Layout
	opts := []flowcanvas.Option{
		flowcanvas.WithLogger(e.logger),
		flowcanvas.WithSizing(e.sizer),
		flowcanvas.WithAutosaveDelay(a.Delay),
		flowcanvas.WithRetry(retry.New(
			retry.WithMaxAttempts(a.RetryAttempts),
			retry.WithInitialBackoff(a.RetryBackoff),
		)),
		flowcanvas.WithPlacement(suggest.Placement{
			StartX: l.StartX, StartY: l.StartY, ColumnOffset: l.ColumnOffset, Gap: l.Gap,
		}),
	}
	return flowcanvas.Open(ctx, e.store, documentID, append(opts, extra...)...)
}
