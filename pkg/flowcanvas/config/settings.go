package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Settings is the typed configuration of a canvas process.
type Settings struct {
	Autosave AutosaveSettings
	Sizing   SizingSettings
	Layout   LayoutSettings
	Store    StoreSettings
	Suggest  SuggestSettings
	Log      LogSettings
}

// AutosaveSettings configures the debounced commit.
type AutosaveSettings struct {
	Delay         time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

// SizingSettings configures node sizing for non-note kinds.
type SizingSettings struct {
	// Measurer is "font" or "heuristic".
	Measurer  string
	FontSize  float64
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
}

// LayoutSettings configures placement of suggested nodes.
type LayoutSettings struct {
	StartX       float64
	StartY       float64
	ColumnOffset float64
	Gap          float64
}

// StoreSettings selects the document store.
type StoreSettings struct {
	// Driver is a registered store driver name, "memory" or "sqlite".
	Driver string
	Path   string
}

// SuggestSettings configures the suggestion backend.
type SuggestSettings struct {
	ClaudePath string
	Model      string
	Timeout    time.Duration
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level  string
	Format string
}

// Default returns the reference configuration.
func Default() Settings {
	return Settings{
		Autosave: AutosaveSettings{
			Delay:         30 * time.Second,
			RetryAttempts: 3,
			RetryBackoff:  200 * time.Millisecond,
		},
		Sizing: SizingSettings{
			Measurer:  "font",
			FontSize:  14,
			MinWidth:  200,
			MaxWidth:  800,
			MinHeight: 100,
		},
		Layout: LayoutSettings{
			StartX:       100,
			StartY:       100,
			ColumnOffset: 300,
			Gap:          50,
		},
		Store: StoreSettings{
			Driver: "sqlite",
			Path:   "flowcanvas.db",
		},
		Suggest: SuggestSettings{
			ClaudePath: "claude",
			Timeout:    2 * time.Minute,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load overlays v onto Default.
func Load(v Values) Settings {
	s := Default()

	a := v.Section("autosave")
	s.Autosave.Delay = a.Duration("delay", s.Autosave.Delay)
	s.Autosave.RetryAttempts = a.Int("retry_attempts", s.Autosave.RetryAttempts)
	s.Autosave.RetryBackoff = a.Duration("retry_backoff", s.Autosave.RetryBackoff)

	z := v.Section("sizing")
	s.Sizing.Measurer = z.String("measurer", s.Sizing.Measurer)
	s.Sizing.FontSize = z.Float("font_size", s.Sizing.FontSize)
	s.Sizing.MinWidth = z.Float("min_width", s.Sizing.MinWidth)
	s.Sizing.MaxWidth = z.Float("max_width", s.Sizing.MaxWidth)
	s.Sizing.MinHeight = z.Float("min_height", s.Sizing.MinHeight)

	l := v.Section("layout")
	s.Layout.StartX = l.Float("start_x", s.Layout.StartX)
	s.Layout.StartY = l.Float("start_y", s.Layout.StartY)
	s.Layout.ColumnOffset = l.Float("column_offset", s.Layout.ColumnOffset)
	s.Layout.Gap = l.Float("gap", s.Layout.Gap)

	st := v.Section("store")
	s.Store.Driver = st.String("driver", s.Store.Driver)
	s.Store.Path = st.String("path", s.Store.Path)

	sg := v.Section("suggest")
	s.Suggest.ClaudePath = sg.String("claude_path", s.Suggest.ClaudePath)
	s.Suggest.Model = sg.String("model", s.Suggest.Model)
	s.Suggest.Timeout = sg.Duration("timeout", s.Suggest.Timeout)

	lg := v.Section("log")
	s.Log.Level = lg.String("level", s.Log.Level)
	s.Log.Format = lg.String("format", s.Log.Format)

	return s
}

// LoadFile reads a settings file. An empty path yields Default.
func LoadFile(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}
	v, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s := Load(v)
	return s, s.Validate()
}

// Validate reports settings that no component can run with.
func (s Settings) Validate() error {
	switch {
	case s.Autosave.Delay <= 0:
		return fmt.Errorf("autosave.delay must be positive, got %s", s.Autosave.Delay)
	case s.Sizing.MinWidth <= 0 || s.Sizing.MaxWidth < s.Sizing.MinWidth:
		return fmt.Errorf("sizing width bounds invalid: [%g, %g]", s.Sizing.MinWidth, s.Sizing.MaxWidth)
	case s.Sizing.MinHeight <= 0:
		return fmt.Errorf("sizing.min_height must be positive, got %g", s.Sizing.MinHeight)
	case s.Sizing.Measurer != "font" && s.Sizing.Measurer != "heuristic":
		return fmt.Errorf("sizing.measurer must be font or heuristic, got %q", s.Sizing.Measurer)
	}
	return nil
}

// SlogLevel returns the slog level named by Level, defaulting to info.
func (l LogSettings) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
