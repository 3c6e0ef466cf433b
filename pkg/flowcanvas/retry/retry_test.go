package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryTransient, "transient"},
		{CategoryPermanent, "permanent"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("Category(%d).String() = %s, want %s", tt.category, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"transient", Transient(errors.New("busy"), "save"), CategoryTransient},
		{"wrapped transient", fmt.Errorf("commit: %w", Transient(errors.New("busy"), "")), CategoryTransient},
		{"permanent", Permanent(errors.New("read-only"), "save"), CategoryPermanent},
		{"timeout", &TimeoutError{Operation: "save", Duration: "5s"}, CategoryTransient},
		{"deadline", fmt.Errorf("save: %w", context.DeadlineExceeded), CategoryTransient},
		{"cancelled", context.Canceled, CategoryPermanent},
		{"unknown", errors.New("unknown"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	base := errors.New("failed")
	err := &CategorizedError{Err: base, Category: CategoryTransient, Attempts: 2, Context: "save"}

	if got, want := err.Error(), "save: failed (category: transient, attempts: 2)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is should find the wrapped error")
	}

	bare := &CategorizedError{Err: base, Category: CategoryPermanent}
	if got, want := bare.Error(), "failed (category: permanent, attempts: 0)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func fastConfig(attempts int) Config {
	return New(
		WithMaxAttempts(attempts),
		WithInitialBackoff(time.Millisecond),
		WithMaxBackoff(2*time.Millisecond),
		WithJitter(0),
	)
}

func TestDo(t *testing.T) {
	t.Run("success first try", func(t *testing.T) {
		calls := 0
		attempts, err := Do(context.Background(), fastConfig(3), func(context.Context) error {
			calls++
			return nil
		})
		if err != nil || attempts != 1 || calls != 1 {
			t.Errorf("got attempts=%d calls=%d err=%v", attempts, calls, err)
		}
	})

	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		attempts, err := Do(context.Background(), fastConfig(3), func(context.Context) error {
			calls++
			if calls < 3 {
				return Transient(errors.New("busy"), "save")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("permanent stops immediately", func(t *testing.T) {
		base := errors.New("disk full")
		calls := 0
		attempts, err := Do(context.Background(), fastConfig(5), func(context.Context) error {
			calls++
			return base
		})
		if calls != 1 || attempts != 1 {
			t.Errorf("calls=%d attempts=%d, want 1", calls, attempts)
		}
		if !errors.Is(err, base) {
			t.Errorf("err = %v, want wrapping %v", err, base)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		attempts, err := Do(context.Background(), fastConfig(3), func(context.Context) error {
			calls++
			return Transient(errors.New("busy"), "")
		})
		if calls != 3 || attempts != 3 {
			t.Errorf("calls=%d attempts=%d, want 3", calls, attempts)
		}
		var ce *CategorizedError
		if !errors.As(err, &ce) || ce.Context != "max retries exceeded" {
			t.Errorf("err = %v, want max retries exceeded", err)
		}
	})

	t.Run("custom retryable func", func(t *testing.T) {
		calls := 0
		cfg := fastConfig(4)
		cfg.RetryableFunc = func(error) bool { return true }
		_, err := Do(context.Background(), cfg, func(context.Context) error {
			calls++
			return errors.New("anything")
		})
		if err == nil || calls != 4 {
			t.Errorf("calls=%d err=%v, want 4 calls and an error", calls, err)
		}
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_, _ = Do(context.Background(), Config{}, func(context.Context) error {
			calls++
			return nil
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	attempts, err := Do(ctx, fastConfig(3), func(context.Context) error {
		calls++
		return nil
	})
	if calls != 0 || attempts != 0 {
		t.Errorf("calls=%d attempts=%d, want 0", calls, attempts)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWithRetryContext_ReturnsValue(t *testing.T) {
	res := WithRetryContext(context.Background(), fastConfig(2), func(context.Context) (int, error) {
		return 42, nil
	})
	if res.Err != nil || res.Value != 42 || res.Attempts != 1 {
		t.Errorf("got %+v", res)
	}
}

func TestNew(t *testing.T) {
	cfg := New(WithMaxAttempts(7))
	if cfg.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != Default.InitialBackoff {
		t.Errorf("InitialBackoff = %v, want default", cfg.InitialBackoff)
	}
}
