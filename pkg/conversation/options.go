package conversation

import (
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/llm"
)

// DefaultCopyReset is how long a turn stays marked as copied.
const DefaultCopyReset = 2 * time.Second

// Option configures a View.
type Option func(*View)

// WithOptions sets the request options sent with every submission.
func WithOptions(opts llm.Options) Option {
	return func(v *View) {
		v.opts = opts
	}
}

// WithClipboard sets the clipboard used by Copy. A nil clipboard disables
// copying.
func WithClipboard(cb Clipboard) Option {
	return func(v *View) {
		v.clipboard = cb
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithCopyReset sets how long a copied turn stays marked.
func WithCopyReset(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.copyReset = d
		}
	}
}

// WithLocale selects the catalog for user-facing messages.
func WithLocale(locale string) Option {
	return func(v *View) {
		v.messages = Catalog(locale)
	}
}

// WithOnChange registers a callback invoked, outside the view's lock, after
// every state change that did not come from a direct method call: request
// settlement, copy confirmation and copy reset.
func WithOnChange(fn func()) Option {
	return func(v *View) {
		v.onChange = fn
	}
}

// WithClock overrides the turn timestamp source.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}
