// Package translate implements the recursive JSON document translation
// engine: it walks a parsed JSON value, translates every translatable
// string leaf through a remote provider with placeholder protection and
// capped retry backoff, and accumulates billed-character usage. It also
// provides the directory pipeline that drives the engine over a folder
// of localization files.
package translate

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/deeploc/deeploc/deepl"
	"github.com/deeploc/deeploc/jsonfile"
	"github.com/deeploc/deeploc/placeholder"
)

// Client is the remote translation capability used by the Engine.
// *deepl.Client satisfies it.
type Client interface {
	TranslateText(ctx context.Context, text, targetLang, hint string) (*deepl.Translation, error)
}

// Retry policy for a single leaf: five attempts, sleeping 1s, 5s, 25s,
// 60s between failures (multiplicative backoff with a hard ceiling).
const (
	maxAttempts   = 5
	backoffStart  = 1 * time.Second
	backoffFactor = 5
	backoffCap    = 60 * time.Second
)

// Options controls the engine's behavior.
type Options struct {
	// Simulate skips all remote calls; every leaf round-trips through
	// placeholder protection unchanged and nothing is billed.
	Simulate bool
	// Hint is free-text translation context (domain, audience) passed
	// through to the provider with every request.
	Hint string
	// Sleep is the backoff delay function. Nil means a real
	// context-aware sleep; tests inject a recorder.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnProgress is called once per translated leaf with the protected
	// source text and the provider's output, control characters
	// stripped.
	OnProgress func(source, target string)
	// OnLog emits informational messages (retry announcements).
	OnLog func(format string, args ...any)
	// OnError emits error messages for failed attempts.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// Engine translates JSON values leaf by leaf through a Client. One
// engine spans a whole run; its billed-character counter accumulates
// across every document it translates.
type Engine struct {
	client Client
	opts   Options
	billed int64 // atomic
}

// NewEngine creates an engine for one run.
func NewEngine(client Client, opts Options) *Engine {
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Engine{client: client, opts: opts}
}

// BilledCharacters returns the characters billed by the provider so far.
func (e *Engine) BilledCharacters() int64 {
	return atomic.LoadInt64(&e.billed)
}

// Translate rebuilds value with every translatable string leaf replaced
// by its translation into targetLang. Objects and arrays are mirrored
// 1:1; non-string scalars and blank strings pass through untouched.
// Remote failures are absorbed per leaf (the original text is kept), so
// Translate itself never fails.
func (e *Engine) Translate(ctx context.Context, value jsonfile.Value, targetLang string) jsonfile.Value {
	switch v := value.(type) {
	case jsonfile.Object:
		out := make(jsonfile.Object, 0, len(v))
		for _, m := range v {
			out = append(out, jsonfile.Member{Key: m.Key, Value: e.Translate(ctx, m.Value, targetLang)})
		}
		return out

	case jsonfile.Array:
		out := make(jsonfile.Array, 0, len(v))
		for _, item := range v {
			out = append(out, e.Translate(ctx, item, targetLang))
		}
		return out

	case jsonfile.String:
		if strings.TrimSpace(string(v)) == "" {
			return v
		}
		return jsonfile.String(e.translateLeaf(ctx, string(v), targetLang))

	default: // jsonfile.Literal
		return value
	}
}

// translateLeaf runs the leaf translation protocol: protect markers,
// translate (or echo under simulation), restore markers. After five
// failed attempts the original text is returned unchanged.
func (e *Engine) translateLeaf(ctx context.Context, text, targetLang string) string {
	protected, tokens := placeholder.Protect(text)

	if e.opts.Simulate {
		e.progress(protected, protected)
		return placeholder.Restore(protected, tokens)
	}

	delay := backoffStart
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := e.client.TranslateText(ctx, protected, targetLang, e.opts.Hint)
		if err == nil {
			atomic.AddInt64(&e.billed, int64(result.BilledCharacters))
			e.progress(protected, result.Text)
			return placeholder.Restore(result.Text, tokens)
		}

		e.opts.logError("Translation failed: %v", err)
		if attempt == maxAttempts {
			e.opts.logError("Maximum retry attempts reached, keeping original text")
			break
		}

		e.opts.log("Retrying in %v...", delay)
		if e.opts.Sleep(ctx, delay) != nil {
			break // canceled
		}
		delay = min(delay*backoffFactor, backoffCap)
	}
	return text
}

// controlChars strips characters that would corrupt a single-line
// carriage-return redraw.
var controlChars = strings.NewReplacer("\r", "", "\n", "", "\t", "")

func (e *Engine) progress(source, target string) {
	if e.opts.OnProgress == nil {
		return
	}
	e.opts.OnProgress(controlChars.Replace(source), controlChars.Replace(target))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
