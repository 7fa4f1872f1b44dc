package translate

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deeploc/deeploc/deepl"
	"github.com/deeploc/deeploc/jsonfile"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// fakeClient maps protected source texts to canned translations.
type fakeClient struct {
	replies map[string]string
	billed  int
	err     error
	calls   []string
}

func (f *fakeClient) TranslateText(ctx context.Context, text, targetLang, hint string) (*deepl.Translation, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	out, ok := f.replies[text]
	if !ok {
		out = text
	}
	return &deepl.Translation{Text: out, BilledCharacters: f.billed}, nil
}

// noSleep records requested backoff delays without waiting.
func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func mustParse(t *testing.T, data string) jsonfile.Value {
	t.Helper()
	v, err := jsonfile.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parsing test document: %v", err)
	}
	return v
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

func TestTranslate_SimulationIsIdentity(t *testing.T) {
	doc := `{
    "greeting": "Hello {{name}}!",
    "items": ["one", "two {{n}}", 3, true, null],
    "nested": {"blank": "   ", "empty": ""}
}`
	value := mustParse(t, doc)

	eng := NewEngine(&fakeClient{}, Options{Simulate: true})
	got := eng.Translate(context.Background(), value, "DE")

	if !bytes.Equal(jsonfile.Marshal(got, 4), jsonfile.Marshal(value, 4)) {
		t.Errorf("simulated output differs from input:\n%s", jsonfile.Marshal(got, 4))
	}
	if eng.BilledCharacters() != 0 {
		t.Errorf("billed = %d, want 0 in simulation", eng.BilledCharacters())
	}
}

func TestTranslate_PlaceholderRoundTrip(t *testing.T) {
	value := mustParse(t, `{"greeting": "Hello {{name}}!"}`)

	client := &fakeClient{
		replies: map[string]string{"Hello @@0@@!": "Hallo @@0@@!"},
		billed:  13,
	}
	eng := NewEngine(client, Options{})
	got := eng.Translate(context.Background(), value, "DE")

	obj, ok := got.(jsonfile.Object)
	if !ok || len(obj) != 1 {
		t.Fatalf("unexpected result shape: %#v", got)
	}
	if obj[0].Value != jsonfile.String("Hallo {{name}}!") {
		t.Errorf("leaf = %#v, want restored placeholder", obj[0].Value)
	}
	if eng.BilledCharacters() != 13 {
		t.Errorf("billed = %d, want 13", eng.BilledCharacters())
	}
}

func TestTranslate_StructurePreserved(t *testing.T) {
	doc := `{"b": [1, "x", {"inner": null}], "a": 2.50, "c": false}`
	value := mustParse(t, doc)

	eng := NewEngine(&fakeClient{replies: map[string]string{"x": "y"}}, Options{})
	got := eng.Translate(context.Background(), value, "FR")

	want := `{"b": [1, "y", {"inner": null}], "a": 2.50, "c": false}`
	if string(jsonfile.Marshal(got, 0)) != string(jsonfile.Marshal(mustParse(t, want), 0)) {
		t.Errorf("got:\n%s", jsonfile.Marshal(got, 4))
	}
}

func TestTranslate_BlankLeavesSkipRemoteCall(t *testing.T) {
	value := mustParse(t, `{"a": "", "b": "  \t ", "c": 5}`)

	client := &fakeClient{}
	eng := NewEngine(client, Options{})
	eng.Translate(context.Background(), value, "DE")

	if len(client.calls) != 0 {
		t.Errorf("remote called %d times for untranslatable leaves", len(client.calls))
	}
}

func TestTranslate_RetryExhaustionKeepsOriginal(t *testing.T) {
	value := mustParse(t, `{"greeting": "Hello"}`)

	var delays []time.Duration
	client := &fakeClient{err: errors.New("provider down")}
	eng := NewEngine(client, Options{Sleep: noSleep(&delays)})
	got := eng.Translate(context.Background(), value, "DE")

	if len(client.calls) != 5 {
		t.Errorf("attempts = %d, want 5", len(client.calls))
	}
	if got.(jsonfile.Object)[0].Value != jsonfile.String("Hello") {
		t.Errorf("leaf = %#v, want original text kept", got.(jsonfile.Object)[0].Value)
	}
	if eng.BilledCharacters() != 0 {
		t.Errorf("billed = %d, want 0 after total failure", eng.BilledCharacters())
	}
}

func TestTranslate_BackoffSequence(t *testing.T) {
	var delays []time.Duration
	client := &fakeClient{err: errors.New("provider down")}
	eng := NewEngine(client, Options{Sleep: noSleep(&delays)})

	eng.Translate(context.Background(), mustParse(t, `{"a": "text"}`), "DE")

	want := []time.Duration{1 * time.Second, 5 * time.Second, 25 * time.Second, 60 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestTranslate_FailureIsLeafLocal(t *testing.T) {
	value := mustParse(t, `{"bad": "fail me", "good": "hello"}`)

	var delays []time.Duration
	client := &failOnceClient{failText: "fail me"}
	eng := NewEngine(client, Options{Sleep: noSleep(&delays)})
	got := eng.Translate(context.Background(), value, "DE").(jsonfile.Object)

	if got[0].Value != jsonfile.String("fail me") {
		t.Errorf("failed leaf = %#v, want original", got[0].Value)
	}
	if got[1].Value != jsonfile.String("HELLO") {
		t.Errorf("good leaf = %#v, want translated", got[1].Value)
	}
}

// failOnceClient always fails one specific text and uppercases the rest.
type failOnceClient struct {
	failText string
}

func (f *failOnceClient) TranslateText(ctx context.Context, text, targetLang, hint string) (*deepl.Translation, error) {
	if text == f.failText {
		return nil, errors.New("boom")
	}
	return &deepl.Translation{Text: strings.ToUpper(text), BilledCharacters: len(text)}, nil
}

func TestTranslate_ProgressStripsControlChars(t *testing.T) {
	var sources, targets []string
	client := &fakeClient{replies: map[string]string{"a\nb\tc": "x\ry"}}
	eng := NewEngine(client, Options{
		OnProgress: func(src, dst string) {
			sources = append(sources, src)
			targets = append(targets, dst)
		},
	})

	eng.Translate(context.Background(), mustParse(t, `{"k": "a\nb\tc"}`), "DE")

	if len(sources) != 1 || sources[0] != "abc" {
		t.Errorf("progress sources = %q, want [abc]", sources)
	}
	if len(targets) != 1 || targets[0] != "xy" {
		t.Errorf("progress targets = %q, want [xy]", targets)
	}
}

// ---------------------------------------------------------------------------
// Count
// ---------------------------------------------------------------------------

func TestCount_BlankLeavesContributeNothing(t *testing.T) {
	value := mustParse(t, `{"a": "hello world", "b": "  "}`)

	phrases, words := Count(value)
	if phrases != 1 || words != 2 {
		t.Errorf("Count = (%d, %d), want (1, 2)", phrases, words)
	}
}

func TestCount_Recursive(t *testing.T) {
	value := mustParse(t, `{
	    "a": ["one two", {"b": "three"}],
	    "n": 42,
	    "ok": true,
	    "c": "four five six"
	}`)

	phrases, words := Count(value)
	if phrases != 3 || words != 6 {
		t.Errorf("Count = (%d, %d), want (3, 6)", phrases, words)
	}
}

// ---------------------------------------------------------------------------
// Progress line
// ---------------------------------------------------------------------------

func TestFormatProgressLine_PadsShortExcerpts(t *testing.T) {
	got := FormatProgressLine("abc", "def")
	want := " " + strings.Repeat(" ", 47) + "abc → def" + strings.Repeat(" ", 47)
	if got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestFormatProgressLine_TruncatesLongExcerpts(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := FormatProgressLine(long, long)

	if !strings.Contains(got, strings.Repeat("x", 47)+"...") {
		t.Errorf("long excerpt not truncated with ellipsis: %q", got)
	}
	if strings.Contains(got, strings.Repeat("x", 48)) {
		t.Errorf("excerpt exceeds display width: %q", got)
	}
}
