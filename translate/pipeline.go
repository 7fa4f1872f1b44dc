package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deeploc/deeploc/jsonfile"
)

// LanguageChecker answers whether a target language is accepted by the
// provider. *deepl.Client satisfies it.
type LanguageChecker interface {
	IsSupportedTargetLanguage(ctx context.Context, code string) (bool, error)
}

// Totals accumulates run-level statistics across all processed files.
type Totals struct {
	Files   int
	Phrases int
	Words   int
}

// DirOptions controls a directory translation run.
type DirOptions struct {
	// TargetDir overrides the default output directory (a sibling of
	// the source directory named after the lowercased language code).
	TargetDir string
	// Indent forces an output indentation width; 0 sniffs it from each
	// source file.
	Indent int
	// OnFileDone is called after each file is written, with the output
	// counts for that file.
	OnFileDone func(inPath, outPath string, words, phrases int)
	// OnLog and OnError receive run-level messages.
	OnLog   func(format string, args ...any)
	OnError func(format string, args ...any)
}

func (o *DirOptions) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *DirOptions) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	}
}

// TranslateDirectory translates every .json file in srcDir into
// targetLang and writes the results into the target directory, keeping
// each source file's indentation width. Language support and source
// directory validity are checked once up front and abort the run; any
// later per-file failure (unreadable file, malformed JSON, non-object
// top level, unwritable output) only skips that file.
//
// The returned Totals count words and phrases of the written output
// documents; a run that found no eligible files returns Totals{} and a
// nil error.
func TranslateDirectory(ctx context.Context, eng *Engine, checker LanguageChecker, srcDir, targetLang string, opts DirOptions) (*Totals, error) {
	supported, err := checker.IsSupportedTargetLanguage(ctx, targetLang)
	if err != nil {
		return nil, fmt.Errorf("checking language support: %w", err)
	}
	if !supported {
		return nil, fmt.Errorf("language code %q is not supported by DeepL", targetLang)
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", srcDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s: not a directory", srcDir)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", srcDir, err)
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		parent := filepath.Dir(filepath.Clean(srcDir))
		targetDir = filepath.Join(parent, strings.ToLower(targetLang))
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("creating target directory %s: %w", targetDir, err)
	}

	totals := &Totals{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		inPath := filepath.Join(srcDir, entry.Name())
		outPath := filepath.Join(targetDir, entry.Name())

		value, err := jsonfile.ParseFile(inPath)
		if err != nil {
			opts.logError("%v", err)
			continue
		}
		if _, ok := value.(jsonfile.Object); !ok {
			opts.logError("%s: top-level value is not a JSON object, skipping", inPath)
			continue
		}

		totals.Files++
		translated := eng.Translate(ctx, value, targetLang)

		indent := opts.Indent
		if indent <= 0 {
			indent = jsonfile.DetectIndent(inPath)
		}
		if err := jsonfile.WriteFile(outPath, translated, indent); err != nil {
			opts.logError("%v", err)
			continue
		}

		phrases, words := Count(translated)
		totals.Phrases += phrases
		totals.Words += words
		if opts.OnFileDone != nil {
			opts.OnFileDone(inPath, outPath, words, phrases)
		}
	}

	return totals, nil
}
