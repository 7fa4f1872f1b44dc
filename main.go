// deeploc — translates JSON localization bundles with the DeepL API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/deeploc/deeploc/auth"
	"github.com/deeploc/deeploc/config"
	"github.com/deeploc/deeploc/deepl"
	"github.com/deeploc/deeploc/i18n"
	"github.com/deeploc/deeploc/translate"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// clearProgressLine erases the in-place progress line before a normal
// log line is printed.
func clearProgressLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", translate.ProgressLineWidth))
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deeploc",
		Short: "Translate JSON localization bundles with DeepL",
		Long: `deeploc — translate JSON localization bundles with the DeepL API.

Reads every .json file from a source directory, translates all string
values while preserving key order, nesting, and {{placeholder}} markers,
and writes the results into a sibling directory named after the target
language.

Commands:
  translate   Translate a directory of JSON files
  languages   List languages supported by the DeepL API
  usage       Show DeepL account usage and quota
  auth        Manage the DeepL API key`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newLanguagesCmd(),
		newUsageCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		clearProgressLine()
		logWarning("Interrupted, finishing current file...")
		cancel()
	}()

	return ctx, cancel
}

// resolveClient builds a DeepL client from the best available API key.
func resolveClient(flagKey string) (*deepl.Client, error) {
	key, source := auth.ResolveKey(flagKey)
	if key == "" {
		return nil, fmt.Errorf("%s", i18n.T("No API key found. Set DEEPL_API_KEY or run 'deeploc auth login'."))
	}
	if source == "keyring" {
		logInfo("Using API key from OS keyring")
	}
	return deepl.New(key), nil
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateArgs struct {
	authKey   string
	context   string
	targetDir string
	indent    int
	simulate  bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate [source_dir] [target_lang...]",
		Short: "Translate a directory of JSON files",
		Long: `Translate every .json file in a directory into one or more target
languages.

Each output file keeps the key order, nesting, and indentation of its
source, and {{placeholder}} markers survive translation untouched.
Translated files are written to a sibling directory named after the
target language (e.g. translations/en -> translations/de) unless
--target-dir is given.

Defaults for the source directory, target languages, translation
context, and indentation can be set in a .deeploc.yaml file in the
working directory; command-line arguments override it.

Examples:
  deeploc translate translations/en de
  deeploc translate translations/en de fr it
  deeploc translate --simulate translations/en de
  deeploc translate --context "railway scheduling UI" translations/en de`,
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(a, args)
		},
	}

	cmd.Flags().StringVar(&a.authKey, "auth-key", "", "DeepL API key (overrides env and keyring)")
	cmd.Flags().StringVar(&a.context, "context", "", "Context hint passed to DeepL for better translations")
	cmd.Flags().StringVar(&a.targetDir, "target-dir", "", "Output directory (default: sibling dir named after the language)")
	cmd.Flags().IntVar(&a.indent, "indent", 0, "Output indentation in spaces (default: detected per file)")
	cmd.Flags().BoolVar(&a.simulate, "simulate", false, "Walk the files without calling the API or billing characters")

	return cmd
}

func runTranslate(a translateArgs, args []string) {
	cfg, err := config.Load(".")
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	srcDir := ""
	var langs []string
	if len(args) > 0 {
		srcDir = args[0]
		langs = args[1:]
	}
	srcDir, langs = applyConfig(&a, cfg, srcDir, langs)

	if srcDir == "" {
		logError("No source directory. Pass it as an argument or set source_dir in %s.", config.FileName)
		os.Exit(1)
	}
	if len(langs) == 0 {
		logError("No target languages. Pass them as arguments or set languages in %s.", config.FileName)
		os.Exit(1)
	}
	if a.targetDir != "" && len(langs) > 1 {
		logError("--target-dir only works with a single target language.")
		os.Exit(1)
	}

	client, err := resolveClient(a.authKey)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	if a.simulate {
		logInfo(i18n.T("Simulation mode: no characters will be billed."))
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	logInfo(i18n.T("Starting at %s"), start.Format("15:04:05"))

	exitCode := 0
	for _, lang := range langs {
		if ctx.Err() != nil {
			break
		}
		if !translateLanguage(ctx, client, srcDir, lang, a) {
			exitCode = 1
		}
	}

	end := time.Now()
	logInfo(i18n.T("Finishing at %s"), end.Format("15:04:05"))
	logInfo("Elapsed: %s", end.Sub(start).Round(time.Second))

	if ctx.Err() != nil {
		os.Exit(130)
	}
	os.Exit(exitCode)
}

// applyConfig fills unset arguments from a .deeploc.yaml file.
// Command-line values always win.
func applyConfig(a *translateArgs, cfg *config.File, srcDir string, langs []string) (string, []string) {
	if cfg == nil {
		return srcDir, langs
	}

	if srcDir == "" {
		srcDir = cfg.SourceDir
	}
	if len(langs) == 0 {
		langs = cfg.Languages
	}
	if a.context == "" {
		a.context = cfg.Context
	}
	if a.targetDir == "" {
		a.targetDir = cfg.TargetDir
	}
	if a.indent == 0 {
		a.indent = cfg.Indent
	}
	if cfg.Simulate {
		a.simulate = true
	}

	return srcDir, langs
}

func translateLanguage(ctx context.Context, client *deepl.Client, srcDir, lang string, a translateArgs) bool {
	logInfo(i18n.T("Translating %s into %s..."), srcDir, strings.ToUpper(lang))

	eng := translate.NewEngine(client, translate.Options{
		Simulate: a.simulate,
		Hint:     a.context,
		OnProgress: func(source, target string) {
			fmt.Fprintf(os.Stderr, "\r%s", translate.FormatProgressLine(source, target))
		},
		OnLog: func(format string, args ...any) {
			clearProgressLine()
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			clearProgressLine()
			logError(format, args...)
		},
	})

	totals, err := translate.TranslateDirectory(ctx, eng, client, srcDir, lang, translate.DirOptions{
		TargetDir: a.targetDir,
		Indent:    a.indent,
		OnFileDone: func(inPath, outPath string, words, phrases int) {
			clearProgressLine()
			logSuccess(i18n.T("Translated: %s → %s | Words: %d | Phrases: %d"), inPath, outPath, words, phrases)
		},
		OnLog: func(format string, args ...any) {
			clearProgressLine()
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			clearProgressLine()
			logError(format, args...)
		},
	})
	if err != nil {
		clearProgressLine()
		logError("%s: %v", strings.ToUpper(lang), err)
		return false
	}

	clearProgressLine()
	if totals.Files == 0 {
		logWarning(i18n.T("No JSON files found in the source directory."))
		return true
	}

	logSuccess(i18n.T("Total characters billed: %d | Words: %d | Phrases: %d | Files: %d"),
		eng.BilledCharacters(), totals.Words, totals.Phrases, totals.Files)
	return true
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	var langType string
	var authKey string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages supported by the DeepL API",
		Long: `List source or target languages supported by the DeepL API.

Examples:
  deeploc languages
  deeploc languages --type source`,
		Run: func(cmd *cobra.Command, args []string) {
			client, err := resolveClient(authKey)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			ctx, cancel := signalContext()
			defer cancel()

			var langs []deepl.Language
			switch langType {
			case "target":
				langs, err = client.TargetLanguages(ctx)
			case "source":
				langs, err = client.SourceLanguages(ctx)
			default:
				logError("Invalid --type %q. Use 'target' or 'source'.", langType)
				os.Exit(1)
			}
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			fmt.Fprintf(os.Stderr, "%s%d %s languages%s\n", colorBlue, len(langs), langType, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 40))
			for _, l := range langs {
				fmt.Printf("  %-8s %s\n", l.Language, l.Name)
			}
		},
	}

	cmd.Flags().StringVar(&langType, "type", "target", "Language list to fetch: target or source")
	cmd.Flags().StringVar(&authKey, "auth-key", "", "DeepL API key (overrides env and keyring)")

	return cmd
}

// ---------------------------------------------------------------------------
// usage
// ---------------------------------------------------------------------------

func newUsageCmd() *cobra.Command {
	var authKey string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show DeepL account usage and quota",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := resolveClient(authKey)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			ctx, cancel := signalContext()
			defer cancel()

			usage, err := client.Usage(ctx)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			percent := 0.0
			if usage.CharacterLimit > 0 {
				percent = float64(usage.CharacterCount) * 100 / float64(usage.CharacterLimit)
			}

			fmt.Printf("Characters used:  %d\n", usage.CharacterCount)
			fmt.Printf("Character limit:  %d\n", usage.CharacterLimit)
			fmt.Printf("Quota used:       %.1f%%\n", percent)
		},
	}

	cmd.Flags().StringVar(&authKey, "auth-key", "", "DeepL API key (overrides env and keyring)")

	return cmd
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the DeepL API key",
		Long: `Manage the DeepL API key stored in the OS keyring.

The key can also be supplied via the DEEPL_API_KEY environment variable,
a .env file in the working directory, or the --auth-key flag; those take
priority over the keyring.

Examples:
  deeploc auth login      Store an API key in the OS keyring
  deeploc auth status     Show where the key comes from
  deeploc auth logout     Remove the key from the OS keyring`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a DeepL API key in the OS keyring",
		Run: func(cmd *cobra.Command, args []string) {
			key, err := auth.PromptKey("DeepL API key: ")
			if err != nil {
				logError("Reading key: %v", err)
				os.Exit(1)
			}
			if key == "" {
				logError("Empty key, nothing stored")
				os.Exit(1)
			}

			// Verify the key before storing it.
			client := deepl.New(key)
			if _, err := client.Usage(context.Background()); err != nil {
				logError("Key verification failed: %v", err)
				os.Exit(1)
			}

			if err := auth.SaveKey(key); err != nil {
				logError("Storing key: %v", err)
				os.Exit(1)
			}
			logSuccess("API key stored (%s)", auth.MaskKey(key))
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the DeepL API key from the OS keyring",
		Run: func(cmd *cobra.Command, args []string) {
			if err := auth.DeleteKey(); err != nil {
				logError("Removing key: %v", err)
				os.Exit(1)
			}
			logSuccess("API key removed")
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the DeepL API key comes from",
		Run: func(cmd *cobra.Command, args []string) {
			key, source := auth.ResolveKey("")
			if key == "" {
				logWarning(i18n.T("No API key found. Set DEEPL_API_KEY or run 'deeploc auth login'."))
				return
			}
			logInfo("API key %s (from %s)", auth.MaskKey(key), source)
			if auth.Stored() && source != "keyring" {
				logInfo("A key is also stored in the OS keyring but is shadowed by %s", source)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deeploc version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
