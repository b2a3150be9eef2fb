package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mcncl/pytyper/internal/analyzer"
	"github.com/mcncl/pytyper/internal/config"
	"github.com/mcncl/pytyper/internal/errors"
	"github.com/mcncl/pytyper/internal/generator"
	"github.com/mcncl/pytyper/internal/models"
	"github.com/mcncl/pytyper/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string `help:"URL to fetch JSON from (http or https only)." short:"u"`
	Output      string `help:"Path to output Python file or directory. If not specified, writes to stdout." short:"o" type:"path"`
	RootName    string `help:"Key the root class is named after (default: payload)." short:"r"`
	Style       string `help:"Field name style: underscore or camelcase." short:"s"`
	Nested      bool   `help:"Generate classes for nested objects." negatable:"" default:"true"`
	FromJSON    bool   `help:"Generate a from_json classmethod on every class." name:"from-json" negatable:"" default:"true"`
	Config      string `help:"Path to a YAML config file. Defaults to .pytyper.yml found in the current or a parent directory." short:"c" type:"path"`
	Diff        bool   `help:"Show a diff against the existing --output file instead of writing it."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

var errorColor = color.New(color.FgRed)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("pytyper"),
		kong.Description("A tool to generate Python classes from JSON samples"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// kong.UsageOnError has already printed the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("pytyper version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	debug := CLI.Debug || cfg.Dev.Debug
	rt := &Context{
		Debug:  debug,
		Config: cfg,
		Logger: newLogger(os.Stderr, debug),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, rt); err != nil {
		stop()
		fail(err)
	}
}

func fail(err error) {
	_, _ = errorColor.Fprintln(os.Stderr, errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: pytyper --help\n")
	os.Exit(1)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig merges the config file, if any, with command line flags.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(path, overrides())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// overrides maps CLI flags onto config overrides. The negatable flags
// default to true, so only their negated form overrides the config file.
func overrides() config.Overrides {
	o := config.Overrides{
		RootName: CLI.RootName,
		Style:    CLI.Style,
		Debug:    CLI.Debug,
	}
	if !CLI.Nested {
		o.IncludeNested = &CLI.Nested
	}
	if !CLI.FromJSON {
		o.IncludeDeserializer = &CLI.FromJSON
	}
	return o
}

// run executes the main program logic
func run(ctx context.Context, rt *Context) error {
	cfg := rt.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := rt.Logger
	if logger == nil {
		logger = newLogger(io.Discard, rt.Debug)
	}

	// 1. Parse JSON input
	ir, err := parseInput(ctx)
	if err != nil {
		return err
	}
	logger.Debug("parsed input", "root_is_array", ir.RootIsArray)

	// 2. Infer the schema
	root, err := analyzer.NewAnalyzerWithConfig(cfg, logger).Analyze(ir, cfg.RootName)
	if err != nil {
		return errors.NewAnalysisError("failed to infer schema", err)
	}

	// 3. Generate Python classes
	code, err := generator.NewGeneratorWithConfig(cfg, logger).Generate(root, cfg.Output.IncludeNested, cfg.Output.IncludeDeserializer)
	if err != nil {
		return errors.NewGenerateError("failed to generate classes", err)
	}

	// 4. Output the result
	return writeOutput(cfg, code)
}

// parseInput reads JSON from a file, a URL or stdin
func parseInput(ctx context.Context) (models.IntermediateRepresentation, error) {
	if CLI.Input != "" && CLI.URL != "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("cannot specify both --input and --url", nil)
	}

	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	if CLI.URL != "" {
		return parser.ParseURL(ctx, nil, CLI.URL)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// outputPath resolves --output, naming the file after the root class when
// it points at a directory.
func outputPath(cfg *config.Config) string {
	if info, err := os.Stat(CLI.Output); err == nil && info.IsDir() {
		return filepath.Join(CLI.Output, cfg.DefaultOutputName())
	}
	return CLI.Output
}

// writeOutput writes code to file or stdout, or prints a diff with --diff
func writeOutput(cfg *config.Config, code string) error {
	if CLI.Diff {
		if CLI.Output == "" {
			return errors.NewOutputError("--diff requires --output", nil)
		}
		return writeDiff(os.Stdout, outputPath(cfg), code)
	}

	if CLI.Output != "" {
		path := outputPath(cfg)
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(os.Stderr, "Generated Python code written to %s\n", path)
		return nil
	}

	if _, err := fmt.Println(strings.TrimSpace(code)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// writeDiff prints the line diff between the file at path and code. A
// missing file is compared as empty.
func writeDiff(w io.Writer, path, code string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.NewOutputError(fmt.Sprintf("failed to read '%s' for diff", path), err)
	}

	diff := lineDiff(string(existing), code)
	if diff == "" {
		fmt.Fprintf(os.Stderr, "%s is up to date\n", path)
		return nil
	}
	if _, err := io.WriteString(w, diff); err != nil {
		return errors.NewOutputError("failed to write diff", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "PyTyper Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
