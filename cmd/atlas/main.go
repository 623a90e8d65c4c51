// Command atlas is the CLI entry point for the atlas interpreter.
//
// Usage:
//
//	atlas tokens <file> [--json]   Print tokens
//	atlas parse  <file> [--yaml]   Print AST as JSON (or YAML)
//	atlas run    <file>            Run a source file
//	atlas repl                     Start interactive REPL
//
// Global flags: --config <path>, --log-level <level>.
package main

import (
	"atlas-lang/internal/ast"
	"atlas-lang/internal/config"
	"atlas-lang/internal/diag"
	"atlas-lang/internal/lexer"
	"atlas-lang/internal/parser"
	"atlas-lang/internal/runtime"
	"fmt"
	"log/slog"
	"os"
)

// options holds the flags shared by every subcommand.
type options struct {
	args       []string // positional arguments after the subcommand
	configPath string
	logLevel   string
	json       bool
	yaml       bool
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]
	opts, err := parseFlags(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		usage()
		os.Exit(1)
	}

	cfg, err := config.Resolve(opts.configPath, ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", slog.String("path", cfg.Path))
	}

	switch command {
	case "tokens":
		source, filename := requireFile(opts)
		cmdTokens(source, filename, opts.json)
	case "parse":
		source, filename := requireFile(opts)
		cmdParse(source, filename, opts.yaml)
	case "run":
		source, filename := requireFile(opts)
		cmdRun(source, filename, logger)
	case "repl":
		cmdRepl(cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  atlas tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  atlas parse  <file> [--yaml]   Parse and print AST (JSON or YAML)")
	fmt.Fprintln(os.Stderr, "  atlas run    <file>            Run a source file")
	fmt.Fprintln(os.Stderr, "  atlas repl                     Start interactive REPL")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config <path>                Config file (default ./atlas.yaml if present)")
	fmt.Fprintln(os.Stderr, "  --log-level <level>            debug, info, warn or error")
}

func parseFlags(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--json":
			opts.json = true
		case "--yaml":
			opts.yaml = true
		case "--config", "--log-level":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			if arg == "--config" {
				opts.configPath = args[i]
			} else {
				opts.logLevel = args[i]
			}
		default:
			opts.args = append(opts.args, arg)
		}
	}
	return opts, nil
}

func requireFile(opts options) (string, string) {
	if len(opts.args) < 1 {
		fmt.Fprintln(os.Stderr, "error: missing file argument")
		os.Exit(1)
	}
	filename := opts.args[0]
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source), filename
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	tokens, diags := lexer.New(source, filename).Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if diag.HasErrors(diags) {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string, yamlMode bool) {
	file, diags := parseSource(source, filename)

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(file),
		"diagnostics": diagsToSlice(diags),
	}
	if yamlMode {
		printYAML(output)
	} else {
		printJSON(output)
	}

	if diag.HasErrors(diags) {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(source, filename string, logger *slog.Logger) {
	file, diags := parseSource(source, filename)
	if diag.HasErrors(diags) {
		printDiagsText(diags)
		os.Exit(1)
	}

	interp := runtime.NewInterpreter(os.Stdout, logger)
	if err := interp.Run(file); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
}

// parseSource lexes and parses source. Lexer diagnostics come first.
func parseSource(source, filename string) (*ast.File, []diag.Diagnostic) {
	tokens, lexDiags := lexer.New(source, filename).Tokenize()
	file, parseDiags := parser.New(tokens).WithFile(filename).ParseFile()
	return file, append(lexDiags, parseDiags...)
}
