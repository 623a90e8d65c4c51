package main

import (
	"atlas-lang/internal/config"
	"atlas-lang/internal/diag"
	"atlas-lang/internal/runtime"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// palette returns color codes, or empty strings when colors are off.
type palette struct {
	reset, red, green, cyan, gray, bold string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	return palette{colorReset, colorRed, colorGreen, colorCyan, colorGray, colorBold}
}

// ---- repl command ----

func cmdRepl(cfg *config.Config, logger *slog.Logger) {
	c := newPalette(cfg.ColorEnabled())
	prompt := c.green + cfg.REPL.Prompt + c.reset
	contPrompt := c.gray + strings.Repeat(".", 3) + strings.Repeat(" ", max(len(cfg.REPL.Prompt)-3, 1)) + c.reset

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryPath(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%satlas REPL%s %s(type 'exit' or Ctrl+D to quit, ':env' to list bindings)%s\n\n",
		c.bold, c.cyan, c.reset, c.gray, c.reset)

	interp := runtime.NewInterpreter(rl.Stdout(), logger)
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", c.gray, c.reset)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return
			case ":env":
				printBindings(rl.Stdout(), interp.Env(), c)
				continue
			case ":reset":
				interp.Reset()
				fmt.Fprintf(rl.Stdout(), "%s(environment cleared)%s\n", c.gray, c.reset)
				continue
			}
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		file, diags := parseSource(source, "<repl>")
		if diag.HasErrors(diags) {
			printDiagsColored(rl.Stderr(), diags, c)
			continue
		}

		// Exec keeps scope 0 alive so declarations persist between inputs.
		if err := interp.Exec(file); err != nil {
			fmt.Fprintf(rl.Stderr(), "%serror: %s%s\n", c.red, err, c.reset)
		}
	}
}

func printBindings(w io.Writer, env *runtime.Environment, c palette) {
	bindings := env.Bindings()
	if len(bindings) == 0 {
		fmt.Fprintf(w, "%s(no bindings)%s\n", c.gray, c.reset)
		return
	}
	for _, b := range bindings {
		val := b.Value.String()
		if b.Value.Kind() == runtime.KindString {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(w, "%s: %s = %s %s(scope %d)%s\n", b.Name, b.Type, val, c.gray, b.Scope, c.reset)
	}
}

func printDiagsColored(w io.Writer, diags []diag.Diagnostic, c palette) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", c.red, d.String(), c.reset)
	}
}
