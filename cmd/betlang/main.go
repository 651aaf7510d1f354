// Command betlang is the BetLang driver CLI: run, check, repl, and fmt
// subcommands over the parse/elaborate/evaluate pipeline (spec §6),
// grounded on the teacher's cli/main.go cobra-rootCmd-plus-flags shape
// but split into cobra subcommands since BetLang's four entry points
// are independent operations rather than one command's execution
// modes.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/betlang/internal/config"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/driver"
	"github.com/aledsdavies/betlang/internal/eval"
	"github.com/aledsdavies/betlang/internal/printer"
	"github.com/aledsdavies/betlang/internal/safety"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	exitCode := int(driver.ExitSuccess)

	var (
		seed       int64
		limit      int
		safetyFlag string
		format     string
	)

	rootCmd := &cobra.Command{
		Use:           "betlang",
		Short:         "Parse, elaborate, and evaluate BetLang programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "diagnostic output format: text|json")

	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Parse, elaborate, and evaluate FILE, printing the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".betlang.yaml")
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			switch safetyFlag {
			case "", "on":
				cfg.SafetyEnabled = true
			case "off":
				cfg.SafetyEnabled = false
			default:
				return usageError(fmt.Errorf("--safety must be \"on\" or \"off\", got %q", safetyFlag))
			}

			text, err := readFile(args[0])
			if err != nil {
				return err
			}
			res := driver.Run(args[0], text, cfg, limit)
			exitCode = int(res.ExitCode)
			printDiagnostics(cmd, res.Diagnostics, format)
			if res.ExitCode == driver.ExitSuccess && res.Value != nil {
				fmt.Fprintln(cmd.OutOrStdout(), eval.Format(res.Value))
			}
			return nil
		},
	}
	runCmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed (default: BETLANG_SEED env var, else config default)")
	runCmd.Flags().IntVar(&limit, "limit", 0, "abort after this many evaluation steps (0 = unlimited)")
	runCmd.Flags().StringVar(&safetyFlag, "safety", "on", "enable or disable the safety kernel: on|off")

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Parse and elaborate FILE without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readFile(args[0])
			if err != nil {
				return err
			}
			res := driver.Check(args[0], text)
			exitCode = int(res.ExitCode)
			printDiagnostics(cmd, res.Diagnostics, format)
			return nil
		},
	}

	fmtCmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Parse FILE and pretty-print it in canonical keyword form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readFile(args[0])
			if err != nil {
				return err
			}
			prog, _, diags := driver.Parse(args[0], text)
			if hasErrors(diags) {
				exitCode = int(driver.ExitFrontendError)
				printDiagnostics(cmd, diags, format)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), printer.Program(prog))
			return nil
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive BetLang session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".betlang.yaml")
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			runRepl(cmd, cfg)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, checkCmd, fmtCmd, replCmd)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if exitCode == int(driver.ExitSuccess) {
			exitCode = int(driver.ExitUsageError)
		}
	}
	return exitCode
}

func usageError(err error) error { return err }

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func printDiagnostics(cmd *cobra.Command, diags []diag.Diagnostic, format string) {
	w := cmd.ErrOrStderr()
	if format == "json" {
		_ = diag.WriteJSONLines(w, diags)
		return
	}
	diag.WriteAll(w, diags, nil, true)
}

// runRepl implements the `:help`, `:quit`, `:seed N`, `:reset`
// meta-command dispatch table over the same parse/elaborate/evaluate
// pipeline `run` uses, one line at a time (spec §6, §12). Unlike a
// one-shot `betlang run FILE`, the REPL is itself the "caller" spec §3
// describes as able to thread cool-off state across calls: a single
// *safety.CoolOff is built once and reused for every line, so a
// validated-bet's cooling-off period actually spans REPL turns instead
// of resetting on each one.
func runRepl(cmd *cobra.Command, cfg config.Config) {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	newCoolOff := func() *safety.CoolOff {
		if !cfg.SafetyEnabled {
			return nil
		}
		return safety.NewCoolOff(safety.SystemClock{}, time.Duration(cfg.CoolOffSeconds*float64(time.Second)))
	}
	coolOff := newCoolOff()

	metaCommands := map[string]func(rest string){
		":help": func(string) {
			fmt.Fprintln(out, "Meta-commands: :help :quit :seed N :reset")
		},
		":quit": func(string) {
			os.Exit(int(driver.ExitSuccess))
		},
		":seed": func(rest string) {
			n, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
			if err != nil {
				fmt.Fprintf(out, "invalid seed: %v\n", err)
				return
			}
			cfg.Seed = n
			fmt.Fprintf(out, "seed set to %d\n", n)
		},
		":reset": func(string) {
			cfg = config.Default()
			coolOff = newCoolOff()
			fmt.Fprintln(out, "session reset to defaults")
		},
	}

	fmt.Fprintln(out, "betlang repl — :help for meta-commands, :quit to exit")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			name, rest, _ := strings.Cut(line, " ")
			if handler, ok := metaCommands[name]; ok {
				handler(rest)
				continue
			}
			fmt.Fprintf(out, "unknown meta-command %q, try :help\n", name)
			continue
		}

		res := driver.RunWithSafety("<repl>", line, cfg, 0, coolOff)
		printDiagnostics(cmd, res.Diagnostics, "text")
		if res.ExitCode == driver.ExitSuccess && res.Value != nil {
			fmt.Fprintln(out, eval.Format(res.Value))
		}
	}
}
