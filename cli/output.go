// ABOUTME: Shared CLI plumbing for flag parsing and output
// ABOUTME: Tables on a terminal, JSON when stdout is piped
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"golang.org/x/term"
)

var (
	// output is where commands print; tests swap it for a buffer.
	output io.Writer = os.Stdout

	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// SetOutput redirects command output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := output
	output = w
	return prev
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %q", kind, raw)
	}
	return id, nil
}

// requireArgs parses args and checks the positional count.
func requireArgs(fs *flag.FlagSet, args []string, n int, usage string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON when piped, otherwise calls table.
func render(v any, table func(w *tabwriter.Writer)) error {
	if !isTerminal() {
		return printJSON(v)
	}
	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
