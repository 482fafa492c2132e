package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/wikiwalk/core"
	"github.com/katalvlaran/wikiwalk/walker"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt: walk, pref, set, stat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newSession(a, verbose).run(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every expanded article")

	return cmd
}

// session is one interactive prompt.
type session struct {
	app     *app
	scanner *bufio.Scanner
	verbose bool
	running bool
}

func newSession(a *app, verbose bool) *session {
	return &session{app: a, scanner: bufio.NewScanner(a.in), verbose: verbose, running: true}
}

func (s *session) run(ctx context.Context) error {
	fmt.Fprintln(s.app.out, "--- WIKI-WALKER ---")
	for s.running {
		line, ok := s.prompt("$: ")
		if !ok {
			break
		}
		if err := s.dispatch(ctx, normalize(line)); err != nil {
			return err
		}
	}

	return s.scanner.Err()
}

// prompt prints label and reads one line; false on end of input.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.app.out, label)
	if !s.scanner.Scan() {
		return "", false
	}

	return s.scanner.Text(), true
}

func (s *session) dispatch(ctx context.Context, cmd string) error {
	switch cmd {
	case "":
	case "help":
		s.help()
	case "walk":
		return s.walk(ctx)
	case "pref":
		fmt.Fprintln(s.app.out, s.app.prefs.String())
	case "set":
		s.set()
	case "stat":
		s.app.stats.print(s.app.out)
	case "quit", "exit":
		s.running = false
	default:
		fmt.Fprintln(s.app.out, indent+"ERROR: invalid command. Type 'help'.")
	}

	return nil
}

func (s *session) help() {
	for _, h := range [][2]string{
		{"help", "prints this message."},
		{"walk", "reads start- and endpoint. executes the wiki-walk."},
		{"pref", "prints the current preferences."},
		{"set", "sets a variable in the preferences to a specific value."},
		{"stat", "prints metrics (e.g. #requests, execution time) of the last walk."},
		{"quit", "quits the application."},
	} {
		fmt.Fprintf(s.app.out, "%s%s:%s%s\n", indent, h[0], indent, h[1])
	}
}

func (s *session) walk(ctx context.Context) error {
	start, ok := s.prompt(indent + "start: ")
	if !ok {
		s.running = false
		return nil
	}
	end, ok := s.prompt(indent + "end: ")
	if !ok {
		s.running = false
		return nil
	}

	var opts []walker.Option
	if s.verbose {
		opts = append(opts, walker.WithOnExpand(func(title string, d core.Direction) {
			fmt.Fprintf(s.app.out, "%s  %s %s\n", indent, arrow(d), title)
		}))
	}
	_, err := s.app.walk(ctx, strings.TrimSpace(start), strings.TrimSpace(end), opts...)
	var nf *walker.NotFoundError
	switch {
	case err == nil, errors.As(err, &nf):
		return nil
	case ctx.Err() != nil:
		return err
	default:
		fmt.Fprintf(s.app.out, "%sERROR: %v\n", indent, err)
		return nil
	}
}

func (s *session) set() {
	key, ok := s.prompt(indent + "variable: ")
	if !ok {
		s.running = false
		return
	}
	value, ok := s.prompt(indent + "value: ")
	if !ok {
		s.running = false
		return
	}
	key, value = normalize(key), normalize(value)
	if err := s.app.prefs.Set(key, value); err != nil {
		s.app.log.Debug("set rejected", "key", key, "value", value, "error", err)
		fmt.Fprintf(s.app.out, "%sERROR: couldn't set '%s' to '%s'\n", indent, key, value)
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func arrow(d core.Direction) string {
	if d == core.Backward {
		return "<"
	}

	return ">"
}
