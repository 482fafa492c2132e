package main

import (
	"github.com/spf13/cobra"
)

func newWalkCmd(a *app) *cobra.Command {
	var overrides struct {
		algorithm   string
		direction   string
		heuristics  string
		maxRequests string
		maxLinks    string
	}
	cmd := &cobra.Command{
		Use:   "walk <start> <end>",
		Short: "Walk once from start to end and print the path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for key, value := range map[string]string{
				"algorithm":    overrides.algorithm,
				"direction":    overrides.direction,
				"heuristics":   overrides.heuristics,
				"max_requests": overrides.maxRequests,
				"max_links":    overrides.maxLinks,
			} {
				if !cmd.Flags().Changed(flagFor(key)) {
					continue
				}
				if err := a.prefs.Set(key, value); err != nil {
					return err
				}
			}
			_, err := a.walk(cmd.Context(), args[0], args[1])

			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&overrides.algorithm, "alg", "", "bfs or gbfs")
	f.StringVar(&overrides.direction, "dir", "", "uni or bi")
	f.StringVar(&overrides.heuristics, "heuristics", "", "comma-separated: hamming, lcs, categories (or none)")
	f.StringVar(&overrides.maxRequests, "max-requests", "", "call budget")
	f.StringVar(&overrides.maxLinks, "max-links", "", "links considered per expansion")

	return cmd
}

func flagFor(key string) string {
	switch key {
	case "algorithm":
		return "alg"
	case "direction":
		return "dir"
	case "max_requests":
		return "max-requests"
	case "max_links":
		return "max-links"
	default:
		return key
	}
}
