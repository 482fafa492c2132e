package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/walker"
)

const indent = "       "

// printResult writes a found path one title per line, or the outcome tag.
func printResult(w io.Writer, res *walker.Result) {
	switch res.Outcome {
	case walker.Found:
		lines := make([]string, len(res.Path))
		for i, title := range res.Path {
			lines[i] = indent + title
		}
		fmt.Fprintln(w, strings.Join(lines, " > \n"))
	case walker.DeadEnd:
		fmt.Fprintln(w, indent+"[DEAD END]")
	case walker.TimedOut:
		fmt.Fprintln(w, indent+"[TIME OUT]")
	}
}

func printNotFound(w io.Writer, title string) {
	fmt.Fprintf(w, "%sERROR: page '%s' couldn't be found!\n", indent, title)
}

// stats remembers the last walk for the "stat" command.
type stats struct {
	mu    sync.Mutex
	start string
	end   string
	prefs config.Preferences
	last  *walker.Result
	walks int
}

func (s *stats) record(start, end string, p config.Preferences, res *walker.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end, s.prefs, s.last = start, end, p, res
	s.walks++
}

func (s *stats) print(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		fmt.Fprintln(w, indent+"no walk yet.")
		return
	}
	r := s.last
	fmt.Fprintf(w, "%srun: %s\n", indent, r.RunID)
	fmt.Fprintf(w, "%swalk: %s > %s (%s, %s)\n", indent, s.start, s.end, s.prefs.Algorithm, s.prefs.Direction)
	fmt.Fprintf(w, "%soutcome: %s\n", indent, r.Outcome)
	fmt.Fprintf(w, "%spath length: %d\n", indent, len(r.Path))
	if r.Meeting != "" {
		fmt.Fprintf(w, "%smeeting: %s\n", indent, r.Meeting)
	}
	fmt.Fprintf(w, "%srequests: %d (expansions %d, categories %d)\n", indent, r.Requests, r.Expansions, r.CategoryCalls)
	fmt.Fprintf(w, "%sexplored: %d\n", indent, r.Explored)
	fmt.Fprintf(w, "%sexecution time: %s\n", indent, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "%swalks this session: %d\n", indent, s.walks)
}
