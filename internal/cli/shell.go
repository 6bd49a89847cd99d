package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
	"github.com/kailas-cloud/govrecords/internal/domain/search/state"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

const shellHelp = `Plain text sets the query. Commands:
  :area V | :awardee V | :org V   toggle a facet value
  :category V                     select a category (all clears)
  :clear                          drop all facet filters
  :strict on|off                  exact-phrase matching
  :sort relevance|date|amount     server-side ordering
  :table FIELD [asc|desc] | :table off
  :page N | :size N
  :dedupe on|off | :browse on|off
  :refresh | :help | :quit`

// shellLine is one parsed line of shell input.
type shellLine struct {
	action  state.Action
	quit    bool
	help    bool
	refresh bool
}

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive search driven by line commands on stdin",
		Long:  shellHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			return runShell(cmd, env)
		},
	}
}

func runShell(cmd *cobra.Command, env *Env) error {
	out := &lockedWriter{w: cmd.OutOrStdout()}

	opts := env.Session
	opts.OnChange = func(st state.State) { renderState(out, st) }
	initial := state.New(env.Defaults.DefaultPageSize, env.Defaults.DedupeDefault(), env.Defaults.BrowseAll)

	sess := searchuc.NewSession(cmd.Context(), env.Search, initial, opts)
	defer sess.Close()

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		line, err := parseShellLine(sc.Text())
		if err != nil {
			fmt.Fprintln(out, errStyle.Render(err.Error()))
			continue
		}
		switch {
		case line.quit:
			sess.Wait()
			return nil
		case line.help:
			fmt.Fprintln(out, shellHelp)
		case line.refresh:
			sess.Refresh()
		case line.action != nil:
			sess.Dispatch(line.action)
		}
	}
	sess.Wait()
	return sc.Err()
}

// parseShellLine maps one input line to an action. Blank lines yield a zero shellLine.
func parseShellLine(raw string) (shellLine, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return shellLine{}, nil
	}
	if !strings.HasPrefix(text, ":") {
		return shellLine{action: state.SetQuery{Text: text}}, nil
	}

	name, arg, _ := strings.Cut(text[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return shellLine{quit: true}, nil
	case "h", "help":
		return shellLine{help: true}, nil
	case "refresh":
		return shellLine{refresh: true}, nil
	case "area":
		return facetLine(facet.Area, arg)
	case "awardee":
		return facetLine(facet.Awardee, arg)
	case "org", "organization":
		return facetLine(facet.Organization, arg)
	case "category":
		return shellLine{action: state.SetCategory{Value: arg}}, nil
	case "clear":
		return shellLine{action: state.ClearFilters{}}, nil
	case "strict":
		on, err := parseSwitch(arg)
		return shellLine{action: state.SetStrict{On: on}}, err
	case "dedupe":
		on, err := parseSwitch(arg)
		return shellLine{action: state.SetDedupe{On: on}}, err
	case "browse":
		on, err := parseSwitch(arg)
		return shellLine{action: state.SetBrowseAll{On: on}}, err
	case "sort":
		m, err := sortmode.Parse(arg)
		return shellLine{action: state.SetSortMode{Mode: m}}, err
	case "table":
		return tableLine(arg)
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return shellLine{}, fmt.Errorf("page must be a positive number, got %q", arg)
		}
		return shellLine{action: state.SetPage{Page: n}}, nil
	case "size":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return shellLine{}, fmt.Errorf("size must be a positive number, got %q", arg)
		}
		return shellLine{action: state.SetPageSize{Size: n}}, nil
	default:
		return shellLine{}, fmt.Errorf("unknown command :%s (try :help)", name)
	}
}

func facetLine(n facet.Name, value string) (shellLine, error) {
	if value == "" {
		return shellLine{}, fmt.Errorf(":%s needs a value", n)
	}
	return shellLine{action: state.ToggleFacet{Facet: n, Value: value}}, nil
}

func tableLine(arg string) (shellLine, error) {
	field, dir, _ := strings.Cut(arg, " ")
	if field == "off" {
		return shellLine{action: state.ClearTableSort{}}, nil
	}
	if !reconcile.IsSortable(field) {
		return shellLine{}, fmt.Errorf("%q is not a sortable column (one of %s)",
			field, strings.Join(reconcile.SortableFields, ", "))
	}
	d, err := reconcile.ParseDirection(strings.TrimSpace(dir))
	if err != nil {
		return shellLine{}, err
	}
	return shellLine{action: state.SetTableSort{Sort: reconcile.TableSort{Field: field, Direction: d}}}, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

// lockedWriter serializes writes from the session callbacks and the input loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
