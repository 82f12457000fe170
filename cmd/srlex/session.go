package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/lukascekic/scriptrunner/completion"
	"github.com/lukascekic/scriptrunner/highlight"
	"github.com/lukascekic/scriptrunner/lexer/bracket"
)

// session is the state of an interactive editing session.
type session struct {
	doc    string
	cursor int
	hl     *highlight.Highlighter
	last   highlight.Result
	theme  highlight.Theme
	out    io.Writer
}

func newSession(out io.Writer, hl *highlight.Highlighter) *session {
	return &session{
		hl:     hl,
		theme:  highlight.DefaultTheme(),
		out:    out,
		cursor: -1,
	}
}

// load replaces the document by the content of a file.
func (s *session) load(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to load script: %w", err)
	}
	s.hl.Lexer().InvalidateAll()
	s.doc = string(content)
	tracer().Infof("loaded %s, %d bytes", filename, len(content))
	s.update()
	return nil
}

// lines splits the document into lines without terminators.
func (s *session) lines() []string {
	if s.doc == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s.doc, "\n"), "\n")
}

func (s *session) setLines(lines []string) {
	if len(lines) == 0 {
		s.doc = ""
	} else {
		s.doc = strings.Join(lines, "\n") + "\n"
	}
	s.update()
}

// update re-tokenizes the document.
func (s *session) update() {
	s.last = s.hl.Highlight(s.doc, s.cursor)
	tracer().Debugf("%d tokens", len(s.last.Tokens))
}

// lineArg parses a 1-based line number; max is the largest acceptable value.
func lineArg(arg string, max int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("line number must be in 1…%d, is %q", max, arg)
	}
	return n - 1, nil
}

// exec executes a command line. Input which is not a command is appended to the
// document as a new line.
func (s *session) exec(input string) (quit bool, err error) {
	if !strings.HasPrefix(input, ":") {
		return false, s.edit(func(lines []string) ([]string, error) {
			return append(lines, input), nil
		})
	}
	cmd, rest := input, ""
	if i := strings.IndexByte(input, ' '); i > 0 {
		cmd, rest = input[:i], input[i+1:]
	}
	args := strings.Fields(rest)
	switch cmd {
	case ":quit", ":q":
		return true, nil
	case ":show":
		s.show()
	case ":append":
		err = s.edit(func(lines []string) ([]string, error) {
			return append(lines, rest), nil
		})
	case ":line", ":insert":
		num, text := rest, ""
		if i := strings.IndexByte(rest, ' '); i > 0 {
			num, text = rest[:i], rest[i+1:]
		}
		err = s.edit(func(lines []string) ([]string, error) {
			max := len(lines)
			if cmd == ":insert" {
				max++
			}
			n, err := lineArg(num, max)
			if err != nil {
				return nil, err
			}
			if cmd == ":line" {
				lines[n] = text
				return lines, nil
			}
			return append(lines[:n], append([]string{text}, lines[n:]...)...), nil
		})
	case ":delete":
		if len(args) != 1 {
			return false, fmt.Errorf(":delete needs a line number")
		}
		err = s.edit(func(lines []string) ([]string, error) {
			n, err := lineArg(args[0], len(lines))
			if err != nil {
				return nil, err
			}
			return append(lines[:n], lines[n+1:]...), nil
		})
	case ":match":
		if len(args) != 1 {
			return false, fmt.Errorf(":match needs an offset")
		}
		if s.cursor, err = strconv.Atoi(args[0]); err != nil {
			return false, fmt.Errorf("offset must be a number: %w", err)
		}
		s.update()
		s.printMatch(s.last.Match)
	case ":unmatched":
		for _, t := range s.last.Unmatched {
			pterm.Fprintln(s.out, fmt.Sprintf("unmatched %s at %s", t.Text, t.Position()))
		}
	case ":pairs":
		for _, p := range bracket.Pairs(s.last.Tokens) {
			pterm.Fprintln(s.out, fmt.Sprintf("%s at %s … %s at %s", p.Open.Text, p.Open.Position(),
				p.Close.Text, p.Close.Position()))
		}
	case ":complete":
		if len(args) != 1 {
			return false, fmt.Errorf(":complete needs an offset")
		}
		offset, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("offset must be a number: %w", err)
		}
		p := completion.NewProvider(nil)
		for _, item := range p.Complete(p.NewContext(s.doc, offset)) {
			pterm.Fprintln(s.out, fmt.Sprintf("%-20s %s", item.Display, item.Kind))
		}
	case ":stats":
		s.printStats()
	case ":reset":
		s.hl.Lexer().ResetStats()
	case ":tokens":
		for _, t := range s.last.Tokens {
			pterm.Fprintln(s.out, fmt.Sprintf("%s %-12s %q", t.Position(), t.Type, t.Text))
		}
	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
	return false, err
}

// edit applies a change to the lines of the document and shows the result.
func (s *session) edit(change func([]string) ([]string, error)) error {
	lines, err := change(s.lines())
	if err != nil {
		return err
	}
	s.setLines(lines)
	s.show()
	return nil
}

func (s *session) show() {
	lines := strings.Split(highlight.Render(s.doc, s.last.Spans, s.theme), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		pterm.Fprintln(s.out, fmt.Sprintf("%4d │ %s", i+1, l))
	}
	pterm.Info.WithWriter(s.out).Printfln("cache: %d hits, %d misses in last pass",
		s.last.Stats.Hits, s.last.Stats.Misses)
}

func (s *session) printStats() {
	lx := s.hl.Lexer()
	pterm.Info.WithWriter(s.out).Printfln("cached lines: %d, hits: %d, misses: %d",
		lx.CachedLines(), lx.CacheHits(), lx.CacheMisses())
}

func (s *session) printMatch(m *bracket.Match) {
	switch {
	case m == nil:
		pterm.Fprintln(s.out, "no bracket at offset")
	case !m.IsMatched:
		pterm.Fprintln(s.out, fmt.Sprintf("%s at %s has no partner", m.Bracket.Text, m.Bracket.Position()))
	default:
		pterm.Fprintln(s.out, fmt.Sprintf("%s at %s matches %s at %s", m.Bracket.Text,
			m.Bracket.Position(), m.Match.Text, m.Match.Position()))
	}
}
