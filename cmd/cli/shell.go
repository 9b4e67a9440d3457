package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookcurator/internal/render"
	"bookcurator/internal/session"
	"bookcurator/internal/view"
)

const helpText = `Commands:
  <text>                         ask the librarian
  <n>                            send follow-up question n
  /recommend <interests> [| purpose]
  /mood [tag]                    list moods or get picks for one
  /search <query>                title: author: publisher: keyword: prefixes work
  /list [category]               list categories or load one
  /help
  exit
`

var commands = []string{"/recommend ", "/mood ", "/search ", "/list ", "/help", "exit"}

// shell maps one input line to a controller event and prints the result.
type shell struct {
	ctl  *view.Controller
	r    render.Renderer
	st   *session.State
	out  io.Writer
	busy func() func()
}

func newShell(ctl *view.Controller, r render.Renderer, out io.Writer) *shell {
	return &shell{
		ctl:  ctl,
		r:    r,
		st:   session.NewState(),
		out:  out,
		busy: func() func() { return func() {} },
	}
}

// exec runs one line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if line == "exit" || line == "quit" {
		return true
	}

	if n, err := strconv.Atoi(line); err == nil {
		done := s.busy()
		f, ok := s.ctl.SendFollowup(ctx, s.st, n)
		done()
		if !ok {
			fmt.Fprintf(s.out, "no follow-up question %d\n", n)
			return false
		}
		s.print(f)
		return false
	}

	if !strings.HasPrefix(line, "/") {
		s.call(func() view.Fragment { return s.ctl.SendChatMessage(ctx, s.st, line) })
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/recommend":
		interests, purpose, _ := strings.Cut(arg, "|")
		s.ctl.Navigate(s.st, session.PanelRecommend)
		s.call(func() view.Fragment {
			return s.ctl.GetRecommendation(ctx, view.RecommendInput{Interests: interests, Purpose: purpose})
		})
	case "/mood":
		s.ctl.Navigate(s.st, session.PanelMood)
		if arg == "" {
			fmt.Fprint(s.out, s.r.MoodPicker(s.st.SelectedMood))
			return false
		}
		if f := s.ctl.SelectMood(s.st, arg); f.IsAlert() {
			s.print(f)
			return false
		}
		s.call(func() view.Fragment { return s.ctl.GetMoodRecommendation(ctx, s.st) })
	case "/search":
		s.ctl.Navigate(s.st, session.PanelSearch)
		s.call(func() view.Fragment { return s.ctl.SearchBooks(ctx, s.st, arg) })
	case "/list":
		s.ctl.Navigate(s.st, session.PanelSearch)
		if arg == "" {
			fmt.Fprint(s.out, s.r.CategoryPills(s.st.ActiveCategory))
			return false
		}
		s.call(func() view.Fragment { return s.ctl.LoadQuickList(ctx, s.st, arg) })
	case "/help":
		fmt.Fprint(s.out, helpText)
	default:
		fmt.Fprintf(s.out, "unknown command %s, try /help\n", cmd)
	}
	return false
}

func (s *shell) call(event func() view.Fragment) {
	done := s.busy()
	f := event()
	done()
	s.print(f)
}

func (s *shell) print(f view.Fragment) {
	switch {
	case f.IsNoop():
	case f.IsAlert():
		fmt.Fprintf(s.out, "⚠️  %s\n", f.Alert)
	default:
		fmt.Fprint(s.out, f.Body)
		for _, oob := range f.OOB {
			fmt.Fprint(s.out, oob.Body)
		}
		fmt.Fprintln(s.out)
	}
}

func complete(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}
