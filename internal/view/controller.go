package view

import (
	"context"
	"strings"

	"golang.org/x/text/message"

	"bookcurator/internal/book"
	"bookcurator/internal/logger"
	"bookcurator/internal/metrics"
	"bookcurator/internal/parser"
	"bookcurator/internal/render"
	"bookcurator/internal/session"
)

// Backend is the recommendation service as the UI sees it.
type Backend interface {
	Recommend(ctx context.Context, req book.RecommendRequest) (*book.RecommendationResponse, error)
	RecommendMood(ctx context.Context, req book.MoodRequest) (*book.RecommendationResponse, error)
	Chat(ctx context.Context, req book.ChatRequest) (*book.ChatResponse, error)
	Search(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error)
	Bestsellers(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error)
	NewReleases(ctx context.Context, q book.ListQuery) (*book.SearchResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

type Options struct {
	ListLimit     int
	MaxTranscript int
}

// Controller maps UI events to one backend call and one render each.
// It holds no per-user state; every method works on the caller's State.
type Controller struct {
	api  Backend
	r    render.Renderer
	p    *message.Printer
	opts Options
}

func NewController(api Backend, r render.Renderer, opts Options) *Controller {
	if opts.ListLimit <= 0 {
		opts.ListLimit = 12
	}
	return &Controller{api: api, r: r, p: r.Printer(), opts: opts}
}

type RecommendInput struct {
	Interests string
	Purpose   string
	Category  string
}

func (c *Controller) alert(action, key string, args ...any) Fragment {
	metrics.UIAlertsTotal.WithLabelValues(action).Inc()
	return Fragment{Alert: c.p.Sprintf(key, args...)}
}

func (c *Controller) failed(ctx context.Context, action string, err error) {
	logger.For(ctx).WithError(err).WithField("action", action).Warn("backend.failed")
}

// GetRecommendation asks for picks matching free-text interests.
func (c *Controller) GetRecommendation(ctx context.Context, in RecommendInput) Fragment {
	interests := strings.TrimSpace(in.Interests)
	if interests == "" {
		return c.alert("recommend", render.MsgNeedInterests)
	}

	out := Fragment{Target: TargetRecommend, Swap: SwapReplace}
	resp, err := c.api.Recommend(ctx, book.RecommendRequest{
		Interests: interests,
		Purpose:   strings.TrimSpace(in.Purpose),
		Category:  strings.TrimSpace(in.Category),
	})
	switch {
	case err != nil:
		c.failed(ctx, "recommend", err)
		out.Body = c.r.Error(c.p.Sprintf(render.MsgRecommendFailed))
	case resp.Failed():
		out.Body = c.r.Error(resp.Error)
	default:
		out.Body = c.r.Recommendations(resp)
	}
	return out
}

// SelectMood records the chosen mood card.
func (c *Controller) SelectMood(st *session.State, choice string) Fragment {
	if !book.IsMood(choice) {
		return c.alert("mood_select", render.MsgNeedMood)
	}
	st.SelectedMood = choice
	return Fragment{Target: TargetMoodGrid, Swap: SwapReplace, Body: c.r.MoodPicker(choice)}
}

// GetMoodRecommendation asks for picks for the selected mood.
func (c *Controller) GetMoodRecommendation(ctx context.Context, st *session.State) Fragment {
	if st.SelectedMood == "" {
		return c.alert("mood", render.MsgNeedMood)
	}

	out := Fragment{Target: TargetMood, Swap: SwapReplace}
	resp, err := c.api.RecommendMood(ctx, book.MoodRequest{Mood: st.SelectedMood})
	switch {
	case err != nil:
		c.failed(ctx, "mood", err)
		out.Body = c.r.Error(c.p.Sprintf(render.MsgRecommendFailed))
	case resp.Failed():
		out.Body = c.r.Error(resp.Error)
	default:
		out.Body = c.r.MoodRecommendations(resp)
	}
	return out
}

// SendChatMessage appends the user's message and the bot's reply to the
// transcript. An empty message is ignored.
func (c *Controller) SendChatMessage(ctx context.Context, st *session.State, msg string) Fragment {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Fragment{}
	}

	user := c.r.ChatUser(msg)
	st.AppendChat("user", user, c.opts.MaxTranscript)
	st.Followups = nil

	var bot string
	resp, err := c.api.Chat(ctx, book.ChatRequest{Query: msg})
	switch {
	case err != nil:
		c.failed(ctx, "chat", err)
		bot = c.r.ChatNotice(c.p.Sprintf(render.MsgChatFailed))
	case resp.Failed():
		bot = c.r.ChatNotice(resp.Error)
	default:
		bot = c.r.ChatBot(resp)
		st.Followups = resp.FollowupQuestions
	}
	st.AppendChat("bot", bot, c.opts.MaxTranscript)

	return Fragment{Target: TargetChat, Swap: SwapAppend, Body: user + bot}
}

// SendFollowup re-submits the n-th (1-based) follow-up question of the last
// reply as a new chat message.
func (c *Controller) SendFollowup(ctx context.Context, st *session.State, n int) (Fragment, bool) {
	if n < 1 || n > len(st.Followups) {
		return Fragment{}, false
	}
	return c.SendChatMessage(ctx, st, st.Followups[n-1]), true
}

// SearchBooks runs a free-text search. The query may carry a field prefix.
func (c *Controller) SearchBooks(ctx context.Context, st *session.State, query string) Fragment {
	q := parser.Parse(query)
	if q.Text == "" {
		return c.alert("search", render.MsgNeedQuery)
	}
	st.ActiveCategory = ""

	out := c.listFragment(ctx, "search", render.MsgSearchFailed, func() (*book.SearchResponse, error) {
		return c.api.Search(ctx, book.ListQuery{Query: q.Text, Type: q.Type, Limit: c.opts.ListLimit})
	})
	out.OOB = []Fragment{c.pills(st)}
	return out
}

// LoadQuickList shows one of the curated category lists.
func (c *Controller) LoadQuickList(ctx context.Context, st *session.State, key string) Fragment {
	ql, ok := book.FindQuickList(key)
	if !ok {
		return c.alert("quicklist", render.MsgUnknownList, key)
	}
	st.ActiveCategory = ql.Key

	q := ql.Query
	q.Limit = c.opts.ListLimit
	out := c.listFragment(ctx, "quicklist", render.MsgListFailed, func() (*book.SearchResponse, error) {
		switch ql.Endpoint {
		case book.ListBestsellers:
			return c.api.Bestsellers(ctx, q)
		case book.ListNewReleases:
			return c.api.NewReleases(ctx, q)
		default:
			return c.api.Search(ctx, q)
		}
	})
	out.OOB = []Fragment{c.pills(st)}
	return out
}

func (c *Controller) listFragment(ctx context.Context, action, failMsg string, call func() (*book.SearchResponse, error)) Fragment {
	out := Fragment{Target: TargetSearch, Swap: SwapReplace}
	resp, err := call()
	switch {
	case err != nil:
		c.failed(ctx, action, err)
		out.Body = c.r.Error(c.p.Sprintf(failMsg))
	case resp.Failed():
		out.Body = c.r.Error(resp.Error)
	default:
		out.Body = c.r.SearchResults(resp)
	}
	return out
}

func (c *Controller) pills(st *session.State) Fragment {
	return Fragment{Target: TargetCategories, Swap: SwapReplace, Body: c.r.CategoryPills(st.ActiveCategory)}
}

// Categories lists the backend's categories for the recommend form.
// A failure leaves the selector empty.
func (c *Controller) Categories(ctx context.Context) []string {
	cats, err := c.api.Categories(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Debug("categories unavailable")
		return nil
	}
	return cats
}

// Navigate shows one panel. Unknown panels are ignored.
func (c *Controller) Navigate(st *session.State, panel session.Panel) bool {
	if !panel.Valid() {
		return false
	}
	st.ActivePanel = panel
	return true
}

func (c *Controller) GoHome(st *session.State) {
	st.ActivePanel = session.PanelHome
}

// PageView is what a full page render needs for one session.
type PageView struct {
	Panel      session.Panel
	MoodPicker string
	Pills      string
	Transcript []session.ChatEntry
	Categories []string
}

func (c *Controller) Page(ctx context.Context, st *session.State) PageView {
	return PageView{
		Panel:      st.ActivePanel,
		MoodPicker: c.r.MoodPicker(st.SelectedMood),
		Pills:      c.r.CategoryPills(st.ActiveCategory),
		Transcript: st.Transcript,
		Categories: c.Categories(ctx),
	}
}
