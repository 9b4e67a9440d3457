package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"bookcurator/internal/book"
	"bookcurator/internal/render"
	"bookcurator/internal/session"
	"bookcurator/internal/view"
)

type stubBackend struct {
	calls int
}

func (s *stubBackend) Recommend(_ context.Context, req book.RecommendRequest) (*book.RecommendationResponse, error) {
	s.calls++
	return &book.RecommendationResponse{Recommendations: []book.Book{{Title: "Pick for " + req.Interests}}}, nil
}

func (s *stubBackend) RecommendMood(_ context.Context, req book.MoodRequest) (*book.RecommendationResponse, error) {
	s.calls++
	return &book.RecommendationResponse{Recommendations: []book.Book{{Title: "Mood " + req.Mood}}}, nil
}

func (s *stubBackend) Chat(_ context.Context, req book.ChatRequest) (*book.ChatResponse, error) {
	s.calls++
	return &book.ChatResponse{Answer: "echo " + req.Query, FollowupQuestions: []string{"And then?"}}, nil
}

func (s *stubBackend) Search(_ context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	s.calls++
	return &book.SearchResponse{Items: []book.Book{{Title: q.Query}}}, nil
}

func (s *stubBackend) Bestsellers(_ context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	s.calls++
	return &book.SearchResponse{Items: []book.Book{{Title: "Top"}}}, nil
}

func (s *stubBackend) NewReleases(_ context.Context, q book.ListQuery) (*book.SearchResponse, error) {
	s.calls++
	return &book.SearchResponse{}, nil
}

func (s *stubBackend) Categories(_ context.Context) ([]string, error) {
	return nil, errors.New("not available")
}

type harness struct {
	t      *testing.T
	api    *stubBackend
	store  *session.MemoryStore
	srv    *Server
	h      http.Handler
	cookie *http.Cookie
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	p := render.NewPrinter("en")
	r, err := render.NewHTML(p, log)
	if err != nil {
		t.Fatalf("NewHTML: %v", err)
	}
	api := &stubBackend{}
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { store.Close() })

	opts.Lang = "en"
	srv, err := NewServer(view.NewController(api, r, view.Options{ListLimit: 12, MaxTranscript: 50}), store, p, opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	return &harness{t: t, api: api, store: store, srv: srv, h: srv.Routes()}
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) state() *session.State {
	h.t.Helper()
	if h.cookie == nil {
		h.t.Fatal("no session cookie")
	}
	st, err := h.store.Get(context.Background(), h.cookie.Value)
	if err != nil {
		h.t.Fatalf("session: %v", err)
	}
	return st
}

func alertOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var ev map[string]string
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &ev); err != nil {
		t.Fatalf("HX-Trigger %q: %v", rec.Header().Get("HX-Trigger"), err)
	}
	return ev["showAlert"]
}

func TestIndexSetsCookieAndRendersPage(t *testing.T) {
	h := newHarness(t, Options{})
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName && c.HttpOnly && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("session cookie missing")
	}
	body := rec.Body.String()
	for _, want := range []string{
		`id="mood-grid"`, `id="category-pills"`, `id="chat-messages"`,
		`hx-post="/ui/quicklist/bestseller"`, `id="panel-home" class="panel active"`,
		"Book Curator",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `name="category"`) {
		t.Error("category selector rendered although categories failed")
	}
}

func TestAlertIsNoContentWithTrigger(t *testing.T) {
	h := newHarness(t, Options{})
	rec := h.post("/ui/recommend", url.Values{"interests": {"  "}})

	if rec.Code != http.StatusNoContent {
		t.Errorf("status %d, want 204", rec.Code)
	}
	if got := alertOf(t, rec); got != "Please enter an interest or keyword!" {
		t.Errorf("alert %q", got)
	}
	if h.api.calls != 0 {
		t.Errorf("backend called %d times", h.api.calls)
	}
}

func TestRecommendReturnsFragment(t *testing.T) {
	h := newHarness(t, Options{})
	rec := h.post("/ui/recommend", url.Values{"interests": {"space"}, "purpose": {"fun"}})

	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Pick for space") {
		t.Errorf("body %s", rec.Body.String())
	}
}

func TestMoodSelectionPersists(t *testing.T) {
	h := newHarness(t, Options{})

	if rec := h.post("/ui/mood/recommend", nil); alertOf(t, rec) != "Please choose a mood!" {
		t.Fatal("expected mood alert")
	}
	rec := h.post("/ui/mood/select", url.Values{"mood": {"호기심"}})
	if !strings.Contains(rec.Body.String(), `mood-card selected" data-mood="호기심"`) {
		t.Errorf("picker %s", rec.Body.String())
	}
	if h.state().SelectedMood != "호기심" {
		t.Error("mood not saved")
	}

	rec = h.post("/ui/mood/recommend", nil)
	if !strings.Contains(rec.Body.String(), "Mood 호기심") {
		t.Errorf("body %s", rec.Body.String())
	}
}

func TestChatAppends(t *testing.T) {
	h := newHarness(t, Options{})

	rec := h.post("/ui/chat", url.Values{"message": {"hi"}})
	if rec.Header().Get("HX-Reswap") != "beforeend" {
		t.Errorf("HX-Reswap %q", rec.Header().Get("HX-Reswap"))
	}
	if !strings.Contains(rec.Body.String(), "echo hi") || !strings.Contains(rec.Body.String(), "And then?") {
		t.Errorf("body %s", rec.Body.String())
	}
	if n := len(h.state().Transcript); n != 2 {
		t.Errorf("transcript has %d entries", n)
	}

	rec = h.post("/ui/chat", url.Values{"message": {""}})
	if rec.Code != http.StatusNoContent || rec.Header().Get("HX-Trigger") != "" {
		t.Errorf("empty message: status %d trigger %q", rec.Code, rec.Header().Get("HX-Trigger"))
	}
	if h.api.calls != 1 {
		t.Errorf("backend calls %d", h.api.calls)
	}
}

func TestQuickListMarksPillOutOfBand(t *testing.T) {
	h := newHarness(t, Options{})

	rec := h.post("/ui/quicklist/selfhelp", nil)
	body := rec.Body.String()
	if !strings.Contains(body, `<div id="category-pills" hx-swap-oob="innerHTML">`) {
		t.Errorf("oob wrapper missing: %s", body)
	}
	if !strings.Contains(body, `category-pill active" data-category="selfhelp"`) {
		t.Error("pill not active")
	}
	if h.state().ActiveCategory != "selfhelp" {
		t.Error("active category not saved")
	}

	h.post("/ui/search", url.Values{"query": {"title: Go"}})
	if h.state().ActiveCategory != "" {
		t.Error("search did not clear the pill")
	}

	rec = h.post("/ui/quicklist/poetry", nil)
	if rec.Code != http.StatusNoContent || alertOf(t, rec) == "" {
		t.Errorf("unknown list: status %d", rec.Code)
	}
}

func TestNavigate(t *testing.T) {
	h := newHarness(t, Options{})

	rec := h.post("/ui/navigate/chat", nil)
	if rec.Code != http.StatusNoContent || !strings.Contains(rec.Header().Get("HX-Trigger"), `"showPanel":"chat"`) {
		t.Errorf("status %d trigger %q", rec.Code, rec.Header().Get("HX-Trigger"))
	}
	if h.state().ActivePanel != session.PanelChat {
		t.Error("panel not saved")
	}

	if rec := h.post("/ui/navigate/settings", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown panel status %d", rec.Code)
	}

	h.post("/ui/home", nil)
	if h.state().ActivePanel != session.PanelHome {
		t.Error("home not saved")
	}
}

func TestRateLimitAlerts(t *testing.T) {
	h := newHarness(t, Options{RatePerSecond: 0.001, RateBurst: 1})

	h.post("/ui/navigate/search", nil)
	rec := h.post("/ui/navigate/chat", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", rec.Code)
	}
	if alertOf(t, rec) != "Too many requests. Please wait a moment." {
		t.Errorf("alert %q", alertOf(t, rec))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, Options{})
	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}
