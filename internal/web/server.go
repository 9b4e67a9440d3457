package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/message"

	"bookcurator/internal/logger"
	"bookcurator/internal/middleware"
	"bookcurator/internal/render"
	"bookcurator/internal/session"
	"bookcurator/internal/view"
)

//go:embed templates/index.html
var pageFS embed.FS

const CookieName = "bc_session"

type Options struct {
	Lang         string
	CookieSecure bool
	// Requests per second and burst per client; zero disables limiting.
	RatePerSecond float64
	RateBurst     int
}

type Server struct {
	ctl     *view.Controller
	store   session.Store
	p       *message.Printer
	page    *template.Template
	opts    Options
	limiter *middleware.RateLimiter
}

func NewServer(ctl *view.Controller, store session.Store, p *message.Printer, opts Options) (*Server, error) {
	page, err := template.New("index.html").Funcs(render.Funcs(p)).ParseFS(pageFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if opts.Lang == "" {
		opts.Lang = "ko"
	}
	s := &Server{ctl: ctl, store: store, p: p, page: page, opts: opts}
	if opts.RatePerSecond > 0 {
		s.limiter = middleware.NewRateLimiter(opts.RatePerSecond, opts.RateBurst, http.HandlerFunc(s.throttled))
	}
	return s, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.index)

	r.Route("/ui", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/recommend", s.recommend)
		r.Post("/mood/select", s.selectMood)
		r.Post("/mood/recommend", s.moodRecommend)
		r.Post("/chat", s.chat)
		r.Post("/search", s.search)
		r.Post("/quicklist/{category}", s.quickList)
		r.Post("/navigate/{panel}", s.navigate)
		r.Post("/home", s.home)
	})
	return r
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// load returns the session of the request, starting a new one when the
// cookie is missing or stale.
func (s *Server) load(w http.ResponseWriter, r *http.Request) *session.State {
	if c, err := r.Cookie(CookieName); err == nil {
		st, err := s.store.Get(r.Context(), c.Value)
		if err == nil {
			return st
		}
		if !errors.Is(err, session.ErrNotFound) {
			logger.For(r.Context()).WithError(err).Warn("session.load failed")
		}
	}

	st := session.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    st.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

func (s *Server) save(ctx context.Context, st *session.State) {
	if err := s.store.Save(ctx, st); err != nil {
		logger.For(ctx).WithError(err).WithField("session", st.ID).Error("session.save failed")
	}
}

func (s *Server) trigger(w http.ResponseWriter, event, detail string) {
	b, _ := json.Marshal(map[string]string{event: detail})
	w.Header().Set("HX-Trigger", string(b))
}

// write sends a fragment the way htmx expects it: alerts as an HX-Trigger
// event with nothing to swap, content as HTML plus any out-of-band parts.
func (s *Server) write(w http.ResponseWriter, f view.Fragment) {
	switch {
	case f.IsNoop():
		w.WriteHeader(http.StatusNoContent)
		return
	case f.IsAlert():
		s.trigger(w, "showAlert", f.Alert)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if f.Swap == view.SwapAppend {
		w.Header().Set("HX-Reswap", string(view.SwapAppend))
	}
	w.Write([]byte(f.Body))
	for _, oob := range f.OOB {
		fmt.Fprintf(w, `<div id="%s" hx-swap-oob="%s">%s</div>`, oob.Target, oob.Swap, oob.Body)
	}
}

func (s *Server) throttled(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, "showAlert", s.p.Sprintf(render.MsgSlowDown))
	w.WriteHeader(http.StatusTooManyRequests)
}

type pageData struct {
	Lang       string
	Panel      session.Panel
	MoodPicker template.HTML
	Pills      template.HTML
	Transcript []template.HTML
	Categories []string
	Purposes   []string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	v := s.ctl.Page(r.Context(), st)
	s.save(r.Context(), st)

	// fragments come from our own renderer, which escapes all backend text
	data := pageData{
		Lang:       s.opts.Lang,
		Panel:      v.Panel,
		MoodPicker: template.HTML(v.MoodPicker),
		Pills:      template.HTML(v.Pills),
		Categories: v.Categories,
		Purposes:   []string{"For study", "For general knowledge", "For fun", "For career"},
	}
	for _, e := range v.Transcript {
		data.Transcript = append(data.Transcript, template.HTML(e.Body))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		logger.For(r.Context()).WithError(err).Error("page render failed")
	}
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	in := view.RecommendInput{
		Interests: r.FormValue("interests"),
		Purpose:   r.FormValue("purpose"),
		Category:  r.FormValue("category"),
	}
	s.write(w, s.ctl.GetRecommendation(r.Context(), in))
}

func (s *Server) selectMood(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	f := s.ctl.SelectMood(st, r.FormValue("mood"))
	s.save(r.Context(), st)
	s.write(w, f)
}

func (s *Server) moodRecommend(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	s.write(w, s.ctl.GetMoodRecommendation(r.Context(), st))
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	f := s.ctl.SendChatMessage(r.Context(), st, r.FormValue("message"))
	if !f.IsNoop() {
		s.save(r.Context(), st)
	}
	s.write(w, f)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	f := s.ctl.SearchBooks(r.Context(), st, r.FormValue("query"))
	s.save(r.Context(), st)
	s.write(w, f)
}

func (s *Server) quickList(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	f := s.ctl.LoadQuickList(r.Context(), st, chi.URLParam(r, "category"))
	s.save(r.Context(), st)
	s.write(w, f)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	panel := session.Panel(chi.URLParam(r, "panel"))
	if !s.ctl.Navigate(st, panel) {
		http.NotFound(w, r)
		return
	}
	s.save(r.Context(), st)
	s.trigger(w, "showPanel", string(panel))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	st := s.load(w, r)
	s.ctl.GoHome(st)
	s.save(r.Context(), st)
	s.trigger(w, "showPanel", string(session.PanelHome))
	w.WriteHeader(http.StatusNoContent)
}
