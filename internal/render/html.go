package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"

	"bookcurator/internal/book"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTML renders fragments for the web page.
type HTML struct {
	tmpl *template.Template
	p    *message.Printer
	log  *logrus.Logger
}

func NewHTML(p *message.Printer, log *logrus.Logger) (*HTML, error) {
	tmpl, err := template.New("fragments").Funcs(Funcs(p)).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTML{tmpl: tmpl, p: p, log: log}, nil
}

// Funcs are the template helpers shared with the page template.
func Funcs(p *message.Printer) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...any) string {
			return p.Sprintf(key, args...)
		},
	}
}

func (h *HTML) Printer() *message.Printer { return h.p }

func (h *HTML) exec(name string, data any) string {
	var b strings.Builder
	if err := h.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render.failed")
		return ""
	}
	return b.String()
}

func (h *HTML) Recommendations(r *book.RecommendationResponse) string {
	return h.exec("recommendations", struct {
		Comment string
		Cards   []bookCard
	}{r.CuratorComment, newCards(h.p, r.Recommendations, cardRecommend)})
}

func (h *HTML) MoodRecommendations(r *book.RecommendationResponse) string {
	return h.exec("mood_recommendations", struct {
		Analysis      string
		Encouragement string
		Cards         []bookCard
	}{r.MoodAnalysis, r.Encouragement, newCards(h.p, r.Recommendations, cardMood)})
}

// SearchResults renders the count header and grid, or the empty state.
func (h *HTML) SearchResults(r *book.SearchResponse) string {
	if len(r.Items) == 0 {
		return h.exec("empty_state", nil)
	}
	return h.exec("search_results", struct {
		Total int
		Cards []bookCard
	}{r.Total(), newCards(h.p, r.Items, cardSearch)})
}

type chatMessage struct {
	Kind    string
	Content template.HTML
}

type followup struct {
	Text string
	Vals string
}

func (h *HTML) ChatUser(msg string) string {
	return h.exec("chat_message", chatMessage{Kind: "user", Content: template.HTML(template.HTMLEscapeString(msg))})
}

func (h *HTML) ChatNotice(text string) string {
	return h.exec("chat_message", chatMessage{Kind: "bot", Content: template.HTML(template.HTMLEscapeString(text))})
}

// ChatBot renders the answer, an inline list of recommended titles and the
// follow-up chips.
func (h *HTML) ChatBot(r *book.ChatResponse) string {
	var content strings.Builder
	answer := r.Answer
	if answer == "" {
		answer = h.p.Sprintf(MsgChatDefault)
	}
	content.WriteString(string(SafeAnswer(answer)))

	if len(r.Recommendations) > 0 {
		content.WriteString("<br><br><strong>")
		content.WriteString(template.HTMLEscapeString(h.p.Sprintf(MsgRecommendedBooks)))
		content.WriteString("</strong><br>")
		for i, b := range r.Recommendations {
			fmt.Fprintf(&content, "<br>%d. <strong>%s</strong>", i+1, template.HTMLEscapeString(b.Title))
			if b.Author != "" {
				content.WriteString(" - " + template.HTMLEscapeString(b.Author))
			}
		}
	}

	chips := make([]followup, 0, len(r.FollowupQuestions))
	for _, q := range r.FollowupQuestions {
		chips = append(chips, followup{Text: q, Vals: jsonVals("message", q)})
	}

	return h.exec("chat_bot", struct {
		Message   chatMessage
		Followups []followup
	}{chatMessage{Kind: "bot", Content: template.HTML(content.String())}, chips})
}

func (h *HTML) Error(msg string) string {
	return h.exec("error", msg)
}

type moodOption struct {
	Tag      string
	Emoji    string
	Label    string
	Selected bool
	Vals     string
}

func (h *HTML) MoodPicker(selected string) string {
	opts := make([]moodOption, 0, len(book.Moods))
	for _, m := range book.Moods {
		opts = append(opts, moodOption{
			Tag:      m.Tag,
			Emoji:    m.Emoji,
			Label:    h.p.Sprintf(m.Label),
			Selected: m.Tag == selected,
			Vals:     jsonVals("mood", m.Tag),
		})
	}
	return h.exec("mood_picker", struct {
		Moods    []moodOption
		Selected bool
	}{opts, book.IsMood(selected)})
}

type pill struct {
	Key    string
	Label  string
	Active bool
}

func (h *HTML) CategoryPills(active string) string {
	pills := make([]pill, 0, len(book.QuickLists))
	for _, q := range book.QuickLists {
		pills = append(pills, pill{Key: q.Key, Label: h.p.Sprintf(q.Label), Active: q.Key == active})
	}
	return h.exec("category_pills", pills)
}

func jsonVals(key, value string) string {
	b, _ := json.Marshal(map[string]string{key: value})
	return string(b)
}
