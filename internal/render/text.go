package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"

	"bookcurator/internal/book"
)

// Text renders fragments for the terminal client.
type Text struct {
	p *message.Printer
}

func NewText(p *message.Printer) *Text {
	return &Text{p: p}
}

func (t *Text) Printer() *message.Printer { return t.p }

func (t *Text) Recommendations(r *book.RecommendationResponse) string {
	var b strings.Builder
	if r.CuratorComment != "" {
		fmt.Fprintf(&b, "[%s] %s\n\n", t.p.Sprintf(MsgCuratorNote), r.CuratorComment)
	}
	t.cards(&b, newCards(t.p, r.Recommendations, cardRecommend))
	return b.String()
}

func (t *Text) MoodRecommendations(r *book.RecommendationResponse) string {
	var b strings.Builder
	if r.MoodAnalysis != "" {
		b.WriteString(r.MoodAnalysis + "\n")
	}
	if r.Encouragement != "" {
		b.WriteString(r.Encouragement + "\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	t.cards(&b, newCards(t.p, r.Recommendations, cardMood))
	return b.String()
}

func (t *Text) SearchResults(r *book.SearchResponse) string {
	if len(r.Items) == 0 {
		return "📭 " + t.p.Sprintf(MsgNoResults) + "\n"
	}
	var b strings.Builder
	b.WriteString(t.p.Sprintf(MsgTotalBooks, r.Total()) + "\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	t.cards(&b, newCards(t.p, r.Items, cardSearch))
	return b.String()
}

func (t *Text) cards(b *strings.Builder, cards []bookCard) {
	for i, c := range cards {
		fmt.Fprintf(b, "%2d. %s — %s\n", i+1, c.Title, c.Author)
		if c.Highlight != "" {
			fmt.Fprintf(b, "    #%s\n", c.Highlight)
		}
		if c.Text != "" {
			fmt.Fprintf(b, "    %s\n", c.Text)
		}
		if c.Quote != "" {
			fmt.Fprintf(b, "    “%s”\n", c.Quote)
		}
		if meta := strings.Trim(c.Publisher+" · "+c.PubDate, " ·"); meta != "" {
			fmt.Fprintf(b, "    %s\n", meta)
		}
		if c.Link != "" {
			fmt.Fprintf(b, "    %s\n", c.Link)
		}
	}
}

func (t *Text) ChatUser(msg string) string {
	return "> " + msg + "\n"
}

func (t *Text) ChatNotice(text string) string {
	return "📚 " + text + "\n"
}

func (t *Text) ChatBot(r *book.ChatResponse) string {
	var b strings.Builder
	answer := r.Answer
	if answer == "" {
		answer = t.p.Sprintf(MsgChatDefault)
	}
	b.WriteString("📚 " + PlainText(answer) + "\n")

	if len(r.Recommendations) > 0 {
		b.WriteString("\n" + t.p.Sprintf(MsgRecommendedBooks) + "\n")
		for i, bk := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s", i+1, bk.Title)
			if bk.Author != "" {
				b.WriteString(" - " + bk.Author)
			}
			b.WriteString("\n")
		}
	}
	if len(r.FollowupQuestions) > 0 {
		b.WriteString("\n")
		for i, q := range r.FollowupQuestions {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, q)
		}
	}
	return b.String()
}

func (t *Text) Error(msg string) string {
	return "😢 " + msg + "\n"
}

func (t *Text) MoodPicker(selected string) string {
	var b strings.Builder
	for _, m := range book.Moods {
		mark := " "
		if m.Tag == selected {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %s %s (%s)\n", mark, m.Emoji, m.Tag, t.p.Sprintf(m.Label))
	}
	return b.String()
}

func (t *Text) CategoryPills(active string) string {
	parts := make([]string, 0, len(book.QuickLists))
	for _, q := range book.QuickLists {
		label := q.Key + ":" + t.p.Sprintf(q.Label)
		if q.Key == active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ") + "\n"
}
