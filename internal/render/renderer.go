package render

import (
	"golang.org/x/text/message"

	"bookcurator/internal/book"
)

// Renderer turns backend responses into fragments for one front end.
type Renderer interface {
	Recommendations(r *book.RecommendationResponse) string
	MoodRecommendations(r *book.RecommendationResponse) string
	SearchResults(r *book.SearchResponse) string
	ChatUser(message string) string
	ChatBot(r *book.ChatResponse) string
	ChatNotice(text string) string
	Error(message string) string
	MoodPicker(selected string) string
	CategoryPills(active string) string
	Printer() *message.Printer
}

type cardVariant int

const (
	cardRecommend cardVariant = iota
	cardMood
	cardSearch
)

// bookCard is a Book with defaults applied and text chosen for the variant.
type bookCard struct {
	Title     string
	Author    string
	Cover     string
	Link      string
	Publisher string
	PubDate   string
	Text      string
	Highlight string
	Quote     string
}

func newCard(p *message.Printer, b book.Book, v cardVariant) bookCard {
	c := bookCard{
		Title:     b.Title,
		Author:    b.Author,
		Cover:     b.Cover,
		Link:      b.Link,
		Publisher: b.Publisher,
		PubDate:   b.PubDate,
		Highlight: b.Highlight,
	}
	if c.Author == "" {
		c.Author = p.Sprintf(MsgUnknownAuthor)
	}

	switch v {
	case cardSearch:
		c.Text = Truncate(PlainText(b.Description), DescriptionLimit)
	case cardMood:
		c.Text = b.Reason
		c.Quote = b.Quote
	default:
		c.Text = b.Reason
		if c.Text == "" {
			c.Text = PlainText(b.Description)
		}
	}
	return c
}

func newCards(p *message.Printer, books []book.Book, v cardVariant) []bookCard {
	out := make([]bookCard, 0, len(books))
	for _, b := range books {
		out = append(out, newCard(p, b, v))
	}
	return out
}
