package render

import (
	"fmt"
	"html"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"bookcurator/internal/book"
)

func newTestHTML(t *testing.T, lang string) *HTML {
	t.Helper()
	h, err := NewHTML(NewPrinter(lang), nil)
	if err != nil {
		t.Fatalf("NewHTML: %v", err)
	}
	return h
}

func books(n int) []book.Book {
	out := make([]book.Book, n)
	for i := range out {
		out[i] = book.Book{Title: fmt.Sprintf("Title-%02d", i), Author: "Author"}
	}
	return out
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("가", 100)
	long := strings.Repeat("나", 101)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "짧은 설명", "짧은 설명"},
		{"exactly the limit", exact, exact},
		{"one over", long, strings.Repeat("나", 100) + "..."},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truncate(tc.in, DescriptionLimit); got != tc.want {
				t.Errorf("Truncate() = %q (%d runes), want %q", got, utf8.RuneCountInString(got), tc.want)
			}
		})
	}
}

func TestTruncateCountsComposedCharacters(t *testing.T) {
	// 100 syllables typed as decomposed jamo are still 100 characters
	decomposed := norm.NFD.String(strings.Repeat("한", 100))
	if utf8.RuneCountInString(decomposed) <= 100 {
		t.Fatal("test input should be decomposed")
	}
	if got := Truncate(decomposed, DescriptionLimit); got != decomposed {
		t.Errorf("decomposed input within the limit must pass through unchanged")
	}
}

func TestRecommendationsRenderAllCardsInOrder(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.Recommendations(&book.RecommendationResponse{Recommendations: books(7), CuratorComment: "따뜻한 한마디"})

	if got := strings.Count(out, `class="book-card"`); got != 7 {
		t.Fatalf("rendered %d cards, want 7", got)
	}
	last := -1
	for i := 0; i < 7; i++ {
		idx := strings.Index(out, fmt.Sprintf("Title-%02d", i))
		if idx <= last {
			t.Fatalf("card %d out of order", i)
		}
		last = idx
	}
	if !strings.Contains(out, "따뜻한 한마디") || strings.Index(out, "curator-comment") > strings.Index(out, "books-grid") {
		t.Error("curator comment must precede the grid")
	}
}

func TestEmptyRecommendationsRenderEmptyGrid(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.Recommendations(&book.RecommendationResponse{Recommendations: []book.Book{}})
	if !strings.Contains(out, "books-grid") {
		t.Error("expected an empty grid")
	}
	if strings.Contains(out, "book-card") || strings.Contains(out, "panel-error") {
		t.Errorf("unexpected content: %s", out)
	}
}

func TestSearchResults(t *testing.T) {
	h := newTestHTML(t, "ko")

	empty := h.SearchResults(&book.SearchResponse{})
	if !strings.Contains(empty, "검색 결과가 없습니다.") || strings.Contains(empty, "books-grid") {
		t.Errorf("expected empty state, got %s", empty)
	}

	desc := strings.Repeat("가", 150)
	out := h.SearchResults(&book.SearchResponse{
		Items:        []book.Book{{Title: "A", Description: desc}, {Title: "B"}},
		TotalResults: 87,
	})
	if !strings.Contains(out, "총 87권") {
		t.Errorf("missing count header: %s", out)
	}
	if strings.Count(out, `class="book-card"`) != 2 {
		t.Errorf("want 2 cards")
	}
	if !strings.Contains(out, strings.Repeat("가", 100)+"...") || strings.Contains(out, strings.Repeat("가", 101)) {
		t.Error("description should be truncated to 100 characters")
	}
}

func TestSearchCountFallsBackToItems(t *testing.T) {
	h := newTestHTML(t, "en")
	out := h.SearchResults(&book.SearchResponse{Items: books(3)})
	if !strings.Contains(out, "3 books in total") {
		t.Errorf("missing fallback count: %s", out)
	}
}

func TestCardDefaultsAndEscaping(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.Recommendations(&book.RecommendationResponse{Recommendations: []book.Book{
		{Title: `<script>alert(1)</script>`, Cover: "javascript:alert(1)", Highlight: "핵심", Publisher: "창비", PubDate: "2014-05-19", Link: "https://www.aladin.co.kr/x"},
	}})

	if !strings.Contains(out, "저자 미상") {
		t.Error("missing unknown author default")
	}
	if strings.Contains(out, "<script>") {
		t.Error("title must be escaped")
	}
	if strings.Contains(out, "javascript:") {
		t.Error("unsafe cover url must be filtered")
	}
	for _, want := range []string{"book-highlight", "창비 · 2014-05-19", "https://www.aladin.co.kr/x", "자세히 보기 →"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestPlaceholderWithoutCover(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.Recommendations(&book.RecommendationResponse{Recommendations: []book.Book{{Title: "A"}}})
	if !strings.Contains(out, "book-cover-placeholder") || strings.Contains(out, "<img") {
		t.Errorf("expected placeholder cover: %s", out)
	}
}

func TestMoodCardsShowQuote(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.MoodRecommendations(&book.RecommendationResponse{
		Recommendations: []book.Book{{Title: "A", Quote: "괜찮아", Reason: "위로가 돼요"}},
		MoodAnalysis:    "지친 하루였군요",
		Encouragement:   "힘내요",
	})
	for _, want := range []string{"괜찮아", "위로가 돼요", "지친 하루였군요", "힘내요"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestChatBotFollowupsCarryExactText(t *testing.T) {
	h := newTestHTML(t, "ko")
	q := `"따옴표" & <꺾쇠> 질문?`
	out := h.ChatBot(&book.ChatResponse{
		Answer:            "좋은 질문이에요\n다음 줄",
		Recommendations:   []book.Book{{Title: "코스모스", Author: "칼 세이건"}, {Title: "이기적 유전자"}},
		FollowupQuestions: []string{q},
	})

	if !strings.Contains(out, "좋은 질문이에요<br>다음 줄") {
		t.Errorf("answer line breaks not kept: %s", out)
	}
	if !strings.Contains(out, "1. <strong>코스모스</strong> - 칼 세이건") || !strings.Contains(out, "2. <strong>이기적 유전자</strong>") {
		t.Errorf("missing inline book list: %s", out)
	}
	if strings.Count(out, "followup-chip") != 1 {
		t.Fatalf("want one chip: %s", out)
	}
	start := strings.Index(out, `data-question="`) + len(`data-question="`)
	end := strings.Index(out[start:], `"`)
	if got := html.UnescapeString(out[start : start+end]); got != q {
		t.Errorf("chip text = %q, want %q", got, q)
	}
}

func TestChatBotSanitizesAnswer(t *testing.T) {
	h := newTestHTML(t, "ko")
	out := h.ChatBot(&book.ChatResponse{Answer: `<b>굵게</b><img src=x onerror=alert(1)>`})
	if strings.Contains(out, "onerror") {
		t.Errorf("unsafe markup kept: %s", out)
	}
	if !strings.Contains(out, "<b>굵게</b>") {
		t.Errorf("simple formatting dropped: %s", out)
	}
}

func TestChatBotDefaultAnswer(t *testing.T) {
	h := newTestHTML(t, "ko")
	if out := h.ChatBot(&book.ChatResponse{}); !strings.Contains(out, "책 추천을 준비했어요!") {
		t.Errorf("missing default answer: %s", out)
	}
}

func TestMoodPickerAndPills(t *testing.T) {
	h := newTestHTML(t, "ko")

	picker := h.MoodPicker("")
	if strings.Contains(picker, "selected") || !strings.Contains(picker, "disabled") {
		t.Error("nothing selected: button disabled")
	}
	picker = h.MoodPicker("호기심")
	if strings.Count(picker, "mood-card selected") != 1 || strings.Contains(picker, "disabled") {
		t.Errorf("one selected card and enabled button expected: %s", picker)
	}

	pills := h.CategoryPills("novel")
	if strings.Count(pills, "category-pill active") != 1 || !strings.Contains(pills, `data-category="novel"`) {
		t.Errorf("unexpected pills: %s", pills)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("<p>Go &amp; 동시성</p>"); got != "Go & 동시성" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestTextRenderer(t *testing.T) {
	r := NewText(NewPrinter("ko"))
	out := r.SearchResults(&book.SearchResponse{Items: books(2)})
	if !strings.Contains(out, "총 2권") || !strings.Contains(out, " 2. Title-01 — Author") {
		t.Errorf("unexpected text output:\n%s", out)
	}
	chat := r.ChatBot(&book.ChatResponse{Answer: "네", FollowupQuestions: []string{"하나", "둘"}})
	if !strings.Contains(chat, "[2] 둘") {
		t.Errorf("followups not numbered:\n%s", chat)
	}
	if !strings.Contains(r.SearchResults(&book.SearchResponse{}), "검색 결과가 없습니다.") {
		t.Error("missing empty state")
	}
}
