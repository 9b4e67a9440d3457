package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English strings; Korean is the default UI language.
const (
	MsgUnknownAuthor    = "Unknown author"
	MsgNeedInterests    = "Please enter an interest or keyword!"
	MsgNeedMood         = "Please choose a mood!"
	MsgNeedQuery        = "Please enter a search term!"
	MsgUnknownList      = "Unknown list: %s"
	MsgRecommendFailed  = "Something went wrong while fetching recommendations."
	MsgSearchFailed     = "Something went wrong while searching."
	MsgListFailed       = "Something went wrong while loading the list."
	MsgChatFailed       = "Sorry, something went wrong fetching a reply. Please try again! 😅"
	MsgChatDefault      = "I have some book picks for you!"
	MsgRecommendedBooks = "📚 Recommended books:"
	MsgNoResults        = "No results found."
	MsgTotalBooks       = "%d books in total"
	MsgDetails          = "View details →"
	MsgCuratorNote      = "Curator's note"
	MsgMoodConfirm      = "Recommend for this mood"
	MsgSlowDown         = "Too many requests. Please wait a moment."
)

var korean = map[string]string{
	MsgUnknownAuthor:    "저자 미상",
	MsgNeedInterests:    "관심 분야 또는 키워드를 입력해주세요!",
	MsgNeedMood:         "기분을 선택해주세요!",
	MsgNeedQuery:        "검색어를 입력해주세요!",
	MsgUnknownList:      "알 수 없는 목록입니다: %s",
	MsgRecommendFailed:  "추천을 가져오는 중 오류가 발생했습니다.",
	MsgSearchFailed:     "검색 중 오류가 발생했습니다.",
	MsgListFailed:       "목록을 가져오는 중 오류가 발생했습니다.",
	MsgChatFailed:       "죄송해요, 응답을 가져오는 중 문제가 발생했어요. 다시 시도해주세요! 😅",
	MsgChatDefault:      "책 추천을 준비했어요!",
	MsgRecommendedBooks: "📚 추천 도서:",
	MsgNoResults:        "검색 결과가 없습니다.",
	MsgTotalBooks:       "총 %d권",
	MsgDetails:          "자세히 보기 →",
	MsgCuratorNote:      "큐레이터 코멘트",
	MsgMoodConfirm:      "이 기분에 맞는 책 추천받기",
	MsgSlowDown:         "요청이 너무 많아요. 잠시 후 다시 시도해주세요.",

	// mood and quick list labels
	"Comfort":      "힐링",
	"Excitement":   "설렘",
	"Feeling down": "우울",
	"Curiosity":    "호기심",
	"Worn out":     "지침",
	"Growth":       "성장",
	"Bestsellers":  "베스트셀러",
	"New releases": "신간",
	"IT":           "IT/프로그래밍",
	"Self-help":    "자기계발",
	"Novels":       "소설",

	// page chrome
	"Book Curator":            "도서관 책 추천 큐레이터",
	"Personal picks":          "맞춤 추천",
	"Mood picks":              "기분별 추천",
	"Search":                  "도서 검색",
	"Ask the librarian":       "AI 사서와 대화",
	"Home":                    "처음으로",
	"Interests or keywords":   "관심 분야 또는 키워드",
	"Reading purpose":         "독서 목적",
	"Any category":            "전체",
	"Recommend":               "추천받기",
	"Search books":            "검색",
	"Send":                    "보내기",
	"Type a question...":      "궁금한 것을 물어보세요...",
	"Loading...":              "불러오는 중...",
	"For study":               "학습",
	"For general knowledge":   "교양",
	"For fun":                 "재미",
	"For career":              "진로",
	"Title, author:, title:…": "제목, author:저자, title:제목…",
}

func init() {
	for key, msg := range korean {
		_ = message.SetString(language.Korean, key, msg)
	}
}

// NewPrinter returns a printer for a BCP 47 tag. English gets the source
// strings; anything else falls back to Korean.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		return message.NewPrinter(language.Korean)
	}
	if base, _ := tag.Base(); base.String() == "en" {
		return message.NewPrinter(language.English)
	}
	return message.NewPrinter(language.Korean)
}
