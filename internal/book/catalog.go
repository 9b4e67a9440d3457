package book

// Mood is one selectable mood card.
type Mood struct {
	Tag   string
	Emoji string
	Label string // English source string, localised by the renderer
}

var Moods = []Mood{
	{Tag: "힐링", Emoji: "🌿", Label: "Comfort"},
	{Tag: "설렘", Emoji: "💫", Label: "Excitement"},
	{Tag: "우울", Emoji: "🌧️", Label: "Feeling down"},
	{Tag: "호기심", Emoji: "🔍", Label: "Curiosity"},
	{Tag: "지침", Emoji: "🛋️", Label: "Worn out"},
	{Tag: "성장", Emoji: "🌱", Label: "Growth"},
}

func IsMood(tag string) bool {
	for _, m := range Moods {
		if m.Tag == tag {
			return true
		}
	}
	return false
}

type ListEndpoint int

const (
	ListSearch ListEndpoint = iota
	ListBestsellers
	ListNewReleases
)

// QuickList is a pre-canned category pill mapped to a fixed backend query.
type QuickList struct {
	Key      string
	Label    string
	Endpoint ListEndpoint
	Query    ListQuery // Limit is filled in by the caller
}

var QuickLists = []QuickList{
	{Key: "bestseller", Label: "Bestsellers", Endpoint: ListBestsellers},
	{Key: "new", Label: "New releases", Endpoint: ListNewReleases},
	{Key: "it", Label: "IT", Endpoint: ListSearch, Query: ListQuery{Query: "프로그래밍", Type: "Keyword"}},
	{Key: "selfhelp", Label: "Self-help", Endpoint: ListBestsellers, Query: ListQuery{Category: "자기계발"}},
	{Key: "novel", Label: "Novels", Endpoint: ListBestsellers, Query: ListQuery{Category: "소설/시/희곡"}},
}

func FindQuickList(key string) (QuickList, bool) {
	for _, q := range QuickLists {
		if q.Key == key {
			return q, true
		}
	}
	return QuickList{}, false
}
