package book

// Book is one title as the recommendation backend describes it.
// Only Title is expected to be set; everything else is optional.
type Book struct {
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	Cover        string `json:"cover,omitempty"`
	Link         string `json:"link,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	Description  string `json:"description,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	PubDate      string `json:"pubDate,omitempty"`
	ISBN         string `json:"isbn,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Highlight    string `json:"highlight,omitempty"`
	Quote        string `json:"quote,omitempty"`
}

// RecommendationResponse answers /api/recommend and /api/recommend/mood.
// A nil Recommendations slice means the field was absent or null,
// which is different from an empty list.
type RecommendationResponse struct {
	Recommendations []Book `json:"recommendations"`
	CuratorComment  string `json:"curator_comment,omitempty"`
	MoodAnalysis    string `json:"mood_analysis,omitempty"`
	Encouragement   string `json:"encouragement,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Failed reports a server error with no usable recommendations.
func (r *RecommendationResponse) Failed() bool {
	return r.Error != "" && r.Recommendations == nil
}

type ChatResponse struct {
	Answer            string   `json:"answer,omitempty"`
	Recommendations   []Book   `json:"recommendations,omitempty"`
	FollowupQuestions []string `json:"followup_questions,omitempty"`
	Error             string   `json:"error,omitempty"`
}

func (r *ChatResponse) Failed() bool {
	return r.Error != "" && r.Answer == ""
}

// SearchResponse answers the search, bestseller and new-release lists.
type SearchResponse struct {
	Items        []Book `json:"item"`
	TotalResults int    `json:"totalResults,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Total is the count shown in the result header: the backend's
// totalResults when it reports one, the number of items otherwise.
func (r *SearchResponse) Total() int {
	if r.TotalResults > 0 {
		return r.TotalResults
	}
	return len(r.Items)
}

func (r *SearchResponse) Failed() bool {
	return r.Error != "" && len(r.Items) == 0
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Interests string `json:"interests"`
	Purpose   string `json:"purpose"`
	Category  string `json:"category,omitempty"`
}

type MoodRequest struct {
	Mood string `json:"mood"`
}

type ChatRequest struct {
	Query string `json:"query"`
}

// ListQuery carries the query-string parameters of the GET list endpoints.
type ListQuery struct {
	Query    string
	Type     string
	Category string
	Limit    int
}
