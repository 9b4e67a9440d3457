package view

// Container ids on the page.
const (
	TargetRecommend  = "results-recommend"
	TargetMood       = "results-mood"
	TargetSearch     = "results-search"
	TargetChat       = "chat-messages"
	TargetMoodGrid   = "mood-grid"
	TargetCategories = "category-pills"
)

type Swap string

const (
	SwapReplace Swap = "innerHTML"
	SwapAppend  Swap = "beforeend"
)

// Fragment is the outcome of one UI event: content for a container, or a
// blocking alert when validation stopped the action before any request.
type Fragment struct {
	Target string
	Swap   Swap
	Body   string
	Alert  string
	// OOB updates other containers (selection styling) alongside Target.
	OOB []Fragment
}

func (f Fragment) IsAlert() bool { return f.Alert != "" }

// IsNoop reports an event that was ignored entirely.
func (f Fragment) IsNoop() bool { return f.Target == "" && f.Alert == "" }
