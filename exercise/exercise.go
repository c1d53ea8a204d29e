package exercise

// Kind identifies one of the supported exercise variants.
type Kind string

const (
	KindMCQ         Kind = "mcq"
	KindInput       Kind = "input"
	KindFillBlank   Kind = "fill_blank"
	KindListenType  Kind = "listen_type"
	KindReorder     Kind = "reorder"
	KindMatch       Kind = "match"
	KindPronounce   Kind = "pronounce"
	KindUnsupported Kind = "unsupported"
)

// Points awarded on a correct answer, scaled by variant.
const (
	RewardBase      = 10
	RewardFillBlank = 15
	RewardReorder   = 15
	RewardMatch     = 20
)

// Exercise is a closed set of variants. Parse is the only producer; a type
// switch over Exercise plus the Unsupported case covers every value.
type Exercise interface {
	Kind() Kind
	Prompt() string
	Reward() int
	sealed()
}

// Pair associates a German term with its Russian translation.
type Pair struct {
	De string `json:"de"`
	Ru string `json:"ru"`
}

type MCQ struct {
	Question string
	Options  []string
	Answer   int // index into Options
}

type Input struct {
	Question string
	Answer   string
}

type FillBlank struct {
	Question string
	Sentence string
	Answers  []string // Answers[0] is canonical for reveal and speech
}

type ListenType struct {
	Question string
	Phrase   string // text to play; falls back to Answer when empty
	Answer   string
}

type Reorder struct {
	Question string
	Pieces   []string
	Correct  []string
}

type Match struct {
	Question string
	Pairs    []Pair
}

type Pronounce struct {
	Question string
	Phrase   string
}

// Unsupported stands in for a spec whose type the engine does not know.
// It renders a static message and never resolves.
type Unsupported struct {
	TypeName string
}

func (e *MCQ) Kind() Kind         { return KindMCQ }
func (e *Input) Kind() Kind       { return KindInput }
func (e *FillBlank) Kind() Kind   { return KindFillBlank }
func (e *ListenType) Kind() Kind  { return KindListenType }
func (e *Reorder) Kind() Kind     { return KindReorder }
func (e *Match) Kind() Kind       { return KindMatch }
func (e *Pronounce) Kind() Kind   { return KindPronounce }
func (e *Unsupported) Kind() Kind { return KindUnsupported }

func (e *MCQ) Prompt() string         { return e.Question }
func (e *Input) Prompt() string       { return e.Question }
func (e *FillBlank) Prompt() string   { return e.Question }
func (e *ListenType) Prompt() string  { return e.Question }
func (e *Reorder) Prompt() string     { return e.Question }
func (e *Match) Prompt() string       { return e.Question }
func (e *Pronounce) Prompt() string   { return e.Question }
func (e *Unsupported) Prompt() string { return "" }

func (e *MCQ) Reward() int         { return RewardBase }
func (e *Input) Reward() int       { return RewardBase }
func (e *FillBlank) Reward() int   { return RewardFillBlank }
func (e *ListenType) Reward() int  { return RewardBase }
func (e *Reorder) Reward() int     { return RewardReorder }
func (e *Match) Reward() int       { return RewardMatch }
func (e *Pronounce) Reward() int   { return RewardBase }
func (e *Unsupported) Reward() int { return 0 }

func (e *MCQ) sealed()         {}
func (e *Input) sealed()       {}
func (e *FillBlank) sealed()   {}
func (e *ListenType) sealed()  {}
func (e *Reorder) sealed()     {}
func (e *Match) sealed()       {}
func (e *Pronounce) sealed()   {}
func (e *Unsupported) sealed() {}
