package engine

// Phase identifies what the engine is currently doing.
type Phase int

const (
	// Uninitialized is the state before Initialized has fired. It must
	// never be observed by a reporter; seeing it is a programming error.
	Uninitialized Phase = iota
	WaitingForCorpus
	CorpusImport
	CorpusGeneration
	Fuzzing
)

// State is the engine's current phase plus phase-specific detail.
// Exactly one phase is active at any instant.
type State struct {
	Phase Phase

	// ImportProgress is the fraction (0..1) of the corpus imported so
	// far. Meaningful only when Phase == CorpusImport.
	ImportProgress float64

	// EngineName names the mutation engine in use. Meaningful only when
	// Phase is CorpusGeneration or Fuzzing.
	EngineName string
}
