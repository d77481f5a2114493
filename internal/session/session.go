// Package session holds the mutable state of one in-progress collection
// conversation. State is ephemeral and scoped to a single conversation:
// it is created on /start, mutated only by the flow state machine, and
// discarded on finalize, cancel, or process restart. There is
// deliberately no persistent backing store.
package session

// Stage is the position of a Session inside the collection workflow.
type Stage int

const (
	// StageAwaitingPointOfSale waits for the free-text point-of-sale name.
	StageAwaitingPointOfSale Stage = iota
	// StageAwaitingContainer waits for a container choice from the keyboard.
	StageAwaitingContainer
	// StageAwaitingSubItems waits for the comma-separated acrylic indices.
	StageAwaitingSubItems
	// StageAwaitingPhotos waits for a photo of the current acrylic.
	StageAwaitingPhotos
	// StageAwaitingDecision waits for a continue/advance/finalize command.
	StageAwaitingDecision
	// StageDone is terminal; the session is about to be discarded.
	StageDone
)

// String returns the stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageAwaitingPointOfSale:
		return "awaiting_point_of_sale"
	case StageAwaitingContainer:
		return "awaiting_container"
	case StageAwaitingSubItems:
		return "awaiting_sub_items"
	case StageAwaitingPhotos:
		return "awaiting_photos"
	case StageAwaitingDecision:
		return "awaiting_decision"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// PhotoRef is an opaque handle to a transport-held photo, not the bytes
// themselves. Ordinal is the 1-based position within its acrylic's
// sequence and is immutable once appended.
type PhotoRef struct {
	FileID  string
	Ordinal int
}

// Session is the state of one collection conversation.
//
// Invariants: Photos has exactly the keys in SubItems; every sequence
// holds at most the per-item photo limit; CurrentIndex < len(SubItems)
// while the stage is AwaitingPhotos or AwaitingDecision.
type Session struct {
	ChatID      int64
	PointOfSale string
	Container   string

	// SubItems are the selected acrylic names in selection order.
	SubItems []string

	// CurrentIndex points at the acrylic currently receiving photos.
	CurrentIndex int

	// Photos maps acrylic name to its photo sequence in append order.
	// Append order is upload order.
	Photos map[string][]PhotoRef

	Stage Stage
}

// New creates a Session at the initial stage.
func New(chatID int64) *Session {
	return &Session{
		ChatID: chatID,
		Photos: make(map[string][]PhotoRef),
		Stage:  StageAwaitingPointOfSale,
	}
}

// SelectSubItems installs the chosen acrylics and resets photo state.
func (s *Session) SelectSubItems(names []string) {
	s.SubItems = names
	s.CurrentIndex = 0
	s.Photos = make(map[string][]PhotoRef, len(names))
	for _, name := range names {
		s.Photos[name] = nil
	}
}

// CurrentSubItem returns the acrylic currently receiving photos.
func (s *Session) CurrentSubItem() string {
	return s.SubItems[s.CurrentIndex]
}

// PhotoCount returns the number of photos collected for the named acrylic.
func (s *Session) PhotoCount(name string) int {
	return len(s.Photos[name])
}

// TotalPhotos returns the number of photos collected across all acrylics.
func (s *Session) TotalPhotos() int {
	total := 0
	for _, refs := range s.Photos {
		total += len(refs)
	}
	return total
}

// AppendPhoto records a photo for the current acrylic, assigning the next
// ordinal. Capacity checking is the state machine's responsibility.
func (s *Session) AppendPhoto(fileID string) PhotoRef {
	name := s.CurrentSubItem()
	ref := PhotoRef{FileID: fileID, Ordinal: len(s.Photos[name]) + 1}
	s.Photos[name] = append(s.Photos[name], ref)
	return ref
}
