// Package flow implements the collection state machine: it drives a
// Session through the ordered stages of the inventory workflow,
// validating free-text, photo, and command input and producing the next
// prompt. It never talks to the transport or the asset store directly.
package flow

// Command is a closed set of workflow commands. The transport layer maps
// its own spellings (/siguiente, /acrilico, ...) onto this enum so that
// transition handling is an exhaustive switch rather than a string-compare
// chain.
type Command int

const (
	// CmdContinueSame requests another photo of the current acrylic.
	CmdContinueSame Command = iota
	// CmdAdvance moves to the next acrylic, or finalizes past the last one.
	CmdAdvance
	// CmdFinalize triggers the upload pipeline and ends the session.
	CmdFinalize
	// CmdCancel discards the session from any stage.
	CmdCancel
)

// String returns the command name for logging.
func (c Command) String() string {
	switch c {
	case CmdContinueSame:
		return "continue-same-category"
	case CmdAdvance:
		return "advance-category"
	case CmdFinalize:
		return "finalize"
	case CmdCancel:
		return "cancel"
	}
	return "unknown"
}
