package bot

import (
	"strings"

	"github.com/fpang/inventory-drive-bot/internal/flow"
)

// parseCommand extracts the command word from a "/command" message,
// lower-cased and with any "@botname" suffix stripped. ok is false for
// non-command text.
func parseCommand(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}
	word := strings.Fields(trimmed)[0][1:]
	if at := strings.IndexByte(word, '@'); at >= 0 {
		word = word[:at]
	}
	return strings.ToLower(word), true
}

// flowCommand maps a command spelling onto the closed workflow command
// set. The original bot registered /Siguiente and /Acrilico with a
// capital letter; parseCommand lower-cases, so both spellings work.
func flowCommand(word string) (flow.Command, bool) {
	switch word {
	case "siguiente":
		return flow.CmdContinueSame, true
	case "acrilico":
		return flow.CmdAdvance, true
	case "finalizar":
		return flow.CmdFinalize, true
	case "cancelar":
		return flow.CmdCancel, true
	}
	return 0, false
}
