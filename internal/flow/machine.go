package flow

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inventory-drive-bot/internal/config"
	"github.com/fpang/inventory-drive-bot/internal/session"
)

// Reply is one outbound message. Keyboard, when non-nil, is a one-time
// quick-reply keyboard rendered by the transport.
type Reply struct {
	Text     string
	Keyboard [][]string
}

// Result describes the effect of handling one inbound event. At most one
// of Finalize and Discard is set. When Finalize is set the caller must
// run the upload pipeline and then discard the session; when Discard is
// set the session is dropped without uploading.
type Result struct {
	Replies  []Reply
	Finalize bool
	Discard  bool
}

func textResult(texts ...string) Result {
	r := Result{}
	for _, t := range texts {
		r.Replies = append(r.Replies, Reply{Text: t})
	}
	return r
}

// Machine drives Sessions through the collection workflow. It is
// stateless apart from the catalog and safe to share across conversations.
type Machine struct {
	catalog config.Catalog
}

// New creates a Machine for the given catalog.
func New(catalog config.Catalog) *Machine {
	return &Machine{catalog: catalog}
}

// Begin produces the greeting for a freshly created session.
func (m *Machine) Begin(s *session.Session, firstName string) Result {
	log.Info().Int64("chatId", s.ChatID).Msg("Collection started")
	return textResult(promptGreeting(firstName))
}

// HandleText processes a free-text message for the session's current
// stage. Validation failures re-prompt the same stage without mutating
// the session and are reported as a *ValidationError alongside the
// re-prompt reply.
func (m *Machine) HandleText(s *session.Session, text string) (Result, error) {
	switch s.Stage {
	case session.StageAwaitingPointOfSale:
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return textResult(noticeEmptyPointOfSale()), &ValidationError{Hint: "empty point of sale"}
		}
		s.PointOfSale = trimmed
		s.Stage = session.StageAwaitingContainer
		log.Info().Int64("chatId", s.ChatID).Str("pointOfSale", trimmed).Msg("Point of sale recorded")
		return Result{Replies: []Reply{{Text: promptContainer(), Keyboard: m.catalog.ContainerRows}}}, nil

	case session.StageAwaitingContainer:
		choice, ok := m.matchContainer(text)
		if !ok {
			return Result{
				Replies: []Reply{{Text: noticeInvalidContainer(), Keyboard: m.catalog.ContainerRows}},
			}, &ValidationError{Hint: "container not in presented choices"}
		}
		s.Container = NormalizeName(choice)
		s.Stage = session.StageAwaitingSubItems
		log.Info().Int64("chatId", s.ChatID).Str("container", s.Container).Msg("Container selected")
		return textResult(m.promptSubItems()), nil

	case session.StageAwaitingSubItems:
		names, err := ParseSubItemSelection(text, m.catalog.SubItemCount)
		if err != nil {
			return textResult(noticeInvalidSubItems()), err
		}
		s.SelectSubItems(names)
		s.Stage = session.StageAwaitingPhotos
		log.Info().Int64("chatId", s.ChatID).Strs("subItems", names).Msg("Acrylics selected")
		return textResult(m.promptPhotos(s.CurrentSubItem(), 1, len(names))), nil

	case session.StageAwaitingPhotos:
		return textResult(noticeExpectingPhoto()), &ValidationError{Hint: "expected a photo"}

	case session.StageAwaitingDecision:
		return textResult(noticeExpectingDecision()), &ValidationError{Hint: "expected a command"}
	}

	return Result{}, &ValidationError{Hint: "no active collection stage"}
}

// HandlePhoto processes an inbound photo event.
func (m *Machine) HandlePhoto(s *session.Session, fileID string) (Result, error) {
	if s.Stage != session.StageAwaitingPhotos {
		return textResult(noticeExpectingDecision()), &ValidationError{Hint: "not expecting a photo"}
	}

	name := s.CurrentSubItem()
	if s.PhotoCount(name) >= m.catalog.MaxPhotosPerItem {
		s.Stage = session.StageAwaitingDecision
		return textResult(m.noticeCapacity()), &CapacityError{Limit: m.catalog.MaxPhotosPerItem}
	}

	ref := s.AppendPhoto(fileID)
	s.Stage = session.StageAwaitingDecision
	log.Info().
		Int64("chatId", s.ChatID).
		Str("subItem", name).
		Int("ordinal", ref.Ordinal).
		Msg("Photo recorded")
	return textResult(m.promptDecision(ref.Ordinal, name)), nil
}

// HandleCommand processes a workflow command. Cancel is valid in every
// stage; the rest are only valid while awaiting a decision.
func (m *Machine) HandleCommand(s *session.Session, cmd Command) (Result, error) {
	if cmd == CmdCancel {
		s.Stage = session.StageDone
		log.Info().Int64("chatId", s.ChatID).Msg("Collection canceled")
		r := textResult(noticeCanceled())
		r.Discard = true
		return r, nil
	}

	if s.Stage != session.StageAwaitingDecision {
		return textResult(noticeExpectingDecision()), &ValidationError{Hint: "command not valid in stage " + s.Stage.String()}
	}

	switch cmd {
	case CmdContinueSame:
		name := s.CurrentSubItem()
		count := s.PhotoCount(name)
		if count >= m.catalog.MaxPhotosPerItem {
			return textResult(m.noticeContinueRejected()), &CapacityError{Limit: m.catalog.MaxPhotosPerItem}
		}
		s.Stage = session.StageAwaitingPhotos
		return textResult(m.promptPhotos(name, s.CurrentIndex+1, len(s.SubItems))), nil

	case CmdAdvance:
		s.CurrentIndex++
		if s.CurrentIndex >= len(s.SubItems) {
			s.Stage = session.StageDone
			r := textResult(noticeAllComplete())
			r.Finalize = true
			return r, nil
		}
		s.Stage = session.StageAwaitingPhotos
		return textResult(m.promptPhotos(s.CurrentSubItem(), s.CurrentIndex+1, len(s.SubItems))), nil

	case CmdFinalize:
		s.Stage = session.StageDone
		return Result{Finalize: true}, nil
	}

	return Result{}, &ValidationError{Hint: "unknown command"}
}

// matchContainer matches user text against the presented choices,
// ignoring case and surrounding whitespace.
func (m *Machine) matchContainer(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	for _, choice := range m.catalog.ContainerChoices() {
		if strings.EqualFold(trimmed, choice) {
			return choice, true
		}
	}
	return "", false
}
