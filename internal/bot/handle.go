package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inventory-drive-bot/internal/flow"
	"github.com/fpang/inventory-drive-bot/internal/session"
	"github.com/fpang/inventory-drive-bot/internal/telegram"
	"github.com/fpang/inventory-drive-bot/internal/upload"
)

// handleUpdate routes one inbound message: commands first, then photo or
// free text against the conversation's current stage.
func (b *Bot) handleUpdate(ctx context.Context, upd telegram.Update) {
	msg := upd.Message
	chatID := msg.Chat.ID

	if word, ok := parseCommand(msg.Text); ok {
		b.handleCommand(ctx, chatID, msg, word)
		return
	}

	s := b.sessions.Get(chatID)
	if s == nil {
		b.send(ctx, chatID, flow.Reply{Text: noSessionText})
		return
	}

	var res flow.Result
	var err error
	if fileID := msg.BestPhoto(); fileID != "" {
		res, err = b.machine.HandlePhoto(s, fileID)
	} else {
		res, err = b.machine.HandleText(s, msg.Text)
	}
	if err != nil {
		// Validation and capacity errors re-prompt via res.Replies; the
		// session was left untouched.
		log.Debug().Err(err).Int64("chatId", chatID).Str("stage", s.Stage.String()).Msg("Input rejected")
	}
	b.finish(ctx, s, res)
}

// handleCommand processes a /command word.
func (b *Bot) handleCommand(ctx context.Context, chatID int64, msg *telegram.Message, word string) {
	switch word {
	case "start":
		s := session.New(chatID)
		b.sessions.Put(s)
		firstName := ""
		if msg.From != nil {
			firstName = msg.From.FirstName
		}
		b.finish(ctx, s, b.machine.Begin(s, firstName))
		return

	case "health":
		b.send(ctx, chatID, flow.Reply{Text: healthText})
		return

	case "help", "ayuda":
		b.send(ctx, chatID, flow.Reply{Text: helpText})
		return

	case "diagnostico":
		b.send(ctx, chatID, flow.Reply{Text: "🔍 Ejecutando diagnóstico del sistema..."})
		b.send(ctx, chatID, flow.Reply{Text: b.diagnose(ctx)})
		return
	}

	cmd, ok := flowCommand(word)
	if !ok {
		b.send(ctx, chatID, flow.Reply{Text: unknownCommandText})
		return
	}

	s := b.sessions.Get(chatID)
	if s == nil {
		b.send(ctx, chatID, flow.Reply{Text: noSessionText})
		return
	}

	res, err := b.machine.HandleCommand(s, cmd)
	if err != nil {
		log.Debug().Err(err).Int64("chatId", chatID).Str("command", cmd.String()).Msg("Command rejected")
	}
	b.finish(ctx, s, res)
}

// finish delivers the replies of one transition and performs the
// terminal effects: running the upload pipeline on finalize, and
// discarding the session afterwards (or immediately on cancel).
func (b *Bot) finish(ctx context.Context, s *session.Session, res flow.Result) {
	for _, reply := range res.Replies {
		b.send(ctx, s.ChatID, reply)
	}

	switch {
	case res.Finalize:
		b.finalize(ctx, s)
		b.sessions.Delete(s.ChatID)
	case res.Discard:
		b.sessions.Delete(s.ChatID)
	}
}

// finalize runs the upload pipeline for a completed session. A fatal
// auth failure produces a single user-facing diagnostic; the session is
// discarded either way by the caller.
func (b *Bot) finalize(ctx context.Context, s *session.Session) {
	reporter := upload.NewChatReporter(b.transport, s.ChatID)
	reporter.PerPhoto = b.opts.PerPhotoProgress

	if _, err := b.pipeline.Run(ctx, s, reporter); err != nil {
		if upload.IsAuthError(err) {
			b.send(ctx, s.ChatID, flow.Reply{Text: authFailureText})
			return
		}
		log.Error().Err(err).Int64("chatId", s.ChatID).Msg("Finalize failed")
		b.send(ctx, s.ChatID, flow.Reply{Text: "❌ Error al procesar las fotos. Intenta de nuevo más tarde."})
	}
}

// diagnose assembles the /diagnostico report: configuration presence,
// storage backend reachability, and bot identity.
func (b *Bot) diagnose(ctx context.Context) string {
	var lines []string

	lines = append(lines, "📋 VARIABLES DE ENTORNO:")
	lines = append(lines, b.opts.EnvSummary...)

	lines = append(lines, "", "🔧 ALMACENAMIENTO:")
	if b.diagnoser != nil {
		lines = append(lines, b.diagnoser.Diagnose(ctx, b.opts.RootID)...)
	} else {
		lines = append(lines, "❌ Backend de almacenamiento no configurado")
	}

	lines = append(lines, "", "🤖 BOT:")
	if me, err := b.transport.GetMe(ctx); err != nil {
		lines = append(lines, fmt.Sprintf("❌ Error del bot: %v", err))
	} else {
		lines = append(lines, fmt.Sprintf("✅ Bot activo: @%s", me.Username))
	}

	return strings.Join(lines, "\n")
}

// send delivers one reply, logging delivery failures without affecting
// the workflow.
func (b *Bot) send(ctx context.Context, chatID int64, reply flow.Reply) {
	if err := b.transport.SendMessage(ctx, chatID, reply.Text, reply.Keyboard); err != nil {
		log.Warn().Err(err).Int64("chatId", chatID).Msg("Reply delivery failed")
	}
}
