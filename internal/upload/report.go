package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inventory-drive-bot/internal/session"
)

// ProgressReporter projects pipeline events into user-facing messages.
// Implementations are stateless with respect to the batch: they never
// retry or alter an outcome, only render it.
type ProgressReporter interface {
	// BatchStarted is called once before any transfer with the pre-upload summary.
	BatchStarted(s *session.Session, total int)

	// PhotoDone is called per completed transfer. done counts completions,
	// not plan positions, since transfers may run concurrently.
	PhotoDone(outcome Outcome, done, total int)

	// BatchFinished is called once with the aggregate report.
	BatchFinished(report *Report)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) BatchStarted(*session.Session, int) {}
func (NopReporter) PhotoDone(Outcome, int, int)        {}
func (NopReporter) BatchFinished(*Report)              {}

// Sender delivers a plain text message to a conversation.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// ChatReporter sends progress messages back to the collecting chat.
// Delivery failures are logged and ignored: reporting must never affect
// the batch outcome.
type ChatReporter struct {
	sender Sender
	chatID int64

	// PerPhoto enables one progress message per completed transfer. Off
	// by default to avoid flooding large batches.
	PerPhoto bool
}

// NewChatReporter creates a reporter bound to one conversation.
func NewChatReporter(sender Sender, chatID int64) *ChatReporter {
	return &ChatReporter{sender: sender, chatID: chatID}
}

func (r *ChatReporter) BatchStarted(s *session.Session, total int) {
	r.send(SummaryText(s, total))
}

func (r *ChatReporter) PhotoDone(outcome Outcome, done, total int) {
	if !r.PerPhoto {
		return
	}
	r.send(ProgressText(outcome, done, total))
}

func (r *ChatReporter) BatchFinished(report *Report) {
	r.send(FinalText(report))
}

func (r *ChatReporter) send(text string) {
	if err := r.sender.SendText(context.Background(), r.chatID, text); err != nil {
		log.Warn().Err(err).Int64("chatId", r.chatID).Msg("Progress message delivery failed")
	}
}

// SummaryText renders the pre-upload summary of a completed session.
func SummaryText(s *session.Session, total int) string {
	var lines []string
	for _, subItem := range s.SubItems {
		lines = append(lines, fmt.Sprintf("  • %s: %d foto(s)",
			strings.ReplaceAll(subItem, "_", " "), len(s.Photos[subItem])))
	}

	return fmt.Sprintf("📋 RESUMEN DEL PROCESO\n\n"+
		"📍 Punto de venta: %s\n"+
		"📦 Caja: %s\n"+
		"📸 Total de fotos: %d\n\n"+
		"🧊 Fotos por acrílico:\n%s\n\n"+
		"⏳ Iniciando subida al archivo...",
		s.PointOfSale, s.Container, total, strings.Join(lines, "\n"))
}

// ProgressText renders one per-photo progress line.
func ProgressText(outcome Outcome, done, total int) string {
	if outcome.Status == StatusFailed {
		return fmt.Sprintf("⚠️ Error con %s (%d/%d):\n%s", outcome.FileName, done, total, outcome.ErrorDetail)
	}
	return fmt.Sprintf("📤 Subida %s (%d/%d)", outcome.FileName, done, total)
}

// maxErrorLines bounds how many per-photo errors the final report shows.
const maxErrorLines = 3

// FinalText renders the aggregate result of a finalize batch.
func FinalText(report *Report) string {
	if report.Failed() == 0 {
		return fmt.Sprintf("🎉 ¡PROCESO COMPLETADO EXITOSAMENTE!\n\n"+
			"✅ %d fotos subidas correctamente\n"+
			"📁 Carpeta: %s\n\n"+
			"¡Gracias por usar el bot! 😊",
			report.Succeeded(), report.PointOfSale)
	}

	var errLines []string
	for _, o := range report.Outcomes {
		if o.Status != StatusFailed {
			continue
		}
		if len(errLines) < maxErrorLines {
			errLines = append(errLines, fmt.Sprintf("Error con %s: %s", o.FileName, o.ErrorDetail))
		}
	}
	suffix := ""
	if extra := report.Failed() - maxErrorLines; extra > 0 {
		suffix = fmt.Sprintf("\n... y %d errores más", extra)
	}

	return fmt.Sprintf("⚠️ PROCESO COMPLETADO CON ERRORES\n\n"+
		"✅ %d fotos subidas correctamente\n"+
		"❌ %d fotos con errores\n\n"+
		"Errores encontrados:\n%s%s\n\n"+
		"📁 Revisa el archivo en la carpeta: %s",
		report.Succeeded(), report.Failed(), strings.Join(errLines, "\n"), suffix, report.PointOfSale)
}
