// Package bot wires the chat transport to the collection state machine
// and the upload pipeline. Each conversation is processed on its own
// sequential timeline: one inbound event is fully handled, including
// prompt emission, before the next event for the same chat is accepted.
// Distinct chats run concurrently.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inventory-drive-bot/internal/flow"
	"github.com/fpang/inventory-drive-bot/internal/session"
	"github.com/fpang/inventory-drive-bot/internal/telegram"
	"github.com/fpang/inventory-drive-bot/internal/upload"
)

// Transport is what the dispatcher needs from the chat transport.
// *telegram.Client satisfies it.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, keyboardRows [][]string) error
	SendText(ctx context.Context, chatID int64, text string) error
	GetMe(ctx context.Context) (*telegram.User, error)
}

// Diagnoser runs the storage backend self-check for /diagnostico.
type Diagnoser interface {
	Diagnose(ctx context.Context, rootID string) []string
}

// Options configures dispatcher behavior.
type Options struct {
	// PollTimeoutSeconds is the getUpdates long-poll hold time.
	PollTimeoutSeconds int

	// PerPhotoProgress enables one progress message per uploaded photo.
	PerPhotoProgress bool

	// RootID is the storage root (Drive folder id or S3 prefix), used by
	// the diagnostics probe.
	RootID string

	// EnvSummary lists configuration presence lines for /diagnostico.
	EnvSummary []string
}

// Bot dispatches transport updates into per-conversation workers.
type Bot struct {
	transport Transport
	sessions  *session.Store
	machine   *flow.Machine
	pipeline  *upload.Pipeline
	diagnoser Diagnoser
	opts      Options

	mu     sync.Mutex
	queues map[int64]chan telegram.Update
	wg     sync.WaitGroup
}

// New creates a dispatcher. diagnoser may be nil to disable the storage
// self-check.
func New(transport Transport, machine *flow.Machine, pipeline *upload.Pipeline, diagnoser Diagnoser, opts Options) *Bot {
	if opts.PollTimeoutSeconds <= 0 {
		opts.PollTimeoutSeconds = 30
	}
	return &Bot{
		transport: transport,
		sessions:  session.NewStore(),
		machine:   machine,
		pipeline:  pipeline,
		diagnoser: diagnoser,
		opts:      opts,
		queues:    make(map[int64]chan telegram.Update),
	}
}

// Run long-polls for updates until ctx is canceled, dispatching every
// message update to its conversation worker.
func (b *Bot) Run(ctx context.Context) error {
	log.Info().Msg("Bot dispatcher running")

	var offset int64
	for {
		updates, err := b.transport.GetUpdates(ctx, offset, b.opts.PollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("getUpdates failed, backing off")
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if upd.Message == nil {
				continue
			}
			b.dispatch(ctx, upd)
		}

		if ctx.Err() != nil {
			break
		}
	}

	b.mu.Lock()
	for _, q := range b.queues {
		close(q)
	}
	b.queues = nil
	b.mu.Unlock()
	b.wg.Wait()

	log.Info().Msg("Bot dispatcher stopped")
	return nil
}

// dispatch enqueues an update on its conversation's worker, starting the
// worker on first contact.
func (b *Bot) dispatch(ctx context.Context, upd telegram.Update) {
	chatID := upd.Message.Chat.ID

	b.mu.Lock()
	if b.queues == nil {
		b.mu.Unlock()
		return
	}
	q, ok := b.queues[chatID]
	if !ok {
		q = make(chan telegram.Update, 16)
		b.queues[chatID] = q
		b.wg.Add(1)
		go b.chatWorker(ctx, chatID, q)
	}
	b.mu.Unlock()

	select {
	case q <- upd:
	default:
		// A full queue means the user is far ahead of processing; drop
		// rather than block the poll loop.
		log.Warn().Int64("chatId", chatID).Msg("Conversation queue full, update dropped")
	}
}

// chatWorker processes one conversation's updates strictly in order.
func (b *Bot) chatWorker(ctx context.Context, chatID int64, q <-chan telegram.Update) {
	defer b.wg.Done()
	for upd := range q {
		b.handleUpdate(ctx, upd)
	}
	log.Debug().Int64("chatId", chatID).Msg("Conversation worker stopped")
}
