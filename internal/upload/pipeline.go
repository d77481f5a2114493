package upload

import (
	"context"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fpang/inventory-drive-bot/internal/session"
)

// maxDetailBytes bounds the per-outcome error detail shown to the user.
const maxDetailBytes = 120

// Status is the result of one attempted photo transfer.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Outcome records the result of one photo transfer attempt.
type Outcome struct {
	FileName    string
	Status      Status
	ErrorDetail string
}

// Report aggregates the outcomes of one finalize batch. Outcomes follow
// the session's deterministic iteration order (acrylics in selection
// order, photos in append order), not physical completion order.
type Report struct {
	BatchID     string
	PointOfSale string
	FolderID    string
	Outcomes    []Outcome
}

// Succeeded returns the number of successful transfers.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Failed returns the number of failed transfers.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// planItem is one photo scheduled for transfer, tagged with its slot in
// the deterministic output order.
type planItem struct {
	index    int
	fileName string
	fileID   string
}

// Pipeline transfers every collected photo of a completed session to the
// asset store, best-effort: an individual fetch or write failure records
// a Failed outcome and the batch continues. Only an authentication
// failure aborts the whole batch.
type Pipeline struct {
	store        AssetStore
	fetcher      PhotoFetcher
	rootFolderID string
	workers      int
}

// NewPipeline creates a Pipeline. workers bounds the concurrent
// transfers; 1 gives a fully sequential batch.
func NewPipeline(store AssetStore, fetcher PhotoFetcher, rootFolderID string, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		store:        store,
		fetcher:      fetcher,
		rootFolderID: rootFolderID,
		workers:      workers,
	}
}

// Run executes the finalize batch for a completed session, reporting
// progress to reporter (nil for silent). It returns a Report with
// exactly one Outcome per collected photo. The only error return is a
// fatal *AuthError, raised before any transfer is attempted.
func (p *Pipeline) Run(ctx context.Context, s *session.Session, reporter ProgressReporter) (*Report, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	plan := buildPlan(s)
	report := &Report{
		BatchID:     uuid.NewString(),
		PointOfSale: archiveName(s.PointOfSale),
		Outcomes:    make([]Outcome, len(plan)),
	}

	log.Info().
		Str("batchId", report.BatchID).
		Str("pointOfSale", report.PointOfSale).
		Int("photos", len(plan)).
		Msg("Finalize batch started")

	reporter.BatchStarted(s, len(plan))

	resolver := NewFolderResolver(p.store)
	folderID, err := resolver.Resolve(ctx, report.PointOfSale, p.rootFolderID)
	if err != nil {
		if IsAuthError(err) {
			log.Error().Err(err).Str("batchId", report.BatchID).Msg("Finalize aborted: store unusable")
			return nil, err
		}
		// The folder is a prerequisite for every transfer: without it the
		// whole batch fails, but each photo still gets its outcome.
		log.Error().Err(err).Str("batchId", report.BatchID).Msg("Folder resolution failed")
		for i, item := range plan {
			report.Outcomes[i] = Outcome{
				FileName:    item.fileName,
				Status:      StatusFailed,
				ErrorDetail: shortDetail(err),
			}
		}
		reporter.BatchFinished(report)
		return report, nil
	}
	report.FolderID = folderID

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, item := range plan {
		g.Go(func() error {
			outcome := p.transfer(gctx, item, folderID)
			report.Outcomes[item.index] = outcome
			reporter.PhotoDone(outcome, int(done.Add(1)), len(plan))
			return nil
		})
	}
	// Workers never return errors; the batch always runs to completion.
	_ = g.Wait()

	log.Info().
		Str("batchId", report.BatchID).
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Msg("Finalize batch complete")

	reporter.BatchFinished(report)
	return report, nil
}

// transfer fetches one photo from the transport and writes it to the store.
func (p *Pipeline) transfer(ctx context.Context, item planItem, folderID string) Outcome {
	data, err := p.fetcher.FetchPhoto(ctx, item.fileID)
	if err != nil {
		log.Error().Err(err).Str("fileName", item.fileName).Msg("Photo fetch failed")
		return Outcome{FileName: item.fileName, Status: StatusFailed, ErrorDetail: shortDetail(err)}
	}

	if _, err := p.store.CreateFile(ctx, item.fileName, folderID, data, imageMIME); err != nil {
		log.Error().Err(err).Str("fileName", item.fileName).Msg("Photo upload failed")
		return Outcome{FileName: item.fileName, Status: StatusFailed, ErrorDetail: shortDetail(err)}
	}

	log.Debug().Str("fileName", item.fileName).Int("bytes", len(data)).Msg("Photo uploaded")
	return Outcome{FileName: item.fileName, Status: StatusSuccess}
}

// buildPlan flattens the session's photos into deterministic upload order.
func buildPlan(s *session.Session) []planItem {
	var plan []planItem
	for _, subItem := range s.SubItems {
		for _, ref := range s.Photos[subItem] {
			plan = append(plan, planItem{
				index:    len(plan),
				fileName: FileName(s.PointOfSale, s.Container, subItem, ref.Ordinal),
				fileID:   ref.FileID,
			})
		}
	}
	return plan
}

// shortDetail truncates an error for the user-facing outcome record,
// cutting on a rune boundary so multibyte text stays valid.
func shortDetail(err error) string {
	msg := err.Error()
	if len(msg) <= maxDetailBytes {
		return msg
	}
	cut := maxDetailBytes
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut] + "..."
}
