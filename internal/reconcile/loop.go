// Package reconcile keeps every mirrored message in step with its remote
// leaderboard. One tick fetches each tracked list, re-checks count tokens,
// edits messages whose content changed and evicts links whose message is
// gone. Entries are isolated from each other; the registry is flushed at most
// once per tick.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/leaderboard"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// DefaultConcurrency bounds how many entries are reconciled at once.
const DefaultConcurrency = 4

// ListFetcher reads the remote state of a list.
type ListFetcher interface {
	GetList(ctx context.Context, slug string) (*domain.Leaderboard, error)
}

// TokenValidator re-checks a count token against a slug.
type TokenValidator interface {
	Validate(ctx context.Context, token domain.Token, expectedSlug string) auth.Result
}

// Mirror re-renders a bound message. Controls are shown only when entry
// carries a token. Errors for vanished targets satisfy domain.IsGone.
type Mirror interface {
	Edit(ctx context.Context, entry domain.LinkEntry, board *domain.Leaderboard) error
}

// Registry is the slice of the link registry the loop needs.
type Registry interface {
	Snapshot() []domain.LinkEntry
	Mutate(ctx context.Context, fn func([]domain.LinkEntry) ([]domain.LinkEntry, bool)) error
}

// Forgetter drops per-message state kept elsewhere, such as menu selections.
type Forgetter interface {
	ForgetMessage(messageID string) int
}

// Loop performs reconciliation ticks.
type Loop struct {
	registry    Registry
	lists       ListFetcher
	tokens      TokenValidator
	mirror      Mirror
	forgetter   Forgetter
	concurrency int
}

// NewLoop wires a reconciliation loop. forgetter may be nil.
func NewLoop(reg Registry, lists ListFetcher, tokens TokenValidator, mirror Mirror, forgetter Forgetter, concurrency int) *Loop {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loop{
		registry:    reg,
		lists:       lists,
		tokens:      tokens,
		mirror:      mirror,
		forgetter:   forgetter,
		concurrency: concurrency,
	}
}

// Summary counts what one tick did.
type Summary struct {
	Checked    int
	Updated    int
	Downgraded int
	Evicted    int
	Failed     int
	Flushed    bool
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeUpdated
	outcomeEvicted
	outcomeFetchFailed
	outcomeEditFailed
	outcomeUnverifiable
)

func (o outcome) label() string {
	switch o {
	case outcomeUnchanged:
		return metrics.OutcomeUnchanged
	case outcomeUpdated:
		return metrics.OutcomeUpdated
	case outcomeEvicted:
		return metrics.OutcomeEvicted
	case outcomeFetchFailed:
		return metrics.OutcomeFetchFailed
	case outcomeEditFailed:
		return metrics.OutcomeEditFailed
	default:
		return metrics.OutcomeUnverifiable
	}
}

// result is the decision for one entry, applied to the registry after the
// fan-out completes.
type result struct {
	entry      domain.LinkEntry
	outcome    outcome
	hash       string
	downgraded bool
}

func (r result) dirty() bool {
	return r.outcome == outcomeEvicted || r.outcome == outcomeUpdated || r.downgraded
}

// Process runs one tick. It lets the loop be scheduled as a worker job.
func (l *Loop) Process(ctx context.Context) error {
	summary, err := l.Tick(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgTickFlushFailed, "error", err)
		return err
	}
	if summary.Flushed {
		logger.FromContext(ctx).Debug(LogMsgTickCompleted,
			"checked", summary.Checked,
			"updated", summary.Updated,
			"downgraded", summary.Downgraded,
			"evicted", summary.Evicted,
			"failed", summary.Failed)
	}
	return nil
}

// Tick reconciles every entry once. The only error returned is a failed flush.
func (l *Loop) Tick(ctx context.Context) (Summary, error) {
	start := time.Now()
	defer func() {
		metrics.ReconcileTicks.Inc()
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	entries := l.registry.Snapshot()
	results := make([]result, len(entries))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, e := range entries {
		g.Go(func() error {
			results[i] = l.reconcileEntry(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Checked: len(entries)}
	for _, r := range results {
		metrics.ReconcileOutcomes.WithLabelValues(r.outcome.label()).Inc()
		switch r.outcome {
		case outcomeUpdated:
			summary.Updated++
		case outcomeEvicted:
			summary.Evicted++
		case outcomeFetchFailed, outcomeEditFailed, outcomeUnverifiable:
			summary.Failed++
		}
		if r.downgraded {
			summary.Downgraded++
		}
	}

	flushed, err := l.apply(ctx, results)
	summary.Flushed = flushed
	if err != nil {
		return summary, err
	}
	return summary, nil
}

func (l *Loop) reconcileEntry(ctx context.Context, e domain.LinkEntry) (res result) {
	log := logger.FromContext(ctx).With("slug", e.Slug, "channel_id", e.ChannelID, "message_id", e.MessageID)
	res = result{entry: e}

	defer func() {
		if p := recover(); p != nil {
			log.Error(LogMsgEntryPanicked, "panic", p)
			res = result{entry: e, outcome: outcomeEditFailed}
		}
	}()

	board, err := l.lists.GetList(ctx, e.Slug)
	if err != nil {
		log.Warn(LogMsgFetchFailed, "error", err)
		res.outcome = outcomeFetchFailed
		return res
	}

	hash := leaderboard.Fingerprint(board)
	if hash == e.LastHash {
		res.outcome = outcomeUnchanged
		return res
	}

	render := e
	if e.CanCount() {
		check := l.tokens.Validate(ctx, e.CountToken, e.Slug)
		switch {
		case check.Status == auth.StatusUnavailable:
			log.Warn(LogMsgTokenUnverifiable, "token", e.CountToken)
			res.outcome = outcomeUnverifiable
			return res
		case check.Revokes():
			log.Warn(LogMsgTokenDowngraded, "token", e.CountToken, "status", check.Status.String())
			render.CountToken = ""
			res.downgraded = true
		}
	}

	if err := l.mirror.Edit(ctx, render, board); err != nil {
		if domain.IsGone(err) {
			log.Info(LogMsgEvicted, "reason", err)
			res.outcome = outcomeEvicted
			return res
		}
		log.Warn(LogMsgEditFailed, "error", err, "kind", domain.PlatformKind(err).String())
		res.outcome = outcomeEditFailed
		return res
	}

	res.outcome = outcomeUpdated
	res.hash = hash
	return res
}

// apply folds the tick's decisions into the registry with a single flush.
// Entries that were relinked or unlinked during the tick are left alone.
func (l *Loop) apply(ctx context.Context, results []result) (bool, error) {
	pending := make([]result, 0, len(results))
	for _, r := range results {
		if r.dirty() {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return false, nil
	}

	var evicted []string
	changed := false
	err := l.registry.Mutate(ctx, func(entries []domain.LinkEntry) ([]domain.LinkEntry, bool) {
		for _, r := range pending {
			idx := indexOf(entries, r.entry)
			if idx < 0 {
				continue
			}
			current := &entries[idx]

			if r.outcome == outcomeEvicted {
				entries = append(entries[:idx], entries[idx+1:]...)
				evicted = append(evicted, r.entry.MessageID)
				changed = true
				continue
			}

			if r.downgraded && current.CountToken == r.entry.CountToken && current.CanCount() {
				current.CountToken = ""
				current.LastHash = ""
				metrics.TokenDowngrades.WithLabelValues(metrics.SourceReconcile).Inc()
				changed = true
			}

			// Record the fingerprint only if the message was rendered with the
			// privilege the entry still has.
			if r.outcome == outcomeUpdated && current.CanCount() == (r.entry.CanCount() && !r.downgraded) {
				if current.LastHash != r.hash {
					current.LastHash = r.hash
					changed = true
				}
			}
		}
		return entries, changed
	})

	if l.forgetter != nil {
		for _, id := range evicted {
			l.forgetter.ForgetMessage(id)
		}
	}

	if err != nil {
		return changed, fmt.Errorf("reconcile flush: %w", err)
	}
	return changed, nil
}

func indexOf(entries []domain.LinkEntry, e domain.LinkEntry) int {
	for i := range entries {
		if entries[i].SameBinding(e) {
			return i
		}
	}
	return -1
}
