package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lottomart/notifier/pkg/archive"
	"github.com/lottomart/notifier/pkg/logger"
)

// Aggregator turns a run's tally into a persisted DeliveryReport.
type Aggregator struct {
	store          ReportStore
	sinks          []ReportSink
	persistTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewAggregator(store ReportStore, sinks []ReportSink, cfg Config, log *slog.Logger) *Aggregator {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Discard()
	}
	return &Aggregator{
		store:          store,
		sinks:          sinks,
		persistTimeout: cfg.PersistTimeout,
		now:            time.Now,
		logger:         log,
	}
}

// Finalize computes the report and overwrites the stored one. Persistence
// and sink failures are logged; the computed report is returned regardless.
// Writes use a context detached from ctx cancellation.
func (a *Aggregator) Finalize(ctx context.Context, notificationID string, total int, tally Tally) DeliveryReport {
	failedTokens := tally.FailedTokens
	if failedTokens == nil {
		failedTokens = []string{}
	}
	report := DeliveryReport{
		NotificationID:      notificationID,
		TotalRecipients:     total,
		SentCount:           tally.Sent,
		FailedCount:         tally.Failed,
		DeliveryRate:        DeliveryRate(tally.Sent, total),
		FailedTokens:        failedTokens,
		LastDeliveryAttempt: a.now().UTC(),
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.persistTimeout)
	defer cancel()

	if err := a.store.SaveReport(persistCtx, report); err != nil {
		a.logger.LogAttrs(ctx, slog.LevelError, "delivery report persistence failed",
			logger.ErrorCode("report.persist_failed"),
			logger.NotificationID(notificationID),
			logger.Error(err),
		)
	}

	for _, sink := range a.sinks {
		if err := sink.Publish(persistCtx, report); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelWarn, "delivery report sink failed",
				logger.ErrorCode("report.sink_failed"),
				logger.NotificationID(notificationID),
				logger.Component(fmt.Sprintf("%T", sink)),
				logger.Error(err),
			)
		}
	}

	return report
}

// ArchiveSink stores each report as a JSON object named
// "<notificationId>/<timestamp>.json".
type ArchiveSink struct {
	archive archive.Archive
}

func NewArchiveSink(a archive.Archive) *ArchiveSink {
	return &ArchiveSink{archive: a}
}

func (s *ArchiveSink) Publish(ctx context.Context, report DeliveryReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	key := fmt.Sprintf("%s/%s.json", report.NotificationID, report.LastDeliveryAttempt.Format("20060102T150405.000000000Z"))
	return s.archive.Put(ctx, key, data, "application/json")
}

// DocumentIndexer is satisfied by opensearch.Indexer.
type DocumentIndexer interface {
	Index(ctx context.Context, id string, doc any) error
}

// IndexSink indexes each report under its notification ID, so a rerun
// replaces the earlier document.
type IndexSink struct {
	indexer DocumentIndexer
}

func NewIndexSink(indexer DocumentIndexer) *IndexSink {
	return &IndexSink{indexer: indexer}
}

func (s *IndexSink) Publish(ctx context.Context, report DeliveryReport) error {
	return s.indexer.Index(ctx, report.NotificationID, report)
}
