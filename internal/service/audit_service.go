package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mtss-api/internal/models"
	"github.com/noah-isme/mtss-api/pkg/config"
	"github.com/noah-isme/mtss-api/pkg/jobs"
)

const auditJobType = "audit.write"

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditService persists audit entries through a background queue. When the
// queue cannot take an entry it is written synchronously instead.
type AuditService struct {
	writer  auditWriter
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
}

// NewAuditService wires the queue; call Start before recording.
func NewAuditService(writer auditWriter, metrics *MetricsService, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{writer: writer, metrics: metrics, logger: logger, enabled: cfg.Enabled}
	svc.queue = jobs.NewQueue("audit", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	metrics.TrackAuditQueue(svc.Depth)
	return svc
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains pending entries.
func (s *AuditService) Stop(ctx context.Context) error {
	return s.queue.Stop(ctx)
}

// Depth reports how many entries are waiting to be written.
func (s *AuditService) Depth() int {
	if s == nil || s.queue == nil {
		return 0
	}
	return s.queue.Len()
}

// Record schedules entry for persistence.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) {
	if s == nil || entry == nil {
		return
	}
	if !s.enabled {
		s.metrics.RecordAuditEvent("dropped")
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry})
	if err == nil {
		s.metrics.RecordAuditEvent("queued")
		return
	}

	s.logger.Warn("audit queue unavailable, writing inline", zap.String("action", entry.Action), zap.Error(err))
	if werr := s.writer.CreateAuditLog(context.WithoutCancel(ctx), entry); werr != nil {
		s.metrics.RecordAuditEvent("failed")
		s.logger.Error("failed to write audit log", zap.String("action", entry.Action), zap.Error(werr))
		return
	}
	s.metrics.RecordAuditEvent("sync")
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return s.writer.CreateAuditLog(ctx, entry)
}
