package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"regexp"
	"time"

	"leaseradar/config"
	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/domain/service"
	"leaseradar/internal/usecase"

	"github.com/pkg/errors"
)

// e164Pattern is the strict recipient format for SMS: "+", a leading digit
// 1-9, then up to 13 more digits. Violations fail locally, before any
// provider call, to avoid wasting provider quota.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{0,13}$`)

type dispatchService struct {
	logger           *slog.Logger
	notificationRepo repository.NotificationRepository
	smsSender        service.SMSSender
	emailSender      service.EmailSender

	pageSize   int
	chunkSize  int
	chunkDelay time.Duration
	now        func() time.Time
	sleep      func(time.Duration)
}

// NewDispatchService creates the channel dispatchers.
func NewDispatchService(
	logger *slog.Logger,
	notificationRepo repository.NotificationRepository,
	smsSender service.SMSSender,
	emailSender service.EmailSender,
	cfg *config.Config,
) usecase.DispatchUsecase {
	chunkSize := 10
	chunkDelay := time.Second
	if cfg.SMS != nil {
		chunkSize = cfg.SMS.ChunkSize
		chunkDelay = cfg.SMS.ChunkDelay
	}

	return &dispatchService{
		logger:           logger,
		notificationRepo: notificationRepo,
		smsSender:        smsSender,
		emailSender:      emailSender,
		pageSize:         cfg.Dispatch.PageSize,
		chunkSize:        chunkSize,
		chunkDelay:       chunkDelay,
		now:              time.Now,
		sleep:            time.Sleep,
	}
}

// DispatchSMS drains one page of pending SMS records. Sends run in chunks
// with a small delay between them to respect provider rate limits.
func (s *dispatchService) DispatchSMS(ctx context.Context) (usecase.DispatchStats, error) {
	var stats usecase.DispatchStats

	if s.smsSender == nil {
		s.logger.Warn("sms sender not configured, leaving queue pending")

		return stats, nil
	}

	pending, err := s.notificationRepo.ListPending(ctx, entity.ChannelSMS, s.pageSize)
	if err != nil {
		return stats, errors.Wrap(err, "failed to list pending sms records")
	}

	for i, record := range pending {
		if i > 0 && i%s.chunkSize == 0 {
			s.sleep(s.chunkDelay)
		}

		if !e164Pattern.MatchString(record.Recipient) {
			s.failRecord(ctx, record, "invalid recipient: phone number is not E.164")
			stats.Failed++

			continue
		}

		providerID, err := s.smsSender.Send(ctx, record.Recipient, record.Body)
		if err != nil {
			s.failRecord(ctx, record, err.Error())
			stats.Failed++

			continue
		}

		s.sentRecord(ctx, record, providerID)
		stats.Sent++
	}

	return stats, nil
}

// DispatchEmail drains one page of pending email records.
func (s *dispatchService) DispatchEmail(ctx context.Context) (usecase.DispatchStats, error) {
	var stats usecase.DispatchStats

	if s.emailSender == nil {
		s.logger.Warn("email sender not configured, leaving queue pending")

		return stats, nil
	}

	pending, err := s.notificationRepo.ListPending(ctx, entity.ChannelEmail, s.pageSize)
	if err != nil {
		return stats, errors.Wrap(err, "failed to list pending email records")
	}

	for _, record := range pending {
		if _, err := mail.ParseAddress(record.Recipient); err != nil {
			s.failRecord(ctx, record, "invalid recipient: unparseable email address")
			stats.Failed++

			continue
		}

		providerID, err := s.emailSender.Send(ctx, record.Recipient, record.Subject, record.Body)
		if err != nil {
			s.failRecord(ctx, record, err.Error())
			stats.Failed++

			continue
		}

		s.sentRecord(ctx, record, providerID)
		stats.Sent++
	}

	return stats, nil
}

func (s *dispatchService) sentRecord(ctx context.Context, record *entity.NotificationRecord, providerID string) {
	if err := s.notificationRepo.MarkSent(ctx, record.ID, providerID, s.now()); err != nil {
		s.logger.Error("failed to mark notification sent",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (s *dispatchService) failRecord(ctx context.Context, record *entity.NotificationRecord, message string) {
	s.logger.Warn("notification dispatch failed",
		slog.String("record_id", record.ID.String()),
		slog.String("channel", string(record.Channel)),
		slog.String("reason", message),
	)
	if err := s.notificationRepo.MarkFailed(ctx, record.ID, message); err != nil {
		s.logger.Error("failed to mark notification failed",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
	}
}
