package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type fanoutService struct {
	logger           *slog.Logger
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

// NewFanoutService creates the notification fanout stage.
func NewFanoutService(
	logger *slog.Logger,
	notificationRepo repository.NotificationRepository,
) usecase.FanoutUsecase {
	return &fanoutService{
		logger:           logger,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// NotifyCriterion resolves the criterion's enabled channels against the
// owner's contact prerequisites and inserts one pending record per
// (channel, listing). SMS without a phone number on file is silently dropped
// for this user rather than failing the fanout. Marking listings seen and
// advancing the check timestamp are left to the caller, which only proceeds
// once record creation has succeeded.
func (s *fanoutService) NotifyCriterion(
	ctx context.Context,
	criterion *entity.Criterion,
	contact *entity.UserContact,
	listings []*entity.Listing,
) (*usecase.FanoutOutcome, error) {
	channels := resolveChannels(criterion, contact)
	if len(channels) == 0 {
		s.logger.Debug("no deliverable channel for criterion, fanout skipped",
			slog.String("criterion_id", criterion.ID.String()),
		)

		return &usecase.FanoutOutcome{SkippedNoChannels: true}, nil
	}

	now := s.now()
	records := make([]*entity.NotificationRecord, 0, len(channels)*len(listings))
	listingIDs := make([]uuid.UUID, 0, len(listings))
	for _, listing := range listings {
		listingIDs = append(listingIDs, listing.ID)
		for _, channel := range channels {
			records = append(records, s.buildRecord(criterion, contact, listing, channel, now))
		}
	}

	if err := s.notificationRepo.CreateBatch(ctx, records); err != nil {
		return nil, errors.Wrapf(err, "failed to create notification records for criterion %s", criterion.ID)
	}

	return &usecase.FanoutOutcome{
		RecordsCreated: len(records),
		Channels:       channels,
		ListingIDs:     listingIDs,
	}, nil
}

// resolveChannels intersects the criterion's toggles with channel
// prerequisites: SMS needs a phone number on file, email needs an address.
func resolveChannels(criterion *entity.Criterion, contact *entity.UserContact) []entity.Channel {
	var channels []entity.Channel
	if criterion.NotifySMS && contact != nil && contact.Phone != "" {
		channels = append(channels, entity.ChannelSMS)
	}
	if criterion.NotifyEmail && contact != nil && contact.Email != "" {
		channels = append(channels, entity.ChannelEmail)
	}
	if criterion.NotifyInApp {
		channels = append(channels, entity.ChannelInApp)
	}

	return channels
}

func (s *fanoutService) buildRecord(
	criterion *entity.Criterion,
	contact *entity.UserContact,
	listing *entity.Listing,
	channel entity.Channel,
	now time.Time,
) *entity.NotificationRecord {
	record := &entity.NotificationRecord{
		ID:          uuid.New(),
		UserID:      criterion.OwnerID,
		CriterionID: criterion.ID,
		ListingID:   listing.ID,
		Channel:     channel,
		Status:      entity.NotificationPending,
		CreatedAt:   now,
	}

	switch channel {
	case entity.ChannelSMS:
		record.Recipient = contact.Phone
		record.Body = renderSMS(criterion, listing)
	case entity.ChannelEmail:
		record.Recipient = contact.Email
		record.Subject = renderEmailSubject(criterion, listing)
		record.Body = renderEmailBody(criterion, listing)
	case entity.ChannelInApp:
		record.Body = renderInApp(criterion, listing)
	}

	return record
}

// renderSMS keeps the message near a single SMS segment: one line with the
// essentials and the listing URL.
func renderSMS(criterion *entity.Criterion, listing *entity.Listing) string {
	return fmt.Sprintf("New for %q: %dBR/%sBA $%d in %s. %s",
		criterion.Name,
		listing.Bedrooms,
		formatBaths(listing.Bathrooms),
		listing.Price,
		listing.Neighborhood,
		listing.URL,
	)
}

func renderEmailSubject(criterion *entity.Criterion, listing *entity.Listing) string {
	return fmt.Sprintf("New listing for %s: $%d in %s", criterion.Name, listing.Price, listing.Neighborhood)
}

func renderEmailBody(criterion *entity.Criterion, listing *entity.Listing) string {
	stabilization := ""
	if listing.StabilizationStatus == entity.StabilizationConfirmed || listing.StabilizationStatus == entity.StabilizationProbable {
		stabilization = fmt.Sprintf("<p>Rent stabilization: %s</p>", listing.StabilizationStatus)
	}

	return fmt.Sprintf(
		"<h2>%s</h2><p>%d bed / %s bath &mdash; $%d/mo</p><p>%s, %s</p>%s<p><a href=%q>View listing</a></p><p>Matched your saved search %q.</p>",
		listing.Address,
		listing.Bedrooms,
		formatBaths(listing.Bathrooms),
		listing.Price,
		listing.Address,
		listing.Neighborhood,
		stabilization,
		listing.URL,
		criterion.Name,
	)
}

func renderInApp(criterion *entity.Criterion, listing *entity.Listing) string {
	return fmt.Sprintf("%dBR/%sBA $%d in %s matched %q",
		listing.Bedrooms,
		formatBaths(listing.Bathrooms),
		listing.Price,
		listing.Neighborhood,
		criterion.Name,
	)
}

func formatBaths(baths float64) string {
	return strconv.FormatFloat(baths, 'f', -1, 64)
}
