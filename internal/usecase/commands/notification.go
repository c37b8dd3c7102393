package commands

import (
	"context"
	"log/slog"

	"worklab/internal/infra"
	"worklab/internal/pkg/errs"
)

var ErrNotificationNotFound = errs.New("notification not found")

// DeliveryStatusStore records provider callbacks against the outbox.
type DeliveryStatusStore interface {
	RecordDeliveryStatus(ctx context.Context, providerSID, status string, detail *string) error
}

type DeliveryStatusInput struct {
	ProviderSID string
	Status      string
	ErrorCode   string
}

type NotificationCommands interface {
	// RecordDeliveryStatus ingests a provider status callback for a sent
	// notification.
	RecordDeliveryStatus(ctx context.Context, input DeliveryStatusInput) error
}

type notificationCommandsImpl struct {
	store DeliveryStatusStore
}

func NewNotificationCommands(store DeliveryStatusStore) NotificationCommands {
	return &notificationCommandsImpl{store: store}
}

func (c *notificationCommandsImpl) RecordDeliveryStatus(ctx context.Context, input DeliveryStatusInput) error {
	var detail *string
	if input.ErrorCode != "" {
		detail = &input.ErrorCode
	}

	err := c.store.RecordDeliveryStatus(ctx, input.ProviderSID, input.Status, detail)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrNotificationNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}

	if input.Status == "failed" || input.Status == "undelivered" {
		slog.Warn("provider reported delivery failure",
			"provider_sid", input.ProviderSID,
			"status", input.Status,
			"error_code", input.ErrorCode)
	}
	return nil
}
