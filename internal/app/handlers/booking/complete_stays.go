package booking

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
)

const completeStaysKey = "booking.complete_stays"

// CompleteStaysCommand marks every confirmed stay whose check-out has passed
// as completed. It is dispatched by the scheduler, not by customers.
type CompleteStaysCommand struct {
	Now time.Time
}

func (c CompleteStaysCommand) Key() string { return completeStaysKey }

type CompleteStaysHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CompleteStaysHandler) Handle(ctx context.Context, cmd CompleteStaysCommand) (dto.CompletionReport, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var report dto.CompletionReport
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		due, err := unit.Bookings().ListConfirmedEndingBefore(ctx, now)
		if err != nil {
			return err
		}
		for _, booking := range due {
			if err := booking.Complete(now); err != nil {
				report.Failed++
				h.warn("stay completion skipped", booking.ID, err)
				continue
			}
			if err := unit.Bookings().Save(ctx, booking); err != nil {
				return err
			}
			if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking); err != nil {
				return err
			}
			report.Completed++
		}
		return nil
	})
	if err != nil {
		return dto.CompletionReport{}, classify(err)
	}
	if h.Logger != nil && report.Completed+report.Failed > 0 {
		h.Logger.Info("stays completed", "completed", report.Completed, "failed", report.Failed)
	}
	return report, nil
}

func (h *CompleteStaysHandler) warn(msg string, id any, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, "booking_id", id, "error", err)
	}
}

var _ commands.Handler[CompleteStaysCommand, dto.CompletionReport] = (*CompleteStaysHandler)(nil)
