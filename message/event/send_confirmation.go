package event

import (
	"context"
	"fmt"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// SendBookingConfirmationEmail consumes BookingConfirmed_v1 off the critical
// booking path. Redelivery means the client may get the mail twice, which is
// acceptable.
func (h Handler) SendBookingConfirmationEmail(ctx context.Context, event *entities.BookingConfirmed_v1) error {
	log.FromContext(ctx).WithField("booking_id", event.BookingID).Info("Sending confirmation email")

	mail := entities.Mail{
		From:    "no-reply@tickets.com",
		To:      event.ClientEmail,
		Subject: "Your ticket is confirmed!",
		Body: fmt.Sprintf(
			"Congrats! Your booking %s is confirmed. Your ticket number is %d.",
			event.BookingID,
			event.TicketNumber,
		),
	}

	err := h.mailerService.SendMail(ctx, mail)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}
