package event

import (
	"context"

	"github.com/Martyn911/ticket-system/entities"
)

type MailerService interface {
	SendMail(ctx context.Context, mail entities.Mail) error
}

type Handler struct {
	mailerService MailerService
}

func NewHandler(mailerService MailerService) Handler {
	if mailerService == nil {
		panic("missing mailerService")
	}
	return Handler{
		mailerService: mailerService,
	}
}
