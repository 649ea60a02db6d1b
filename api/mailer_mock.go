package api

import (
	"context"
	"sync"

	"github.com/Martyn911/ticket-system/entities"
)

type MailerMock struct {
	lock sync.Mutex

	SentMails []entities.Mail
}

func (m *MailerMock) SendMail(ctx context.Context, mail entities.Mail) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.SentMails = append(m.SentMails, mail)
	return nil
}

func (m *MailerMock) Sent() []entities.Mail {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]entities.Mail(nil), m.SentMails...)
}
