// Package notify delivers account confirmation links by mail and Telegram.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/config"
	"github.com/artem13815/hr-crm/pkg/logger"
)

const (
	confirmSubject = "Подтверждение почты"
	confirmPrefix  = "Подтвердить почту перейдя по ссылке: "
)

// Notifier implements auth.Notifier. Mail is mandatory; Telegram is best effort.
type Notifier struct {
	mail     Mailer
	telegram *Telegram
	log      *zap.Logger
}

func New(mail Mailer, telegram *Telegram, log *zap.Logger) *Notifier {
	return &Notifier{mail: mail, telegram: telegram, log: logger.OrNop(log)}
}

// FromConfig picks the mail backend and enables Telegram when configured.
func FromConfig(cfg config.Config, log *zap.Logger) (*Notifier, error) {
	var mail Mailer
	switch cfg.Mail.Backend {
	case "", "file":
		mail = NewFileMailer(cfg.Mail.Dir, cfg.Mail.From)
	case "smtp":
		mail = NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Mail.Backend)
	}
	tg := NewTelegram(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.ChatID)
	return New(mail, tg, log), nil
}

func (n *Notifier) SendConfirmation(ctx context.Context, email, link string) error {
	text := confirmPrefix + link
	if err := n.mail.Send(ctx, email, confirmSubject, text); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	if n.telegram == nil {
		return nil
	}
	if err := n.telegram.Send(ctx, text); err != nil {
		n.log.Warn("telegram notification failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}
