package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"confposter/pkg/config"
	"confposter/pkg/logger"
	"confposter/pkg/models"
)

// Sender delivers a single message. Implementations are best effort; the
// notifier swallows delivery failures after logging them.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through an authenticated SMTP server.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one plain-text message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return client.DialAndSendWithContext(ctx, msg)
}

// Notifier emits operator alerts for rows whose posted status could not
// be durably recorded.
type Notifier struct {
	sender Sender
	logger logger.Logger
}

// NewNotifier creates a notifier using the given sender.
func NewNotifier(sender Sender, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Notifier{sender: sender, logger: log}
}

// CommitFailed alerts the operator that a row was published but its
// posted marker could not be written. The row needs manual
// reconciliation; delivery failure is logged and not escalated further.
func (n *Notifier) CommitFailed(ctx context.Context, recipient, table string, row models.Confession) {
	subject := fmt.Sprintf("Instagram posting ALERT: could not mark sr_no %d as posted", row.SrNo)
	body := fmt.Sprintf(
		"The publisher failed to mark sr_no %d as posted after exhausting all retry attempts.\n"+
			"The image was published to Instagram but the table does not reflect it, so the row\n"+
			"may be posted again on the next run. Manual intervention is needed.\n\n"+
			"Image URL: %s\nTable: %s\nTimestamp: %s\n",
		row.SrNo, row.ImagekitURL, table, time.Now().Format(time.RFC3339))

	if err := n.sender.Send(ctx, recipient, subject, body); err != nil {
		n.logger.WithError(err).WithFields(map[string]interface{}{
			"sr_no":     row.SrNo,
			"table":     table,
			"recipient": recipient,
		}).Error("failed to send commit failure alert")
		return
	}

	n.logger.InfoWithFields("commit failure alert sent", map[string]interface{}{
		"sr_no":     row.SrNo,
		"table":     table,
		"recipient": recipient,
	})
}
