package mailgun

import (
	"context"

	"github.com/mailgun/mailgun-go/v3"
	"github.com/pkg/errors"

	icpa "github.com/Davibfr13/ICPA"
)

type MailgunOption func(t *mailgunTransport)

func SetFrom(from string) MailgunOption {
	return func(t *mailgunTransport) {
		t.from = from
	}
}

func SetSubject(subject string) MailgunOption {
	return func(t *mailgunTransport) {
		t.subject = subject
	}
}

type mailgunTransport struct {
	mg mailgun.Mailgun

	from    string
	subject string
}

// NewMailgunTransport delivers the media payload as an email attachment,
// for deployments whose recipients are email addresses rather than phone
// numbers.
func NewMailgunTransport(mailgunClient mailgun.Mailgun, options ...MailgunOption) icpa.GatewayTransport {
	t := &mailgunTransport{
		mg:      mailgunClient,
		subject: "Scheduled media delivery",
	}

	for _, option := range options {
		option(t)
	}

	return t
}

func (t *mailgunTransport) Send(ctx context.Context, job *icpa.DeliveryJob, media []byte) error {
	msg := t.mg.NewMessage(t.from, t.subject, job.Caption, job.Recipient)
	msg.AddBufferAttachment(attachmentName(job.MediaKind), media)

	if _, _, err := t.mg.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "Failed to send message through mailgun")
	}

	return nil
}

func attachmentName(kind icpa.MediaKind) string {
	switch kind {
	case icpa.MediaImage:
		return "media.jpg"
	case icpa.MediaVideo:
		return "media.mp4"
	case icpa.MediaAudio:
		return "media.ogg"
	default:
		return "media.pdf"
	}
}
