package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brightpixel/studiosite/internal/telemetry/tracing"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/codes"
)

var ErrMailerNotConfigured = errors.New("smtp relay not configured")

// DisabledMailer is used when no SMTP relay is configured, every send fails.
type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, *Submission) error {
	return ErrMailerNotConfigured
}

type MailerParams struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPMailer forwards contact submissions to the studio inbox.
// A go-mail Client holds the connection of the current session and is not
// safe for concurrent dials, so every Send uses its own client.
type SMTPMailer struct {
	host string
	opts []mail.Option
	from string
	to   string
}

func NewSMTPMailer(params MailerParams) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(params.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if params.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(params.Username),
			mail.WithPassword(params.Password),
		)
	}

	// fail at startup on bad options instead of on the first submission
	if _, err := mail.NewClient(params.Host, opts...); err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		host: params.Host,
		opts: opts,
		from: params.From,
		to:   params.To,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, sub *Submission) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "contact.mail.send")
	defer span.End()

	msg, err := BuildMessage(sub, m.from, m.to)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	client, err := mail.NewClient(m.host, m.opts...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("send contact mail: %w", err)
	}

	span.SetStatus(codes.Ok, "sent")
	return nil
}

// BuildMessage renders a submission as a plain text mail, with Reply-To set to the submitter.
func BuildMessage(sub *Submission, from, to string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	if err := msg.ReplyTo(sub.Email); err != nil {
		return nil, fmt.Errorf("set reply-to: %w", err)
	}

	subject := "New contact request from " + sub.Name
	if sub.Service != "" {
		subject += " (" + sub.Service + ")"
	}
	msg.Subject(subject)

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", sub.Name)
	fmt.Fprintf(&body, "Email: %s\n", sub.Email)
	if sub.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", sub.Phone)
	}
	if sub.Service != "" {
		fmt.Fprintf(&body, "Service: %s\n", sub.Service)
	}
	body.WriteString("\n")
	body.WriteString(sub.Message)
	body.WriteString("\n")
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	return msg, nil
}
