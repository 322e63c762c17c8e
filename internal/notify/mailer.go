package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"ehsas/internal/config"
	"ehsas/internal/metrics"
	"ehsas/internal/queue"
)

// MailJobType tags mail messages on the work queue.
const MailJobType = "mail"

// Message is one outbound email. Body is HTML.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if m.Subject == "" {
		return errors.New("mail: empty subject")
	}
	return nil
}

// Mailer delivers email. Callers log failures and carry on.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer only logs what it would have sent.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		metrics.MailResult("log", err)
		return err
	}
	m.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mock email")
	metrics.MailResult("log", nil)
	return nil
}

// SMTPMailer delivers through an SMTP relay with go-mail. STARTTLS is used
// when the relay offers it. The session is bounded by both the caller's
// context and cfg.Timeout, so a stalled relay cannot hold a request open.
type SMTPMailer struct {
	cfg config.SMTP
	now func() time.Time
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

// NewDeliveryMailer returns the mailer that actually hands mail to a relay.
// Without SMTP credentials it falls back to logging.
func NewDeliveryMailer(cfg config.SMTP, log zerolog.Logger) Mailer {
	if cfg.User == "" {
		log.Warn().Msg("SMTP_USER not set, logging mail instead of sending")
		return NewLogMailer(log)
	}
	log.Info().Str("relay", cfg.Addr()).Msg("delivering mail over smtp")
	return NewSMTPMailer(cfg)
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	err := m.deliver(ctx, msg)
	metrics.MailResult("smtp", err)
	return err
}

func (m *SMTPMailer) deliver(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := m.compose(msg)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(m.cfg.Host, m.options(ctx)...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send to %s: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}

func (m *SMTPMailer) options(ctx context.Context) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.timeout()),
		mail.WithDialContextFunc(func(dialCtx context.Context, network, addr string) (net.Conn, error) {
			return m.dial(ctx, dialCtx, network, addr)
		}),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

// dial connects with dialCtx and pins the connection deadline to ctx, the
// caller's context, which outlives the dial itself.
func (m *SMTPMailer) dial(ctx, dialCtx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, network, addr)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(m.timeout())
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, err
	}
	context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	return conn, nil
}

func (m *SMTPMailer) timeout() time.Duration {
	if m.cfg.Timeout > 0 {
		return m.cfg.Timeout
	}
	return 10 * time.Second
}

func (m *SMTPMailer) compose(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	var err error
	if m.cfg.FromName != "" {
		err = out.FromFormat(m.cfg.FromName, m.cfg.FromEmail)
	} else {
		err = out.From(m.cfg.FromEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetDateWithValue(m.now())
	out.SetBodyString(mail.TypeTextHTML, msg.Body)
	return out, nil
}

// QueueMailer hands messages to a queue for cmd/worker to deliver.
type QueueMailer struct {
	q queue.Queue
}

func NewQueueMailer(q queue.Queue) *QueueMailer {
	return &QueueMailer{q: q}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	err := m.enqueue(ctx, msg)
	metrics.MailResult("queue", err)
	return err
}

func (m *QueueMailer) enqueue(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode mail job: %w", err)
	}
	if err := m.q.Publish(ctx, queue.Message{Type: MailJobType, Body: body}); err != nil {
		return fmt.Errorf("enqueue mail job: %w", err)
	}
	return nil
}

// DecodeJob extracts a Message from a queued mail job.
func DecodeJob(job queue.Message) (Message, error) {
	if job.Type != MailJobType {
		return Message{}, fmt.Errorf("mail: unexpected job type %q", job.Type)
	}
	var msg Message
	if err := json.Unmarshal(job.Body, &msg); err != nil {
		return Message{}, fmt.Errorf("decode mail job: %w", err)
	}
	return msg, msg.validate()
}
