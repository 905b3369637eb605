package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialTimeout bounds the TCP connect when ctx carries no earlier deadline.
const dialTimeout = 10 * time.Second

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through an SMTP relay, upgrading to STARTTLS when
// the server offers it. A circuit breaker stops hammering a relay that keeps
// failing.
type SMTPMailer struct {
	cfg     SMTPConfig
	send    sendFunc
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		send: dialAndSend,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "smtp",
			Interval: 5 * time.Minute,
			Timeout:  time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				zap.L().Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		now: time.Now,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.Host == "" {
		return eris.New("notify: smtp host not configured")
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "notify: send")
	}

	to, err := ValidateAddress(msg.To)
	if err != nil {
		return err
	}
	from, err := ValidateAddress(m.cfg.From)
	if err != nil {
		return eris.Wrap(err, "notify: sender")
	}

	raw, err := m.build(from, to, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	_, err = m.breaker.Execute(func() (interface{}, error) {
		return nil, m.send(ctx, addr, auth, from, []string{to}, raw)
	})
	if err != nil {
		return eris.Wrapf(err, "notify: deliver to %s", to)
	}

	zap.L().Info("report emailed", zap.String("to", to), zap.Int("attachments", len(msg.Attachments)))
	return nil
}

// dialAndSend runs one SMTP transaction. The connection is closed as soon as
// ctx is done, which unblocks any pending read or write.
func dialAndSend(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return eris.Wrapf(err, "notify: address %s", addr)
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return eris.Wrapf(err, "notify: dial %s", addr)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return ctxErr(ctx, eris.Wrap(err, "notify: greeting"))
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return ctxErr(ctx, eris.Wrap(err, "notify: starttls"))
		}
	}
	if a != nil {
		if err := c.Auth(a); err != nil {
			return ctxErr(ctx, eris.Wrap(err, "notify: auth"))
		}
	}
	if err := c.Mail(from); err != nil {
		return ctxErr(ctx, eris.Wrap(err, "notify: mail from"))
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return ctxErr(ctx, eris.Wrapf(err, "notify: rcpt %s", rcpt))
		}
	}
	w, err := c.Data()
	if err != nil {
		return ctxErr(ctx, eris.Wrap(err, "notify: data"))
	}
	if _, err := w.Write(msg); err != nil {
		return ctxErr(ctx, eris.Wrap(err, "notify: write message"))
	}
	if err := w.Close(); err != nil {
		return ctxErr(ctx, eris.Wrap(err, "notify: end data"))
	}
	return c.Quit()
}

// ctxErr prefers the context's error once it is done, since a closed
// connection otherwise surfaces as an opaque network error.
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return eris.Wrap(cerr, "notify: send")
	}
	return err
}

// build renders msg as a multipart/mixed MIME message.
func (m *SMTPMailer) build(from, to string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "notify: body part")
	}
	if _, err := body.Write([]byte(msg.Body)); err != nil {
		return nil, eris.Wrap(err, "notify: write body")
	}

	for _, a := range msg.Attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName})},
		})
		if err != nil {
			return nil, eris.Wrapf(err, "notify: attachment %s", a.FileName)
		}
		if err := writeBase64(part, a.Data); err != nil {
			return nil, eris.Wrapf(err, "notify: encode %s", a.FileName)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, eris.Wrap(err, "notify: close message")
	}
	return buf.Bytes(), nil
}

// writeBase64 wraps encoded lines at 76 characters as RFC 2045 requires.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}
