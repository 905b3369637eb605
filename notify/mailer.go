// Package notify delivers rendered reports to applicants.
package notify

import (
	"context"
	"net/mail"

	"github.com/rotisserie/eris"
)

// Attachment is a rendered document sent along with a message.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers messages. Delivery is attempted once; callers report the
// failure to the user rather than retrying.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ValidateAddress checks that addr is a single RFC 5322 address and returns
// its bare form.
func ValidateAddress(addr string) (string, error) {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", eris.Wrapf(err, "notify: invalid address %q", addr)
	}
	return parsed.Address, nil
}
