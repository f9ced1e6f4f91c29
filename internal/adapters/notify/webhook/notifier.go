package webhook

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/httpclient"
	"animal-rfid-relay/internal/ports/notify"
)

// Payload es el JSON que recibe cada URL configurada.
type Payload struct {
	Event     string    `json:"event"`
	Text      string    `json:"text"`
	RFIDCode  string    `json:"rfid_code"`
	Found     bool      `json:"found"`
	ScannedAt time.Time `json:"scanned_at"`
}

const EventScan = "rfid-scan"

type Notifier struct {
	client *httpclient.Client
	urls   []string
}

var _ notify.Notifier = (*Notifier)(nil)

func New(client *httpclient.Client, urls []string) *Notifier {
	if client == nil {
		client = httpclient.New(0)
	}
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	return &Notifier{client: client, urls: clean}
}

func (n *Notifier) Send(ctx context.Context, msg notify.Message) error {
	p := Payload{
		Event:     EventScan,
		Text:      msg.Text,
		RFIDCode:  msg.RFIDCode,
		Found:     msg.Found,
		ScannedAt: msg.ScannedAt.UTC(),
	}

	var failed []error
	for _, u := range n.urls {
		if err := n.client.PostJSON(ctx, u, nil, p); err != nil {
			failed = append(failed, errs.Wrapf(err, "webhook %s", u))
		}
	}
	return errors.Join(failed...)
}
