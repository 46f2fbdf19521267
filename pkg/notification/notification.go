// Package notification fans one event out to several delivery channels:
// mail, Slack, webhook, and a database table. A notification names its
// channels in Via() and implements the To<Channel> method for each:
//
//	type orderConfirmed struct{ Name string }
//	func (n *orderConfirmed) Via() []string { return []string{"mail", "slack"} }
//	func (n *orderConfirmed) ToMail() notification.MailData { ... }
//	func (n *orderConfirmed) ToSlack() notification.SlackData { ... }
//
//	notification.Send("user@example.com", &orderConfirmed{Name: "Asha"})
package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	httpclient "github.com/shashiranjanraj/vastra/pkg/http"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/mail"
)

// MailData is the mail-channel payload.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// SlackData is the Slack-channel payload.
type SlackData struct {
	WebhookURL  string // overrides the configured default if set
	Text        string
	Attachments []SlackAttachment
}

// SlackAttachment is one attachment block in a Slack message.
type SlackAttachment struct {
	Color  string `json:"color,omitempty"` // "good" | "warning" | "danger"
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// WebhookData is an arbitrary JSON document POSTed to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// DatabaseData lands in the vastra_notifications table.
type DatabaseData struct {
	Type    string
	Message string
	Data    interface{}
}

// Notification names the channels a message travels through.
type Notification interface {
	Via() []string
}

// One interface per channel; a notification implements the ones it uses.
type (
	Mailable     interface{ ToMail() MailData }
	Slackable    interface{ ToSlack() SlackData }
	Webhookable  interface{ ToWebhook() WebhookData }
	Databaseable interface{ ToDatabase() DatabaseData }
)

var (
	defaultSlackWebhook string
	notificationDB      *gorm.DB
)

// SetSlackWebhook sets the default Slack incoming webhook URL.
func SetSlackWebhook(url string) { defaultSlackWebhook = url }

// UseDB enables the "database" channel. Call once at boot.
func UseDB(db *gorm.DB) {
	notificationDB = db
	db.AutoMigrate(&Record{}) //nolint:errcheck
}

// Record is the stored form of a database-channel notification.
type Record struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Type      string    `gorm:"size:255;not null;index"`
	Message   string    `gorm:"type:text"`
	Data      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Record) TableName() string { return "vastra_notifications" }

// senders maps a channel name to its delivery function. Each sender
// asserts the matching To<Channel> interface itself.
var senders = map[string]func(address string, n Notification) error{
	"mail":     deliverMail,
	"slack":    deliverSlack,
	"webhook":  deliverWebhook,
	"database": deliverDatabase,
}

// Send pushes n through every channel in Via() and collects the
// failures; one broken channel does not stop the rest.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		sender, ok := senders[channel]
		if !ok {
			errs = append(errs, fmt.Errorf("notification: unknown channel %q", channel))
			continue
		}
		if err := sender(address, n); err != nil {
			logger.Error("notification: channel failed", "channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync runs Send in a goroutine; failures only get logged.
func SendAsync(address string, n Notification) {
	go func() {
		for _, err := range Send(address, n) {
			logger.Error("notification: async error", "error", err)
		}
	}()
}

func deliverMail(address string, n Notification) error {
	m, ok := n.(Mailable)
	if !ok {
		return fmt.Errorf("notification: %T does not implement Mailable", n)
	}
	d := m.ToMail()

	to := d.To
	if to == "" {
		to = address
	}
	body := d.Body
	if body == "" {
		body = d.Text
	}
	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

func deliverSlack(_ string, n Notification) error {
	s, ok := n.(Slackable)
	if !ok {
		return fmt.Errorf("notification: %T does not implement Slackable", n)
	}
	d := s.ToSlack()

	url := d.WebhookURL
	if url == "" {
		url = defaultSlackWebhook
	}
	if url == "" {
		return fmt.Errorf("notification: slack webhook URL not configured")
	}

	msg := struct {
		Text        string            `json:"text,omitempty"`
		Attachments []SlackAttachment `json:"attachments,omitempty"`
	}{Text: d.Text, Attachments: d.Attachments}

	resp, err := httpclient.Post(url).
		Body(msg).
		Timeout(5 * time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("notification: slack returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func deliverWebhook(_ string, n Notification) error {
	wh, ok := n.(Webhookable)
	if !ok {
		return fmt.Errorf("notification: %T does not implement Webhookable", n)
	}
	d := wh.ToWebhook()
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	resp, err := httpclient.Post(d.URL).
		Body(d.Payload).
		Headers(d.Headers).
		Timeout(10 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func deliverDatabase(_ string, n Notification) error {
	db, ok := n.(Databaseable)
	if !ok {
		return fmt.Errorf("notification: %T does not implement Databaseable", n)
	}
	if notificationDB == nil {
		return fmt.Errorf("notification: database channel not configured, call UseDB first")
	}
	d := db.ToDatabase()

	data, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("notification: marshal data: %w", err)
	}
	rec := Record{Type: d.Type, Message: d.Message, Data: string(data)}
	if err := notificationDB.Create(&rec).Error; err != nil {
		return fmt.Errorf("notification: store: %w", err)
	}
	return nil
}
