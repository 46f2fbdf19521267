// Package jobs holds the background jobs dispatched through pkg/queue.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/notification"
	"github.com/shashiranjanraj/vastra/pkg/orm"
)

// Repos are the repositories jobs need at execution time. Set once at
// boot, after the database connects; jobs are deserialized by the queue
// and cannot carry live handles in their payloads.
var Repos struct {
	Users  *repositories.UserRepository
	Orders *repositories.OrderRepository
}

// JobOrderConfirmation is the registry name for OrderConfirmationJob.
const JobOrderConfirmation = "jobs.OrderConfirmationJob"

// OrderConfirmationJob emails the user after a placement commits.
type OrderConfirmationJob struct {
	OrderID uint  `json:"order_id"`
	UserID  uint  `json:"user_id"`
	Total   int64 `json:"total"`
}

// Handle loads the order and user and sends the confirmation.
func (j OrderConfirmationJob) Handle() error {
	user, err := Repos.Users.FindByID(j.UserID)
	if err != nil {
		if orm.IsNotFound(err) {
			// User deleted between placement and delivery; nothing to do.
			logger.Warn("order confirmation: user gone", "user_id", j.UserID)
			return nil
		}
		return fmt.Errorf("order confirmation: load user: %w", err)
	}

	order, err := Repos.Orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("order confirmation: load order %d: %w", j.OrderID, err)
	}

	errs := notification.Send(user.Email, &orderConfirmed{
		Name:    user.Name,
		OrderID: order.ID,
		Lines:   len(order.Details),
		Total:   j.Total,
	})
	for _, err := range errs {
		logger.Warn("order confirmation: channel failed", "order_id", j.OrderID, "error", err)
	}
	return nil
}

// orderConfirmed is the mail-channel notification for a placed order.
type orderConfirmed struct {
	Name    string
	OrderID uint
	Lines   int
	Total   int64
}

func (n *orderConfirmed) Via() []string { return []string{"mail"} }

func (n *orderConfirmed) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order #%d confirmed", n.OrderID),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order #%d with %d item(s) is confirmed. Total: ₹%d.%02d</p>",
			n.Name, n.OrderID, n.Lines, n.Total/100, n.Total%100,
		),
		Text: fmt.Sprintf(
			"Hi %s, your order #%d with %d item(s) is confirmed. Total: ₹%d.%02d",
			n.Name, n.OrderID, n.Lines, n.Total/100, n.Total%100,
		),
	}
}
