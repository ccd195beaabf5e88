package cart

import (
	"context"

	"github.com/patitas/storefront/internal/httputil"
	"github.com/patitas/storefront/pkg/logger"
)

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier delivers a fire-and-forget message to the cart's owner. Delivery
// is not guaranteed and failures never affect the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, owner string, severity Severity, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, owner string, severity Severity, message string)

func (f NotifierFunc) Notify(ctx context.Context, owner string, severity Severity, message string) {
	if f != nil {
		f(ctx, owner, severity, message)
	}
}

// LogNotifier writes notifications to the log. It is the default sink.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewDefault("cart-notify")
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, owner string, severity Severity, message string) {
	n.log.WithField("owner", owner).
		WithField("severity", string(severity)).
		Info(message)
}

// WebhookNotifier forwards notifications to an HTTP endpoint, e.g. a push
// service that relays them to the storefront UI. Failures are logged and
// dropped.
type WebhookNotifier struct {
	client *httputil.Client
	log    *logger.Logger
}

func NewWebhookNotifier(client *httputil.Client, log *logger.Logger) *WebhookNotifier {
	if log == nil {
		log = logger.NewDefault("cart-webhook")
	}
	return &WebhookNotifier{client: client, log: log}
}

func (n *WebhookNotifier) Notify(ctx context.Context, owner string, severity Severity, message string) {
	payload := map[string]string{
		"owner":    owner,
		"severity": string(severity),
		"message":  message,
	}
	resp, err := n.client.Post(ctx, "/notifications", payload)
	if err != nil {
		n.log.WithError(err).Warn("notification delivery failed")
		return
	}
	if err := httputil.DecodeResponse(resp, nil); err != nil {
		n.log.WithError(err).Warn("notification rejected")
	}
}
