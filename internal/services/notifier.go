package services

import (
	"fmt"

	"matchup-backend/internal/config"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// Notifier delivers push notifications to a device
type Notifier interface {
	Push(deviceToken, alert string) error
}

// APNSNotifier sends pushes through Apple's push service
type APNSNotifier struct {
	client *apns2.Client
	topic  string
}

// NewAPNSNotifier creates a notifier from a p12 certificate
func NewAPNSNotifier(cfg config.APNSConfig) (*APNSNotifier, error) {
	cert, err := certificate.FromP12File(cfg.CertFile, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert).Development()
	if cfg.Production {
		client = apns2.NewClient(cert).Production()
	}

	return &APNSNotifier{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Push sends an alert notification to the device
func (n *APNSNotifier) Push(deviceToken, alert string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload:     payload.NewPayload().Alert(alert).Sound("default"),
	}

	res, err := n.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
