package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"crowdwatch-monitor/internal/models"
)

// Message is the alert payload published to the notification subject.
// Downstream consumers (mail gateway, paging bridge) deliver it; the
// monitor itself only fires and forgets.
type Message struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	MonitorID string    `json:"monitor_id"`
	SentAt    time.Time `json:"sent_at"`
}

// Service publishes alert notifications over the message bus.
type Service struct {
	publisher models.MessagePublisher
	subject   string
	monitorID string
}

func NewService(publisher models.MessagePublisher, subject, monitorID string) *Service {
	return &Service{publisher: publisher, subject: subject, monitorID: monitorID}
}

// Send publishes one notification. Failure is reported to the caller but is
// never fatal to alert handling: the alert flag is persisted independently.
func (s *Service) Send(_ context.Context, recipient, subject, body string) error {
	msg := Message{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		MonitorID: s.monitorID,
		SentAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(s.subject, msg); err != nil {
		return err
	}

	log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Msg("Alert notification published")
	return nil
}
