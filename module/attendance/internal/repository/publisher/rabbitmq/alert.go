package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "attendance.events"
	queueName    = "proxy_alerts"
)

type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	SessionID       string                  `json:"session_id"`
	ClaimantID      string                  `json:"claimant_id"`
	Status          domain.AttendanceStatus `json:"status"`
	DistanceMeters  float64                 `json:"distance_meters"`
	CoveragePercent float64                 `json:"coverage_percent"`
	Timestamp       int64                   `json:"timestamp"`
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.DecisionAlert) error {
	msg := alertMessage{
		SessionID:       alert.SessionID,
		ClaimantID:      alert.ClaimantID,
		Status:          alert.Status,
		DistanceMeters:  alert.DistanceMeters,
		CoveragePercent: alert.CoveragePercent,
		Timestamp:       alert.Timestamp,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
