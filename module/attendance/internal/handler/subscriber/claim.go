package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/service"
)

const topicPattern = "/attendance/session/+/claim"

type verificationService interface {
	SubmitClaim(ctx context.Context, claim *service.Claim) (*domain.AttendanceRecord, error)
}

type claimMessage struct {
	SessionID        string  `json:"session_id"`
	ClaimantID       string  `json:"claimant_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AccuracyMeters   float64 `json:"accuracy_meters"`
	OnSessionNetwork bool    `json:"on_session_network"`
	Timestamp        int64   `json:"timestamp"`
}

type ClaimSubscriber struct {
	client    mqtt.Client
	verifySvc verificationService
}

func NewClaimSubscriber(client mqtt.Client, verifySvc verificationService) *ClaimSubscriber {
	return &ClaimSubscriber{
		client:    client,
		verifySvc: verifySvc,
	}
}

func (s *ClaimSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *ClaimSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw claimMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid claim message: %v", err)
		return
	}

	if err := validateClaimMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	claim := &service.Claim{
		SessionID:  raw.SessionID,
		ClaimantID: raw.ClaimantID,
		Fix: domain.Fix{
			Point:            domain.GeoPoint{Lat: raw.Latitude, Lon: raw.Longitude},
			AccuracyMeters:   raw.AccuracyMeters,
			OnSessionNetwork: raw.OnSessionNetwork,
		},
		RecordedAt: raw.Timestamp,
	}

	rec, err := s.verifySvc.SubmitClaim(context.Background(), claim)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateClaim) {
			log.Printf("duplicate claim dropped: session=%s claimant=%s", raw.SessionID, raw.ClaimantID)
			return
		}
		log.Printf("claim error: %v", err)
		return
	}

	log.Printf("claim decided: session=%s claimant=%s status=%s distance=%.1fm coverage=%.1f%%",
		rec.SessionID, rec.ClaimantID, rec.Evaluation.Status, rec.Evaluation.DistanceMeters, rec.Evaluation.CoveragePercent)
}

func validateClaimMessage(msg *claimMessage) error {
	if msg.SessionID == "" {
		return fmt.Errorf("session_id: required")
	}
	if msg.ClaimantID == "" {
		return fmt.Errorf("claimant_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.AccuracyMeters < 0 {
		return fmt.Errorf("accuracy_meters: must be non-negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
