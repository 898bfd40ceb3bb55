package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type claimMessage struct {
	SessionID        string  `json:"session_id"`
	ClaimantID       string  `json:"claimant_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AccuracyMeters   float64 `json:"accuracy_meters"`
	OnSessionNetwork bool    `json:"on_session_network"`
	Timestamp        int64   `json:"timestamp"`
}

// anchor the mock claims cluster around, matching a session created by hand
const (
	anchorLat = 12.9716
	anchorLon = 77.5946
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <session_id> <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	sessionID := os.Args[1]
	interval, err := time.ParseDuration(os.Args[2] + "s")
	if err != nil || interval <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("attendance-mock-claimant")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	claimantPool := make([]string, 8)
	for i := range claimantPool {
		claimantPool[i] = fmt.Sprintf("STU%04d", rand.Intn(10000))
	}

	log.Printf("connected to %s, publishing every %s...", broker, interval)
	log.Printf("claimant pool: %v", claimantPool)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cid := claimantPool[rand.Intn(len(claimantPool))]

		// 70% of claims land within ~20m of the anchor, the rest drift
		// a few hundred meters out so both decision outcomes show up
		var lat, lon float64
		if rand.Float64() < 0.7 {
			lat = anchorLat + (rand.Float64()-0.5)*0.0003
			lon = anchorLon + (rand.Float64()-0.5)*0.0003
		} else {
			lat = anchorLat + (rand.Float64()-0.5)*0.01
			lon = anchorLon + (rand.Float64()-0.5)*0.01
		}

		msg := claimMessage{
			SessionID:        sessionID,
			ClaimantID:       cid,
			Latitude:         lat,
			Longitude:        lon,
			AccuracyMeters:   2 + rand.Float64()*18,
			OnSessionNetwork: rand.Float64() < 0.5,
			Timestamp:        time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/attendance/session/%s/claim", sessionID)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
