package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/viv5002ek/smart-attendance/config"
	"github.com/viv5002ek/smart-attendance/module/attendance"
	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/service"
)

func main() {
	cfg := config.Load()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	policies := map[domain.PolicyName]service.DecisionPolicy{
		domain.PolicyCoverage: &service.CoveragePolicy{
			MinCoveragePercent:   cfg.MinCoveragePercent,
			AnchorMarginMeters:   cfg.AnchorMarginMeters,
			ClaimantMarginMeters: cfg.ClaimantMarginMeters,
		},
		domain.PolicyDistance: &service.DistancePolicy{
			ThresholdMeters: cfg.DistanceThresholdMeters,
		},
	}

	attendanceModule, err := attendance.Build(db, amqpConn, mqttClient, policies)
	if err != nil {
		log.Fatalf("attendance module: %v", err)
	}

	if err := attendanceModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	attendanceModule.RegisterRoutes(&r.RouterGroup)

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
