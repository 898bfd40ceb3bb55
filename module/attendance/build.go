package attendance

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	handler "github.com/viv5002ek/smart-attendance/module/attendance/internal/handler/http"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/handler/subscriber"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/database/postgres"
	"github.com/viv5002ek/smart-attendance/module/attendance/internal/repository/publisher/rabbitmq"
	"github.com/viv5002ek/smart-attendance/module/attendance/service"
)

type Module struct {
	SessionSvc *service.SessionService
	RosterSvc  *service.RosterService
	VerifySvc  *service.VerificationService
	handler    *handler.AttendanceHandler
	subscriber *subscriber.ClaimSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, policies map[domain.PolicyName]service.DecisionPolicy) (*Module, error) {
	sessionRepo := postgres.NewSessionRepo(db)
	rosterRepo := postgres.NewRosterRepo(db)
	attendanceRepo := postgres.NewAttendanceRepo(db)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	sessionSvc := service.NewSessionService(sessionRepo)
	rosterSvc := service.NewRosterService(rosterRepo)
	verifySvc := service.NewVerificationService(sessionRepo, rosterRepo, attendanceRepo, alertPub, policies)

	h := handler.NewAttendanceHandler(sessionSvc, rosterSvc, verifySvc)
	sub := subscriber.NewClaimSubscriber(mqttClient, verifySvc)

	return &Module{
		SessionSvc: sessionSvc,
		RosterSvc:  rosterSvc,
		VerifySvc:  verifySvc,
		handler:    h,
		subscriber: sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
