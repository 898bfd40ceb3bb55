package http

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/service"
)

type sessionService interface {
	Create(ctx context.Context, name string, anchor domain.Fix, policy domain.PolicyName) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
}

type rosterService interface {
	Replace(ctx context.Context, sessionID string, entries []domain.RosterEntry) error
	List(ctx context.Context, sessionID string) ([]domain.RosterEntry, error)
}

type verificationService interface {
	SubmitClaim(ctx context.Context, claim *service.Claim) (*domain.AttendanceRecord, error)
	Records(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error)
}

type fixRequest struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AccuracyMeters   float64 `json:"accuracy_meters"`
	OnSessionNetwork bool    `json:"on_session_network"`
}

func (f *fixRequest) toFix() domain.Fix {
	return domain.Fix{
		Point:            domain.GeoPoint{Lat: f.Latitude, Lon: f.Longitude},
		AccuracyMeters:   f.AccuracyMeters,
		OnSessionNetwork: f.OnSessionNetwork,
	}
}

type createSessionRequest struct {
	Name   string     `json:"name"`
	Policy string     `json:"policy"`
	Anchor fixRequest `json:"anchor"`
}

type claimRequest struct {
	ClaimantID string     `json:"claimant_id"`
	Fix        fixRequest `json:"fix"`
	Timestamp  int64      `json:"timestamp"`
}

type claimResponse struct {
	ClaimantID      string                  `json:"claimant_id"`
	ClaimantName    string                  `json:"claimant_name"`
	DistanceMeters  float64                 `json:"distance_meters"`
	CoveragePercent float64                 `json:"coverage_percent"`
	Status          domain.AttendanceStatus `json:"status"`
}

type AttendanceHandler struct {
	sessionSvc sessionService
	rosterSvc  rosterService
	verifySvc  verificationService
}

func NewAttendanceHandler(sessionSvc sessionService, rosterSvc rosterService, verifySvc verificationService) *AttendanceHandler {
	return &AttendanceHandler{
		sessionSvc: sessionSvc,
		rosterSvc:  rosterSvc,
		verifySvc:  verifySvc,
	}
}

func (h *AttendanceHandler) Register(r *gin.RouterGroup) {
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:session_id", h.GetSession)
	r.POST("/sessions/:session_id/roster", h.UploadRoster)
	r.GET("/sessions/:session_id/roster", h.GetRoster)
	r.POST("/sessions/:session_id/claims", h.SubmitClaim)
	r.GET("/sessions/:session_id/records", h.GetRecords)
}

func (h *AttendanceHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.sessionSvc.Create(c.Request.Context(), req.Name, req.Anchor.toFix(), domain.PolicyName(req.Policy))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnknownPolicy) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, sess)
}

func (h *AttendanceHandler) GetSession(c *gin.Context) {
	sess, err := h.sessionSvc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, sess)
}

// UploadRoster takes a CSV file under the "roster" form field. The
// first row is a header; rows are claimant id, name.
func (h *AttendanceHandler) UploadRoster(c *gin.Context) {
	sessionID := c.Param("session_id")

	if _, err := h.sessionSvc.Get(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}

	file, err := c.FormFile("roster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read roster file"})
		return
	}
	defer func() { _ = f.Close() }()

	entries, err := parseRosterCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rosterSvc.Replace(c.Request.Context(), sessionID, entries); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store roster"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": len(entries)})
}

func (h *AttendanceHandler) GetRoster(c *gin.Context) {
	entries, err := h.rosterSvc.List(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch roster"})
		return
	}

	if entries == nil {
		entries = []domain.RosterEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AttendanceHandler) SubmitClaim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ClaimantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claimant_id is required"})
		return
	}

	ts := req.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	claim := &service.Claim{
		SessionID:  c.Param("session_id"),
		ClaimantID: req.ClaimantID,
		Fix:        req.Fix.toFix(),
		RecordedAt: ts,
	}

	rec, err := h.verifySvc.SubmitClaim(c.Request.Context(), claim)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, domain.ErrNotOnRoster):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "claimant not on roster"})
		case errors.Is(err, domain.ErrDuplicateClaim):
			c.JSON(http.StatusConflict, gin.H{"error": "claim already recorded"})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process claim"})
		}
		return
	}

	c.JSON(http.StatusOK, claimResponse{
		ClaimantID:      rec.ClaimantID,
		ClaimantName:    rec.ClaimantName,
		DistanceMeters:  rec.Evaluation.DistanceMeters,
		CoveragePercent: rec.Evaluation.CoveragePercent,
		Status:          rec.Evaluation.Status,
	})
}

func (h *AttendanceHandler) GetRecords(c *gin.Context) {
	records, err := h.verifySvc.Records(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch records"})
		return
	}

	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func parseRosterCSV(r io.Reader) ([]domain.RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New("roster file is not valid CSV with id,name rows")
	}
	if len(rows) < 2 {
		return nil, errors.New("roster file has no entries")
	}

	entries := make([]domain.RosterEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, domain.RosterEntry{ID: row[0], Name: row[1]})
	}
	return entries, nil
}
