package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/viv5002ek/smart-attendance/module/attendance/domain"
	"github.com/viv5002ek/smart-attendance/module/attendance/service"
)

type mockSessionService struct {
	createFn func(ctx context.Context, name string, anchor domain.Fix, policy domain.PolicyName) (*domain.Session, error)
	getFn    func(ctx context.Context, id string) (*domain.Session, error)
}

func (m *mockSessionService) Create(ctx context.Context, name string, anchor domain.Fix, policy domain.PolicyName) (*domain.Session, error) {
	return m.createFn(ctx, name, anchor, policy)
}

func (m *mockSessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return m.getFn(ctx, id)
}

type mockRosterService struct {
	replaceFn func(ctx context.Context, sessionID string, entries []domain.RosterEntry) error
	listFn    func(ctx context.Context, sessionID string) ([]domain.RosterEntry, error)
}

func (m *mockRosterService) Replace(ctx context.Context, sessionID string, entries []domain.RosterEntry) error {
	return m.replaceFn(ctx, sessionID, entries)
}

func (m *mockRosterService) List(ctx context.Context, sessionID string) ([]domain.RosterEntry, error) {
	return m.listFn(ctx, sessionID)
}

type mockVerificationService struct {
	submitFn  func(ctx context.Context, claim *service.Claim) (*domain.AttendanceRecord, error)
	recordsFn func(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error)
}

func (m *mockVerificationService) SubmitClaim(ctx context.Context, claim *service.Claim) (*domain.AttendanceRecord, error) {
	return m.submitFn(ctx, claim)
}

func (m *mockVerificationService) Records(ctx context.Context, sessionID string) ([]domain.AttendanceRecord, error) {
	return m.recordsFn(ctx, sessionID)
}

func setupRouter(sessions sessionService, rosters rosterService, verify verificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAttendanceHandler(sessions, rosters, verify)
	h.Register(r.Group(""))
	return r
}

func TestCreateSession_Success(t *testing.T) {
	sessions := &mockSessionService{
		createFn: func(_ context.Context, name string, anchor domain.Fix, policy domain.PolicyName) (*domain.Session, error) {
			if name != "morning lecture" {
				t.Fatalf("unexpected name: %s", name)
			}
			if policy != domain.PolicyCoverage {
				t.Fatalf("unexpected policy: %s", policy)
			}
			if anchor.Point.Lat != 12.9716 {
				t.Fatalf("unexpected anchor lat: %f", anchor.Point.Lat)
			}
			return &domain.Session{ID: "sess-1", Name: name, Anchor: anchor, Policy: policy}, nil
		},
	}

	r := setupRouter(sessions, &mockRosterService{}, &mockVerificationService{})
	body := `{"name":"morning lecture","policy":"coverage","anchor":{"latitude":12.9716,"longitude":77.5946,"accuracy_meters":5}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp domain.Session
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != "sess-1" {
		t.Errorf("expected sess-1, got %s", resp.ID)
	}
}

func TestCreateSession_InvalidBody(t *testing.T) {
	r := setupRouter(&mockSessionService{}, &mockRosterService{}, &mockVerificationService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateSession_UnknownPolicy(t *testing.T) {
	sessions := &mockSessionService{
		createFn: func(_ context.Context, _ string, _ domain.Fix, _ domain.PolicyName) (*domain.Session, error) {
			return nil, domain.ErrUnknownPolicy
		},
	}

	r := setupRouter(sessions, &mockRosterService{}, &mockVerificationService{})
	body := `{"name":"lecture","policy":"guesswork","anchor":{"latitude":0,"longitude":0}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	sessions := &mockSessionService{
		getFn: func(_ context.Context, _ string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	r := setupRouter(sessions, &mockRosterService{}, &mockVerificationService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/sessions/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func rosterUploadRequest(t *testing.T, csvBody string) (*http.Request, error) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("roster", "roster.csv")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", "/sessions/sess-1/roster", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

func TestUploadRoster_Success(t *testing.T) {
	sessions := &mockSessionService{
		getFn: func(_ context.Context, _ string) (*domain.Session, error) {
			return &domain.Session{ID: "sess-1"}, nil
		},
	}
	var gotEntries []domain.RosterEntry
	rosters := &mockRosterService{
		replaceFn: func(_ context.Context, sessionID string, entries []domain.RosterEntry) error {
			if sessionID != "sess-1" {
				t.Fatalf("unexpected session id: %s", sessionID)
			}
			gotEntries = entries
			return nil
		},
	}

	r := setupRouter(sessions, rosters, &mockVerificationService{})
	req, err := rosterUploadRequest(t, "id,name\nSTU0001,Asha Rao\nSTU0002,Vivek Kumar\n")
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(gotEntries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(gotEntries))
	}
	if gotEntries[0].ID != "STU0001" || gotEntries[0].Name != "Asha Rao" {
		t.Errorf("unexpected first entry: %+v", gotEntries[0])
	}
}

func TestUploadRoster_InvalidCSV(t *testing.T) {
	sessions := &mockSessionService{
		getFn: func(_ context.Context, _ string) (*domain.Session, error) {
			return &domain.Session{ID: "sess-1"}, nil
		},
	}

	r := setupRouter(sessions, &mockRosterService{}, &mockVerificationService{})
	req, err := rosterUploadRequest(t, "id,name,extra\na,b,c\n")
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUploadRoster_MissingFile(t *testing.T) {
	sessions := &mockSessionService{
		getFn: func(_ context.Context, _ string) (*domain.Session, error) {
			return &domain.Session{ID: "sess-1"}, nil
		},
	}

	r := setupRouter(sessions, &mockRosterService{}, &mockVerificationService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions/sess-1/roster", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitClaim_Success(t *testing.T) {
	verify := &mockVerificationService{
		submitFn: func(_ context.Context, claim *service.Claim) (*domain.AttendanceRecord, error) {
			if claim.SessionID != "sess-1" {
				t.Fatalf("unexpected session id: %s", claim.SessionID)
			}
			if claim.ClaimantID != "STU0001" {
				t.Fatalf("unexpected claimant id: %s", claim.ClaimantID)
			}
			return &domain.AttendanceRecord{
				SessionID:    claim.SessionID,
				ClaimantID:   claim.ClaimantID,
				ClaimantName: "Asha Rao",
				Evaluation: domain.Evaluation{
					DistanceMeters:  3.2,
					CoveragePercent: 100,
					Status:          domain.StatusPresent,
				},
			}, nil
		},
	}

	r := setupRouter(&mockSessionService{}, &mockRosterService{}, verify)
	body := `{"claimant_id":"STU0001","fix":{"latitude":12.9716,"longitude":77.5946,"accuracy_meters":4.5},"timestamp":1715003456}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions/sess-1/claims", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp claimResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != domain.StatusPresent {
		t.Errorf("expected present, got %s", resp.Status)
	}
	if resp.CoveragePercent != 100 {
		t.Errorf("expected 100, got %f", resp.CoveragePercent)
	}
	if resp.ClaimantName != "Asha Rao" {
		t.Errorf("expected Asha Rao, got %s", resp.ClaimantName)
	}
}

func TestSubmitClaim_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound},
		{"not on roster", domain.ErrNotOnRoster, http.StatusUnprocessableEntity},
		{"duplicate claim", domain.ErrDuplicateClaim, http.StatusConflict},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"other error", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verify := &mockVerificationService{
				submitFn: func(_ context.Context, _ *service.Claim) (*domain.AttendanceRecord, error) {
					return nil, tt.err
				},
			}

			r := setupRouter(&mockSessionService{}, &mockRosterService{}, verify)
			body := `{"claimant_id":"STU0001","fix":{"latitude":0,"longitude":0}}`
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/sessions/sess-1/claims", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestSubmitClaim_MissingClaimantID(t *testing.T) {
	r := setupRouter(&mockSessionService{}, &mockRosterService{}, &mockVerificationService{})
	body := `{"fix":{"latitude":0,"longitude":0}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sessions/sess-1/claims", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetRecords_Success(t *testing.T) {
	verify := &mockVerificationService{
		recordsFn: func(_ context.Context, sessionID string) ([]domain.AttendanceRecord, error) {
			return []domain.AttendanceRecord{
				{SessionID: sessionID, ClaimantID: "STU0001"},
				{SessionID: sessionID, ClaimantID: "STU0002"},
			}, nil
		},
	}

	r := setupRouter(&mockSessionService{}, &mockRosterService{}, verify)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/sessions/sess-1/records", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp []domain.AttendanceRecord
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp))
	}
}

func TestGetRoster_Empty(t *testing.T) {
	rosters := &mockRosterService{
		listFn: func(_ context.Context, _ string) ([]domain.RosterEntry, error) {
			return nil, nil
		},
	}

	r := setupRouter(&mockSessionService{}, rosters, &mockVerificationService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/sessions/sess-1/roster", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %s", w.Body.String())
	}
}
