package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/backend/internal/auth"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/upload"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "password123"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	backend *services.Backend
	token   string
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:              "test",
		JWTSecret:                "test-secret",
		JWTExpiration:            time.Hour,
		ClientOrigins:            []string{"http://localhost:5173"},
		MaxUploadSizeMB:          1,
		RateLimitRequests:        1000,
		RateLimitWindow:          time.Minute,
		MessageRateLimitRequests: 100,
		MessageRateLimitWindow:   time.Minute,
	}
}

func newTestServer(t *testing.T, deps func(*Deps)) *testServer {
	t.Helper()
	services.BcryptCost = bcrypt.MinCost

	backend, err := services.NewMemoryBackend("")
	if err != nil {
		t.Fatalf("NewMemoryBackend: %v", err)
	}
	if _, _, err := backend.Admins.EnsureAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	images, err := upload.NewLocalImageStore(filepath.Join(t.TempDir(), "uploads"), "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalImageStore: %v", err)
	}

	cfg := testConfig()
	d := Deps{
		Config:  cfg,
		Backend: backend,
		Tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration, false),
		Images:  images,
	}
	if deps != nil {
		deps(&d)
	}

	router := NewRouter(d)
	t.Cleanup(router.Close)

	s := &testServer{t: t, handler: router, backend: backend}
	s.token = s.login()
	return s
}

func (s *testServer) login() string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var out models.AuthResponse
	s.data(rec, &out)
	return out.Token
}

func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "192.0.2.10:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) admin(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(method, path, body, s.token)
}

func (s *testServer) envelope(rec *httptest.ResponseRecorder) envelope {
	s.t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func (s *testServer) data(rec *httptest.ResponseRecorder, out interface{}) {
	s.t.Helper()
	env := s.envelope(rec)
	if err := json.Unmarshal(env.Data, out); err != nil {
		s.t.Fatalf("decode data: %v (%s)", err, rec.Body.String())
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/health", nil, "")
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "OK" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/health", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var health struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
	}
	json.Unmarshal(rec.Body.Bytes(), &health)
	if health.Status != "OK" || health.Storage != "memory" {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/api/does-not-exist", nil, "")
	expectStatus(t, rec, http.StatusNotFound)
	if env := s.envelope(rec); env.Code != models.CodeNotFound || env.Success {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodDelete, "/health", nil, "")
	expectStatus(t, rec, http.StatusMethodNotAllowed)
	if env := s.envelope(rec); env.Code != models.CodeMethodNotAllowed {
		t.Errorf("unexpected code %q", env.Code)
	}
}

func TestLoginDoesNotEnumerate(t *testing.T) {
	s := newTestServer(t, nil)

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": "wrong-password"}, "")
	unknownEmail := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "wrong-password"}, "")

	expectStatus(t, wrongPassword, http.StatusUnauthorized)
	expectStatus(t, unknownEmail, http.StatusUnauthorized)
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
	if env := s.envelope(wrongPassword); env.Error != "Invalid credentials" {
		t.Errorf("unexpected message %q", env.Error)
	}

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bad", "password": "x"}, "")
	expectStatus(t, rec, http.StatusBadRequest)
	if env := s.envelope(rec); env.Errors["email"] == "" || env.Errors["password"] == "" {
		t.Errorf("expected both field errors, got %v", env.Errors)
	}
}

func TestLoginCookieSession(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "  ADMIN@example.com ", "password": adminPassword}, "")
	expectStatus(t, rec, http.StatusOK)

	var out models.AuthResponse
	s.data(rec, &out)
	if out.Token == "" || out.Admin.Email != adminEmail {
		t.Fatalf("unexpected login response %+v", out)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Error("password hash must never be returned")
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || !session.HttpOnly || session.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected http-only strict session cookie, got %+v", session)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session.Value})
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	expectStatus(t, me, http.StatusOK)

	logout := s.do(http.MethodPost, "/api/auth/logout", nil, "")
	expectStatus(t, logout, http.StatusOK)
	cleared := false
	for _, c := range logout.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should expire the session cookie")
	}
}

func TestProtectedRoutesRejectBeforeTouchingData(t *testing.T) {
	s := newTestServer(t, nil)

	submit := s.do(http.MethodPost, "/api/messages", map[string]string{"name": "A", "email": "a@b.com", "message": "hi"}, "")
	expectStatus(t, submit, http.StatusCreated)
	var sent models.SubmitMessageResponse
	s.data(submit, &sent)

	skill := map[string]interface{}{"category": "Backend", "items": []map[string]interface{}{{"name": "Go", "level": 90}}}
	project := map[string]interface{}{"title": "Heist", "shortDesc": "x"}

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/auth/me", nil},
		{http.MethodPut, "/api/profile", map[string]string{"name": "Hacker"}},
		{http.MethodPost, "/api/skills", skill},
		{http.MethodPut, "/api/skills/any", skill},
		{http.MethodDelete, "/api/skills/any", nil},
		{http.MethodPost, "/api/projects", project},
		{http.MethodPut, "/api/projects/any", project},
		{http.MethodDelete, "/api/projects/any", nil},
		{http.MethodPost, "/api/experience", map[string]string{"title": "t", "org": "o", "startDate": "2020-01-01"}},
		{http.MethodDelete, "/api/experience/any", nil},
		{http.MethodPost, "/api/achievements", map[string]string{"title": "t", "issuer": "i", "date": "2020-01-01"}},
		{http.MethodDelete, "/api/achievements/any", nil},
		{http.MethodGet, "/api/messages", nil},
		{http.MethodPatch, "/api/messages/" + sent.ID, map[string]string{"status": "archived"}},
		{http.MethodDelete, "/api/messages/" + sent.ID, nil},
		{http.MethodPost, "/api/upload", nil},
		{http.MethodPost, "/api/upload/multiple", nil},
		{http.MethodDelete, "/api/upload/any.png", nil},
	}

	for _, tt := range tests {
		for _, token := range []string{"", "not-a-valid-token"} {
			rec := s.do(tt.method, tt.path, tt.body, token)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s token=%q: expected 401, got %d", tt.method, tt.path, token, rec.Code)
			}
		}
	}

	ctx := context.Background()
	if skills, _ := s.backend.Skills.List(ctx); len(skills) != 0 {
		t.Errorf("skills were written: %v", skills)
	}
	if projects, _ := s.backend.Projects.List(ctx, models.ProjectQuery{}); len(projects) != 0 {
		t.Errorf("projects were written: %v", projects)
	}
	list, _ := s.backend.Messages.List(ctx, models.MessageQuery{})
	if len(list.Messages) != 1 || list.Messages[0].Status != models.MessageUnread {
		t.Errorf("message was modified: %+v", list.Messages)
	}
	prof, _ := s.backend.Profile.Get(ctx)
	if prof.Name == "Hacker" {
		t.Error("profile was modified")
	}
}

func TestProfileSingleton(t *testing.T) {
	s := newTestServer(t, nil)

	var first, second models.Profile
	rec := s.do(http.MethodGet, "/api/profile", nil, "")
	expectStatus(t, rec, http.StatusOK)
	s.data(rec, &first)
	rec = s.do(http.MethodGet, "/api/profile", nil, "")
	s.data(rec, &second)

	if first.ID != models.ProfileID || first.ID != second.ID || !first.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("expected the same document, got %+v and %+v", first, second)
	}
	if first.Name != "Your Name" || first.Role != "Full Stack Developer" {
		t.Errorf("defaults not applied: %+v", first)
	}

	rec = s.admin(http.MethodPut, "/api/profile", map[string]interface{}{
		"name":    "Niko",
		"stats":   []map[string]interface{}{{"label": "Driving", "value": 95}},
		"socials": map[string]string{"github": "https://github.com/niko"},
	})
	expectStatus(t, rec, http.StatusOK)

	var updated models.Profile
	s.data(s.do(http.MethodGet, "/api/profile", nil, ""), &updated)
	if updated.Name != "Niko" || updated.Role != first.Role || len(updated.Stats) != 1 || updated.Socials.GitHub == "" {
		t.Errorf("update not merged: %+v", updated)
	}

	rec = s.admin(http.MethodPut, "/api/profile", map[string]interface{}{
		"stats": []map[string]interface{}{{"label": "Driving", "value": 101}},
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if env := s.envelope(rec); env.Errors["stats.0.value"] == "" {
		t.Errorf("expected stats.0.value error, got %v", env.Errors)
	}
}

func TestProjectSlugContract(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.admin(http.MethodPost, "/api/projects", map[string]interface{}{"title": "The Big Score!", "shortDesc": "A heist", "featured": true})
	expectStatus(t, rec, http.StatusCreated)
	var big models.Project
	s.data(rec, &big)
	if big.Slug != "the-big-score" {
		t.Errorf("unexpected slug %q", big.Slug)
	}
	if big.Difficulty != 3 || big.Status != models.ProjectCompleted {
		t.Errorf("defaults not applied: %+v", big)
	}

	rec = s.admin(http.MethodPost, "/api/projects", map[string]interface{}{"title": "the big score", "shortDesc": "dup"})
	expectStatus(t, rec, http.StatusConflict)
	if env := s.envelope(rec); env.Code != models.CodeConflict {
		t.Errorf("unexpected code %q", env.Code)
	}

	time.Sleep(2 * time.Millisecond)
	rec = s.admin(http.MethodPost, "/api/projects", map[string]interface{}{"title": "Side Job", "shortDesc": "small", "status": "planned"})
	expectStatus(t, rec, http.StatusCreated)
	var side models.Project
	s.data(rec, &side)

	rec = s.admin(http.MethodPut, "/api/projects/"+side.ID, map[string]interface{}{"title": "The Big Score", "shortDesc": "small"})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.admin(http.MethodPut, "/api/projects/"+big.ID, map[string]interface{}{"title": "The Big Score", "shortDesc": "Edited"})
	expectStatus(t, rec, http.StatusOK)
	var edited models.Project
	s.data(rec, &edited)
	if edited.Slug != big.Slug || edited.ShortDesc != "Edited" || !edited.Featured {
		t.Errorf("same-title update should keep slug and untouched fields: %+v", edited)
	}

	for _, key := range []string{"the-big-score", big.ID} {
		expectStatus(t, s.do(http.MethodGet, "/api/projects/"+key, nil, ""), http.StatusOK)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/projects/no-such-project", nil, ""), http.StatusNotFound)

	var featured []models.Project
	s.data(s.do(http.MethodGet, "/api/projects?featured=true", nil, ""), &featured)
	if len(featured) != 1 || featured[0].ID != big.ID {
		t.Errorf("featured filter wrong: %+v", featured)
	}
	var planned []models.Project
	s.data(s.do(http.MethodGet, "/api/projects?status=planned", nil, ""), &planned)
	if len(planned) != 1 || planned[0].ID != side.ID {
		t.Errorf("status filter wrong: %+v", planned)
	}
	var limited []models.Project
	s.data(s.do(http.MethodGet, "/api/projects?limit=1", nil, ""), &limited)
	if len(limited) != 1 || limited[0].ID != side.ID {
		t.Errorf("limit should keep the newest: %+v", limited)
	}

	expectStatus(t, s.do(http.MethodGet, "/api/projects?status=abandoned", nil, ""), http.StatusBadRequest)
}

func TestBoundsRejectedNamingField(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name  string
		path  string
		body  interface{}
		field string
	}{
		{"skill level", "/api/skills", map[string]interface{}{"category": "Backend", "items": []map[string]interface{}{{"name": "Go", "level": 101}}}, "items.0.level"},
		{"skill category", "/api/skills", map[string]interface{}{"category": "Cooking", "items": []map[string]interface{}{{"name": "Go", "level": 50}}}, "category"},
		{"project difficulty", "/api/projects", map[string]interface{}{"title": "A", "shortDesc": "b", "difficulty": 6}, "difficulty"},
		{"project progress", "/api/projects", map[string]interface{}{"title": "A", "shortDesc": "b", "progress": -0.1}, "progress"},
		{"experience dates", "/api/experience", map[string]interface{}{"title": "t", "org": "o", "startDate": "2022-01-01", "endDate": "2021-01-01"}, "endDate"},
		{"achievement category", "/api/achievements", map[string]interface{}{"title": "t", "issuer": "i", "date": "2022-01-01", "category": "Trophy"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.admin(http.MethodPost, tt.path, tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
			env := s.envelope(rec)
			if env.Code != models.CodeValidation || env.Errors[tt.field] == "" {
				t.Errorf("expected validation error on %s, got %+v", tt.field, env)
			}
		})
	}

	rec := s.admin(http.MethodPost, "/api/skills", map[string]interface{}{"category": "Backend", "items": []map[string]interface{}{{"name": "Go", "level": 80}}})
	expectStatus(t, rec, http.StatusCreated)
	var skill models.Skill
	s.data(rec, &skill)

	rec = s.admin(http.MethodPut, "/api/skills/"+skill.ID, map[string]interface{}{"category": "Backend", "items": []map[string]interface{}{{"name": "Go", "level": -1}}})
	expectStatus(t, rec, http.StatusBadRequest)
	if env := s.envelope(rec); env.Errors["items.0.level"] == "" {
		t.Errorf("update should name the field, got %v", env.Errors)
	}
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{
		"/api/skills/missing",
		"/api/projects/missing",
		"/api/experience/missing",
		"/api/achievements/missing",
		"/api/messages/missing",
		"/api/upload/6f1c9b1e-3f1d-4e7a-9a55-0c2f9d1e2a3b.png",
	} {
		rec := s.admin(http.MethodDelete, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("DELETE %s: expected 404, got %d", path, rec.Code)
			continue
		}
		if env := s.envelope(rec); env.Code != models.CodeNotFound {
			t.Errorf("DELETE %s: unexpected code %q", path, env.Code)
		}
	}
}

func TestContentCRUDAndOrdering(t *testing.T) {
	s := newTestServer(t, nil)

	for _, body := range []map[string]interface{}{
		{"category": "Tools", "items": []map[string]interface{}{{"name": "Git", "level": 70}}, "order": 2},
		{"category": "Frontend", "items": []map[string]interface{}{{"name": "React", "level": 85}}, "order": 1},
	} {
		expectStatus(t, s.admin(http.MethodPost, "/api/skills", body), http.StatusCreated)
	}
	var skills []models.Skill
	s.data(s.do(http.MethodGet, "/api/skills", nil, ""), &skills)
	if len(skills) != 2 || skills[0].Category != models.SkillFrontend {
		t.Errorf("skills not sorted by order: %+v", skills)
	}

	for _, body := range []map[string]interface{}{
		{"title": "Intern", "org": "Old Co", "startDate": "2019-06-01", "endDate": "2019-09-01", "type": "Internship"},
		{"title": "Engineer", "org": "New Co", "startDate": "2023-01-15T00:00:00Z"},
	} {
		expectStatus(t, s.admin(http.MethodPost, "/api/experience", body), http.StatusCreated)
	}
	var entries []models.Experience
	s.data(s.do(http.MethodGet, "/api/experience", nil, ""), &entries)
	if len(entries) != 2 || entries[0].Title != "Engineer" {
		t.Fatalf("experience not sorted by start date: %+v", entries)
	}
	if entries[0].EndDate != nil || entries[0].Type != models.ExperienceJob {
		t.Errorf("ongoing entry should have null endDate and default type: %+v", entries[0])
	}
	var interns []models.Experience
	s.data(s.do(http.MethodGet, "/api/experience?type=Internship", nil, ""), &interns)
	if len(interns) != 1 || interns[0].Title != "Intern" {
		t.Errorf("type filter wrong: %+v", interns)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/experience?type=Hobby", nil, ""), http.StatusBadRequest)

	rec := s.admin(http.MethodPost, "/api/achievements", map[string]interface{}{"title": "AWS SA", "issuer": "AWS", "date": "2021-03-01"})
	expectStatus(t, rec, http.StatusCreated)
	var cert models.Achievement
	s.data(rec, &cert)
	if cert.Category != models.AchievementCertificate {
		t.Errorf("default category not applied: %+v", cert)
	}
	expectStatus(t, s.admin(http.MethodPost, "/api/achievements", map[string]interface{}{"title": "Hackathon", "issuer": "MLH", "date": "2022-05-01", "category": "Award"}), http.StatusCreated)

	var awards []models.Achievement
	s.data(s.do(http.MethodGet, "/api/achievements?category=Award", nil, ""), &awards)
	if len(awards) != 1 || awards[0].Title != "Hackathon" {
		t.Errorf("category filter wrong: %+v", awards)
	}

	rec = s.admin(http.MethodPut, "/api/achievements/"+cert.ID, map[string]interface{}{"title": "AWS SA Pro", "issuer": "AWS", "date": "2021-03-01"})
	expectStatus(t, rec, http.StatusOK)
	expectStatus(t, s.admin(http.MethodDelete, "/api/achievements/"+cert.ID, nil), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/api/achievements/"+cert.ID, nil, ""), http.StatusNotFound)
}

func listMessages(s *testServer, query string) models.MessageList {
	s.t.Helper()
	rec := s.admin(http.MethodGet, "/api/messages"+query, nil)
	expectStatus(s.t, rec, http.StatusOK)
	var list models.MessageList
	s.data(rec, &list)
	return list
}

func TestMessageScenario(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/messages", map[string]string{"name": "A", "email": "a@b.com", "message": "hi"}, "")
	expectStatus(t, rec, http.StatusCreated)
	var sent models.SubmitMessageResponse
	s.data(rec, &sent)
	if sent.ID == "" {
		t.Fatal("expected an id")
	}

	list := listMessages(s, "")
	if len(list.Messages) != 1 || list.Messages[0].ID != sent.ID || list.Messages[0].Status != models.MessageUnread {
		t.Fatalf("unexpected inbox %+v", list.Messages)
	}
	if list.UnreadCount < 1 {
		t.Errorf("expected unreadCount >= 1, got %d", list.UnreadCount)
	}

	expectStatus(t, s.admin(http.MethodPatch, "/api/messages/"+sent.ID, map[string]string{"status": "read"}), http.StatusOK)

	list = listMessages(s, "")
	if list.Messages[0].Status != models.MessageRead {
		t.Errorf("expected read, got %s", list.Messages[0].Status)
	}
}

func TestUnreadCountTracksStatusChanges(t *testing.T) {
	s := newTestServer(t, nil)

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		time.Sleep(2 * time.Millisecond)
		rec := s.do(http.MethodPost, "/api/messages", map[string]string{"name": name, "email": "x@y.com", "message": "hello"}, "")
		expectStatus(t, rec, http.StatusCreated)
		var sent models.SubmitMessageResponse
		s.data(rec, &sent)
		ids = append(ids, sent.ID)
	}

	before := listMessages(s, "?status=unread")
	if before.UnreadCount != 3 || before.Pagination.Total != 3 {
		t.Fatalf("unexpected counts %+v", before.Pagination)
	}
	if before.Messages[0].Name != "Third" {
		t.Errorf("expected newest first, got %s", before.Messages[0].Name)
	}

	expectStatus(t, s.admin(http.MethodPatch, "/api/messages/"+ids[1], map[string]string{"status": "read"}), http.StatusOK)

	after := listMessages(s, "?status=unread")
	if after.UnreadCount != before.UnreadCount-1 {
		t.Errorf("unreadCount should drop by one: %d -> %d", before.UnreadCount, after.UnreadCount)
	}
	for _, m := range after.Messages {
		if m.ID == ids[1] {
			t.Error("read message still listed as unread")
		}
	}

	paged := listMessages(s, "?page=2&limit=2")
	if len(paged.Messages) != 1 || paged.Pagination.Pages != 2 || paged.Pagination.Page != 2 {
		t.Errorf("unexpected page %+v", paged.Pagination)
	}
	if paged.UnreadCount != 2 {
		t.Errorf("unreadCount is global, got %d", paged.UnreadCount)
	}

	rec := s.admin(http.MethodPatch, "/api/messages/"+ids[0], map[string]string{"status": "spam"})
	expectStatus(t, rec, http.StatusBadRequest)
	expectStatus(t, s.admin(http.MethodPatch, "/api/messages/missing", map[string]string{"status": "read"}), http.StatusNotFound)
	expectStatus(t, s.admin(http.MethodGet, "/api/messages?status=spam", nil), http.StatusBadRequest)

	expectStatus(t, s.admin(http.MethodDelete, "/api/messages/"+ids[0], nil), http.StatusOK)
	if list := listMessages(s, ""); list.Pagination.Total != 2 {
		t.Errorf("expected 2 after delete, got %d", list.Pagination.Total)
	}
}

func TestMessageValidation(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodPost, "/api/messages", map[string]string{"name": " ", "email": "nope", "message": strings.Repeat("x", 2001)}, "")
	expectStatus(t, rec, http.StatusBadRequest)
	env := s.envelope(rec)
	for _, field := range []string{"name", "email", "message"} {
		if env.Errors[field] == "" {
			t.Errorf("expected error on %s, got %v", field, env.Errors)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader("{not json"))
	bad := httptest.NewRecorder()
	s.handler.ServeHTTP(bad, req)
	expectStatus(t, bad, http.StatusBadRequest)
}

func TestMessageRateLimit(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		d.Config.MessageRateLimitRequests = 2
	})

	body := map[string]string{"name": "A", "email": "a@b.com", "message": "hi"}
	for i := 0; i < 2; i++ {
		expectStatus(t, s.do(http.MethodPost, "/api/messages", body, ""), http.StatusCreated)
	}
	rec := s.do(http.MethodPost, "/api/messages", body, "")
	expectStatus(t, rec, http.StatusTooManyRequests)
	if env := s.envelope(rec); env.Code != models.CodeRateLimited {
		t.Errorf("unexpected code %q", env.Code)
	}

	// Reads are only subject to the global limit.
	expectStatus(t, s.admin(http.MethodGet, "/api/messages", nil), http.StatusOK)
}

func (s *testServer) submitFrom(xff string) *httptest.ResponseRecorder {
	s.t.Helper()
	body := strings.NewReader(`{"name":"A","email":"a@b.com","message":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", body)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", xff)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestMessageRateLimitIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		d.Config.MessageRateLimitRequests = 2
	})

	accepted := 0
	for i := 0; i < 10; i++ {
		if rec := s.submitFrom(fmt.Sprintf("198.51.100.%d", i+1)); rec.Code == http.StatusCreated {
			accepted++
		}
	}
	if accepted != 2 {
		t.Errorf("rotating X-Forwarded-For from one socket got %d submissions through, want 2", accepted)
	}
}

func TestMessageRateLimitBehindTrustedProxy(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		d.Config.MessageRateLimitRequests = 2
		d.Config.TrustProxy = true
	})

	// The proxy appends the real peer; a spoofed prefix does not open a new bucket.
	for i := 0; i < 2; i++ {
		expectStatus(t, s.submitFrom(fmt.Sprintf("10.9.9.%d, 203.0.113.5", i)), http.StatusCreated)
	}
	expectStatus(t, s.submitFrom("10.9.9.99, 203.0.113.5"), http.StatusTooManyRequests)

	// A different client behind the same proxy has its own bucket.
	expectStatus(t, s.submitFrom("203.0.113.6"), http.StatusCreated)
}

type fakeCaptcha struct{}

func (fakeCaptcha) Enabled() bool { return true }

func (fakeCaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, string, error) {
	return token == "human", "invalid-input-response", nil
}

type fakeNotifier struct {
	sent chan models.Message
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) SendContactNotification(ctx context.Context, msg *models.Message) error {
	f.sent <- *msg
	return nil
}

func TestMessageCaptchaAndNotification(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan models.Message, 1)}
	s := newTestServer(t, func(d *Deps) {
		d.Captcha = fakeCaptcha{}
		d.Notifier = notifier
	})

	body := map[string]string{"name": "A", "email": "a@b.com", "message": "hi"}
	rec := s.do(http.MethodPost, "/api/messages", body, "")
	expectStatus(t, rec, http.StatusBadRequest)
	if env := s.envelope(rec); env.Errors["recaptchaToken"] == "" {
		t.Errorf("expected recaptchaToken error, got %v", env.Errors)
	}

	body["recaptchaToken"] = "robot"
	expectStatus(t, s.do(http.MethodPost, "/api/messages", body, ""), http.StatusForbidden)

	body["recaptchaToken"] = "human"
	rec = s.do(http.MethodPost, "/api/messages", body, "")
	expectStatus(t, rec, http.StatusCreated)
	var sent models.SubmitMessageResponse
	s.data(rec, &sent)

	select {
	case msg := <-notifier.sent:
		if msg.ID != sent.ID {
			t.Errorf("notified about %s, want %s", msg.ID, sent.ID)
		}
	case <-time.After(2 * time.Second):
		t.Error("expected a notification")
	}
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(content)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(path, field string, files map[string][]byte) *httptest.ResponseRecorder {
	s.t.Helper()
	body, contentType := multipartBody(s.t, field, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadLocal(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.upload("/api/upload", "image", map[string][]byte{"avatar.png": pngBytes})
	expectStatus(t, rec, http.StatusCreated)
	var img models.ImageUploadResponse
	s.data(rec, &img)
	if !upload.ValidID(img.ID) || img.URL != "/uploads/"+img.ID {
		t.Fatalf("unexpected upload response %+v", img)
	}

	served := s.do(http.MethodGet, img.URL, nil, "")
	expectStatus(t, served, http.StatusOK)
	if !bytes.Equal(served.Body.Bytes(), pngBytes) {
		t.Error("served file differs from upload")
	}
	expectStatus(t, s.do(http.MethodGet, "/uploads/", nil, ""), http.StatusNotFound)

	expectStatus(t, s.admin(http.MethodDelete, "/api/upload/"+img.ID, nil), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, img.URL, nil, ""), http.StatusNotFound)

	rec = s.upload("/api/upload", "image", map[string][]byte{"notes.txt": []byte("just text")})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.upload("/api/upload", "wrong-field", map[string][]byte{"a.png": pngBytes})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.upload("/api/upload/multiple", "images", map[string][]byte{"a.png": pngBytes, "b.png": pngBytes})
	expectStatus(t, rec, http.StatusCreated)
	var multi models.MultipleImageUploadResponse
	s.data(rec, &multi)
	if len(multi.Images) != 2 || multi.Images[0].ID == multi.Images[1].ID {
		t.Errorf("unexpected multi upload %+v", multi)
	}
}
