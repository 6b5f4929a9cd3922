package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aptiprep/backend/internal/api"
	"github.com/aptiprep/backend/internal/auth"
	"github.com/aptiprep/backend/internal/grader"
	"github.com/aptiprep/backend/internal/infrastructure/db"
	"github.com/aptiprep/backend/internal/scoreindex"
	"github.com/aptiprep/backend/internal/service"
	"github.com/aptiprep/backend/internal/store"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenMemory(ctx, "api_"+name)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	s := store.New(conn)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	notifications := service.NewNotificationService(s, 1, logger)

	svc := api.Services{
		Questions:     service.NewQuestionService(s, grader.New(), logger),
		Progress:      service.NewProgressService(s, s, scoreindex.NewSQL(s), logger),
		Lists:         service.NewListService(s, s, logger),
		QuestionLists: service.NewQuestionListService(s, s, notifications, logger),
		Discussions:   service.NewDiscussionService(s, s, notifications, logger),
		Catalog:       service.NewCatalogService(s),
		Users:         service.NewUserService(s, s, tokens, logger),
		Notifications: notifications,
	}
	if err := svc.Users.EnsureAdmin(ctx, "admin", "admin-password"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(svc, logger), tokens, nil, logger))
	t.Cleanup(func() {
		srv.Close()
		notifications.Close()
		s.Close()
	})
	return &testServer{Server: srv, t: t}
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (ts *testServer) do(method, path, token string, body, out any) int {
	ts.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		ts.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			ts.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (ts *testServer) login(username, password string) string {
	ts.t.Helper()
	var resp api.LoginResponse
	status := ts.do("POST", "/auth/login", "", api.LoginRequest{Username: username, Password: password}, &resp)
	if status != http.StatusOK {
		ts.t.Fatalf("login %s: status %d", username, status)
	}
	return resp.Token
}

func (ts *testServer) registerAndLogin(username string) string {
	ts.t.Helper()
	status := ts.do("POST", "/auth/register", "", api.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "long-enough-password",
	}, nil)
	if status != http.StatusCreated {
		ts.t.Fatalf("register %s: status %d", username, status)
	}
	return ts.login(username, "long-enough-password")
}

func (ts *testServer) createQuestion(adminToken string, n int, section string) {
	ts.t.Helper()
	status := ts.do("POST", "/questions", adminToken, api.QuestionRequest{
		QuestionNumber: n,
		Section:        section,
		Difficulty:     "Medium",
		Type:           "MCQ",
		Text:           "What is 20% of 60?",
		Options:        []string{"10", "12", "14"},
		Answer:         "12",
	}, nil)
	if status != http.StatusCreated {
		ts.t.Fatalf("create question %d: status %d", n, status)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var resp api.StatusResponse
	if status := ts.do("GET", "/health", "", nil, &resp); status != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("health = %d %+v", status, resp)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin("asha")

	var errResp map[string]string
	status := ts.do("POST", "/auth/register", "", api.RegisterRequest{Username: "asha", Password: "another-password"}, &errResp)
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", status)
	}
	if errResp["error"] == "" {
		t.Error("expected error body")
	}

	if status := ts.do("POST", "/auth/login", "", api.LoginRequest{Username: "asha", Password: "wrong-password"}, nil); status != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}
}

func TestRecordAttemptFlow(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	user := ts.registerAndLogin("ravi")
	ts.createQuestion(admin, 42, "quantitative")

	solved := api.SolvedRequest{Attempts: 1, TimeSpent: 30, Accuracy: 80}
	if status := ts.do("POST", "/questions/42/solved", "", solved, nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous solved status = %d, want 401", status)
	}

	var ack api.StatusResponse
	if status := ts.do("POST", "/questions/42/solved", user, solved, &ack); status != http.StatusCreated {
		t.Fatalf("solved status = %d, want 201", status)
	}
	if ack.Status != "recorded" {
		t.Errorf("ack = %+v", ack)
	}

	bad := api.SolvedRequest{TimeSpent: 0, Accuracy: 80}
	if status := ts.do("POST", "/questions/42/solved", user, bad, nil); status != http.StatusBadRequest {
		t.Errorf("zero timeSpent status = %d, want 400", status)
	}
	if status := ts.do("POST", "/questions/999/solved", user, solved, nil); status != http.StatusNotFound {
		t.Errorf("missing question status = %d, want 404", status)
	}

	var progress api.ProgressResponse
	if status := ts.do("GET", "/dashboard/progress", user, nil, &progress); status != http.StatusOK {
		t.Fatalf("progress status = %d", status)
	}
	if progress.TotalQuestionsSolved != 1 || progress.TotalAttempts != 1 || progress.AverageAccuracy != 80 {
		t.Errorf("progress = %+v", progress)
	}

	var q api.QuestionResponse
	ts.do("GET", "/questions/42", user, nil, &q)
	if q.Answer != "" {
		t.Error("answer must be hidden from regular users")
	}
	if q.AttemptCount != 1 || q.AvgTimeSpent != 30 {
		t.Errorf("question aggregate = %d attempts, %v avg time", q.AttemptCount, q.AvgTimeSpent)
	}

	var activity map[string]int
	today := time.Now().UTC().Format("2006-01-02")
	ts.do("GET", "/dashboard/activity?startDate="+today+"&endDate="+today, user, nil, &activity)
	if activity[today] != 1 {
		t.Errorf("activity = %v, want 1 on %s", activity, today)
	}
}

func TestRandomQuestion(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	user := ts.registerAndLogin("meera")
	ts.createQuestion(admin, 1, "quantitative")
	ts.createQuestion(admin, 2, "verbal")

	var q api.QuestionResponse
	if status := ts.do("GET", "/questions/random?section=verbal", "", nil, &q); status != http.StatusOK {
		t.Fatalf("random status = %d", status)
	}
	if q.QuestionNumber != 2 {
		t.Errorf("random verbal = %d, want 2", q.QuestionNumber)
	}

	var errResp map[string]string
	if status := ts.do("GET", "/questions/random?section=logical", "", nil, &errResp); status != http.StatusNotFound {
		t.Errorf("empty pool status = %d, want 404", status)
	}
	if errResp["error"] != "no questions found" {
		t.Errorf("empty pool error = %q", errResp["error"])
	}

	if status := ts.do("GET", "/questions/random?status=Solved", "", nil, nil); status != http.StatusBadRequest {
		t.Errorf("status without user = %d, want 400", status)
	}

	ts.do("POST", "/questions/1/solved", user, api.SolvedRequest{TimeSpent: 10, Accuracy: 100}, nil)
	ts.do("GET", "/questions/random?status=Unsolved", user, nil, &q)
	if q.QuestionNumber != 2 || q.Status != "Unsolved" {
		t.Errorf("unsolved pick = %d (%s), want 2", q.QuestionNumber, q.Status)
	}
}

func TestListOwnershipOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	owner := ts.registerAndLogin("owner")
	other := ts.registerAndLogin("other")
	ts.createQuestion(admin, 7, "logical")

	var mine []api.ListResponse
	ts.do("GET", "/lists", owner, nil, &mine)
	if len(mine) != 1 || !mine[0].IsFavorites {
		t.Fatalf("expected only the favorites list, got %+v", mine)
	}
	favID := mine[0].ID

	var errResp map[string]string
	if status := ts.do("DELETE", "/lists/"+favID, owner, nil, &errResp); status != http.StatusConflict {
		t.Errorf("delete favorites by owner = %d, want 409", status)
	}
	if status := ts.do("DELETE", "/lists/"+favID, admin, nil, nil); status != http.StatusConflict {
		t.Errorf("delete favorites by admin = %d, want 409", status)
	}

	var private api.ListResponse
	status := ts.do("POST", "/lists", owner, api.ListRequest{
		Title:      "Hard ones",
		Visibility: "private",
		Questions:  []api.ListItemPayload{{QuestionNumber: 7, Order: 3}},
	}, &private)
	if status != http.StatusCreated {
		t.Fatalf("create list status = %d", status)
	}
	if private.Questions[0].Order != 1 {
		t.Errorf("order not renumbered: %+v", private.Questions)
	}

	if status := ts.do("GET", "/lists/"+private.ID, other, nil, nil); status != http.StatusForbidden {
		t.Errorf("private read by other = %d, want 403", status)
	}
	if status := ts.do("POST", "/lists/"+private.ID+"/save", other, nil, nil); status != http.StatusForbidden {
		t.Errorf("private save by other = %d, want 403", status)
	}
	if status := ts.do("POST", "/lists/"+private.ID+"/fork", other, nil, nil); status != http.StatusForbidden {
		t.Errorf("private fork by other = %d, want 403", status)
	}
	if status := ts.do("GET", "/lists/does-not-exist", other, nil, nil); status != http.StatusNotFound {
		t.Errorf("missing list = %d, want 404", status)
	}

	var fork api.ListResponse
	if status := ts.do("POST", "/lists/"+private.ID+"/fork", owner, api.ForkRequest{}, &fork); status != http.StatusCreated {
		t.Fatalf("fork status = %d", status)
	}
	if fork.Visibility != "private" || fork.ID == private.ID {
		t.Errorf("fork = %+v", fork)
	}

	if status := ts.do("POST", "/lists", owner, api.ListRequest{Title: ""}, nil); status != http.StatusBadRequest {
		t.Errorf("missing title = %d, want 400", status)
	}
}

func TestQuestionListsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	user := ts.registerAndLogin("kiran")
	ts.createQuestion(admin, 3, "verbal")

	var official api.QuestionListResponse
	ts.do("POST", "/questionlists", admin, api.CreateQuestionListRequest{
		Title: "Official set", Questions: []int{3}, Tags: []string{"Verbal"}, IsPublic: true,
	}, &official)
	if !official.IsOfficial || official.TotalQuestions != 1 {
		t.Fatalf("admin list = %+v", official)
	}

	var community api.QuestionListResponse
	ts.do("POST", "/questionlists", user, api.CreateQuestionListRequest{Title: "Mine", Questions: []int{3}}, &community)
	if community.IsOfficial {
		t.Error("user list must not be official")
	}

	if status := ts.do("POST", "/questionlists", user, api.CreateQuestionListRequest{Title: "Bad", Questions: []int{404}}, nil); status != http.StatusBadRequest {
		t.Errorf("unknown question = %d, want 400", status)
	}

	var like api.LikeStateResponse
	ts.do("POST", "/questionlists/"+official.ID+"/like", user, nil, &like)
	if !like.Liked {
		t.Error("expected liked")
	}

	var browse []api.QuestionListResponse
	ts.do("GET", "/questionlists?official=true&tag=verbal", "", nil, &browse)
	if len(browse) != 1 || browse[0].ID != official.ID || browse[0].LikeCount != 1 {
		t.Errorf("browse = %+v", browse)
	}

	if status := ts.do("GET", "/questionlists/"+community.ID, "", nil, nil); status != http.StatusForbidden {
		t.Errorf("private question list read anonymously = %d, want 403", status)
	}
	if status := ts.do("DELETE", "/questionlists/"+community.ID, admin, nil, nil); status != http.StatusNoContent {
		t.Errorf("admin delete = %d, want 204", status)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	user := ts.registerAndLogin("sam")

	body := api.CourseRequest{Name: "Placements"}
	if status := ts.do("POST", "/courses", "", body, nil); status != http.StatusUnauthorized {
		t.Errorf("anonymous create course = %d, want 401", status)
	}
	if status := ts.do("POST", "/courses", user, body, nil); status != http.StatusForbidden {
		t.Errorf("user create course = %d, want 403", status)
	}

	var course api.CourseResponse
	if status := ts.do("POST", "/courses", admin, body, &course); status != http.StatusCreated {
		t.Fatalf("admin create course = %d", status)
	}
	ts.do("POST", "/courses/"+course.ID+"/subjects", admin, api.NameRequest{Name: "Quant"}, nil)

	var detail api.GetCourseResponse
	ts.do("GET", "/courses/"+course.ID, "", nil, &detail)
	if len(detail.Subjects) != 1 || detail.Subjects[0].Name != "Quant" {
		t.Errorf("course detail = %+v", detail)
	}

	if status := ts.do("GET", "/admin/export", user, nil, nil); status != http.StatusForbidden {
		t.Errorf("user export = %d, want 403", status)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login("admin", "admin-password")
	ts.createQuestion(admin, 5, "technical")

	var data api.ExportData
	if status := ts.do("GET", "/admin/export", admin, nil, &data); status != http.StatusOK {
		t.Fatalf("export status = %d", status)
	}
	if len(data.Questions) != 1 || data.Questions[0].Answer != "12" {
		t.Fatalf("export = %+v", data)
	}

	data.Questions[0].Text = "Edited"
	data.Questions = append(data.Questions, api.ExportQuestion{
		QuestionNumber: 6, Section: "technical", Difficulty: "Easy", Type: "Integer", Text: "2+2", Answer: "4",
	})
	var result service.ImportResult
	if status := ts.do("POST", "/admin/import", admin, data, &result); status != http.StatusCreated {
		t.Fatalf("import status = %d", status)
	}
	if result.Created != 1 || result.Updated != 1 {
		t.Errorf("import result = %+v", result)
	}
}

func TestDiscussionFlowNotifiesOwner(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin("author")
	replier := ts.registerAndLogin("helper")

	var d api.DiscussionResponse
	if status := ts.do("POST", "/discussions", owner, api.CreateDiscussionRequest{Title: "Stuck", Content: "Help"}, &d); status != http.StatusCreated {
		t.Fatalf("create discussion = %d", status)
	}
	if d.Category != "general" {
		t.Errorf("default category = %q", d.Category)
	}

	ts.do("POST", "/discussions/"+d.ID+"/replies", replier, api.ReplyRequest{Content: "Try this"}, nil)

	var reaction api.ReactionStateResponse
	ts.do("POST", "/discussions/"+d.ID+"/react", replier, api.ReactionRequest{Reaction: "like"}, &reaction)
	if reaction.Reaction != "like" {
		t.Errorf("reaction = %q", reaction.Reaction)
	}

	if status := ts.do("DELETE", "/discussions/"+d.ID, replier, nil, nil); status != http.StatusForbidden {
		t.Errorf("delete by non-owner = %d, want 403", status)
	}
	if status := ts.do("POST", "/discussions/"+d.ID+"/pin", owner, nil, nil); status != http.StatusForbidden {
		t.Errorf("pin by user = %d, want 403", status)
	}

	var got api.DiscussionResponse
	ts.do("GET", "/discussions/"+d.ID, "", nil, &got)
	if got.ReplyCount != 1 || got.Likes != 1 || got.Views != 1 {
		t.Errorf("discussion = %+v", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		var notes []api.NotificationResponse
		ts.do("GET", "/notifications", owner, nil, &notes)
		if len(notes) == 1 {
			if notes[0].Kind != "discussion_reply" {
				t.Errorf("notification kind = %q", notes[0].Kind)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("owner got %d notifications, want 1", len(notes))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
