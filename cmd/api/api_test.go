package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/teelane/budget-manager/internal/config"
	"github.com/teelane/budget-manager/internal/db"
)

// newTestServer stands up the full router over a freshly migrated SQLite file.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget_test.db")
	database, err := db.Connect(path, 5, 2)
	if err != nil {
		t.Fatalf("db.Connect: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.Run(path); err != nil {
		t.Fatalf("db.Run: %v", err)
	}

	cfg := config.Config{
		JWTSecret:      "test-secret-for-integration",
		JWTExpireHours: 1,
	}
	srv := httptest.NewServer(newRouter(database, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// TestAPI_RegisterLoginCreateExpense walks the happy path end to end:
// register, login, create an expense, read it back.
func TestAPI_RegisterLoginCreateExpense(t *testing.T) {
	srv := newTestServer(t)

	// 1) Register
	resp := postJSON(t, srv.URL+"/api/register", map[string]string{"username": "alice", "password": "hunter2"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}

	// 2) Login
	resp = postJSON(t, srv.URL+"/api/login", map[string]string{"username": "alice", "password": "hunter2"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	var login struct {
		UserID   int    `json:"user_id"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.UserID == 0 || login.Username != "alice" || login.Token == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	// 3) Create an expense; the server stamps the date.
	resp = postJSON(t, srv.URL+"/api/expenses", map[string]interface{}{
		"title":       "Groceries",
		"description": "weekly shop",
		"amount":      54,
		"category":    "food",
		"user_id":     login.UserID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expense status: got %d, want 201", resp.StatusCode)
	}
	var created struct {
		Success bool `json:"success"`
		ID      int  `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if !created.Success || created.ID == 0 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// 4) Read it back: the stored date is today's date, not client-supplied.
	getResp, err := http.Get(fmt.Sprintf("%s/api/expenses/%d", srv.URL, created.ID))
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	defer getResp.Body.Close()
	var expense struct {
		ID       int    `json:"id"`
		Amount   int    `json:"amount"`
		Date     string `json:"date"`
		Category string `json:"category"`
		UserID   int    `json:"user_id"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&expense); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	if expense.Date != time.Now().Format("2006-01-02") {
		t.Errorf("expense date: got %q, want today", expense.Date)
	}
	if expense.Amount != 54 || expense.UserID != login.UserID {
		t.Errorf("unexpected expense: %+v", expense)
	}
}

func TestAPI_DuplicateRegister(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", map[string]string{"username": "bob", "password": "pw"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status: got %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/register", map[string]string{"username": "bob", "password": "other"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second register status: got %d, want 409", resp.StatusCode)
	}

	// Exactly one bob in the listing.
	listResp, err := http.Get(srv.URL + "/api/users")
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	defer listResp.Body.Close()
	var users []struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", map[string]string{"username": "carol", "password": "right"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", map[string]string{"username": "carol", "password": "wrong"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login status: got %d, want 401", resp.StatusCode)
	}
}

// TestAPI_DeleteMissingLeavesRows checks that a failed delete does not touch
// existing rows.
func TestAPI_DeleteMissingLeavesRows(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", map[string]string{"username": "dave", "password": "pw"})
	resp.Body.Close()

	req, _ := http.NewRequest("DELETE", srv.URL+"/api/users/9999", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusNotFound {
		t.Errorf("delete status: got %d, want 404", delResp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/api/users")
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	defer listResp.Body.Close()
	var users []struct{ ID int }
	if err := json.NewDecoder(listResp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user after failed delete, got %d", len(users))
	}
}

func TestAPI_ExpenseFilterCounts(t *testing.T) {
	srv := newTestServer(t)

	ids := make(map[string]int)
	for _, name := range []string{"erin", "frank"} {
		resp := postJSON(t, srv.URL+"/api/register", map[string]string{"username": name, "password": "pw"})
		resp.Body.Close()

		resp = postJSON(t, srv.URL+"/api/login", map[string]string{"username": name, "password": "pw"})
		var login struct {
			UserID int `json:"user_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
			t.Fatalf("decode login: %v", err)
		}
		resp.Body.Close()
		ids[name] = login.UserID
	}

	for owner, n := range map[string]int{"erin": 2, "frank": 1} {
		for i := 0; i < n; i++ {
			resp := postJSON(t, srv.URL+"/api/expenses", map[string]interface{}{
				"description": "expense",
				"amount":      10 + i,
				"category":    "misc",
				"user_id":     ids[owner],
			})
			resp.Body.Close()
		}
	}

	count := func(url string) int {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		defer resp.Body.Close()
		var list []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
		return len(list)
	}

	// Scoped counts sum to the unscoped count.
	if got := count(srv.URL + "/api/expenses"); got != 3 {
		t.Errorf("all expenses: got %d, want 3", got)
	}
	if got := count(fmt.Sprintf("%s/api/expenses?user_id=%d", srv.URL, ids["erin"])); got != 2 {
		t.Errorf("erin expenses: got %d, want 2", got)
	}
	if got := count(fmt.Sprintf("%s/api/expenses?user_id=%d", srv.URL, ids["frank"])); got != 1 {
		t.Errorf("frank expenses: got %d, want 1", got)
	}
}

func TestAPI_MeRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/me")
	if err != nil {
		t.Fatalf("GET /api/me: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me status without token: got %d, want 401", resp.StatusCode)
	}

	// With a token from login, /api/me returns the caller.
	reg := postJSON(t, srv.URL+"/api/register", map[string]string{"username": "grace", "password": "pw"})
	reg.Body.Close()
	login := postJSON(t, srv.URL+"/api/login", map[string]string{"username": "grace", "password": "pw"})
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(login.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	login.Body.Close()

	req, _ := http.NewRequest("GET", srv.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	meResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/me: %v", err)
	}
	defer meResp.Body.Close()
	if meResp.StatusCode != http.StatusOK {
		t.Errorf("me status with token: got %d, want 200", meResp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Username != "grace" {
		t.Errorf("unexpected me: %+v", me)
	}
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/health status: got %d, want 200", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if out.Status != "OK" {
		t.Errorf("health status field: got %q, want OK", out.Status)
	}
}

func TestAPI_Ready(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}
