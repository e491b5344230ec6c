package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/rest/middleware"
	"github.com/taskboard/taskboard_server/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New()
	router := gin.New()
	router.Use(middleware.RequestID())
	NewAuthHandler(st, log).EnrichRoutes(router)
	NewTaskHandler(st, log).EnrichRoutes(router)
	return router, st
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func registerAndLogin(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	w = perform(t, router, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
}

func TestRegister_PublicUserWithoutPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	decode(t, w, &body)
	if body["email"] != "alice@example.com" || body["name"] != "Alice" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatalf("password crossed the HTTP boundary")
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	router, st := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/auth/register", `{"email":"a@b.c"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var body struct {
		Errors map[string]struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	decode(t, w, &body)
	for _, field := range []string{"name", "password"} {
		if body.Errors[field].Code != "missed_value" {
			t.Fatalf("expected missed_value for %s, got %v", field, body.Errors)
		}
	}

	w = perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"A","email":"a@b.c","password":"x","password_confirmation":"y"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	decode(t, w, &body)
	if body.Errors["password_confirmation"].Code != "password_mismatch" {
		t.Fatalf("expected password_mismatch, got %v", body.Errors)
	}

	if got := len(st.Auth().Users); got != 0 {
		t.Fatalf("failed validation mutated the store: %d users", got)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, st := newTestRouter(t)
	payload := `{"name":"Alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`

	if w := perform(t, router, http.MethodPost, "/auth/register", payload); w.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", w.Code)
	}
	w := perform(t, router, http.MethodPost, "/auth/register", payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("second register: status %d body %s", w.Code, w.Body.String())
	}

	if got := len(st.Auth().Users); got != 1 {
		t.Fatalf("users collection changed by rejected registration: %d", got)
	}
}

func TestLogin_CredentialMismatch(t *testing.T) {
	router, _ := newTestRouter(t)
	perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)

	w := perform(t, router, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}

	// One general-purpose message, no per-field detail.
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &body)
	if body.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected error body: %s", w.Body.String())
	}
}

func TestSession_LoginLogoutRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)

	var session struct {
		User            *struct{ Email string } `json:"user"`
		IsAuthenticated bool                    `json:"is_authenticated"`
	}
	w := perform(t, router, http.MethodGet, "/auth/session", "")
	decode(t, w, &session)
	if !session.IsAuthenticated || session.User == nil || session.User.Email != "alice@example.com" {
		t.Fatalf("unexpected session: %s", w.Body.String())
	}

	if w := perform(t, router, http.MethodPost, "/auth/logout", ""); w.Code != http.StatusOK {
		t.Fatalf("logout: status %d", w.Code)
	}
	w = perform(t, router, http.MethodGet, "/auth/session", "")
	decode(t, w, &session)
	if session.IsAuthenticated || session.User != nil {
		t.Fatalf("session survived logout: %s", w.Body.String())
	}
}

func TestTaskRoutes_RequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/task/"},
		{http.MethodGet, "/task/"},
		{http.MethodPost, "/task/1/toggle"},
		{http.MethodPut, "/task/1"},
		{http.MethodDelete, "/task/1"},
		{http.MethodPut, "/filter/all"},
	} {
		w := perform(t, router, tc.method, tc.path, `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestTask_CreateListToggleUpdateDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)

	w := perform(t, router, http.MethodPost, "/task/",
		`{"title":"Buy milk","description":"2%","priority":"high"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID        int64  `json:"id"`
		Priority  string `json:"priority"`
		Completed bool   `json:"completed"`
	}
	decode(t, w, &created)
	if created.Priority != "high" || created.Completed {
		t.Fatalf("unexpected task: %s", w.Body.String())
	}

	var list struct {
		Tasks  []struct{ ID int64 } `json:"tasks"`
		Filter string               `json:"filter"`
		Stats  struct {
			Total, Completed, Pending int
		} `json:"stats"`
	}
	w = perform(t, router, http.MethodGet, "/task/", "")
	decode(t, w, &list)
	if len(list.Tasks) != 1 || list.Filter != "all" || list.Stats.Pending != 1 {
		t.Fatalf("unexpected list: %s", w.Body.String())
	}

	w = perform(t, router, http.MethodPost, fmt.Sprintf("/task/%d/toggle", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: status %d body %s", w.Code, w.Body.String())
	}

	w = perform(t, router, http.MethodPut, fmt.Sprintf("/task/%d", created.ID),
		`{"description":"whole"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	var updated struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	decode(t, w, &updated)
	if updated.ID != created.ID || updated.Title != "Buy milk" || updated.Description != "whole" || !updated.Completed {
		t.Fatalf("unexpected update result: %s", w.Body.String())
	}

	if w := perform(t, router, http.MethodDelete, fmt.Sprintf("/task/%d", created.ID), ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = perform(t, router, http.MethodGet, "/task/", "")
	decode(t, w, &list)
	if len(list.Tasks) != 0 {
		t.Fatalf("task survived delete: %s", w.Body.String())
	}
}

func TestTask_CreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)

	w := perform(t, router, http.MethodPost, "/task/", `{"priority":"urgent"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var body struct {
		Errors map[string]struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	decode(t, w, &body)
	if body.Errors["title"].Code != "missed_value" || body.Errors["description"].Code != "missed_value" {
		t.Fatalf("expected missed_value errors, got %v", body.Errors)
	}
	if body.Errors["priority"].Code != "invalid_value" {
		t.Fatalf("expected invalid_value for priority, got %v", body.Errors)
	}
}

func TestNullBody_RejectedAsInvalidStructure(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)
	created := createTask(t, router, `{"title":"a","description":"d"}`)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/auth/register"},
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/task/"},
		{http.MethodPut, fmt.Sprintf("/task/%d", created)},
	} {
		w := perform(t, router, tc.method, tc.path, `null`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s %s with null body: status %d body %s", tc.method, tc.path, w.Code, w.Body.String())
		}
		var body struct {
			Errors map[string]struct {
				Code string `json:"code"`
			} `json:"errors"`
		}
		decode(t, w, &body)
		if body.Errors["general"].Code != "invalid_request_structure" {
			t.Fatalf("%s %s: expected invalid_request_structure, got %s", tc.method, tc.path, w.Body.String())
		}
	}
}

func TestTask_ForeignTasksNotAddressable(t *testing.T) {
	router, st := newTestRouter(t)
	registerAndLogin(t, router)
	created := createTask(t, router, `{"title":"mine","description":"d"}`)

	perform(t, router, http.MethodPost, "/auth/logout", "")
	w := perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"Bob","email":"bob@example.com","password":"hunter2","password_confirmation":"hunter2"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}
	w = perform(t, router, http.MethodPost, "/auth/login",
		`{"email":"bob@example.com","password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d", w.Code)
	}

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, fmt.Sprintf("/task/%d/toggle", created), ""},
		{http.MethodPut, fmt.Sprintf("/task/%d", created), `{"title":"stolen"}`},
		{http.MethodDelete, fmt.Sprintf("/task/%d", created), ""},
	} {
		w := perform(t, router, tc.method, tc.path, tc.body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: status %d, want 404", tc.method, tc.path, w.Code)
		}
	}

	task, ok := st.FindTask(created)
	if !ok {
		t.Fatalf("task deleted through a foreign session")
	}
	if task.Title != "mine" || task.Completed {
		t.Fatalf("task mutated through a foreign session: %+v", task)
	}
}

func TestFormContents_LoggedWithoutPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	st := store.New()
	router := gin.New()
	router.Use(middleware.RequestID())
	NewAuthHandler(st, log).EnrichRoutes(router)

	w := perform(t, router, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret","password_confirmation":"secret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d", w.Code)
	}

	out := buf.String()
	if !strings.Contains(out, "alice@example.com") {
		t.Fatalf("form contents not logged: %s", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("password leaked into the log: %s", out)
	}
}

func createTask(t *testing.T, router *gin.Engine, payload string) int64 {
	t.Helper()
	w := perform(t, router, http.MethodPost, "/task/", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &created)
	return created.ID
}

func TestTask_ToggleUnknownID(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)

	if w := perform(t, router, http.MethodPost, "/task/424242/toggle", ""); w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
}

func TestFilter_SetAndReject(t *testing.T) {
	router, st := newTestRouter(t)
	registerAndLogin(t, router)
	perform(t, router, http.MethodPost, "/task/", `{"title":"a","description":"d"}`)

	w := perform(t, router, http.MethodPut, "/filter/completed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var list struct {
		Tasks  []struct{ ID int64 } `json:"tasks"`
		Filter string               `json:"filter"`
	}
	decode(t, w, &list)
	if list.Filter != "completed" || len(list.Tasks) != 0 {
		t.Fatalf("unexpected filtered list: %s", w.Body.String())
	}
	if st.Tasks().Filter != store.FilterCompleted {
		t.Fatalf("filter not applied to store")
	}

	if w := perform(t, router, http.MethodPut, "/filter/bogus", ""); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", w.Code)
	}
}
