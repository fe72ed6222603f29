package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/yashodhank/tincanz/internal/infrastructure/auth"
	"github.com/yashodhank/tincanz/internal/infrastructure/metrics"
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/adapter"
	useradapter "github.com/yashodhank/tincanz/internal/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	alice = inbox.User{ID: "11111111-1111-4111-8111-111111111111", Email: "alice@example.com", Admin: true}
	bob   = inbox.User{ID: "22222222-2222-4222-8222-222222222222", Email: "bob@example.com", Admin: true}
	carol = inbox.User{ID: "33333333-3333-4333-8333-333333333333", Email: "carol@example.com"}

	unknownID = "99999999-9999-4999-8999-999999999999"
)

type server struct {
	t       *testing.T
	engine  *gin.Engine
	repo    *adapter.MemoryInboxRepository
	tokens  *auth.Tokens
	metrics *metrics.Metrics
}

func newServer(t *testing.T) *server {
	t.Helper()
	users := useradapter.NewMemoryUserRepository(alice, bob, carol)
	repo := adapter.NewMemoryInboxRepository(users)
	d := Deps{
		Inbox:   repo,
		Users:   users,
		Tokens:  auth.NewTokens("test-secret", time.Hour),
		Metrics: metrics.New(),
	}

	r := gin.New()
	SetupViews(r)
	RegisterAdminRoutes(r.Group("/admin"), d)
	RegisterAPIRoutes(r.Group("/api/v1"), d)
	return &server{t: t, engine: r, repo: repo, tokens: d.Tokens, metrics: d.Metrics}
}

func (s *server) token(u inbox.User) string {
	s.t.Helper()
	tok, err := s.tokens.Issue(u)
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(req *http.Request, as *inbox.User) *httptest.ResponseRecorder {
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(*as))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) postForm(path string, form url.Values, as *inbox.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, as)
}

func (s *server) postJSON(path, body string, as *inbox.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, as)
}

func (s *server) get(path string, as *inbox.User) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (s *server) conversations() []inbox.Conversation {
	s.t.Helper()
	all, err := s.repo.ListConversations(context.Background())
	require.NoError(s.t, err)
	return all
}

// createConversation posts a first message as admin and returns the new conversation id.
func (s *server) createConversation(as inbox.User, content string) string {
	s.t.Helper()
	w := s.postForm("/admin/messages", url.Values{"message[content]": {content}}, &as)
	require.Equal(s.t, http.StatusSeeOther, w.Code, w.Body.String())
	return strings.TrimPrefix(w.Header().Get("Location"), "/admin/conversations/")
}

func assertCounter(t *testing.T, m *metrics.Metrics, name, help string, want int) {
	t.Helper()
	expected := fmt.Sprintf("# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, want)
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), name))
}

func flashCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == "tincanz_flash" {
			v, _ := url.QueryUnescape(c.Value)
			return v
		}
	}
	return ""
}

func TestCreateMessageFormRedirectsToNewConversation(t *testing.T) {
	s := newServer(t)

	w := s.postForm("/admin/messages", url.Values{
		"message[content]":         {"Hello from support"},
		"message[recipient_ids][]": {carol.ID},
		"commit":                   {"Send"},
	}, &alice)

	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	all := s.conversations()
	require.Len(t, all, 1)
	assert.Equal(t, "/admin/conversations/"+all[0].ID, w.Header().Get("Location"))
	assert.Equal(t, "notice:Your message was delivered.", flashCookie(w))
	assert.True(t, all[0].IsOwnedBy(alice.ID))
	assertCounter(t, s.metrics, "tincanz_conversations_created_total", "Conversations started by a first message.", 1)
}

func TestCreateMessageFormJoinsExistingConversation(t *testing.T) {
	s := newServer(t)
	convID := s.createConversation(bob, "opening")

	w := s.postForm("/admin/messages", url.Values{
		"message[conversation_id]": {convID},
		"message[user_id]":         {carol.ID},
		"message[content]":         {"a reply"},
	}, &alice)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/conversations/"+convID, w.Header().Get("Location"))
	all := s.conversations()
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].MessageCount)
	assert.True(t, all[0].IsOwnedBy(bob.ID))
}

func TestCreateMessageFormRerendersOnValidationFailure(t *testing.T) {
	s := newServer(t)

	w := s.postForm("/admin/messages", url.Values{"message[content]": {"   "}}, &alice)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Could not create your message.")
	assert.Contains(t, body, "content can&#39;t be blank")
	assert.Contains(t, body, `name="message[content]"`)
	assert.Empty(t, s.conversations())
}

func TestCreateMessageFormRejectsUnknownFields(t *testing.T) {
	s := newServer(t)

	w := s.postForm("/admin/messages", url.Values{
		"message[content]":    {"hi"},
		"message[created_at]": {"2001-01-01"},
	}, &alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.conversations())
}

func TestAdminGate(t *testing.T) {
	s := newServer(t)
	form := url.Values{"message[content]": {"hi"}}

	w := s.postForm("/admin/messages", form, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code, "anonymous browsers are sent to sign in")
	assert.Equal(t, "/admin/session", w.Header().Get("Location"))
	assert.Equal(t, "alert:Please sign in to continue.", flashCookie(w))

	w = s.postForm("/admin/messages", form, &carol)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>403</h1>")

	w = s.postJSON("/api/v1/admin/messages", `{"message":{"content":"hi"}}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"auth: unauthenticated"}`, w.Body.String())

	w = s.postJSON("/api/v1/admin/messages", `{"message":{"content":"hi"}}`, &carol)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Empty(t, s.conversations(), "rejected callers cause no side effects")
}

func TestSessionCookieAuthenticates(t *testing.T) {
	s := newServer(t)

	w := s.postForm("/admin/session", url.Values{"token": {s.token(alice)}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
	req.AddCookie(session)
	w = s.do(req, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.postForm("/admin/session", url.Values{"token": {"garbage"}}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/session", w.Header().Get("Location"))
	assert.Equal(t, "alert:That token is invalid or has expired.", flashCookie(w))
}

func TestSignInPageShowsAlert(t *testing.T) {
	s := newServer(t)

	w := s.get("/admin/conversations", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/session", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = s.do(req, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form method="post" action="/admin/session">`)
	assert.Contains(t, w.Body.String(), `<p class="alert">Please sign in to continue.</p>`)
}

func TestCreateMessageAPI(t *testing.T) {
	s := newServer(t)

	w := s.postJSON("/api/v1/admin/messages", `{"message":{"content":"API hello","recipient_ids":["`+carol.ID+`"]}}`, &alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Notice  string `json:"notice"`
		Message struct {
			ID             string   `json:"id"`
			ConversationID string   `json:"conversation_id"`
			AuthorID       string   `json:"author_id"`
			RecipientIDs   []string `json:"recipient_ids"`
		} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Your message was delivered.", body.Notice)
	assert.Equal(t, alice.ID, body.Message.AuthorID)
	assert.Equal(t, []string{carol.ID}, body.Message.RecipientIDs)
	assert.Equal(t, "/admin/conversations/"+body.Message.ConversationID, w.Header().Get("Location"))
}

func TestCreateMessageAPIValidationAndUnknownFields(t *testing.T) {
	s := newServer(t)

	w := s.postJSON("/api/v1/admin/messages", `{"message":{"content":""}}`, &alice)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Alert  string            `json:"alert"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Could not create your message.", body.Alert)
	assert.Equal(t, "can't be blank", body.Errors["content"])

	w = s.postJSON("/api/v1/admin/messages", `{"message":{"content":"x","owner_id":"`+bob.ID+`"}}`, &alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.postJSON("/api/v1/admin/messages", `{}`, &alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, s.conversations())
	assertCounter(t, s.metrics, "tincanz_message_validation_failures_total", "Message submissions rejected by validation.", 1)
}
