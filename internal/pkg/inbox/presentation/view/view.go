package view

import (
	"embed"
	"html/template"
	"net/url"
	"strings"
	"time"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, as passed to gin's c.HTML.
const (
	ConversationsTemplate = "conversations.html"
	ConversationTemplate  = "conversation.html"
	MessageFormTemplate   = "message_form.html"
	UsersTemplate         = "users.html"
	ErrorTemplate         = "error.html"
	SignInTemplate        = "signin.html"
)

// Templates parses every page. The result is meant for gin.Engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"conversationPath": ConversationPath,
		"newMessagePath":   NewMessagePath,
		"timestamp":        func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
		"join":             strings.Join,
		"ownerLabel": func(c inbox.Conversation) string {
			switch {
			case c.Owner != nil:
				return c.Owner.Email
			case c.OwnerID != nil:
				return *c.OwnerID
			}
			return "Nobody"
		},
		"derefString": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
	}).ParseFS(templateFS, "templates/*.html"))
}

const (
	ConversationsPath = "/admin/conversations"
	MessagesPath      = "/admin/messages"
	UsersPath         = "/admin/users"
	SessionPath       = "/admin/session"
)

func ConversationPath(id string) string {
	return ConversationsPath + "/" + url.PathEscape(id)
}

// NewMessagePath links to the compose form, optionally preselecting recipients.
func NewMessagePath(recipientIDs ...string) string {
	if len(recipientIDs) == 0 {
		return MessagesPath + "/new"
	}
	q := url.Values{}
	for _, id := range recipientIDs {
		q.Add("recipient_ids", id)
	}
	return MessagesPath + "/new?" + q.Encode()
}

// Flash is the one-shot notice or alert carried across a redirect.
type Flash struct {
	Notice string
	Alert  string
}

// MessageForm echoes a submission back into the compose form.
type MessageForm struct {
	ConversationID string
	UserID         string
	Content        string
	ReplyToID      string
	RecipientIDs   []string
}

type Tab struct {
	Mode   inbox.FilterMode
	Label  string
	Count  int
	Active bool
}

type ConversationsPage struct {
	Admin         inbox.User
	Flash         Flash
	Tabs          []Tab
	Mode          inbox.FilterMode
	Conversations []inbox.Conversation
}

type ConversationPage struct {
	Admin  inbox.User
	Flash  Flash
	Thread inbox.Thread
	Reply  MessageForm
}

type MessageFormPage struct {
	Admin  inbox.User
	Flash  Flash
	Form   MessageForm
	Errors map[string]string
	Users  []inbox.User
}

type UsersPage struct {
	Admin inbox.User
	Flash Flash
	Users []inbox.User
}

type SignInPage struct {
	Admin inbox.User
	Flash Flash
}

type ErrorPage struct {
	Status  int
	Message string
}

// NewTabs builds the listing tabs in their fixed order.
func NewTabs(active inbox.FilterMode, counts map[inbox.FilterMode]int) []Tab {
	tabs := make([]Tab, 0, len(inbox.FilterModes))
	for _, mode := range inbox.FilterModes {
		tabs = append(tabs, Tab{Mode: mode, Label: mode.Label(), Count: counts[mode], Active: mode == active})
	}
	return tabs
}
