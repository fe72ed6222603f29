package controller

import (
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	"github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/view"
)

const (
	NoticeDelivered = "Your message was delivered."
	AlertNotCreated = "Could not create your message."
)

// Outcome is the result of a message submission: either Redirect or Rerender.
type Outcome interface {
	outcome()
}

// Redirect sends the admin to the conversation the message landed in.
type Redirect struct {
	Target  string
	Notice  string
	Message *inbox.Message
}

// Rerender redisplays the compose form with the rejected input and its errors.
type Rerender struct {
	Form    view.MessageForm
	Errors  map[string]string
	Alert   string
	Message *inbox.Message
}

func (Redirect) outcome() {}
func (Rerender) outcome() {}
