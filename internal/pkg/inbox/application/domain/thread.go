package inbox

import "sort"

// Thread is a conversation as displayed: the opening message and its replies.
type Thread struct {
	Conversation Conversation
	First        *Message
	Replies      []Message
}

// NewThread orders messages by creation time (id breaks ties).
// ReplyToID is display context only and never changes the order.
func NewThread(c Conversation, messages []Message) Thread {
	ordered := make([]Message, len(messages))
	copy(ordered, messages)
	SortMessages(ordered)

	t := Thread{Conversation: c}
	if len(ordered) == 0 {
		return t
	}
	t.First = &ordered[0]
	t.Replies = ordered[1:]
	return t
}

// SortMessages sorts in place by ascending CreatedAt, then ID.
func SortMessages(ms []Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].CreatedAt.Equal(ms[j].CreatedAt) {
			return ms[i].ID < ms[j].ID
		}
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}

// Messages returns every message in display order.
func (t Thread) Messages() []Message {
	if t.First == nil {
		return nil
	}
	out := make([]Message, 0, len(t.Replies)+1)
	out = append(out, *t.First)
	return append(out, t.Replies...)
}

// ReplyTarget finds the message a reply points at, if it is part of the thread.
func (t Thread) ReplyTarget(m Message) *Message {
	if m.ReplyToID == nil {
		return nil
	}
	if t.First != nil && t.First.ID == *m.ReplyToID {
		return t.First
	}
	for i := range t.Replies {
		if t.Replies[i].ID == *m.ReplyToID {
			return &t.Replies[i]
		}
	}
	return nil
}
