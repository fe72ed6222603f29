package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadOrdersByCreationTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := Message{ID: "m1", Content: "hello", CreatedAt: base}
	// m3 replies to m1 but was written after m2; position follows created_at only
	m2 := Message{ID: "m2", Content: "second", CreatedAt: base.Add(time.Minute)}
	m3 := Message{ID: "m3", Content: "third", ReplyToID: strPtr("m1"), CreatedAt: base.Add(2 * time.Minute)}
	m4 := Message{ID: "m4", Content: "fourth", ReplyToID: strPtr("m3"), CreatedAt: base.Add(2 * time.Minute)}

	thread := NewThread(Conversation{ID: "c1"}, []Message{m4, m3, first, m2})

	require.NotNil(t, thread.First)
	assert.Equal(t, "m1", thread.First.ID)
	require.Len(t, thread.Replies, 3)
	assert.Equal(t, []string{"m2", "m3", "m4"}, []string{thread.Replies[0].ID, thread.Replies[1].ID, thread.Replies[2].ID})

	for i := 1; i < len(thread.Replies); i++ {
		assert.False(t, thread.Replies[i].CreatedAt.Before(thread.Replies[i-1].CreatedAt))
	}
}

func TestNewThreadEmpty(t *testing.T) {
	thread := NewThread(Conversation{ID: "c1"}, nil)
	assert.Nil(t, thread.First)
	assert.Empty(t, thread.Replies)
	assert.Nil(t, thread.Messages())
}

func TestThreadMessagesAndReplyTarget(t *testing.T) {
	base := time.Now()
	msgs := []Message{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Second), ReplyToID: strPtr("a")},
		{ID: "c", CreatedAt: base.Add(2 * time.Second), ReplyToID: strPtr("b")},
		{ID: "d", CreatedAt: base.Add(3 * time.Second), ReplyToID: strPtr("elsewhere")},
	}
	thread := NewThread(Conversation{ID: "c"}, msgs)

	all := thread.Messages()
	require.Len(t, all, 4)
	assert.Equal(t, "a", all[0].ID)

	assert.Equal(t, "a", thread.ReplyTarget(all[1]).ID)
	assert.Equal(t, "b", thread.ReplyTarget(all[2]).ID)
	assert.Nil(t, thread.ReplyTarget(all[3]))
	assert.Nil(t, thread.ReplyTarget(all[0]))
}

func TestNewThreadDoesNotReorderInput(t *testing.T) {
	base := time.Now()
	in := []Message{{ID: "late", CreatedAt: base.Add(time.Hour)}, {ID: "early", CreatedAt: base}}
	NewThread(Conversation{}, in)
	assert.Equal(t, "late", in[0].ID)
}
