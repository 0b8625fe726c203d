package dm

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

func testStore() *forum.Store {
	s := forum.NewStore()
	s.AddMember(forum.Member{UserID: 1, Name: "Alice Smith"})
	s.AddMember(forum.Member{UserID: 2, Name: "Bob"})
	s.AddMember(forum.Member{UserID: 3, Name: "Carol Jones"})
	s.AddConversation(forum.Conversation{ConversationID: 100, Contributors: []int{1, 2}})
	s.AddConversation(forum.Conversation{ConversationID: 101, Contributors: []int{1, 2, 3}})
	s.AddConversation(forum.Conversation{ConversationID: 102, Contributors: []int{1}})
	s.AddConversation(forum.Conversation{ConversationID: 103, Contributors: []int{2, 3}})
	s.AddMessage(forum.Message{MessageID: 2, ConversationID: 100, InsertUserID: 2, Body: "  reply\r\nline two\r ", DateInserted: "2021-05-02 10:00:00"})
	s.AddMessage(forum.Message{MessageID: 1, ConversationID: 100, InsertUserID: 1, Body: "hello", DateInserted: "2021-05-01 09:15:00"})
	s.AddMessage(forum.Message{MessageID: 3, ConversationID: 101, InsertUserID: 3, Body: "group", DateInserted: "2022-01-01 08:00:00"})
	s.SortMessages()
	return s
}

func fixedClock() time.Time { return time.Date(2024, 3, 4, 5, 6, 0, 0, time.UTC) }

func TestResolveUser(t *testing.T) {
	e := NewExporter(testStore())
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"42", 42},
		{"bob", 2},
		{"ALICE SMITH", 1},
	}
	for _, tt := range tests {
		got, err := e.ResolveUser(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := e.ResolveUser("nobody")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestConversationsOrder(t *testing.T) {
	e := NewExporter(testStore())
	var ids []int
	for _, c := range e.Conversations(1) {
		ids = append(ids, c.ConversationID)
	}
	assert.Equal(t, []int{101, 100, 102}, ids)
}

func TestConversationText(t *testing.T) {
	s := testStore()
	e := NewExporter(s)
	conv := s.Conversations()[0]
	want := "CONVERSATION 100\n" +
		"==================================================\n" +
		"Participants: Bob\n" +
		"Total messages: 2\n" +
		"==================================================\n\n" +
		"MESSAGE 1/2\n" +
		"From: Alice Smith\n" +
		"Date: 2021-05-01 09:15\n" +
		"----------------------------------------\n" +
		"hello\n" +
		"==================================================\n\n" +
		"MESSAGE 2/2\n" +
		"From: Bob\n" +
		"Date: 2021-05-02 10:00\n" +
		"----------------------------------------\n" +
		"reply\nline two\n" +
		"==================================================\n\n"
	assert.Equal(t, want, e.ConversationText(conv, 1))
}

func TestExport(t *testing.T) {
	out := t.TempDir()
	e := NewExporter(testStore(), WithClock(fixedClock))
	res, err := e.Export(context.Background(), "alice smith", out)
	require.NoError(t, err)

	dir := filepath.Join(out, "user-1-Alice_Smith")
	assert.Equal(t, dir, res.Dir)
	assert.Equal(t, 3, res.Conversations)
	assert.Equal(t, []string{
		filepath.Join(dir, "conversation_101_Bob_Carol_Jones.txt"),
		filepath.Join(dir, "conversation_100_Bob.txt"),
		filepath.Join(dir, "conversation_102_.txt"),
		filepath.Join(dir, "all_conversations_Alice_Smith.txt"),
	}, res.Files)

	master, err := os.ReadFile(filepath.Join(dir, "all_conversations_Alice_Smith.txt"))
	require.NoError(t, err)
	text := string(master)
	assert.Contains(t, text, "PRIVATE MESSAGES - Alice Smith\n============================================================\nGenerated on: 2024-03-04 05:06\nTotal conversations: 3\n")
	assert.Contains(t, text, "Participants: Bob, Carol Jones\n")
	assert.Contains(t, text, "CONVERSATION 102\n==================================================\nParticipants: \nTotal messages: 0\n")
	assert.Contains(t, text, "\n"+separatorRule+"\n\n")
}

func TestExportKeepsNamesInsideOutDir(t *testing.T) {
	s := forum.NewStore()
	s.AddMember(forum.Member{UserID: 1, Name: "../../etc"})
	s.AddMember(forum.Member{UserID: 2, Name: `a/b\c`})
	s.AddMember(forum.Member{UserID: 3, Name: ".."})
	s.AddConversation(forum.Conversation{ConversationID: 7, Contributors: []int{1, 2, 3}})
	s.AddMessage(forum.Message{MessageID: 1, ConversationID: 7, InsertUserID: 2, Body: "hi", DateInserted: "2021-05-01 09:15:00"})

	out := t.TempDir()
	res, err := NewExporter(s, WithClock(fixedClock)).Export(context.Background(), "1", out)
	require.NoError(t, err)

	dir := filepath.Join(out, "user-1-.._.._etc")
	assert.Equal(t, dir, res.Dir)
	assert.Equal(t, []string{
		filepath.Join(dir, "conversation_7_a_b_c_...txt"),
		filepath.Join(dir, "all_conversations_.._.._etc.txt"),
	}, res.Files)
	for _, f := range res.Files {
		assert.Equal(t, dir, filepath.Dir(f))
		assert.FileExists(t, f)
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1-.._.._etc", entries[0].Name())
}

func TestExportUnknownUser(t *testing.T) {
	out := t.TempDir()
	_, err := NewExporter(testStore()).Export(context.Background(), "mallory", out)
	require.Error(t, err)
	entries, readErr := os.ReadDir(out)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
