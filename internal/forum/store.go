package forum

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
)

const (
	// UncategorizedName is the fallback for unknown category ids.
	UncategorizedName = "Uncategorized"
)

// Store holds every entity of one export. Iteration follows insertion order.
type Store struct {
	members       []Member
	memberIndex   map[int]int
	categories    []Category
	categoryIndex map[int]int
	discussions   []Discussion
	discussionIdx map[int]int
	comments      map[int][]Comment

	conversations []Conversation
	convIndex     map[int]int
	messages      map[int][]Message

	exactNames  map[string]int
	foldedNames map[string]int
	folder      cases.Caser
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		memberIndex:   make(map[int]int),
		categoryIndex: make(map[int]int),
		discussionIdx: make(map[int]int),
		comments:      make(map[int][]Comment),
		convIndex:     make(map[int]int),
		messages:      make(map[int][]Message),
		exactNames:    make(map[string]int),
		foldedNames:   make(map[string]int),
		folder:        cases.Fold(),
	}
}

// AddMember inserts or replaces a member. A replaced member keeps its position.
func (s *Store) AddMember(m Member) {
	if i, ok := s.memberIndex[m.UserID]; ok {
		s.members[i] = m
	} else {
		s.memberIndex[m.UserID] = len(s.members)
		s.members = append(s.members, m)
	}
	if _, ok := s.exactNames[m.Name]; !ok {
		s.exactNames[m.Name] = m.UserID
	}
	folded := s.folder.String(m.Name)
	if _, ok := s.foldedNames[folded]; !ok {
		s.foldedNames[folded] = m.UserID
	}
}

// AddCategory inserts or replaces a category.
func (s *Store) AddCategory(c Category) {
	if i, ok := s.categoryIndex[c.CategoryID]; ok {
		s.categories[i] = c
		return
	}
	s.categoryIndex[c.CategoryID] = len(s.categories)
	s.categories = append(s.categories, c)
}

// AddDiscussion inserts or replaces a discussion.
func (s *Store) AddDiscussion(d Discussion) {
	if i, ok := s.discussionIdx[d.DiscussionID]; ok {
		s.discussions[i] = d
		return
	}
	s.discussionIdx[d.DiscussionID] = len(s.discussions)
	s.discussions = append(s.discussions, d)
}

// AddComment attaches a comment to its discussion. Comments whose
// discussion is not in the store are dropped and false is returned.
func (s *Store) AddComment(c Comment) bool {
	if _, ok := s.discussionIdx[c.DiscussionID]; !ok {
		return false
	}
	s.comments[c.DiscussionID] = append(s.comments[c.DiscussionID], c)
	return true
}

// SortComments orders each discussion's comments by timestamp, keeping
// ingestion order for ties.
func (s *Store) SortComments() {
	for id := range s.comments {
		slices.SortStableFunc(s.comments[id], func(a, b Comment) int {
			return CompareTimestamps(a.DateInserted, b.DateInserted)
		})
	}
}

// AddConversation inserts or replaces a conversation.
func (s *Store) AddConversation(c Conversation) {
	if i, ok := s.convIndex[c.ConversationID]; ok {
		s.conversations[i] = c
		return
	}
	s.convIndex[c.ConversationID] = len(s.conversations)
	s.conversations = append(s.conversations, c)
}

// AddMessage attaches a message to its conversation id.
func (s *Store) AddMessage(m Message) {
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], m)
}

// SortMessages orders each conversation's messages by timestamp.
func (s *Store) SortMessages() {
	for id := range s.messages {
		slices.SortStableFunc(s.messages[id], func(a, b Message) int {
			return CompareTimestamps(a.DateInserted, b.DateInserted)
		})
	}
}

// Members returns all members in insertion order.
func (s *Store) Members() []Member { return s.members }

// Categories returns all categories in insertion order.
func (s *Store) Categories() []Category { return s.categories }

// Discussions returns all discussions in insertion order.
func (s *Store) Discussions() []Discussion { return s.discussions }

// Conversations returns all conversations in insertion order.
func (s *Store) Conversations() []Conversation { return s.conversations }

// Comments returns the comments of a discussion, oldest first.
func (s *Store) Comments(discussionID int) []Comment { return s.comments[discussionID] }

// CommentCount returns the number of comments across all discussions.
func (s *Store) CommentCount() int {
	n := 0
	for _, list := range s.comments {
		n += len(list)
	}
	return n
}

// CommentDiscussionIDs returns the ids of discussions that have comments, in discussion order.
func (s *Store) CommentDiscussionIDs() []int {
	ids := make([]int, 0, len(s.comments))
	for _, d := range s.discussions {
		if len(s.comments[d.DiscussionID]) > 0 {
			ids = append(ids, d.DiscussionID)
		}
	}
	return ids
}

// Messages returns the messages of a conversation, oldest first.
func (s *Store) Messages(conversationID int) []Message { return s.messages[conversationID] }

// Discussion looks up a discussion by id.
func (s *Store) Discussion(id int) (Discussion, bool) {
	i, ok := s.discussionIdx[id]
	if !ok {
		return Discussion{}, false
	}
	return s.discussions[i], true
}

// Member looks up a member by id.
func (s *Store) Member(id int) (Member, bool) {
	i, ok := s.memberIndex[id]
	if !ok {
		return Member{}, false
	}
	return s.members[i], true
}

// Username resolves a member's display name, falling back to "User {id}".
func (s *Store) Username(id int) string {
	if m, ok := s.Member(id); ok {
		return m.Name
	}
	return fmt.Sprintf("User %d", id)
}

// CategoryName resolves a category name, falling back to "Uncategorized".
func (s *Store) CategoryName(id int) string {
	if i, ok := s.categoryIndex[id]; ok {
		return s.categories[i].Name
	}
	return UncategorizedName
}

// MemberByName finds a member by exact, case-sensitive display name.
// When several members share a name the first ingested wins.
func (s *Store) MemberByName(name string) (int, bool) {
	id, ok := s.exactNames[name]
	return id, ok
}

// MemberByFoldedName finds a member by case-insensitive display name.
func (s *Store) MemberByFoldedName(name string) (int, bool) {
	id, ok := s.foldedNames[s.folder.String(name)]
	return id, ok
}
