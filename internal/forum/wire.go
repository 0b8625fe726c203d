package forum

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Export records decode into pointer-field structs so missing required
// fields can be told apart from zero values. Unknown fields are ignored.

type memberRecord struct {
	UserID *int    `json:"UserID"`
	Name   *string `json:"Name"`
}

func (r memberRecord) toMember() (Member, error) {
	switch {
	case r.UserID == nil:
		return Member{}, fmt.Errorf("%w: UserID", ErrMissingField)
	case r.Name == nil:
		return Member{}, fmt.Errorf("%w: Name", ErrMissingField)
	}
	return Member{UserID: *r.UserID, Name: *r.Name}, nil
}

type categoryRecord struct {
	CategoryID *int    `json:"CategoryID"`
	Name       *string `json:"Name"`
}

func (r categoryRecord) toCategory() (Category, error) {
	switch {
	case r.CategoryID == nil:
		return Category{}, fmt.Errorf("%w: CategoryID", ErrMissingField)
	case r.Name == nil:
		return Category{}, fmt.Errorf("%w: Name", ErrMissingField)
	}
	return Category{CategoryID: *r.CategoryID, Name: *r.Name}, nil
}

type discussionRecord struct {
	DiscussionID *int    `json:"DiscussionID"`
	Name         *string `json:"Name"`
	Body         string  `json:"Body"`
	InsertUserID int     `json:"InsertUserID"`
	CategoryID   int     `json:"CategoryID"`
	CountViews   int     `json:"CountViews"`
	DateInserted string  `json:"DateInserted"`
}

func (r discussionRecord) toDiscussion() (Discussion, error) {
	switch {
	case r.DiscussionID == nil:
		return Discussion{}, fmt.Errorf("%w: DiscussionID", ErrMissingField)
	case r.Name == nil:
		return Discussion{}, fmt.Errorf("%w: Name", ErrMissingField)
	}
	return Discussion{
		DiscussionID: *r.DiscussionID,
		Name:         FixWindows1252(*r.Name),
		Body:         FixWindows1252(r.Body),
		InsertUserID: r.InsertUserID,
		CategoryID:   r.CategoryID,
		CountViews:   r.CountViews,
		DateInserted: r.DateInserted,
	}, nil
}

type commentRecord struct {
	CommentID    *int   `json:"CommentID"`
	DiscussionID *int   `json:"DiscussionID"`
	Body         string `json:"Body"`
	InsertUserID int    `json:"InsertUserID"`
	DateInserted string `json:"DateInserted"`
	Likes        int    `json:"Likes"`
}

func (r commentRecord) toComment() (Comment, error) {
	switch {
	case r.CommentID == nil:
		return Comment{}, fmt.Errorf("%w: CommentID", ErrMissingField)
	case r.DiscussionID == nil:
		return Comment{}, fmt.Errorf("%w: DiscussionID", ErrMissingField)
	}
	return Comment{
		CommentID:    *r.CommentID,
		DiscussionID: *r.DiscussionID,
		Body:         FixWindows1252(r.Body),
		InsertUserID: r.InsertUserID,
		DateInserted: r.DateInserted,
		Likes:        r.Likes,
	}, nil
}

type conversationRecord struct {
	ConversationID *int         `json:"ConversationID"`
	Contributors   contributors `json:"Contributors"`
}

func (r conversationRecord) toConversation() (Conversation, error) {
	if r.ConversationID == nil {
		return Conversation{}, fmt.Errorf("%w: ConversationID", ErrMissingField)
	}
	return Conversation{ConversationID: *r.ConversationID, Contributors: []int(r.Contributors)}, nil
}

type messageRecord struct {
	MessageID      *int   `json:"MessageID"`
	ConversationID *int   `json:"ConversationID"`
	InsertUserID   int    `json:"InsertUserID"`
	Body           string `json:"Body"`
	DateInserted   string `json:"DateInserted"`
}

func (r messageRecord) toMessage() (Message, error) {
	switch {
	case r.MessageID == nil:
		return Message{}, fmt.Errorf("%w: MessageID", ErrMissingField)
	case r.ConversationID == nil:
		return Message{}, fmt.Errorf("%w: ConversationID", ErrMissingField)
	}
	return Message{
		MessageID:      *r.MessageID,
		ConversationID: *r.ConversationID,
		InsertUserID:   r.InsertUserID,
		Body:           FixWindows1252(r.Body),
		DateInserted:   r.DateInserted,
	}, nil
}

// contributors accepts either a JSON array of ids or the serialized-string
// form some exports use ("[1,2]" or "1,2").
type contributors []int

func (c *contributors) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err == nil {
		*c = ids
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("contributors must be an array or string of ids")
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return fmt.Errorf("contributors: %w", err)
		}
		*c = ids
		return nil
	}
	ids = ids[:0]
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("contributors: %w", err)
		}
		ids = append(ids, id)
	}
	*c = ids
	return nil
}
