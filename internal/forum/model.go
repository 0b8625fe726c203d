package forum

// Member is a forum user. Only the id and display name are kept.
type Member struct {
	UserID int    `json:"UserID"`
	Name   string `json:"Name"`
}

// Category groups discussions.
type Category struct {
	CategoryID int    `json:"CategoryID"`
	Name       string `json:"Name"`
}

// Discussion is a thread opener.
type Discussion struct {
	DiscussionID int    `json:"DiscussionID"`
	Name         string `json:"Name"`
	Body         string `json:"Body"`
	InsertUserID int    `json:"InsertUserID"`
	CategoryID   int    `json:"CategoryID"`
	CountViews   int    `json:"CountViews"`
	DateInserted string `json:"DateInserted"`
}

// Comment is a reply belonging to exactly one discussion.
type Comment struct {
	CommentID    int    `json:"CommentID"`
	DiscussionID int    `json:"DiscussionID"`
	Body         string `json:"Body"`
	InsertUserID int    `json:"InsertUserID"`
	DateInserted string `json:"DateInserted"`
	Likes        int    `json:"Likes"`
}

// Conversation is a private-message thread between contributors.
type Conversation struct {
	ConversationID int   `json:"ConversationID"`
	Contributors   []int `json:"Contributors"`
}

// HasContributor reports whether userID takes part in the conversation.
func (c Conversation) HasContributor(userID int) bool {
	for _, id := range c.Contributors {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a private message belonging to exactly one conversation.
type Message struct {
	MessageID      int    `json:"MessageID"`
	ConversationID int    `json:"ConversationID"`
	InsertUserID   int    `json:"InsertUserID"`
	Body           string `json:"Body"`
	DateInserted   string `json:"DateInserted"`
}
