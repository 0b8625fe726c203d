package dm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

// DateLayout formats message dates.
const DateLayout = "2006-01-02 15:04"

// noMessages sorts conversations without messages last.
const noMessages = "0000-00-00"

var (
	headerRule    = strings.Repeat("=", 50)
	messageRule   = strings.Repeat("-", 40)
	masterRule    = strings.Repeat("=", 60)
	separatorRule = strings.Repeat("=", 80)
)

// Exporter writes conversation transcripts from a store loaded with
// forum.Loader.LoadPrivateMessages.
type Exporter struct {
	store  *forum.Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the clock used for the "Generated on" line.
func WithClock(now func() time.Time) Option { return func(e *Exporter) { e.now = now } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(e *Exporter) { e.logger = l } }

// NewExporter creates an exporter over store.
func NewExporter(store *forum.Store, opts ...Option) *Exporter {
	e := &Exporter{store: store, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result lists what Export wrote.
type Result struct {
	UserID        int
	Username      string
	Dir           string
	Conversations int
	Files         []string
}

// ResolveUser maps a numeric id or a case-insensitive member name to a user id.
// A numeric id is accepted even when no member record exists.
func (e *Exporter) ResolveUser(identifier string) (int, error) {
	identifier = strings.TrimSpace(identifier)
	if id, err := strconv.Atoi(identifier); err == nil && id > 0 {
		return id, nil
	}
	if id, ok := e.store.MemberByFoldedName(identifier); ok {
		return id, nil
	}
	return 0, errors.NewError(errors.CategoryNotFound, "user not found").
		Fatal().WithContext("user", identifier).Build()
}

// Conversations returns the conversations userID takes part in, most
// recently active first.
func (e *Exporter) Conversations(userID int) []forum.Conversation {
	var out []forum.Conversation
	for _, c := range e.store.Conversations() {
		if c.HasContributor(userID) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b forum.Conversation) int {
		return forum.CompareTimestamps(e.lastDate(b.ConversationID), e.lastDate(a.ConversationID))
	})
	return out
}

func (e *Exporter) lastDate(conversationID int) string {
	msgs := e.store.Messages(conversationID)
	if len(msgs) == 0 {
		return noMessages
	}
	return msgs[len(msgs)-1].DateInserted
}

func (e *Exporter) participants(c forum.Conversation, userID int) []string {
	var names []string
	for _, id := range c.Contributors {
		if id != userID {
			names = append(names, e.store.Username(id))
		}
	}
	return names
}

// ConversationText renders one conversation as seen by userID.
func (e *Exporter) ConversationText(c forum.Conversation, userID int) string {
	msgs := e.store.Messages(c.ConversationID)
	var b strings.Builder
	fmt.Fprintf(&b, "CONVERSATION %d\n%s\n", c.ConversationID, headerRule)
	fmt.Fprintf(&b, "Participants: %s\n", strings.Join(e.participants(c, userID), ", "))
	fmt.Fprintf(&b, "Total messages: %d\n%s\n\n", len(msgs), headerRule)
	for i, m := range msgs {
		fmt.Fprintf(&b, "MESSAGE %d/%d\n", i+1, len(msgs))
		fmt.Fprintf(&b, "From: %s\n", e.store.Username(m.InsertUserID))
		fmt.Fprintf(&b, "Date: %s\n%s\n", forum.FormatTimestamp(m.DateInserted, DateLayout), messageRule)
		fmt.Fprintf(&b, "%s\n%s\n\n", normalizeBody(m.Body), headerRule)
	}
	return b.String()
}

// MasterText renders every conversation under one header.
func (e *Exporter) MasterText(userID int, convs []forum.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PRIVATE MESSAGES - %s\n%s\n", e.store.Username(userID), masterRule)
	fmt.Fprintf(&b, "Generated on: %s\n", e.now().Format(DateLayout))
	fmt.Fprintf(&b, "Total conversations: %d\n%s\n\n", len(convs), masterRule)
	for _, c := range convs {
		b.WriteString(e.ConversationText(c, userID))
		fmt.Fprintf(&b, "\n%s\n\n", separatorRule)
	}
	return b.String()
}

// Export writes the transcripts of identifier's conversations under outDir.
func (e *Exporter) Export(ctx context.Context, identifier, outDir string) (*Result, error) {
	userID, err := e.ResolveUser(identifier)
	if err != nil {
		return nil, err
	}
	username := e.store.Username(userID)
	res := &Result{
		UserID:   userID,
		Username: username,
		Dir:      filepath.Join(outDir, fmt.Sprintf("user-%d-%s", userID, underscored(username))),
	}
	if err := os.MkdirAll(res.Dir, 0o755); err != nil {
		return nil, errors.FileSystemError("cannot create output directory").
			WithCause(err).WithContext("path", res.Dir).Build()
	}

	convs := e.Conversations(userID)
	res.Conversations = len(convs)
	e.logger.Info("Exporting private messages",
		logfields.UserID(userID), slog.String("user", username), logfields.Count(len(convs)))

	for _, c := range convs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := fmt.Sprintf("conversation_%d_%s.txt", c.ConversationID, joinUnderscored(e.participants(c, userID)))
		if err := res.write(name, e.ConversationText(c, userID)); err != nil {
			return res, err
		}
	}
	if err := res.write("all_conversations_"+underscored(username)+".txt", e.MasterText(userID, convs)); err != nil {
		return res, err
	}
	e.logger.Info("Exported private messages", logfields.Path(res.Dir), logfields.Count(len(res.Files)))
	return res, nil
}

func (r *Result) write(name, content string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.FileSystemError("cannot write transcript").
			WithCause(err).WithContext("path", path).Build()
	}
	r.Files = append(r.Files, path)
	return nil
}

func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.TrimSpace(body)
}

var pathUnsafe = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\x00", "_")

// underscored turns a display name into a single path element. Every name is
// embedded after a fixed prefix, so a bare "." or ".." cannot escape.
func underscored(name string) string { return pathUnsafe.Replace(name) }

func joinUnderscored(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = underscored(n)
	}
	return strings.Join(parts, "_")
}
