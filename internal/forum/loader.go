package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

// IngestReport summarizes one ingestion pass. Warnings never stop a run.
type IngestReport struct {
	Files    int
	Excluded map[int]int // category id -> discussions dropped
	Dropped  int         // comments whose discussion is absent or excluded
	Warnings []error
}

// ExcludedTotal returns the number of discussions dropped by category exclusion.
func (r *IngestReport) ExcludedTotal() int {
	n := 0
	for _, c := range r.Excluded {
		n += c
	}
	return n
}

func (r *IngestReport) warn(logger *slog.Logger, path string, err error) {
	w := errors.WrapError(err, errors.CategoryIngest, "skipped export record").
		Warning().
		WithContext("path", path).
		Build()
	r.Warnings = append(r.Warnings, w)
	logger.Warn("Skipped export record", logfields.Path(path), logfields.Error(err))
}

// Loader reads a forum export directory into a Store.
type Loader struct {
	exportPath string
	excluded   map[int]bool
	logger     *slog.Logger
}

// NewLoader creates a loader for exportPath that drops discussions in excludedCategories.
func NewLoader(exportPath string, excludedCategories []int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	excluded := make(map[int]bool, len(excludedCategories))
	for _, id := range excludedCategories {
		excluded[id] = true
	}
	return &Loader{exportPath: exportPath, excluded: excluded, logger: logger}
}

// LoadForum ingests categories, members, discussions and comments.
// Only context cancellation is returned as an error.
func (l *Loader) LoadForum(ctx context.Context) (*Store, *IngestReport, error) {
	store := NewStore()
	report := &IngestReport{Excluded: make(map[int]int)}

	steps := []func(context.Context, *Store, *IngestReport) error{
		l.loadCategories,
		l.loadMembers,
		l.loadDiscussions,
		l.loadComments,
	}
	for _, step := range steps {
		if err := step(ctx, store, report); err != nil {
			return nil, nil, err
		}
	}
	store.SortComments()

	l.logger.Info("Loaded forum export",
		slog.Int("discussions", len(store.Discussions())),
		slog.Int("comments", store.CommentCount()),
		slog.Int("members", len(store.Members())),
		slog.Int("categories", len(store.Categories())),
		slog.Int("excluded", report.ExcludedTotal()),
		slog.Int("warnings", len(report.Warnings)))
	return store, report, nil
}

// LoadPrivateMessages ingests members, conversations and messages.
func (l *Loader) LoadPrivateMessages(ctx context.Context) (*Store, *IngestReport, error) {
	store := NewStore()
	report := &IngestReport{Excluded: make(map[int]int)}

	steps := []func(context.Context, *Store, *IngestReport) error{
		l.loadMembers,
		l.loadConversations,
		l.loadMessages,
	}
	for _, step := range steps {
		if err := step(ctx, store, report); err != nil {
			return nil, nil, err
		}
	}
	store.SortMessages()

	l.logger.Info("Loaded private messages",
		slog.Int("members", len(store.Members())),
		slog.Int("conversations", len(store.Conversations())),
		slog.Int("warnings", len(report.Warnings)))
	return store, report, nil
}

func (l *Loader) loadCategories(_ context.Context, store *Store, report *IngestReport) error {
	path := filepath.Join(l.exportPath, "categories", "all.json")
	if _, err := os.Stat(path); err != nil {
		report.warn(l.logger, path, fmt.Errorf("%w: %w", ErrSourceNotFound, err))
		return nil
	}
	report.Files++
	l.eachRecord(path, report, func(raw json.RawMessage) error {
		var rec categoryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		c, err := rec.toCategory()
		if err != nil {
			return err
		}
		store.AddCategory(c)
		return nil
	})
	return nil
}

func (l *Loader) loadMembers(ctx context.Context, store *Store, report *IngestReport) error {
	root := filepath.Join(l.exportPath, "members")
	if !l.sourceExists(root, report) {
		return nil
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			report.warn(l.logger, path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isJSONFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		report.warn(l.logger, root, err)
	}
	l.logger.Debug("Found member files", logfields.Path(root), logfields.Count(len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Files++
		var rec memberRecord
		if err := readJSON(path, &rec); err != nil {
			report.warn(l.logger, path, err)
			continue
		}
		m, err := rec.toMember()
		if err != nil {
			report.warn(l.logger, path, err)
			continue
		}
		store.AddMember(m)
	}
	return nil
}

func (l *Loader) loadDiscussions(ctx context.Context, store *Store, report *IngestReport) error {
	return l.eachBatchFile(ctx, "discussions", report, func(path string) {
		var rec discussionRecord
		if err := readJSON(path, &rec); err != nil {
			report.warn(l.logger, path, err)
			return
		}
		d, err := rec.toDiscussion()
		if err != nil {
			report.warn(l.logger, path, err)
			return
		}
		if l.excluded[d.CategoryID] {
			report.Excluded[d.CategoryID]++
			l.logger.Debug("Excluding discussion", logfields.DiscussionID(d.DiscussionID), logfields.CategoryID(d.CategoryID))
			return
		}
		store.AddDiscussion(d)
	})
}

func (l *Loader) loadComments(ctx context.Context, store *Store, report *IngestReport) error {
	return l.eachBatchFile(ctx, "comments", report, func(path string) {
		l.eachRecord(path, report, func(raw json.RawMessage) error {
			var rec commentRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			c, err := rec.toComment()
			if err != nil {
				return err
			}
			if !store.AddComment(c) {
				report.Dropped++
			}
			return nil
		})
	})
}

func (l *Loader) loadConversations(ctx context.Context, store *Store, report *IngestReport) error {
	root := filepath.Join(l.exportPath, "conversations")
	if !l.sourceExists(root, report) {
		return nil
	}
	for _, path := range l.jsonFiles(root, report) {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Files++
		l.eachRecord(path, report, func(raw json.RawMessage) error {
			var rec conversationRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			c, err := rec.toConversation()
			if err != nil {
				return err
			}
			store.AddConversation(c)
			return nil
		})
	}
	return nil
}

func (l *Loader) loadMessages(ctx context.Context, store *Store, report *IngestReport) error {
	return l.eachBatchFile(ctx, "messages", report, func(path string) {
		l.eachRecord(path, report, func(raw json.RawMessage) error {
			var rec messageRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			m, err := rec.toMessage()
			if err != nil {
				return err
			}
			store.AddMessage(m)
			return nil
		})
	})
}

// eachBatchFile visits {export}/{kind}/<batch>/*.json in lexical order.
func (l *Loader) eachBatchFile(ctx context.Context, kind string, report *IngestReport, visit func(path string)) error {
	root := filepath.Join(l.exportPath, kind)
	if !l.sourceExists(root, report) {
		return nil
	}
	batches, err := os.ReadDir(root)
	if err != nil {
		report.warn(l.logger, root, err)
		return nil
	}
	for _, batch := range batches {
		if !batch.IsDir() {
			continue
		}
		for _, path := range l.jsonFiles(filepath.Join(root, batch.Name()), report) {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Files++
			visit(path)
		}
	}
	return nil
}

// eachRecord decodes path as a JSON array and hands each element to fn.
// A malformed element is skipped without affecting its siblings.
func (l *Loader) eachRecord(path string, report *IngestReport, fn func(json.RawMessage) error) {
	var records []json.RawMessage
	if err := readJSON(path, &records); err != nil {
		report.warn(l.logger, path, err)
		return
	}
	for i, raw := range records {
		if err := fn(raw); err != nil {
			report.warn(l.logger, fmt.Sprintf("%s[%d]", path, i), err)
		}
	}
}

func (l *Loader) sourceExists(path string, report *IngestReport) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		report.warn(l.logger, path, ErrSourceNotFound)
		return false
	}
	return true
}

func (l *Loader) jsonFiles(dir string, report *IngestReport) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.warn(l.logger, dir, err)
		return nil
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isJSONFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

func isJSONFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
