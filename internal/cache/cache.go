package cache

import (
	"context"
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/forumsite/internal/forum"
	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
)

// Backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Entity kinds, also the JSON file stems.
const (
	KindDiscussions = "discussions"
	KindComments    = "comments"
	KindMembers     = "members"
	KindCategories  = "categories"
)

// Cache saves and restores the forum entity maps.
type Cache interface {
	Save(ctx context.Context, store *forum.Store) error
	Load(ctx context.Context) (*forum.Store, error)
	Backend() string
	Location() string
}

// New returns the cache for backend rooted at dir.
func New(backend, dir string) (Cache, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONCache(dir), nil
	case BackendSQLite:
		return NewSQLiteCache(dir), nil
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unknown cache backend %q", backend)).Build()
	}
}

// entry is one keyed record. Keys are written as strings and validated on load.
type entry[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

func parseKey(kind, key string, want int) error {
	id, err := strconv.Atoi(key)
	if err != nil {
		return fmt.Errorf("%s: key %q is not an integer: %w", kind, key, err)
	}
	if id != want {
		return fmt.Errorf("%s: key %d does not match record id %d", kind, id, want)
	}
	return nil
}

func key(id int) string { return strconv.Itoa(id) }

// snapshot is the ordered, serializable form of a store.
type snapshot struct {
	Discussions []entry[forum.Discussion]
	Comments    []entry[[]forum.Comment]
	Members     []entry[forum.Member]
	Categories  []entry[forum.Category]
}

func snapshotOf(store *forum.Store) snapshot {
	var s snapshot
	for _, d := range store.Discussions() {
		s.Discussions = append(s.Discussions, entry[forum.Discussion]{Key: key(d.DiscussionID), Value: d})
	}
	for _, id := range store.CommentDiscussionIDs() {
		s.Comments = append(s.Comments, entry[[]forum.Comment]{Key: key(id), Value: store.Comments(id)})
	}
	for _, m := range store.Members() {
		s.Members = append(s.Members, entry[forum.Member]{Key: key(m.UserID), Value: m})
	}
	for _, c := range store.Categories() {
		s.Categories = append(s.Categories, entry[forum.Category]{Key: key(c.CategoryID), Value: c})
	}
	return s
}

// restore rebuilds a store, validating every key.
func (s snapshot) restore() (*forum.Store, error) {
	store := forum.NewStore()
	for _, e := range s.Categories {
		if err := parseKey(KindCategories, e.Key, e.Value.CategoryID); err != nil {
			return nil, err
		}
		store.AddCategory(e.Value)
	}
	for _, e := range s.Members {
		if err := parseKey(KindMembers, e.Key, e.Value.UserID); err != nil {
			return nil, err
		}
		store.AddMember(e.Value)
	}
	for _, e := range s.Discussions {
		if err := parseKey(KindDiscussions, e.Key, e.Value.DiscussionID); err != nil {
			return nil, err
		}
		store.AddDiscussion(e.Value)
	}
	for _, e := range s.Comments {
		id, err := strconv.Atoi(e.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: key %q is not an integer: %w", KindComments, e.Key, err)
		}
		for _, c := range e.Value {
			if c.DiscussionID != id {
				return nil, fmt.Errorf("%s: comment %d filed under discussion %d belongs to %d", KindComments, c.CommentID, id, c.DiscussionID)
			}
			store.AddComment(c)
		}
	}
	return store, nil
}

func cacheFailure(err error, msg, location string) error {
	return errors.WrapError(err, errors.CategoryCache, msg).
		Fatal().UserAction().
		WithContext("location", location).
		Build()
}
