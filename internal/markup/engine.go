package markup

import (
	"git.home.luguber.info/inful/forumsite/internal/forum"
)

// Directory is the read-only view of the entity store the engine resolves references against.
type Directory interface {
	Discussion(id int) (forum.Discussion, bool)
	MemberByName(name string) (int, bool)
}

// Context carries per-render state into stages.
type Context struct {
	// OwnerID is the discussion the text belongs to; 0 means none.
	OwnerID int
	dir     Directory
}

// StageFunc transforms text. Stages are pure apart from directory lookups.
type StageFunc func(text string, ctx *Context) string

// Stage is a named step of the cascade.
type Stage struct {
	Name  string
	Apply StageFunc
}

// Engine renders post bodies.
type Engine struct {
	dir    Directory
	stages []Stage
}

// NewEngine creates an engine resolving references against dir using DefaultStages.
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir, stages: DefaultStages()}
}

// Stages returns the cascade in execution order.
func (e *Engine) Stages() []Stage {
	out := make([]Stage, len(e.stages))
	copy(out, e.stages)
	return out
}

// Render converts raw markup to HTML for a post owned by ownerID.
func (e *Engine) Render(raw string, ownerID int) string {
	if raw == "" {
		return ""
	}
	ctx := &Context{OwnerID: ownerID, dir: e.dir}
	text := raw
	for _, st := range e.stages {
		text = st.Apply(text, ctx)
	}
	return text
}
