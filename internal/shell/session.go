package shell

import (
	"context"
	"io"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/kp2vcard/internal/logging"
	"github.com/dmitrijs2005/kp2vcard/internal/store"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

// Saver persists the whole tree. store.SQLiteStore satisfies it.
type Saver interface {
	Save(ctx context.Context, db *vault.Database, creds store.Credentials) error
}

// TextEditor edits a block of text. editor.Bridge satisfies it.
type TextEditor interface {
	EditText(ctx context.Context, title, initial string) (string, error)
}

// Session is one interactive run over a loaded tree. It is not safe for
// concurrent use.
type Session struct {
	db     *vault.Database
	saver  Saver
	creds  store.Credentials
	editor TextEditor
	log    logging.Logger
	out    printer

	unsynced bool
}

// Option configures a Session.
type Option func(*Session)

// WithEditor sets the notes editor. Without one, edit-notes reports an error.
func WithEditor(e TextEditor) Option {
	return func(s *Session) {
		s.editor = e
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithOutput redirects user-facing output, color.Output by default.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = printer{w: w}
	}
}

// NewSession creates a session over db that saves through saver with creds.
func NewSession(db *vault.Database, saver Saver, creds store.Credentials, opts ...Option) *Session {
	s := &Session{
		db:    db,
		saver: saver,
		creds: creds,
		log:   logging.Discard(),
		out:   printer{w: color.Output},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unsynced reports whether the tree holds changes the store has not accepted.
func (s *Session) Unsynced() bool {
	return s.unsynced
}

func (s *Session) prompt() string {
	if s.unsynced {
		return "kp2vcard (unsynced)> "
	}
	return "kp2vcard> "
}

func (s *Session) root() *vault.Group {
	return s.db.Root
}

// lookup resolves id to a live entry for the duration of one command.
func (s *Session) lookup(id string) (*vault.Entry, error) {
	e := vault.FindByID(s.root(), id)
	if e == nil {
		return nil, &EntryNotFoundError{ID: id}
	}
	return e, nil
}

// commit records the current state of e and saves the store when it differs
// from the last committed state. It reports whether e changed.
func (s *Session) commit(ctx context.Context, e *vault.Entry) bool {
	if !e.CommitIfChanged() {
		return false
	}
	s.persist(ctx)
	return true
}

// persist saves the tree. A failure keeps the in-memory change and marks the
// session unsynced until a later save succeeds.
func (s *Session) persist(ctx context.Context) bool {
	if err := s.saver.Save(ctx, s.db, s.creds); err != nil {
		s.unsynced = true
		s.log.Error(ctx, "save failed", "error", err)
		s.out.error("Failed to save store: %v (changes are kept in memory)", err)
		return false
	}
	if s.unsynced {
		s.log.Info(ctx, "store back in sync")
	}
	s.unsynced = false
	return true
}
