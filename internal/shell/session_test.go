package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/kp2vcard/internal/store"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeStore struct {
	saves int
	err   error
}

func (f *fakeStore) Save(_ context.Context, _ *vault.Database, _ store.Credentials) error {
	f.saves++
	return f.err
}

type fakeEditor struct {
	text    string
	err     error
	calls   int
	title   string
	initial string
}

func (f *fakeEditor) EditText(_ context.Context, title, initial string) (string, error) {
	f.calls++
	f.title, f.initial = title, initial
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fixture struct {
	s      *Session
	out    *bytes.Buffer
	store  *fakeStore
	editor *fakeEditor
	db     *vault.Database

	jane, bob, carol *vault.Entry
}

// newFixture builds a session over a committed tree:
//
//	root
//	├── Jane Doe   phone, notes "old notes", tags family
//	├── Work
//	│   └── bob    tags colleagues
//	└── Carol
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := vault.NewDatabase("contacts")
	jane := vault.NewEntry("Jane Doe")
	jane.Set(vault.FieldPhoneNumber, "+1-555-0100")
	jane.Set(vault.FieldNotes, "old notes")
	jane.SetTags([]string{"family"})
	db.Root.AddEntry(jane)

	bob := vault.NewEntry("bob")
	bob.SetTags([]string{"colleagues"})
	db.Root.AddGroup("Work").AddEntry(bob)

	carol := vault.NewEntry("Carol")
	db.Root.AddEntry(carol)

	vault.Walk(db.Root, func(e *vault.Entry) bool {
		e.CommitIfChanged()
		return true
	})

	f := &fixture{
		out:    &bytes.Buffer{},
		store:  &fakeStore{},
		editor: &fakeEditor{},
		db:     db,
		jane:   jane,
		bob:    bob,
		carol:  carol,
	}
	f.s = NewSession(db, f.store, store.Credentials{Password: []byte("pw")},
		WithEditor(f.editor), WithOutput(f.out))
	return f
}

// run executes each line and returns the combined output.
func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	f.out.Reset()
	for _, l := range lines {
		require.False(t, f.s.Execute(context.Background(), l), "line %q ended the session", l)
	}
	return f.out.String()
}

func TestExecute_EmptyLineDoesNothing(t *testing.T) {
	f := newFixture(t)

	assert.Empty(t, f.run(t, "", "   ", "\t"))
	assert.Zero(t, f.store.saves)
}

func TestExecute_InvalidCommand(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Invalid command: frobnicate\n", f.run(t, "frobnicate --x 1"))
	assert.Zero(t, f.store.saves)
}

func TestExecute_ParseError(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, `add "unterminated`)
	assert.Contains(t, out, "Parse error")
	assert.Equal(t, 3, vault.Count(f.db.Root))
}

func TestExecute_ExitAndQuit(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.s.Execute(context.Background(), "exit"))
	assert.True(t, f.s.Execute(context.Background(), "  quit  "))
}

func TestExecute_Help(t *testing.T) {
	f := newFixture(t)

	for _, line := range []string{"help", "?"} {
		out := f.run(t, line)
		for _, want := range []string{"ls", "show <id>", "search <term>", "add <name>",
			"edit-field <id> <field> <value>", "edit <id>", "edit-notes <id>", "export-vcard <path>", "exit | quit"} {
			assert.Contains(t, out, want)
		}
	}
}

func TestExecute_UsageErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		line  string
		usage string
	}{
		{line: "show", usage: "Usage: show <id>"},
		{line: "show a b", usage: "Usage: show <id>"},
		{line: "edit-field " + "x Notes", usage: "Usage: edit-field <id> <field> <value>"},
		{line: "edit x --unknown 1", usage: "Usage: edit <id> [flags]"},
		{line: "ls extra", usage: "Usage: ls [flags]"},
		{line: `add ""`, usage: "Usage: add <name>"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := f.run(t, tt.line)
			assert.Contains(t, out, tt.usage)
		})
	}
	assert.Zero(t, f.store.saves)
}

func TestSession_PromptShowsUnsynced(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "kp2vcard> ", f.s.prompt())

	f.store.err = errors.New("disk full")
	f.run(t, "edit-field "+f.jane.ID+" Notes changed")
	assert.Equal(t, "kp2vcard (unsynced)> ", f.s.prompt())
}

func TestSession_SaveFailureKeepsMutationAndMarksUnsynced(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("disk full")

	out := f.run(t, "edit-field "+f.jane.ID+" Notes changed")
	assert.Contains(t, out, "Entry modified")
	assert.Contains(t, out, "Failed to save store: disk full")
	assert.True(t, f.s.Unsynced())
	assert.Equal(t, "changed", f.jane.Text(vault.FieldNotes), "mutation is not rolled back")

	// No real change: no save attempt, still unsynced.
	f.run(t, "edit-field "+f.jane.ID+" Notes changed")
	assert.Equal(t, 1, f.store.saves)
	assert.True(t, f.s.Unsynced())

	// The next successful save clears the flag.
	f.store.err = nil
	f.run(t, "edit-field "+f.jane.ID+" Notes again")
	assert.Equal(t, 2, f.store.saves)
	assert.False(t, f.s.Unsynced())
}
