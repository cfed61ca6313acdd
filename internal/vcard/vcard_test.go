package vcard

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func lines(card string) []string {
	return strings.Split(strings.TrimSuffix(card, crlf+crlf), crlf)
}

func TestEncodeEntry_Basic(t *testing.T) {
	e := vault.NewEntry("Jane Doe")
	e.Set(vault.FieldPhoneNumber, "+1-555-0100")

	card, ok := EncodeEntry(e)
	require.True(t, ok)

	assert.Equal(t, []string{
		"BEGIN:VCARD",
		"VERSION:4.0",
		"UID:urn:uuid:" + e.ID,
		"FN:Jane Doe",
		"TEL:+1-555-0100",
		"END:VCARD",
	}, lines(card))
	assert.NotContains(t, card, "EMAIL:")
	assert.True(t, strings.HasSuffix(card, "END:VCARD\r\n\r\n"), "cards end with a blank separator line")
}

func TestEncodeEntry_WithEmail(t *testing.T) {
	e := vault.NewEntry("Jane Doe")
	e.Set(vault.FieldPhoneNumber, "+1-555-0100")
	e.Set(vault.FieldEmail, "jane@example.org")

	card, ok := EncodeEntry(e)
	require.True(t, ok)

	l := lines(card)
	assert.Equal(t, "EMAIL:jane@example.org", l[5])
	assert.Equal(t, "END:VCARD", l[6])
}

func TestEncodeEntry_Skipped(t *testing.T) {
	tests := []struct {
		name  string
		build func() *vault.Entry
	}{
		{"no title", func() *vault.Entry {
			e := &vault.Entry{ID: "x", Fields: map[string]vault.Value{}}
			e.Set(vault.FieldPhoneNumber, "1")
			return e
		}},
		{"empty title", func() *vault.Entry {
			e := vault.NewEntry("")
			e.Set(vault.FieldPhoneNumber, "1")
			return e
		}},
		{"protected title", func() *vault.Entry {
			e := vault.NewEntry("")
			e.SetProtected(vault.FieldTitle, "Secret Agent")
			e.Set(vault.FieldPhoneNumber, "1")
			return e
		}},
		{"no phone despite other fields", func() *vault.Entry {
			e := vault.NewEntry("Jane")
			e.Set(vault.FieldEmail, "jane@example.org")
			e.Set(vault.FieldAddress, "Main St")
			e.Set(vault.FieldPhoneNumber+"2", "only a variant")
			return e
		}},
		{"protected phone", func() *vault.Entry {
			e := vault.NewEntry("Jane")
			e.SetProtected(vault.FieldPhoneNumber, "+1-555-0100")
			e.Set(vault.FieldEmail, "jane@example.org")
			return e
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, ok := EncodeEntry(tt.build())
			assert.False(t, ok)
			assert.Empty(t, card)
		})
	}
}

func TestEncodeEntry_ProtectedEmailOmitted(t *testing.T) {
	e := vault.NewEntry("Jane")
	e.Set(vault.FieldPhoneNumber, "1")
	e.SetProtected(vault.FieldEmail, "hidden@example.org")

	card, ok := EncodeEntry(e)
	require.True(t, ok)
	assert.NotContains(t, card, "EMAIL")
	assert.NotContains(t, card, "hidden@example.org")
}

func TestEncodeEntry_NumberedVariantsNotEmitted(t *testing.T) {
	e := vault.NewEntry("Jane")
	e.Set(vault.FieldPhoneNumber, "1")
	e.Set(vault.FieldPhoneNumber+"2", "2")
	e.Set(vault.FieldEmail+"2", "second@example.org")

	card, ok := EncodeEntry(e)
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(card, "TEL:"))
	assert.NotContains(t, card, "second@example.org")
}

func TestEncodeEntry_EscapesText(t *testing.T) {
	e := vault.NewEntry(`Doe, Jane; \ "JD"`)
	e.Set(vault.FieldPhoneNumber, "1")

	card, ok := EncodeEntry(e)
	require.True(t, ok)
	assert.Contains(t, card, `FN:Doe\, Jane\; \\ "JD"`+crlf)
}

func TestEscapeText_Newlines(t *testing.T) {
	assert.Equal(t, `a\nb\nc`, escapeText("a\nb\r\nc"))
}

func TestWriteLine_FoldsLongLines(t *testing.T) {
	var b strings.Builder
	long := "FN:" + strings.Repeat("x", 200)
	writeLine(&b, long)

	out := b.String()
	parts := strings.Split(strings.TrimSuffix(out, crlf), crlf)
	require.Greater(t, len(parts), 1)
	for i, p := range parts {
		assert.LessOrEqual(t, len(p), maxLineOctets, "line %d too long", i)
		if i > 0 {
			assert.True(t, strings.HasPrefix(p, " "), "continuation lines start with a space")
		}
	}

	// Unfolding restores the original line.
	assert.Equal(t, long, strings.ReplaceAll(strings.TrimSuffix(out, crlf), crlf+" ", ""))
}

func TestWriteLine_DoesNotSplitRunes(t *testing.T) {
	var b strings.Builder
	long := "FN:" + strings.Repeat("ж", 80)
	writeLine(&b, long)

	for _, p := range strings.Split(strings.TrimSuffix(b.String(), crlf), crlf) {
		assert.True(t, utf8.ValidString(p), "folded part %q is not valid UTF-8", p)
		assert.LessOrEqual(t, len(p), maxLineOctets)
	}
}

func TestWriteLine_ShortLineUntouched(t *testing.T) {
	var b strings.Builder
	writeLine(&b, "VERSION:4.0")
	assert.Equal(t, "VERSION:4.0\r\n", b.String())
}

func treeForExport() *vault.Group {
	root := vault.NewGroup("root")

	a := vault.NewEntry("Alice")
	a.Set(vault.FieldPhoneNumber, "100")
	root.AddEntry(a)

	sub := root.AddGroup("Work")
	b := vault.NewEntry("Bob")
	b.Set(vault.FieldPhoneNumber, "200")
	sub.AddEntry(b)
	sub.AddEntry(vault.NewEntry("No Phone"))

	c := vault.NewEntry("Carol")
	c.Set(vault.FieldPhoneNumber, "300")
	root.AddEntry(c)
	return root
}

func TestEncodeTree_PreOrderAndSkips(t *testing.T) {
	out := EncodeTree(treeForExport())

	assert.Equal(t, 3, strings.Count(out, "BEGIN:VCARD"))
	assert.Equal(t, 3, strings.Count(out, "END:VCARD"))
	assert.NotContains(t, out, "No Phone")

	ia := strings.Index(out, "FN:Alice")
	ib := strings.Index(out, "FN:Bob")
	ic := strings.Index(out, "FN:Carol")
	assert.True(t, ia < ib && ib < ic, "cards follow walk order")
}

func TestEncodeTree_Empty(t *testing.T) {
	assert.Empty(t, EncodeTree(vault.NewGroup("root")))
}

func TestWrite_CountsCards(t *testing.T) {
	var b strings.Builder
	n, err := Write(&b, treeForExport())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, strings.Count(b.String(), "BEGIN:VCARD"))
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after == 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestWrite_StopsOnWriterError(t *testing.T) {
	n, err := Write(&failingWriter{after: 1}, treeForExport())
	require.Error(t, err)
	assert.Equal(t, 1, n)
}
