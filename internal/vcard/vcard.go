// Package vcard serializes the contact tree to vCard 4.0 (RFC 6350).
//
// The encoder is one-directional and stateless: every call re-walks the tree
// it is given. An entry yields a card only when it has a title and an
// unprotected phone number; everything else is skipped silently.
package vcard

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

const (
	crlf = "\r\n"

	// maxLineOctets is the folding limit from RFC 6350 §3.2, excluding CRLF.
	maxLineOctets = 75
)

// RFC 6350 §3.4 text escaping. "\r\n" is listed before "\n" so a CRLF
// collapses into a single escaped newline.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", `\,`,
	";", `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EncodeEntry returns the card for e, or false when e is not exportable:
// no title, no phone number, or a protected title or phone number.
//
// Only the first PhoneNumber and Email are written; numbered variants are
// ignored.
func EncodeEntry(e *vault.Entry) (string, bool) {
	title, ok := e.Get(vault.FieldTitle)
	if !ok || title.Text == "" || title.Protected {
		return "", false
	}
	phone, ok := e.Get(vault.FieldPhoneNumber)
	if !ok || phone.Text == "" || phone.Protected {
		return "", false
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VCARD")
	writeLine(&b, "VERSION:4.0")
	writeLine(&b, "UID:urn:uuid:"+e.ID)
	writeLine(&b, "FN:"+escapeText(title.Text))
	writeLine(&b, "TEL:"+escapeText(phone.Text))
	if email, ok := e.Get(vault.FieldEmail); ok && email.Text != "" && !email.Protected {
		writeLine(&b, "EMAIL:"+escapeText(email.Text))
	}
	writeLine(&b, "END:VCARD")
	b.WriteString(crlf)

	return b.String(), true
}

// Write encodes every exportable entry under root to w in walk order and
// returns the number of cards written.
func Write(w io.Writer, root *vault.Group) (int, error) {
	var (
		n    int
		werr error
	)
	vault.Walk(root, func(e *vault.Entry) bool {
		card, ok := EncodeEntry(e)
		if !ok {
			return true
		}
		if _, werr = io.WriteString(w, card); werr != nil {
			return false
		}
		n++
		return true
	})
	return n, werr
}

// EncodeTree returns the concatenated cards of every exportable entry under root.
func EncodeTree(root *vault.Group) string {
	var b strings.Builder
	_, _ = Write(&b, root)
	return b.String()
}

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// writeLine appends line folded at maxLineOctets. Continuation lines start
// with a single space and cuts never split a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString(crlf)
		b.WriteString(" ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString(crlf)
}
