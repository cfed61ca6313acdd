package shell

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	faintColor   = color.New(color.Faint)
	boldColor    = color.New(color.Bold)
)

// printer writes user-facing output. Colors are dropped when color.NoColor
// is set, which fatih/color does automatically for non-terminals.
type printer struct {
	w io.Writer
}

func (p printer) println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

func (p printer) success(format string, a ...any) {
	_, _ = successColor.Fprintf(p.w, format+"\n", a...)
}

func (p printer) warn(format string, a ...any) {
	_, _ = warnColor.Fprintf(p.w, format+"\n", a...)
}

func (p printer) error(format string, a ...any) {
	_, _ = errorColor.Fprintf(p.w, format+"\n", a...)
}

func (p printer) faint(format string, a ...any) {
	_, _ = faintColor.Fprintf(p.w, format+"\n", a...)
}

func (p printer) table(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(p.w, tbl)
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}
