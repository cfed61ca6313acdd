package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Run reads commands from in until exit, quit, end of input or cancellation
// of ctx. If the session is unsynced at that point, one more save is tried.
// Run returns ErrUnsaved when that save fails too.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for ctx.Err() == nil {
		_, _ = fmt.Fprint(s.out.w, s.prompt())
		if !scanner.Scan() {
			s.out.println()
			break
		}
		if s.Execute(ctx, scanner.Text()) {
			break
		}
	}

	err := s.finish(ctx)
	s.out.println("Bye!")
	if err != nil {
		return err
	}
	return scanner.Err()
}

func (s *Session) finish(ctx context.Context) error {
	if !s.unsynced {
		return nil
	}

	s.out.warn("Retrying save of unsynced changes...")
	// The session context may already be cancelled; the last save must
	// still run.
	if !s.persist(context.WithoutCancel(ctx)) {
		return ErrUnsaved
	}
	s.out.success("Changes saved")
	return nil
}
