package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	context_ "github.com/mkrupp/homecase-registration/internal/infra/context"
	"github.com/mkrupp/homecase-registration/internal/infra/logging"
)

// ErrSessionPanic is returned by Run when the transport panicked.
var ErrSessionPanic = errors.New("console session panic")

// ConsoleTransport is an interactive dialogue served over a Console.
type ConsoleTransport interface {
	Serve(ctx context.Context) error
}

// Run serves a single console session. The session gets its own trace ID,
// panics are logged and turned into ErrSessionPanic, and running out of input
// is a normal end of the session.
func Run(ctx context.Context, transport ConsoleTransport) (err error) {
	log := logging.GetLogger("infra.transport.console")

	ctx = context_.WithTraceID(ctx, newTraceID())

	log.DebugContext(ctx, "session started")

	defer func() {
		if p := recover(); p != nil {
			log.ErrorContext(ctx, "session panic", slog.Group("error",
				"panic", p,
				"stack", string(debug.Stack()),
			))

			err = fmt.Errorf("%w: %v", ErrSessionPanic, p)
		}
	}()

	if err := transport.Serve(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			log.DebugContext(ctx, "input closed")

			return nil
		}

		return fmt.Errorf("serve: %w", err)
	}

	log.DebugContext(ctx, "session finished")

	return nil
}

func newTraceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
