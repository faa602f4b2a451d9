package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/k12grader/parser/pkg/sections"
)

// Session carries what one invocation needs through every processing step:
// its identity, its rule table and its logger. Nothing else is shared.
type Session struct {
	ID      uuid.UUID
	Started time.Time
	Table   *sections.Table
	Logger  *log.Logger // nil disables logging
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.Started)
}

func (s *Session) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// sessionLogger derives a logger whose prefix names the session.
func sessionLogger(base *log.Logger, id uuid.UUID) *log.Logger {
	if base == nil {
		return nil
	}
	prefix := fmt.Sprintf("%s[%s] ", base.Prefix(), id.String()[:8])
	return log.New(base.Writer(), prefix, base.Flags())
}
