package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mrlokans/kindlr/internal/clippings"
)

// ErrParseTimeout is returned when a parse does not finish within the deadline.
var ErrParseTimeout = errors.New("parsing clippings timed out")

// ParseService runs the clippings parser on behalf of request handlers.
// The parser itself is synchronous and has no notion of cancellation,
// so the service bounds each call with a deadline instead.
type ParseService struct {
	parser  *clippings.Parser
	timeout time.Duration
	run     func(parser *clippings.Parser, raw string) (clippings.Result, error)

	inFlight atomic.Int64
}

func NewParseService(parser *clippings.Parser, timeout time.Duration) *ParseService {
	return &ParseService{
		parser:  parser,
		timeout: timeout,
		run:     (*clippings.Parser).Run,
	}
}

func (s *ParseService) Parser() *clippings.Parser {
	return s.parser
}

// InFlight reports how many parses are running, including ones whose caller
// already gave up on them.
func (s *ParseService) InFlight() int64 {
	return s.inFlight.Load()
}

// Parse parses raw with the service's default mode.
func (s *ParseService) Parse(ctx context.Context, raw string) (clippings.Result, error) {
	return s.ParseWithMode(ctx, raw, s.parser.Mode())
}

// ParseWithMode parses raw in the given mode. In fail-fast mode the returned
// error wraps *clippings.EntryError.
func (s *ParseService) ParseWithMode(ctx context.Context, raw string, mode clippings.Mode) (clippings.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return clippings.Result{}, contextError(err)
	}

	parser := clippings.NewParser(s.parser.Table(), mode)

	type outcome struct {
		result clippings.Result
		err    error
	}
	done := make(chan outcome, 1)

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Add(-1)
		result, err := s.run(parser, raw)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return clippings.Result{}, contextError(ctx.Err())
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrParseTimeout
	}
	return fmt.Errorf("parsing clippings: %w", err)
}
