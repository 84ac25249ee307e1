package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindlr/internal/clippings"
)

const validEntry = `Book Title (Author Name)
- Your Highlight on page 123 | Location 1234-1235 | Added on Monday, 26 August 2025 12:57:30

Highlighted text.
==========
`

func TestParseService_Parse(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), time.Second)

	result, err := service.Parse(context.Background(), validEntry)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Book Title", result.Records[0].Record.Title)
}

func TestParseService_FailFastError(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), time.Second)

	_, err := service.Parse(context.Background(), validEntry+"Broken (Entry)\n")
	require.Error(t, err)

	var entryErr *clippings.EntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, 2, entryErr.Index)
}

func TestParseService_ModeOverride(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), 0)

	result, err := service.ParseWithMode(context.Background(), validEntry+"Broken (Entry)\n", clippings.ModeCollect)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Len(t, result.Failures, 1)
}

func TestParseService_CancelledContext(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Parse(ctx, validEntry)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrParseTimeout)
}

func TestParseService_Timeout(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), 20*time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	service.run = func(*clippings.Parser, string) (clippings.Result, error) {
		<-release
		return clippings.Result{}, nil
	}

	start := time.Now()
	result, err := service.Parse(context.Background(), validEntry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseTimeout))
	assert.Empty(t, result.Records)
	assert.Less(t, time.Since(start), 5*time.Second)

	// The abandoned parse keeps running until it returns.
	assert.Equal(t, int64(1), service.InFlight())
}

func TestParseService_InFlightSettles(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), time.Second)

	_, err := service.Parse(context.Background(), validEntry)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return service.InFlight() == 0 }, time.Second, 5*time.Millisecond)
}

func TestParseService_CallerDeadline(t *testing.T) {
	service := NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), 0)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := service.Parse(ctx, validEntry)
	assert.True(t, errors.Is(err, ErrParseTimeout))
}
