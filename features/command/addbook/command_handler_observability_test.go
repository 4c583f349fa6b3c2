package addbook_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/catalog-go/catalog"
	"github.com/booklore/catalog-go/catalog/memoryengine"
	"github.com/booklore/catalog-go/features/command/addbook"
	"github.com/booklore/catalog-go/shared/shell"
	"github.com/booklore/catalog-go/testutil/observability/testdoubles"
)

func Test_CommandHandler_Handle_InstrumentsSuccessfulCommands(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	handler, err := addbook.NewCommandHandler(store, nil,
		addbook.WithMetrics(metrics),
		addbook.WithTracing(tracing),
		addbook.WithContextualLogging(logger))
	require.NoError(t, err)

	actor := &catalog.User{ID: uuid.New(), Username: "reader"}

	// act
	_, err = handler.Handle(ctx, addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", actor))

	// assert
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.DurationCount(shell.CommandHandlerDurationMetric))
	labels := metrics.DurationLabels(shell.CommandHandlerDurationMetric)
	assert.Equal(t, "AddBook", labels[shell.LogAttrCommandType])
	assert.Equal(t, shell.StatusSuccess, labels[shell.LogAttrStatus])

	finished := tracing.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, shell.SpanNameCommandHandle, finished[0].Span.Name)
	assert.Equal(t, shell.StatusSuccess, finished[0].Status)

	assert.True(t, logger.HasLog("info", shell.LogMsgCommandStarted))
	assert.True(t, logger.HasLog("info", shell.LogMsgCommandCompleted))
}

func Test_CommandHandler_Handle_InstrumentsUnauthenticatedRejections(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEngine()
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	handler, err := addbook.NewCommandHandler(store, nil,
		addbook.WithMetrics(metrics),
		addbook.WithTracing(tracing),
		addbook.WithContextualLogging(logger))
	require.NoError(t, err)

	// act - no actor
	_, err = handler.Handle(ctx, addbook.BuildCommand("Clean Code", 2008, []string{"refactoring"}, "Robert Martin", nil))

	// assert
	require.ErrorIs(t, err, catalog.ErrUnauthorized)

	assert.Equal(t, 1, metrics.CounterCount(shell.CommandHandlerUnauthorizedMetric),
		"The rejection should increment the unauthorized counter")

	finished := tracing.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, shell.StatusUnauthorized, finished[0].Status)

	assert.True(t, logger.HasLog("error", shell.LogMsgCommandFailed))
}
