package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/bracket-exporter/internal/domain/bracket"
	bracketmock "github.com/riskibarqy/bracket-exporter/internal/mocks/domain/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestExportService_Run_RecordsStageSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	source := bracketmock.NewSource(t)
	sink := bracketmock.NewSink(t)
	source.On("FetchTournament", mock.Anything, testTournamentID).Return(bracket.Tournament{}, nil).Once()
	source.On("FetchTeams", mock.Anything, testTournamentID).Return([]bracket.Team{{ID: "t1", Name: strPtr("Alpha")}}, nil).Once()
	source.On("FetchMatches", mock.Anything, testStageID).Return([]bracket.Match{
		{ID: "m1", Slots: []bracket.MatchSlot{slot("t1", 1), slot("ghost", 0)}},
	}, nil).Once()
	source.On("FetchMatch", mock.Anything, "m1").Return(bracket.Match{ID: "m1", Slots: []bracket.MatchSlot{slot("t1", 2), slot("ghost", 0)}}, nil).Once()
	source.On("FetchTeam", mock.Anything, "ghost").Return(bracket.Team{Name: strPtr("Ghost")}, nil).Once()
	sink.On("Export", mock.Anything, mock.Anything).Return([]string{}, nil).Once()

	service := newService(source, sink, ExportServiceConfig{EnrichEnabled: true, ResolveMissingTeams: true})
	service.tracer = provider.Tracer("test")

	_, err := service.Run(context.Background(), Target{TournamentID: testTournamentID, StageID: testStageID})
	require.NoError(t, err)

	ended := recorder.Ended()
	names := make(map[string]sdktrace.ReadOnlySpan, len(ended))
	for _, span := range ended {
		names[span.Name()] = span
	}
	root, ok := names["usecase.ExportService.Run"]
	require.True(t, ok, "expected a root run span")
	assert.False(t, root.Parent().IsValid())

	for _, stage := range []string{
		"usecase.ExportService.collect",
		"usecase.ExportService.enrichMatches",
		"usecase.ExportService.resolveMissingTeams",
	} {
		span, ok := names[stage]
		require.True(t, ok, "expected span %s", stage)
		assert.Equal(t, root.SpanContext().TraceID(), span.SpanContext().TraceID())
		assert.Equal(t, root.SpanContext().SpanID(), span.Parent().SpanID())
	}
}
