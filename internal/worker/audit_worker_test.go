package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/workdesk-labs/work-mediator/internal/events"
	"github.com/workdesk-labs/work-mediator/internal/service"
)

func TestAuditWorkerLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(service.NewAuditService(dispatcher, zap.New(core)))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e1", Type: events.EventTurnMediated, ConversationID: "c1"}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "e2", Type: events.EventTicketReady, ConversationID: "c1"}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "TurnMediated", entries[0].Message)
	assert.Equal(t, "TicketReady", entries[1].Message)
	assert.Equal(t, "c1", entries[1].ContextMap()["conversation_id"])
}

func TestStartAuditWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil) })
}
