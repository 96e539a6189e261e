package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/ports"
)

func TestSSEHubRoutesByScope(t *testing.T) {
	hub := NewSSEHub()
	defer hub.Close()

	aggregate := make(chan SummaryEvent, 1)
	all := make(chan SummaryEvent, 2)
	hub.register <- SSEClient{Scope: ports.ScopeAggregate, Channel: aggregate}
	hub.register <- SSEClient{Scope: allScopes, Channel: all}
	require.Eventually(t, func() bool {
		return hub.ClientCount(ports.ScopeAggregate) == 1 && hub.ClientCount(allScopes) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), ports.SummaryRecord{ID: "1", Scope: ports.ScopeIndividual}))
	require.NoError(t, hub.Publish(context.Background(), ports.SummaryRecord{ID: "2", Scope: ports.ScopeAggregate}))

	select {
	case ev := <-aggregate:
		assert.Equal(t, "2", ev.Summary.ID.String())
	case <-time.After(time.Second):
		t.Fatal("aggregate client got nothing")
	}
	for _, want := range []string{"1", "2"} {
		select {
		case ev := <-all:
			assert.Equal(t, want, ev.Summary.ID.String())
		case <-time.After(time.Second):
			t.Fatal("unscoped client missed a summary")
		}
	}
}
