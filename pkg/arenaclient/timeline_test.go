package arenaclient_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/pkg/arenaclient"
)

func msg(session string, id int64) arenaclient.Message {
	return arenaclient.Message{ID: id, SessionID: session, Content: "m"}
}

func envelope(t *testing.T, typ string, data any) arenaclient.Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return arenaclient.Envelope{Type: typ, Data: raw}
}

func ids(messages []arenaclient.Message) []int64 {
	out := make([]int64, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestTimelineApplyMessages(t *testing.T) {
	tests := []struct {
		name     string
		seed     []int64
		incoming int64
		want     arenaclient.UpdateKind
		wantIDs  []int64
	}{
		{name: "next id appends", seed: []int64{1, 2}, incoming: 3, want: arenaclient.UpdateAppended, wantIDs: []int64{1, 2, 3}},
		{name: "seen id is dropped", seed: []int64{1, 2}, incoming: 2, want: arenaclient.UpdateDuplicate, wantIDs: []int64{1, 2}},
		{name: "older id is dropped", seed: []int64{1, 2, 3}, incoming: 1, want: arenaclient.UpdateDuplicate, wantIDs: []int64{1, 2, 3}},
		{name: "skipped id is a gap", seed: []int64{1}, incoming: 3, want: arenaclient.UpdateGap, wantIDs: []int64{1}},
		{name: "empty timeline takes id 1", incoming: 1, want: arenaclient.UpdateAppended, wantIDs: []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := arenaclient.NewTimeline()
			page := &arenaclient.FetchResult{SessionID: "s1"}
			for _, id := range tt.seed {
				page.Messages = append(page.Messages, msg("s1", id))
			}
			_, gap := tl.Merge(page)
			require.False(t, gap)

			u, err := tl.Apply(envelope(t, arenaclient.EnvelopeMessage, msg("s1", tt.incoming)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Kind)
			assert.Equal(t, tt.wantIDs, ids(tl.Messages()))
		})
	}
}

func TestTimelineMergeOverlapsLive(t *testing.T) {
	tl := arenaclient.NewTimeline()

	// live frames may land before the backlog fetch returns
	u, err := tl.Apply(envelope(t, arenaclient.EnvelopeMessage, msg("s1", 1)))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateAppended, u.Kind)

	appended, gap := tl.Merge(&arenaclient.FetchResult{SessionID: "s1", Messages: []arenaclient.Message{msg("s1", 1), msg("s1", 2), msg("s1", 3)}})
	assert.False(t, gap)
	assert.Equal(t, []int64{2, 3}, ids(appended))
	assert.Equal(t, []int64{1, 2, 3}, ids(tl.Messages()))
	assert.Equal(t, int64(3), tl.LastID())
}

func TestTimelineMergeReportsGap(t *testing.T) {
	tl := arenaclient.NewTimeline()
	appended, gap := tl.Merge(&arenaclient.FetchResult{SessionID: "s1", Messages: []arenaclient.Message{msg("s1", 1), msg("s1", 3)}})
	assert.True(t, gap)
	assert.Equal(t, []int64{1}, ids(appended))
}

func TestTimelineStatusWithNewSessionResets(t *testing.T) {
	tl := arenaclient.NewTimeline()
	tl.Merge(&arenaclient.FetchResult{SessionID: "s1", Messages: []arenaclient.Message{msg("s1", 1), msg("s1", 2)}})

	u, err := tl.Apply(envelope(t, arenaclient.EnvelopeStatus, arenaclient.RoomStatus{RoomID: "r1", Status: "running", SessionID: "s1"}))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateStatus, u.Kind)
	assert.Len(t, tl.Messages(), 2)

	u, err = tl.Apply(envelope(t, arenaclient.EnvelopeStatus, arenaclient.RoomStatus{RoomID: "r1", Status: "running", SessionID: "s2"}))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateReset, u.Kind)
	assert.Equal(t, "s2", tl.SessionID())
	assert.Empty(t, tl.Messages())
	assert.Equal(t, int64(0), tl.LastID())

	u, err = tl.Apply(envelope(t, arenaclient.EnvelopeMessage, msg("s2", 1)))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateAppended, u.Kind)
}

func TestTimelineMessageFromUnannouncedSession(t *testing.T) {
	tl := arenaclient.NewTimeline()
	tl.Merge(&arenaclient.FetchResult{SessionID: "s1", Messages: []arenaclient.Message{msg("s1", 1)}})

	u, err := tl.Apply(envelope(t, arenaclient.EnvelopeMessage, msg("s2", 1)))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateReset, u.Kind)
	assert.Equal(t, "s2", tl.SessionID())
	assert.Equal(t, []int64{1}, ids(tl.Messages()))

	tl = arenaclient.NewTimeline()
	tl.Merge(&arenaclient.FetchResult{SessionID: "s1", Messages: []arenaclient.Message{msg("s1", 1)}})
	u, err = tl.Apply(envelope(t, arenaclient.EnvelopeMessage, msg("s2", 4)))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateGap, u.Kind)
	assert.Empty(t, tl.Messages())
}

func TestTimelineErrorEnvelope(t *testing.T) {
	tl := arenaclient.NewTimeline()
	u, err := tl.Apply(envelope(t, arenaclient.EnvelopeError, arenaclient.StreamError{RoomID: "r1", Code: "turn_failed", Message: "boom"}))
	require.NoError(t, err)
	assert.Equal(t, arenaclient.UpdateError, u.Kind)
	require.NotNil(t, u.Error)
	assert.Equal(t, "turn_failed", u.Error.Code)

	_, err = tl.Apply(arenaclient.Envelope{Type: "bogus"})
	assert.Error(t, err)
}
