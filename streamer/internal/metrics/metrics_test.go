package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTrackStream(t *testing.T) {
	started := testutil.ToFloat64(streamsStartedCounter)
	completed := testutil.ToFloat64(streamsFinishedCounter.WithLabelValues("completed"))
	active := testutil.ToFloat64(activeStreamsGauge)

	finish := TrackStream()
	require.Equal(t, active+1, testutil.ToFloat64(activeStreamsGauge))

	finish("completed")
	require.Equal(t, started+1, testutil.ToFloat64(streamsStartedCounter))
	require.Equal(t, completed+1, testutil.ToFloat64(streamsFinishedCounter.WithLabelValues("completed")))
	require.Equal(t, active, testutil.ToFloat64(activeStreamsGauge))
}

func TestTrackStatus(t *testing.T) {
	before := testutil.ToFloat64(operationStatusCounter.WithLabelValues("POST /api/stream/start", "202"))
	TrackStatus("POST /api/stream/start", "202")
	require.Equal(t, before+1, testutil.ToFloat64(operationStatusCounter.WithLabelValues("POST /api/stream/start", "202")))
}

func TestTrackConnection(t *testing.T) {
	before := testutil.ToFloat64(wsConnectionsGauge)
	done := TrackConnection()
	require.Equal(t, before+1, testutil.ToFloat64(wsConnectionsGauge))
	done()
	require.Equal(t, before, testutil.ToFloat64(wsConnectionsGauge))
}
