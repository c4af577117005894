package telemetry

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/require"
)

func TestEncodeSamples(t *testing.T) {
	samples := []*model.Sample{
		{
			Metric:    model.Metric{"__name__": "bedrock_step_ordinal"},
			Value:     3,
			Timestamp: 1000,
		},
	}

	buf, err := encodeSamples(samples, []prompb.Label{{Name: "machine", Value: "node-01"}})
	require.NoError(t, err)

	decoded, err := snappy.Decode(nil, buf)
	require.NoError(t, err)

	var req prompb.WriteRequest
	require.NoError(t, proto.Unmarshal(decoded, &req))
	require.Len(t, req.Timeseries, 1)

	ts := req.Timeseries[0]
	require.Contains(t, ts.Labels, prompb.Label{Name: "__name__", Value: "bedrock_step_ordinal"})
	require.Contains(t, ts.Labels, prompb.Label{Name: "machine", Value: "node-01"})
	require.Equal(t, float64(3), ts.Samples[0].Value)
	require.Equal(t, int64(1000), ts.Samples[0].Timestamp)
}
