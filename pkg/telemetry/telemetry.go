package telemetry

import (
	"context"
	"net/url"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prometheusconfig "github.com/prometheus/common/config"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/prompb"
	"github.com/prometheus/prometheus/storage/remote"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

const (
	pushInterval = 15 * time.Second
	pushTimeout  = 5 * time.Second
)

// Service pushes installation metrics to a fleet provisioning endpoint over
// the prometheus remote write protocol. OEM deployments watch whole batches
// of machines install at once, so progress is pushed rather than scraped.
func Service(remoteWriteURL, machine string, gatherer prometheus.Gatherer) install.Configurator {
	return func(c *install.Configuration) error {
		if remoteWriteURL == "" {
			return nil
		}

		c.StartServices(install.ServiceConfig{
			Name:   "telemetry",
			OnExit: parallel.Continue,
			TaskFn: func(ctx context.Context) error {
				log := logger.Get(ctx)
				standardLabels := []prompb.Label{
					{
						Name:  "machine",
						Value: machine,
					},
				}

				pURL, err := url.Parse(remoteWriteURL + "/api/v1/write")
				if err != nil {
					return errors.WithStack(err)
				}

				client, err := remote.NewWriteClient("telemetry", &remote.ClientConfig{
					URL:     &prometheusconfig.URL{URL: pURL},
					Timeout: model.Duration(pushTimeout),
				})
				if err != nil {
					return errors.WithStack(err)
				}

				timer := time.NewTicker(pushInterval)
				defer timer.Stop()

				for {
					select {
					case <-ctx.Done():
						// One last push so the endpoint sees the final
						// sequence outcome.
						flushCtx, cancel := context.WithTimeout(
							logger.WithLogger(context.Background(), log), pushTimeout)
						if err := push(flushCtx, client, gatherer, standardLabels); err != nil {
							log.Warn("Final telemetry push failed", zap.Error(err))
						}
						cancel()
						return nil
					case <-timer.C:
					}

					if err := push(ctx, client, gatherer, standardLabels); err != nil {
						if errors.Is(err, ctx.Err()) {
							continue
						}
						log.Error("Pushing telemetry failed", zap.Error(err))
					}
				}
			},
		})
		return nil
	}
}

func push(
	ctx context.Context,
	client remote.WriteClient,
	gatherer prometheus.Gatherer,
	standardLabels []prompb.Label,
) error {
	mfs, err := gatherer.Gather()
	if err != nil {
		return errors.WithStack(err)
	}
	if len(mfs) == 0 {
		return nil
	}

	samples, err := expfmt.ExtractSamples(&expfmt.DecodeOptions{
		Timestamp: model.Now(),
	}, mfs...)
	if err != nil {
		return errors.WithStack(err)
	}

	buf, err := encodeSamples(samples, standardLabels)
	if err != nil {
		return err
	}

	_, err = client.Store(ctx, buf, 0)
	return errors.WithStack(err)
}

func encodeSamples(samples []*model.Sample, standardLabels []prompb.Label) ([]byte, error) {
	req := &prompb.WriteRequest{
		Timeseries: make([]prompb.TimeSeries, 0, len(samples)),
	}

	for _, s := range samples {
		req.Timeseries = append(req.Timeseries, prompb.TimeSeries{
			Labels: append(toLabelPairs(s.Metric), standardLabels...),
			Samples: []prompb.Sample{
				{
					Value:     float64(s.Value),
					Timestamp: int64(s.Timestamp),
				},
			},
		})
	}

	pBuf := proto.NewBuffer(nil)
	if err := pBuf.Marshal(req); err != nil {
		return nil, errors.WithStack(err)
	}

	return snappy.Encode(nil, pBuf.Bytes()), nil
}

func toLabelPairs(metric model.Metric) []prompb.Label {
	labelPairs := make([]prompb.Label, 0, len(metric))
	for k, v := range metric {
		labelPairs = append(labelPairs, prompb.Label{
			Name:  string(k),
			Value: string(v),
		})
	}
	return labelPairs
}
