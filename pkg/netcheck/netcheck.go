package netcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/vishvananda/netlink"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/logger"
)

const probeTimeout = 5 * time.Second

// Step performs the single network reachability check of the sequence. The
// outcome is recorded in the state, never treated as an error: an offline
// installation proceeds without extras and updates.
func Step(probeURL string) install.Configurator {
	return func(c *install.Configuration) error {
		c.AddSteps(install.StepConfig{
			Name: "netcheck",
			Fn: func(ctx context.Context, s *install.State) error {
				s.NetworkAvailable = Available(ctx, probeURL)
				logger.Get(ctx).Info("Network checked", zap.Bool("available", s.NetworkAvailable))
				return nil
			},
		})
		return nil
	}
}

// Available reports whether the mirror is reachable. A link has to be
// operationally up before the probe is even attempted, so machines without
// cable fail fast instead of waiting out the HTTP timeout.
func Available(ctx context.Context, probeURL string) bool {
	if !linkUp() {
		return false
	}
	return probe(ctx, probeURL)
}

func linkUp() bool {
	links, err := netlink.LinkList()
	if err != nil {
		return false
	}
	for _, l := range links {
		attrs := l.Attrs()
		if attrs.Name == "lo" {
			continue
		}
		if attrs.OperState == netlink.OperUp {
			return true
		}
	}
	return false
}

func probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
