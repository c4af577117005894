package progress

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/thttp"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

const handshakeTimeout = 5 * time.Second

// Service starts the progress feed for the UI frontend: a websocket stream
// of sequence events and a metrics endpoint.
func Service(port uint16, hub *Hub) install.Configurator {
	return func(c *install.Configuration) error {
		c.OnEvent(hub.Report)
		c.StartServices(install.ServiceConfig{
			Name:   "progress",
			OnExit: parallel.Fail,
			TaskFn: func(ctx context.Context) error {
				l, err := net.ListenTCP("tcp", &net.TCPAddr{Port: int(port)})
				if err != nil {
					return errors.WithStack(err)
				}
				defer l.Close()

				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(hub.Gatherer(), promhttp.HandlerOpts{}))
				mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
					serveFeed(hub, w, r)
				})

				accessLog := zap.NewStdLog(logger.Get(ctx)).Writer()
				server := thttp.NewServer(l, thttp.Config{
					Handler: handlers.CombinedLoggingHandler(accessLog, mux),
				})
				return server.Run(ctx)
			},
		})
		return nil
	}
}

func serveFeed(hub *Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: handshakeTimeout,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get(r.Context()).Error("Failed to serve progress feed", zap.Error(err))
		return
	}

	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	_ = parallel.Run(r.Context(), func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("sender", parallel.Exit, func(ctx context.Context) error {
			for {
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case e := <-events:
					data, err := json.Marshal(e)
					if err != nil {
						return errors.WithStack(err)
					}
					if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
						return errors.WithStack(err)
					}
					if e.Final {
						return nil
					}
				}
			}
		})
		spawn("receiver", parallel.Exit, func(ctx context.Context) error {
			// The feed is one-way. Reading detects the peer going away.
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					if ctx.Err() != nil {
						return errors.WithStack(ctx.Err())
					}
					return nil
				}
			}
		})
		spawn("closer", parallel.Exit, func(ctx context.Context) error {
			<-ctx.Done()
			_ = ws.Close()
			return errors.WithStack(ctx.Err())
		})
		return nil
	})
}
