package progress

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/ridge/must"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/test"
	"github.com/outofforest/bedrock/pkg/thttp"
	"github.com/outofforest/parallel"
)

func TestFeedStreamsEvents(t *testing.T) {
	ctx := test.Context(t)

	hub := New()
	l := must.NetListener(net.Listen("tcp", "localhost:0"))
	server := thttp.NewServer(l, thttp.Config{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serveFeed(hub, w, r)
		}),
	})

	require.NoError(t, parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("server", parallel.Fail, server.Run)
		spawn("client", parallel.Exit, func(ctx context.Context) error {
			ws, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+l.Addr().String()+"/", nil)
			if err != nil {
				return errors.WithStack(err)
			}
			defer ws.Close()

			// The subscription is created by the handler after the upgrade,
			// so the event is repeated until it gets through.
			stop := make(chan struct{})
			go func() {
				for {
					hub.Report(install.Event{Ordinal: 3, Total: 8, Step: "extract"})
					select {
					case <-stop:
						return
					case <-time.After(10 * time.Millisecond):
					}
				}
			}()

			_, data, err := ws.ReadMessage()
			if err != nil {
				close(stop)
				return errors.WithStack(err)
			}
			close(stop)

			var e install.Event
			if err := json.Unmarshal(data, &e); err != nil {
				return errors.WithStack(err)
			}
			if e.Step != "extract" || e.Ordinal != 3 || e.Total != 8 {
				return errors.Errorf("unexpected event %+v", e)
			}

			hub.Report(install.Event{Final: true, Code: install.CodeSuccess})
			for {
				_, data, err := ws.ReadMessage()
				if err != nil {
					return errors.WithStack(err)
				}
				if err := json.Unmarshal(data, &e); err != nil {
					return errors.WithStack(err)
				}
				if e.Final {
					if e.Code != install.CodeSuccess {
						return errors.Errorf("unexpected result code %d", e.Code)
					}
					return nil
				}
			}
		})
		return nil
	}))
}
