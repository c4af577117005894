package progress

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/bedrock/pkg/install"
	"github.com/outofforest/bedrock/pkg/progress/wire"
	"github.com/outofforest/logger"
	"github.com/outofforest/resonance"
)

// Environment variables passed by the launcher to the target-side process.
const (
	// EnvLinkAddr is the address of the launcher's progress link.
	EnvLinkAddr = "BEDROCK_LINK_ADDR"

	// EnvProgressOffset shifts the ordinals reported by the target-side
	// sequence so they continue the launcher's numbering.
	EnvProgressOffset = "BEDROCK_PROGRESS_OFFSET"
)

// WireConfig is the progress link wire config.
var WireConfig = resonance.Config[wire.Marshaller]{
	MaxMessageSize:    4 * 1024,
	MarshallerFactory: wire.NewMarshaller,
}

// Result is the final outcome reported by the target-side sequence.
type Result struct {
	Code     int
	Error    string
	Received bool
}

// NewListener opens the launcher side of the progress link on a loopback
// port. The target-side process shares the network namespace with the
// launcher, so loopback is reachable from inside the chroot.
func NewListener(emit func(install.Event)) (*Listener, error) {
	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Listener{
		listener: l,
		emit:     emit,
	}, nil
}

// Listener accepts the target-side connection, re-emits its step events and
// records the final result.
type Listener struct {
	listener *net.TCPListener
	emit     func(install.Event)

	mu     sync.Mutex
	result Result
}

// Addr returns the address the listener accepts connections on.
func (l *Listener) Addr() string {
	return l.listener.Addr().String()
}

// Run relays messages until context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	defer l.listener.Close()

	return resonance.RunServer(ctx, l.listener, WireConfig,
		func(ctx context.Context, recvCh <-chan any, c *resonance.Connection[wire.Marshaller]) error {
			log := logger.Get(ctx)
			for {
				var msg any
				var ok bool
				select {
				case <-ctx.Done():
					return nil
				case msg, ok = <-recvCh:
					if !ok {
						return nil
					}
				}

				switch m := msg.(type) {
				case *wire.MsgStep:
					l.emit(install.Event{
						Ordinal: int(m.Ordinal),
						Total:   int(m.Total),
						Step:    m.Name,
					})
				case *wire.MsgLog:
					log.Info("Target: "+m.Message, zap.String("level", m.Level))
				case *wire.MsgResult:
					l.storeResult(m)
				default:
					return errors.New("unrecognized message received")
				}
			}
		},
	)
}

// Result returns the final outcome received so far.
func (l *Listener) Result() Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.result
}

func (l *Listener) storeResult(m *wire.MsgResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.result = Result{
		Code:     int(m.Code),
		Error:    m.Error,
		Received: true,
	}
}

// NewClient creates the target-side end of the progress link.
func NewClient() *Client {
	return &Client{
		ch: make(chan any, subscriberBuffer),
	}
}

// Client streams sequence events from the target-side process to the
// launcher.
type Client struct {
	ch chan any
}

// Reporter converts sequence events to wire messages.
func (c *Client) Reporter() install.ReporterFn {
	return func(e install.Event) {
		var msg any
		if e.Final {
			msg = &wire.MsgResult{
				Code:  uint64(e.Code),
				Error: e.Error,
			}
		} else {
			msg = &wire.MsgStep{
				Ordinal: uint64(e.Ordinal),
				Total:   uint64(e.Total),
				Name:    e.Step,
			}
		}

		select {
		case c.ch <- msg:
		default:
		}
	}
}

// Run sends queued messages to the launcher. After the final result is sent
// it returns, letting the process exit.
func (c *Client) Run(ctx context.Context, addr string) error {
	return resonance.RunClient[wire.Marshaller](ctx, addr, WireConfig,
		func(ctx context.Context, recvCh <-chan any, conn *resonance.Connection[wire.Marshaller]) error {
			for {
				// Queued messages are drained even when the context is
				// already canceled, so the final result is not lost.
				select {
				case msg := <-c.ch:
					conn.Send(msg)
					if _, ok := msg.(*wire.MsgResult); ok {
						return nil
					}
				default:
					select {
					case <-ctx.Done():
						return errors.WithStack(ctx.Err())
					case msg := <-c.ch:
						conn.Send(msg)
						if _, ok := msg.(*wire.MsgResult); ok {
							return nil
						}
					}
				}
			}
		},
	)
}
