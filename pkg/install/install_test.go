package install

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/bedrock/pkg/test"
)

func step(name string, fn StepFn) Configurator {
	return func(c *Configuration) error {
		c.AddSteps(StepConfig{Name: name, Fn: fn})
		return nil
	}
}

func TestStepsRunInOrder(t *testing.T) {
	ctx := test.Context(t)

	var order []string
	record := func(name string) StepFn {
		return func(ctx context.Context, s *State) error {
			order = append(order, name)
			return nil
		}
	}

	require.NoError(t, Run(ctx,
		step("a", record("a")),
		step("b", record("b")),
		step("c", record("c")),
	))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFailureStopsSequence(t *testing.T) {
	ctx := test.Context(t)

	var order []string
	err := Run(ctx,
		step("a", func(ctx context.Context, s *State) error {
			order = append(order, "a")
			return nil
		}),
		step("b", func(ctx context.Context, s *State) error {
			return errors.New("boom")
		}),
		step("c", func(ctx context.Context, s *State) error {
			order = append(order, "c")
			return nil
		}),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), `step "b" failed`)
	require.Equal(t, []string{"a"}, order)
}

func TestEventsCarryOrdinals(t *testing.T) {
	ctx := test.Context(t)

	var events []Event
	require.NoError(t, Run(ctx,
		func(c *Configuration) error {
			c.OnEvent(func(e Event) {
				events = append(events, e)
			})
			return nil
		},
		step("a", func(ctx context.Context, s *State) error { return nil }),
		step("b", func(ctx context.Context, s *State) error { return nil }),
	))

	require.Len(t, events, 3)
	require.Equal(t, Event{Ordinal: 1, Total: 2, Step: "a"}, events[0])
	require.Equal(t, Event{Ordinal: 2, Total: 2, Step: "b"}, events[1])
	require.True(t, events[2].Final)
	require.Equal(t, CodeSuccess, events[2].Code)
}

func TestFailureEventCarriesSentinelCode(t *testing.T) {
	ctx := test.Context(t)

	var final Event
	err := Run(ctx,
		func(c *Configuration) error {
			c.OnEvent(func(e Event) {
				if e.Final {
					final = e
				}
			})
			return nil
		},
		step("a", func(ctx context.Context, s *State) error {
			return errors.New("boom")
		}),
	)
	require.Error(t, err)
	require.Equal(t, CodeFailure, final.Code)
	require.Contains(t, final.Error, "boom")
}

func TestProgressOffsetShiftsOrdinals(t *testing.T) {
	ctx := test.Context(t)

	var events []Event
	require.NoError(t, Run(ctx,
		func(c *Configuration) error {
			c.SetProgressOffset(5)
			c.OnEvent(func(e Event) {
				events = append(events, e)
			})
			return nil
		},
		step("a", func(ctx context.Context, s *State) error { return nil }),
	))

	require.Equal(t, 6, events[0].Ordinal)
	require.Equal(t, 6, events[0].Total)
}

func TestStateSeededFromConfiguration(t *testing.T) {
	ctx := test.Context(t)

	require.NoError(t, Run(ctx,
		func(c *Configuration) error {
			c.SetParams(Params{Hostname: "pc"})
			c.SetTargetDir("/mnt/target")
			c.SetNetworkAvailable(true)
			return nil
		},
		step("check", func(ctx context.Context, s *State) error {
			switch {
			case s.Hostname != "pc":
				return errors.New("params lost")
			case s.TargetDir != "/mnt/target":
				return errors.New("target dir lost")
			case !s.NetworkAvailable:
				return errors.New("network flag lost")
			}
			return nil
		}),
	))
}

func TestStepCount(t *testing.T) {
	c := &Configuration{}
	require.Zero(t, c.StepCount())
	require.NoError(t, step("a", nil)(c))
	require.NoError(t, step("b", nil)(c))
	require.Equal(t, 2, c.StepCount())
}

func TestStateSharedBetweenSteps(t *testing.T) {
	ctx := test.Context(t)

	require.NoError(t, Run(ctx,
		step("discover", func(ctx context.Context, s *State) error {
			s.RootPartition = "/dev/sda2"
			return nil
		}),
		step("consume", func(ctx context.Context, s *State) error {
			if s.RootPartition != "/dev/sda2" {
				return errors.New("state lost")
			}
			return nil
		}),
	))
}
