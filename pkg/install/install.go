package install

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

// CodeSuccess and CodeFailure are the result codes reported when the sequence
// finishes. 256 is outside the range of shell exit codes, so a failed step can
// never be mistaken for a utility's own exit status.
const (
	CodeSuccess = 0
	CodeFailure = 256
)

// Params are the answers the sequence is executed with. They mirror the
// positional parameters of the target-side process: language, timezone,
// username, hostname, password, extras flag, updates flag, EFI partition or
// NULL, root device.
type Params struct {
	Language     string
	Timezone     string
	Username     string
	Hostname     string
	Password     string
	Extras       bool
	Updates      bool
	EFIPartition string
	RootDevice   string

	// BootTime marks the live-session first-boot invocation path.
	BootTime bool

	// Mirror is the package mirror probed by the reachability check.
	Mirror string
}

// EFIPartitionNULL is the sentinel meaning no EFI partition exists and the
// bootloader is installed for legacy BIOS boot.
const EFIPartitionNULL = "NULL"

// State is the mutable state shared by the steps of a sequence. Steps run
// strictly one after another, so no locking is involved.
type State struct {
	Params

	// NetworkAvailable is the result of the single reachability check. Steps
	// requiring the mirror consult it and degrade to their offline path.
	NetworkAvailable bool

	// Discovered during partitioning and consumed by later steps.
	TargetDir     string
	RootPartition string
	HomePartition string

	emit func(Event)
}

// Emit publishes an event to the reporters registered on the configuration.
// It is used by steps which relay progress of a nested sequence, like the
// target-side process running inside the chroot.
func (s *State) Emit(e Event) {
	if s.emit != nil {
		s.emit(e)
	}
}

// Event describes progress of the sequence.
type Event struct {
	Ordinal int
	Total   int
	Step    string
	Final   bool
	Code    int
	Error   string
}

// StepFn executes a single provisioning step.
type StepFn func(ctx context.Context, s *State) error

// StepConfig describes a registered step.
type StepConfig struct {
	Name string
	Fn   StepFn
}

// ServiceConfig describes an auxiliary service running beside the sequence.
type ServiceConfig struct {
	Name   string
	OnExit parallel.OnExit
	TaskFn parallel.Task
}

// ReporterFn receives sequence events.
type ReporterFn func(e Event)

// Configurator defines a function configuring the installation.
type Configurator func(c *Configuration) error

// Configuration collects everything declared by configurators before the
// sequence is executed.
type Configuration struct {
	params           Params
	targetDir        string
	networkAvailable bool
	offset           int
	steps            []StepConfig
	services         []ServiceConfig
	reporters        []ReporterFn
}

// SetParams stores the sequence parameters.
func (c *Configuration) SetParams(params Params) {
	c.params = params
}

// Params returns the sequence parameters collected so far.
func (c *Configuration) Params() Params {
	return c.params
}

// SetTargetDir stores where the new system is mounted during installation.
func (c *Configuration) SetTargetDir(dir string) {
	c.targetDir = dir
}

// SetNetworkAvailable seeds the reachability flag. The target-side process
// inherits the launcher's check result instead of probing again.
func (c *Configuration) SetNetworkAvailable(available bool) {
	c.networkAvailable = available
}

// SetProgressOffset shifts reported ordinals. The target-side process uses it
// so the ordinals it prints continue the launcher's numbering.
func (c *Configuration) SetProgressOffset(offset int) {
	c.offset = offset
}

// AddSteps appends steps to the sequence.
func (c *Configuration) AddSteps(steps ...StepConfig) {
	c.steps = append(c.steps, steps...)
}

// StepCount returns the number of steps declared so far.
func (c *Configuration) StepCount() int {
	return len(c.steps)
}

// StartServices registers services running beside the sequence.
func (c *Configuration) StartServices(services ...ServiceConfig) {
	c.services = append(c.services, services...)
}

// OnEvent registers a reporter.
func (c *Configuration) OnEvent(reporters ...ReporterFn) {
	c.reporters = append(c.reporters, reporters...)
}

// Run configures and executes the sequence. Steps run in declaration order,
// one at a time. The ordinal of each step is printed to stdout before the
// step starts. The first failing step aborts the rest; nothing is retried.
func Run(ctx context.Context, configurators ...Configurator) error {
	c := &Configuration{}
	for _, configurator := range configurators {
		if err := configurator(c); err != nil {
			return err
		}
	}

	if len(c.steps) == 0 {
		return errors.New("no steps declared")
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for _, svc := range c.services {
			spawn(svc.Name, svc.OnExit, svc.TaskFn)
		}
		spawn("sequence", parallel.Exit, func(ctx context.Context) error {
			return c.runSequence(ctx)
		})
		return nil
	})
}

func (c *Configuration) runSequence(ctx context.Context) error {
	log := logger.Get(ctx)

	state := &State{
		Params:           c.params,
		NetworkAvailable: c.networkAvailable,
		TargetDir:        c.targetDir,
		emit:             c.emitFn(),
	}

	total := c.offset + len(c.steps)
	for i, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		ordinal := c.offset + i + 1

		// The UI frontend tracks progress by reading these ordinals.
		fmt.Printf("%d\n", ordinal)

		state.Emit(Event{Ordinal: ordinal, Total: total, Step: step.Name})
		log.Info("Step started", zap.Int("ordinal", ordinal), zap.String("step", step.Name))

		started := time.Now()
		if err := step.Fn(ctx, state); err != nil {
			err = errors.Wrapf(err, "step %q failed", step.Name)
			state.Emit(Event{
				Ordinal: ordinal,
				Total:   total,
				Step:    step.Name,
				Final:   true,
				Code:    CodeFailure,
				Error:   err.Error(),
			})
			log.Error("Step failed", zap.Int("ordinal", ordinal), zap.String("step", step.Name),
				zap.Error(err))
			return err
		}

		log.Info("Step finished", zap.Int("ordinal", ordinal), zap.String("step", step.Name),
			zap.Duration("took", time.Since(started)))
	}

	state.Emit(Event{Ordinal: total, Total: total, Final: true, Code: CodeSuccess})
	log.Info("Sequence finished")

	return nil
}

func (c *Configuration) emitFn() func(Event) {
	reporters := c.reporters
	return func(e Event) {
		for _, r := range reporters {
			r(e)
		}
	}
}
