// Package commandService validates and dispatches the service lifecycle
// actions exposed at /api/system/command.
package commandService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redclay/hostdash/internal/constants"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

// ErrInvalidAction rejects anything outside the recognized action set
// before any execution happens. Surfaced as a 400 at the HTTP boundary.
var ErrInvalidAction = errors.New("commandService: invalid action")

// Action is one recognized lifecycle action.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// ParseAction validates a raw action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionStart, ActionStop, ActionRestart:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Recorder receives an audit entry for every accepted action. Satisfied
// by auditService; may be nil.
type Recorder interface {
	Record(ctx context.Context, kind, subject string, ok bool, detail string) error
}

// Dispatcher maps validated actions to their platform invocation.
//
// The invocation is currently an acknowledgment placeholder on all three
// platforms; wiring real service-manager calls in is an intentional seam,
// kept behind the same table-driven dispatch as everything else.
type Dispatcher struct {
	profile platformservice.Profile
	runner  execService.Runner
	audit   Recorder
	log     *slog.Logger
}

func NewDispatcher(profile platformservice.Profile, runner execService.Runner, audit Recorder, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{profile: profile, runner: runner, audit: audit, log: log}
}

// Execute runs one lifecycle action. Validation failures return
// ErrInvalidAction without touching the executor; execution failures
// propagate.
func (d *Dispatcher) Execute(ctx context.Context, raw string) error {
	action, err := ParseAction(raw)
	if err != nil {
		return err
	}

	cmd, ok := constants.CommandFor(constants.OpLifecycle, d.profile.Platform)
	if !ok {
		return fmt.Errorf("commandService: no lifecycle command for platform %s", d.profile.Platform)
	}
	cmd = cmd.WithArgs(string(action))

	d.log.Info("dispatching lifecycle action", "action", string(action), "platform", d.profile.Platform)
	_, runErr := d.runner.Run(ctx, cmd)
	d.recordAudit(ctx, action, runErr)
	if runErr != nil {
		return fmt.Errorf("commandService: %s: %w", action, runErr)
	}
	return nil
}

func (d *Dispatcher) recordAudit(ctx context.Context, action Action, runErr error) {
	if d.audit == nil {
		return
	}
	detail := ""
	if runErr != nil {
		detail = runErr.Error()
	}
	if err := d.audit.Record(ctx, "lifecycle", string(action), runErr == nil, detail); err != nil {
		d.log.Warn("audit record failed", "action", string(action), "error", err)
	}
}
