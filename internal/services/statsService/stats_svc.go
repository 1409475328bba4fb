// Package statsService reports the five dashboard metrics. Each reporter
// picks the right command for the active platform, runs it through the
// shared Runner, and parses the text output.
//
// Hard contract: a reporter never lets a failure escape. Missing tool,
// non-zero exit, garbage output -- the reporter logs it and returns the
// Unavailable sentinel so the other metrics still render.
package statsService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/redclay/hostdash/internal/constants"
	"github.com/redclay/hostdash/internal/services/execService"
	platformservice "github.com/redclay/hostdash/internal/services/platformService"
)

// Unavailable is the sentinel value a reporter returns when its metric
// can not be obtained. Part of the contract, not an error state.
const Unavailable = "N/A"

// SystemStats is the full stats payload. Every field is independently
// obtained; one failed reporter never blanks the others.
type SystemStats struct {
	Uptime      string `json:"uptime"`
	Temperature string `json:"temperature"`
	CPUUsage    string `json:"cpuUsage"`
	MemoryUsage string `json:"memoryUsage"`
	DiskUsage   string `json:"diskUsage"`
}

// Collector gathers SystemStats for one detected platform profile.
type Collector struct {
	profile platformservice.Profile
	runner  execService.Runner
	log     *slog.Logger
}

func NewCollector(profile platformservice.Profile, runner execService.Runner, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{profile: profile, runner: runner, log: log}
}

// Collect gathers all five metrics concurrently.
func (c *Collector) Collect(ctx context.Context) SystemStats {
	var stats SystemStats
	var wg sync.WaitGroup

	collect := func(dst *string, fn func(context.Context) string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = fn(ctx)
		}()
	}

	collect(&stats.Uptime, c.Uptime)
	collect(&stats.Temperature, c.Temperature)
	collect(&stats.CPUUsage, c.CPUUsage)
	collect(&stats.MemoryUsage, c.MemoryUsage)
	collect(&stats.DiskUsage, c.DiskUsage)

	wg.Wait()
	return stats
}

// Uptime reports a human-readable uptime string. Standard Linux gets the
// pretty form from `uptime -p`; busybox/toybox platforms return the raw
// summary line.
func (c *Collector) Uptime(ctx context.Context) string {
	out, err := c.run(ctx, constants.OpUptime)
	if err != nil {
		return c.unavailable("uptime", err)
	}
	text := strings.TrimSpace(out)
	if text == "" {
		return c.unavailable("uptime", errEmptyOutput)
	}
	return text
}

// Temperature reports the system temperature in degrees Celsius. On
// standard Linux and Alpine this reads the thermal zone pseudo-file in
// millidegrees; on Termux it comes from termux-battery-status, which
// reports whole degrees already (assumed Celsius, no conversion).
func (c *Collector) Temperature(ctx context.Context) string {
	cmd, ok := constants.CommandFor(constants.OpTemperature, c.profile.Platform)
	if !ok {
		return c.unavailable("temperature", errNoCommand)
	}
	if c.profile.Platform != constants.PlatformTermux {
		cmd = cmd.WithArgs(c.profile.ThermalZonePath())
	}

	out, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return c.unavailable("temperature", err)
	}

	var value string
	if c.profile.Platform == constants.PlatformTermux {
		value, err = parseBatteryTemperature(out)
	} else {
		value, err = parseThermalZone(out)
	}
	if err != nil {
		return c.unavailable("temperature", err)
	}
	return value
}

// CPUUsage reports overall CPU usage as a percentage string. The summary
// line of `top -bn1` differs between the three platforms, so parsing is
// platform-dispatched.
func (c *Collector) CPUUsage(ctx context.Context) string {
	out, err := c.run(ctx, constants.OpCPU)
	if err != nil {
		return c.unavailable("cpu", err)
	}
	usage, err := parseTopCPU(c.profile.Platform, out)
	if err != nil {
		return c.unavailable("cpu", err)
	}
	return fmt.Sprintf("%.1f%%", usage)
}

// MemoryUsage reports "<used>/<total>MB (<percent>%)" from `free -m`.
// Platform-uniform.
func (c *Collector) MemoryUsage(ctx context.Context) string {
	out, err := c.run(ctx, constants.OpMemory)
	if err != nil {
		return c.unavailable("memory", err)
	}
	value, err := parseFreeMemory(out)
	if err != nil {
		return c.unavailable("memory", err)
	}
	return value
}

// DiskUsage reports "<used>/<total> (<percent>%)" for the root
// filesystem from `df -h /`. Platform-uniform.
func (c *Collector) DiskUsage(ctx context.Context) string {
	out, err := c.run(ctx, constants.OpDisk)
	if err != nil {
		return c.unavailable("disk", err)
	}
	value, err := parseDiskUsage(out)
	if err != nil {
		return c.unavailable("disk", err)
	}
	return value
}

func (c *Collector) run(ctx context.Context, op constants.Operation) (string, error) {
	cmd, ok := constants.CommandFor(op, c.profile.Platform)
	if !ok {
		return "", errNoCommand
	}
	return c.runner.Run(ctx, cmd)
}

func (c *Collector) unavailable(metric string, err error) string {
	c.log.Debug("metric unavailable", "metric", metric, "platform", c.profile.Platform, "error", err)
	return Unavailable
}
