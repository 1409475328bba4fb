package statsService

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redclay/hostdash/internal/constants"
)

var (
	errNoCommand   = errors.New("statsService: no command for platform")
	errEmptyOutput = errors.New("statsService: empty command output")
)

// parseThermalZone converts raw thermal-zone millidegrees ("48000") into
// a one-decimal Celsius string.
func parseThermalZone(out string) (string, error) {
	raw := strings.TrimSpace(out)
	milli, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("statsService: bad thermal zone value %q: %w", raw, err)
	}
	return fmt.Sprintf("%.1f°C", float64(milli)/1000), nil
}

// parseBatteryTemperature extracts the temperature field from
// termux-battery-status JSON. The value is taken as already being in
// degrees Celsius; only the unit suffix is appended.
func parseBatteryTemperature(out string) (string, error) {
	var status struct {
		Temperature float64 `json:"temperature"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &status); err != nil {
		return "", fmt.Errorf("statsService: bad battery status: %w", err)
	}
	return fmt.Sprintf("%.1f°C", status.Temperature), nil
}

// parseTopCPU extracts overall CPU usage from the summary line of
// `top -bn1`. The line format differs per platform:
//
//	standard: "%Cpu(s):  5.3 us,  1.2 sy, ... 92.1 id, ..."
//	alpine:   "CPU:   3% usr   2% sys   0% nic  93% idle ..."  (busybox)
//	termux:   "800%cpu 33%user 0%nice 66%sys 699%idle ..."     (toybox)
func parseTopCPU(platform constants.Platform, out string) (float64, error) {
	switch platform {
	case constants.PlatformAlpine:
		return parseBusyboxCPU(out)
	case constants.PlatformTermux:
		return parseToyboxCPU(out)
	default:
		return parseProcpsCPU(out)
	}
}

func parseProcpsCPU(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Cpu(s)") {
			continue
		}
		// idle is the token just before "id"
		fields := strings.Fields(line)
		for i, f := range fields {
			if strings.HasPrefix(f, "id") && i > 0 {
				idle, err := strconv.ParseFloat(strings.TrimSuffix(fields[i-1], ","), 64)
				if err != nil {
					return 0, fmt.Errorf("statsService: bad idle token %q: %w", fields[i-1], err)
				}
				return clampPercent(100 - idle), nil
			}
		}
	}
	return 0, errors.New("statsService: no Cpu(s) summary line")
}

func parseBusyboxCPU(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "CPU:") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "idle" && i > 0 {
				idle, err := strconv.ParseFloat(strings.TrimSuffix(fields[i-1], "%"), 64)
				if err != nil {
					return 0, fmt.Errorf("statsService: bad idle token %q: %w", fields[i-1], err)
				}
				return clampPercent(100 - idle), nil
			}
		}
	}
	return 0, errors.New("statsService: no CPU summary line")
}

// parseToyboxCPU handles toybox top, where the summary tokens are fused
// ("699%idle") and scaled by core count ("800%cpu").
func parseToyboxCPU(out string) (float64, error) {
	var total, idle float64
	var haveTotal, haveIdle bool

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "%idle") {
			continue
		}
		for _, f := range strings.Fields(line) {
			if v, ok := fusedPercent(f, "%cpu"); ok {
				total, haveTotal = v, true
			}
			if v, ok := fusedPercent(f, "%idle"); ok {
				idle, haveIdle = v, true
			}
		}
		break
	}
	if !haveTotal || !haveIdle || total <= 0 {
		return 0, errors.New("statsService: no toybox cpu summary line")
	}
	return clampPercent((total - idle) / total * 100), nil
}

func fusedPercent(token, suffix string) (float64, bool) {
	if !strings.HasSuffix(token, suffix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(token, suffix), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFreeMemory builds "<used>/<total>MB (<percent>%)" from `free -m`.
func parseFreeMemory(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "Mem:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return "", fmt.Errorf("statsService: short Mem line %q", line)
		}
		total, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("statsService: bad total %q: %w", fields[1], err)
		}
		used, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return "", fmt.Errorf("statsService: bad used %q: %w", fields[2], err)
		}
		if total <= 0 {
			return "", fmt.Errorf("statsService: non-positive total %d", total)
		}
		pct := float64(used) / float64(total) * 100
		return fmt.Sprintf("%d/%dMB (%.1f%%)", used, total, pct), nil
	}
	return "", errors.New("statsService: no Mem line")
}

// parseDiskUsage builds "<used>/<total> (<percent>%)" from `df -h /`.
func parseDiskUsage(out string) (string, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return "", errors.New("statsService: short df output")
	}
	// header row first, then the root filesystem row
	fields := strings.Fields(lines[1])
	if len(fields) < 5 {
		return "", fmt.Errorf("statsService: short df row %q", lines[1])
	}
	size, used, pct := fields[1], fields[2], strings.TrimSuffix(fields[4], "%")
	return fmt.Sprintf("%s/%s (%s%%)", used, size, pct), nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
