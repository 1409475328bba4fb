package platformservice

import (
	"context"
	"os"
	"os/user"
	"runtime"

	"github.com/jackpal/gateway"
	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo holds general information about the current host. Served at
// /api/system/info and rendered by `hostdash show platform`.
type HostInfo struct {
	Hostname      string   `json:"hostname"`
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	Kernel        string   `json:"kernel"`
	Distribution  string   `json:"distribution"`
	UptimeSeconds uint64   `json:"uptimeSeconds"`
	TotalRAM      uint64   `json:"totalRam"`
	UsedRAM       uint64   `json:"usedRam"`
	CPUModel      string   `json:"cpuModel"`
	CPUVendor     string   `json:"cpuVendor"`
	CPUCores      int      `json:"cpuCores"`
	CPUThreads    int      `json:"cpuThreads"`
	Username      string   `json:"username"`
	HomeDir       string   `json:"homeDir"`
	GatewayIPs    []string `json:"gatewayIps"`
}

// GatherHostInfo collects host information. Individual probes are best
// effort; a failed probe leaves its field zero rather than failing the
// whole gather.
func GatherHostInfo(ctx context.Context) (HostInfo, error) {
	info := HostInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		CPUModel:   cpuid.CPU.BrandName,
		CPUVendor:  cpuid.CPU.VendorString,
		CPUCores:   cpuid.CPU.PhysicalCores,
		CPUThreads: cpuid.CPU.LogicalCores,
	}

	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hi.Hostname
		info.Kernel = hi.KernelVersion
		info.Distribution = hi.Platform + " " + hi.PlatformVersion
		info.UptimeSeconds = hi.Uptime
	} else if hn, herr := os.Hostname(); herr == nil {
		info.Hostname = hn
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalRAM = vm.Total
		info.UsedRAM = vm.Used
	}

	if u, err := user.Current(); err == nil {
		info.Username = u.Username
		info.HomeDir = u.HomeDir
	}

	info.GatewayIPs = discoverGateways()

	return info, nil
}

func discoverGateways() []string {
	var ips []string
	if gw, err := gateway.DiscoverGateway(); err == nil && gw != nil {
		ips = append(ips, gw.String())
	}
	return ips
}
