package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"dass/pkg/runtime"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemInfo struct {
	Host interface{} `json:"host,omitempty"`
	Cpus interface{} `json:"cpus,omitempty"`
	Mem  interface{} `json:"mem,omitempty"`
	Disk interface{} `json:"disk,omitempty"`
}

type HostInfo struct {
	Hostname        string `json:"hostname"`
	Os              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	KernelArch      string `json:"kernelArch"`
	UptimeSeconds   uint64 `json:"uptimeSeconds"`
}

type MemUsageInfo struct {
	Total       string `json:"total"`
	Used        string `json:"used"`
	UsedPercent string `json:"usedPercent"`
}

type DiskUsageInfo struct {
	Path        string `json:"path"`
	Total       string `json:"total"`
	Used        string `json:"used"`
	UsedPercent string `json:"usedPercent"`
}

func getSystemInfo(logDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		hi, err := host.Info()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		percents, err := cpu.Percent(0, true)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		vm, err := mem.VirtualMemory()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		du, err := disk.Usage(logVolume(logDir))
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		info := SystemInfo{
			Host: HostInfo{
				Hostname:        hi.Hostname,
				Os:              hi.OS,
				Platform:        hi.Platform,
				PlatformVersion: hi.PlatformVersion,
				KernelArch:      hi.KernelArch,
				UptimeSeconds:   hi.Uptime,
			},
			Cpus: percents,
			Mem: MemUsageInfo{
				Total:       formatBytes(vm.Total),
				Used:        formatBytes(vm.Used),
				UsedPercent: fmt.Sprintf("%.1f%%", vm.UsedPercent),
			},
			Disk: DiskUsageInfo{
				Path:        du.Path,
				Total:       formatBytes(du.Total),
				Used:        formatBytes(du.Used),
				UsedPercent: fmt.Sprintf("%.1f%%", du.UsedPercent),
			},
		}
		c.JSON(http.StatusOK, runtime.ResponseModel{System: info})
	}
}

// logVolume resolves the volume the log directory lives on. The
// directory itself is created lazily on the first session, so fall back
// to the nearest existing ancestor.
func logVolume(logDir string) string {
	p, err := filepath.Abs(logDir)
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}
