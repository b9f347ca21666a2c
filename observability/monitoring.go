package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitoringStats aggregates the counters served by the inspect
// endpoint.
type MonitoringStats struct {
	MessagesSent    uint64  `json:"messages_sent"`
	AccountsCreated uint64  `json:"accounts_created"`
	GroupsCreated   uint64  `json:"groups_created"`
	RequestsServed  uint64  `json:"requests_served"`
	RequestsFailed  uint64  `json:"requests_failed"`
	AllocMemMb      uint64  `json:"alloc_mem_mb"`
	NumGC           uint32  `json:"num_gc"`
	ProcessCPUPct   float64 `json:"process_cpu_pct"`
	ProcessRSSMb    uint64  `json:"process_rss_mb"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// MonitoringManager collects counters from the hot paths without
// blocking them. Writers touch atomics only; the snapshot is rebuilt on
// a ticker.
type MonitoringManager struct {
	log     *slog.Logger
	started time.Time

	messagesSent    uint64
	accountsCreated uint64
	groupsCreated   uint64
	requestsServed  uint64
	requestsFailed  uint64

	mu     sync.RWMutex
	latest MonitoringStats
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, started: time.Now()}
}

func (mm *MonitoringManager) IncrMessagesSent()    { atomic.AddUint64(&mm.messagesSent, 1) }
func (mm *MonitoringManager) IncrAccountsCreated() { atomic.AddUint64(&mm.accountsCreated, 1) }
func (mm *MonitoringManager) IncrGroupsCreated()   { atomic.AddUint64(&mm.groupsCreated, 1) }
func (mm *MonitoringManager) IncrRequestsServed()  { atomic.AddUint64(&mm.requestsServed, 1) }
func (mm *MonitoringManager) IncrRequestsFailed()  { atomic.AddUint64(&mm.requestsFailed, 1) }

// Listen refreshes the snapshot every second until the context ends.
func (mm *MonitoringManager) Listen(ctx context.Context) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		mm.log.Warn("process stats unavailable", "error", err)
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mm.log.Info("monitoring manager stopped")
			return
		case <-ticker.C:
			mm.updateStats(proc)
		}
	}
}

func (mm *MonitoringManager) updateStats(proc *process.Process) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := MonitoringStats{
		MessagesSent:    atomic.LoadUint64(&mm.messagesSent),
		AccountsCreated: atomic.LoadUint64(&mm.accountsCreated),
		GroupsCreated:   atomic.LoadUint64(&mm.groupsCreated),
		RequestsServed:  atomic.LoadUint64(&mm.requestsServed),
		RequestsFailed:  atomic.LoadUint64(&mm.requestsFailed),
		AllocMemMb:      m.Alloc / 1024 / 1024,
		NumGC:           m.NumGC,
		UptimeSeconds:   time.Since(mm.started).Seconds(),
	}

	if proc != nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			stats.ProcessCPUPct = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil {
			stats.ProcessRSSMb = mem.RSS / 1024 / 1024
		}
	}

	mm.mu.Lock()
	mm.latest = stats
	mm.mu.Unlock()
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest
}

// AsMap feeds the inspect page's stats table.
func (mm *MonitoringManager) AsMap() map[string]any {
	stats := mm.GetLatest()
	return map[string]any{
		"MessagesSent":    stats.MessagesSent,
		"AccountsCreated": stats.AccountsCreated,
		"GroupsCreated":   stats.GroupsCreated,
		"RequestsServed":  stats.RequestsServed,
		"RequestsFailed":  stats.RequestsFailed,
		"AllocMemMb":      stats.AllocMemMb,
		"ProcessCPUPct":   stats.ProcessCPUPct,
		"ProcessRSSMb":    stats.ProcessRSSMb,
	}
}
