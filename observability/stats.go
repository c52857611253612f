package observability

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

// Stats aggregates process and store metrics for the debug endpoint.
type Stats struct {
	AllocMemMb   uint64  `json:"alloc_mem_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	CPUPercent   float64 `json:"cpu_percent"`
	RSSMb        uint64  `json:"rss_mb"`
	LSMSizeBytes int64   `json:"lsm_size_bytes"`
	VLogBytes    int64   `json:"vlog_size_bytes"`
	CollectedAt  string  `json:"collected_at"`
}

// Collector samples the running process and the Badger store.
type Collector struct {
	log  *slog.Logger
	db   *badger.DB
	proc *process.Process
}

func NewCollector(log *slog.Logger, db *badger.DB) *Collector {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process metrics unavailable", "err", err)
		p = nil
	}
	return &Collector{log: log, db: db, proc: p}
}

// Collect returns a point-in-time snapshot. Failures of individual probes
// leave the corresponding fields at zero.
func (c *Collector) Collect() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := Stats{
		AllocMemMb:  m.Alloc / 1024 / 1024,
		NumGC:       m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if c.proc != nil {
		if cpu, err := c.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
		if mem, err := c.proc.MemoryInfo(); err == nil {
			stats.RSSMb = mem.RSS / 1024 / 1024
		}
	}

	if c.db != nil {
		stats.LSMSizeBytes, stats.VLogBytes = c.db.Size()
	}
	return stats
}
