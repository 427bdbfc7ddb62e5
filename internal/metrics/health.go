package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

var processStart = time.Now()

// databaseFiles are the suffixes SQLite uses next to the main database file.
var databaseFiles = []string{"", "-wal", "-shm", "-journal"}

// Health is a snapshot of the planner process and its database.
type Health struct {
	HeapMB        uint64
	SysMB         uint64
	NumGC         uint32
	Goroutines    int
	Uptime        time.Duration
	DatabaseBytes int64
	// ActiveSessions is the number of chats with state in memory, or -1 when
	// the caller keeps no sessions.
	ActiveSessions int
}

// CollectHealth reads runtime stats and the on-disk size of the database at
// dbPath. A missing database counts as zero bytes.
func CollectHealth(dbPath string, activeSessions int) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Health{
		HeapMB:         m.HeapAlloc >> 20,
		SysMB:          m.Sys >> 20,
		NumGC:          m.NumGC,
		Goroutines:     runtime.NumGoroutine(),
		Uptime:         time.Since(processStart),
		DatabaseBytes:  databaseSize(dbPath),
		ActiveSessions: activeSessions,
	}
}

func databaseSize(dbPath string) int64 {
	if dbPath == "" || dbPath == ":memory:" {
		return 0
	}
	var total int64
	for _, suffix := range databaseFiles {
		info, err := os.Stat(dbPath + suffix)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		total += info.Size()
	}
	return total
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
