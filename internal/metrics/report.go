package metrics

import (
	"fmt"
	"strings"
	"time"
)

// FormatReport renders daily usage and process health as plain text.
func FormatReport(usage []DailyUsage, health Health) string {
	var sb strings.Builder
	sb.WriteString("📊 Usage (last 7 days)\n")
	if len(usage) == 0 {
		sb.WriteString("No generations recorded.\n")
	}
	for _, u := range usage {
		fmt.Fprintf(&sb, "%s: %d plans, %d prompt / %d completion tokens, avg %dms\n",
			u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion, u.AvgLatencyMS)
	}

	sb.WriteString("\n🖥 System\n")
	fmt.Fprintf(&sb, "Uptime: %s\n", health.Uptime.Truncate(time.Second))
	fmt.Fprintf(&sb, "Memory: %d MB heap, %d MB sys\n", health.HeapMB, health.SysMB)
	fmt.Fprintf(&sb, "GC runs: %d\n", health.NumGC)
	fmt.Fprintf(&sb, "Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "Database: %s\n", formatBytes(health.DatabaseBytes))
	if health.ActiveSessions >= 0 {
		fmt.Fprintf(&sb, "Active chats: %d\n", health.ActiveSessions)
	}
	return sb.String()
}
