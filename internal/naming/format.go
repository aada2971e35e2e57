package naming

import (
	"fmt"
	"strings"
	"time"
)

// FileKindFor classifies a file name by extension for display.
func FileKindFor(name string) string {
	ext := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = name[i+1:]
	}

	switch strings.ToLower(ext) {
	case "pdf":
		return "pdf"
	case "jpg", "jpeg", "png", "gif":
		return "image"
	case "doc", "docx":
		return "document"
	case "xls", "xlsx":
		return "spreadsheet"
	default:
		return "file"
	}
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count as "512 B", "1.5 KB", "2.0 GB".
// Anything past gigabytes stays in GB.
func FormatSize(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%.0f %s", size, sizeUnits[unit])
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}

// FormatAge renders t relative to now: "Today", "Yesterday", "3 days ago",
// or a calendar date once a week has passed.
func FormatAge(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Local().Format("2006-01-02")
	}
}
