package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUniqueFileName(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		existing  []string
		want      string
	}{
		{name: "free name unchanged", requested: "document.pdf", existing: nil, want: "document.pdf"},
		{name: "unrelated names", requested: "file.txt", existing: []string{"other.txt"}, want: "file.txt"},
		{name: "with extension", requested: "report.pdf", existing: []string{"report.pdf"}, want: "report (1).pdf"},
		{name: "without extension", requested: "document", existing: []string{"document"}, want: "document (1)"},
		{
			name:      "skips taken counters",
			requested: "file.txt",
			existing:  []string{"file.txt", "file (1).txt", "file (2).txt"},
			want:      "file (3).txt",
		},
		{
			name:      "gap is filled first",
			requested: "file.txt",
			existing:  []string{"file.txt", "file (2).txt"},
			want:      "file (1).txt",
		},
		{
			name:      "multiple dots split at the last one",
			requested: "my.file.backup.txt",
			existing:  []string{"my.file.backup.txt"},
			want:      "my.file.backup (1).txt",
		},
		{name: "trailing dot has no extension", requested: "notes.", existing: []string{"notes."}, want: "notes. (1)"},
		{name: "leading dot", requested: ".env", existing: []string{".env"}, want: " (1).env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateUniqueFileName(tt.requested, tt.existing))
		})
	}
}

func TestGenerateUniqueFileName_ResultIsFree(t *testing.T) {
	existing := []string{"a.pdf"}
	for i := 0; i < 20; i++ {
		got := GenerateUniqueFileName("a.pdf", existing)
		assert.NotContains(t, existing, got)
		existing = append(existing, got)
	}
	assert.Contains(t, existing, "a (20).pdf")
}
