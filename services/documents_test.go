package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"police_report-march.pdf", "Police Report March"},
		{"MRI scan 2026.jpeg", "Mri Scan 2026"},
		{"demand-letter.final.docx", "Demand Letter Final"},
		{"...", "Untitled Document"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayTitle(tt.filename), tt.filename)
	}
}
