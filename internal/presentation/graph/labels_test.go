package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ValidateOrder", []string{"Validate", "Order"}},
		{"validateOrder", []string{"validate", "Order"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"sendHTTPRequest", []string{"send", "HTTP", "Request"}},
		{"charge_credit_card", []string{"charge", "credit", "card"}},
		{"Step2Run", []string{"Step2", "Run"}},
		{"API", []string{"API"}},
		{"Withdraw", []string{"Withdraw"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWords(tt.in))
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "Validate Order", Display("validateOrder", true))
	assert.Equal(t, "Send HTTP Request", Display("send_HTTP_request", true))
	assert.Equal(t, "validateOrder", Display("validateOrder", false))
	assert.Equal(t, "Withdraw", Display("Withdraw", true))
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "path_to_file_md", sanitizeMermaidID("path/to/file.md"))
	assert.Equal(t, "hyphen_ated", sanitizeMermaidID("hyphen-ated"))
	assert.Equal(t, "Activities_Charge", sanitizeMermaidID("Activities.Charge"))
}
