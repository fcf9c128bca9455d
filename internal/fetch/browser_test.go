package fetch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseBrowser(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"whitespace only", strings.Repeat(" \n", 400), true},
		{"loading shell", "Loading...", true},
		{"just under threshold", strings.Repeat("a", MinContentLength-1), true},
		{"at threshold", strings.Repeat("a", MinContentLength), false},
		{"padded short text", "  " + strings.Repeat("a", 10) + strings.Repeat(" ", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldUseBrowser(tt.text))
		})
	}
}

func TestWithBrowser_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithBrowser(ctx, "http://127.0.0.1:0/", time.Second)
	assert.Error(t, err)
}
