package main

import (
	"strings"
	"testing"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

func TestRenderEvent(t *testing.T) {
	line := RenderEvent(domain.NewEvent(domain.SeveritySuccess, 5, "Application hosted successfully at: https://abcd1234.ngrok-provider.io"))
	if !strings.Contains(line, "[5/5]") || !strings.Contains(line, "https://abcd1234.ngrok-provider.io") {
		t.Fatalf("unexpected line %q", line)
	}

	untagged := RenderEvent(domain.NewEvent(domain.SeverityInfo, 0, "Cleaning up..."))
	if strings.Contains(untagged, "[") {
		t.Fatalf("untagged event rendered a step: %q", untagged)
	}
}
