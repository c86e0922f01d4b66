package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/snapbasket/snapbasket/internal/logger"
)

func TestToastNotifier(t *testing.T) {
	var lines []string
	n := NewToastNotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	if err := n.Notify(context.Background(), "tomato added"); err != nil {
		t.Fatal(err)
	}
	if err := n.NotifyUrgent(context.Background(), "backend offline"); err != nil {
		t.Fatal(err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "✓") || !strings.Contains(lines[0], "tomato added") {
		t.Errorf("success toast = %q", lines[0])
	}
	if !strings.Contains(lines[1], "⚠") || !strings.Contains(lines[1], "backend offline") {
		t.Errorf("alert toast = %q", lines[1])
	}
}
