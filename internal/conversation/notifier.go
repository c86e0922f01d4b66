package conversation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*ToastNotifier)(nil)

// Toast styles match the soft palette the rest of the prompt uses: mint
// for confirmations, coral for alerts.
var (
	toastOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)
	toastAlertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// ToastNotifier prints short transient confirmations above the prompt,
// standing in for the toast popups of a graphical client.
type ToastNotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewToastNotifier creates a prompt-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewToastNotifier(log *logger.Logger, printFn PrintFunc) *ToastNotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &ToastNotifier{log: log, printFn: printFn}
}

// Notify prints a success toast.
func (n *ToastNotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("toast: %s", message)
	n.printFn("%s", toastOKStyle.Render("✓ "+message))
	return nil
}

// NotifyUrgent prints an alert toast.
func (n *ToastNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("toast-urgent: %s", message)
	n.printFn("%s", toastAlertStyle.Render("⚠ "+message))
	return nil
}
