// Package notify delivers user-facing success, warning and error messages
// for scorecard edits.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/qualitymap/internal/scorecard"
)

// Notifier is the notification surface used by the edit commands.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// Console prints one styled line per notification.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// NewConsole writes to out, normally os.Stderr.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (c *Console) Success(msg string) { c.print(c.success, "✓", msg) }
func (c *Console) Warning(msg string) { c.print(c.warning, "!", msg) }
func (c *Console) Error(msg string)   { c.print(c.failure, "✘", msg) }

func (c *Console) print(style lipgloss.Style, icon, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", style.Render(icon), msg)
}

// Level is a notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Warning(msg string) { r.add(LevelWarning, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: l, Text: msg})
}

// Last returns the most recent message, or the zero Message.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[len(r.Messages)-1]
}

// Report routes err to the matching level: precondition failures are
// warnings, everything else is an error. A nil err reports success with ok.
func Report(n Notifier, err error, ok string) {
	switch {
	case err == nil:
		if ok != "" {
			n.Success(ok)
		}
	case scorecard.IsWarning(err):
		n.Warning(message(err))
	default:
		n.Error(message(err))
	}
}

func message(err error) string {
	var se *scorecard.Error
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
