package agent

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"medtracker/internal/domain/reminder"
	"medtracker/internal/i18n"
)

// TerminalDeliverer печатает напоминание в терминал.
type TerminalDeliverer struct {
	mu  sync.Mutex
	out io.Writer
	loc *i18n.Locale
}

func NewTerminalDeliverer(out io.Writer, loc *i18n.Locale) *TerminalDeliverer {
	return &TerminalDeliverer{out: out, loc: loc}
}

func (t *TerminalDeliverer) Deliver(_ context.Context, r reminder.Reminder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	title := color.New(color.FgHiMagenta, color.Bold).Sprint(r.Title)
	at := color.New(color.FgHiBlack).Sprint(t.loc.Clock(r.FireAt.Local()))

	if _, err := fmt.Fprintf(t.out, "%s %s\n  %s\n", at, title, r.Body); err != nil {
		return err
	}
	if r.Payload.URL != "" {
		if _, err := fmt.Fprintf(t.out, "  %s\n", color.CyanString(r.Payload.URL)); err != nil {
			return err
		}
	}
	return nil
}
