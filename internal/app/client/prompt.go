package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"medtracker/internal/infrastructure/storage/sqlite"
)

// ErrNoTerminal - спросить разрешение не у кого.
var ErrNoTerminal = errors.New("stdin is not a terminal, cannot ask for notification permission")

// TerminalPrompter спрашивает у пользователя разрешение на уведомления.
// Ответ "y" или "yes" означает согласие, все остальное - отказ.
func TerminalPrompter(in *os.File, out io.Writer) sqlite.Prompter {
	return func(ctx context.Context) (bool, error) {
		if !term.IsTerminal(int(in.Fd())) {
			return false, ErrNoTerminal
		}
		return askYesNo(ctx, in, out, "Allow medication reminders? [y/N]: ")
	}
}

func askYesNo(ctx context.Context, in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprint(out, question); err != nil {
		return false, err
	}

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
