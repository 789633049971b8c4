package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/aretw0/convoy/internal/presentation/tui"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/runner"
)

// RunChat starts the interactive chat loop: read one input, drive the
// turn, render the reply, repeat until EOF or exit.
func RunChat(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !opts.JSON
	if interactive {
		tui.PrintBanner()
	}

	handler := buildHandler(opts, interactive)
	app, err := BuildApp(opts, logger, runner.WithHandler(handler))
	if err != nil {
		return err
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sm := runner.NewSignalManager()
	defer sm.Stop()

	if opts.Fresh {
		if err := app.Sessions.Delete(sm.Context(), sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			logger.Warn("session reset failed", "session_id", sessionID, "err", err)
		}
	}

	if interactive {
		printSystemMessage("Session '%s' active. Type 'exit' to quit.", sessionID)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if interactive {
				fmt.Println()
			}
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			if interactive {
				printSystemMessage("Bye!")
			}
			return nil
		}

		report, err := app.Runner.Turn(sm.Context(), sessionID, input)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				if interactive {
					fmt.Println()
					printSystemMessage("Interrupted.")
				}
				sm.Reset()
				continue
			}
			printSystemMessage("Turn failed: %v", err)
			continue
		}
		if report.Status == domain.TurnAborted && interactive {
			printSystemMessage("Turn aborted after %d steps.", report.Steps)
		}
	}
}

func buildHandler(opts RunOptions, interactive bool) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(os.Stdout)
	}
	h := runner.NewTextHandler(os.Stdout)
	if interactive {
		h.Renderer = tui.NewRenderer()
	}
	return h
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}
