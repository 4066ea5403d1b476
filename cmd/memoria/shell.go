package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/comigor/memoria/internal/dashboard"
	"github.com/comigor/memoria/internal/view"
)

const shellHelp = `Type a message to chat with your documents.
  /tab chat|files|history   switch view
  /upload <file>            upload a PDF, DOCX or TXT file
  /history                  show conversation history
  /refresh                  reload history from the server
  /clear                    clear the history shown in this session
  /quit                     exit`

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with chat, files and history views",
		RunE: func(cmd *cobra.Command, args []string) error {
			line := liner.NewLiner()
			line.SetCtrlCAborts(true)
			histFile := shellHistoryPath()
			if f, err := os.Open(histFile); err == nil {
				line.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.OpenFile(histFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
					line.WriteHistory(f)
					f.Close()
				}
				line.Close()
			}()

			sh := &shell{dash: a.dash, out: cmd.OutOrStdout()}
			fmt.Fprintln(sh.out, shellHelp)
			for {
				input, err := line.Prompt(fmt.Sprintf("memoria[%s]> ", a.dash.View.Active()))
				if err != nil {
					if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
						fmt.Fprintln(sh.out)
						return nil
					}
					return err
				}
				if strings.TrimSpace(input) != "" {
					line.AppendHistory(input)
				}
				if sh.handle(cmd.Context(), input) {
					return nil
				}
			}
		},
	}
}

func shellHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "memoria")
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "shell_history")
}

// shell interprets one input line at a time against the dashboard.
type shell struct {
	dash *dashboard.Dashboard
	out  io.Writer
}

// handle runs input and reports whether the session should end. Failures are
// printed, never returned: a failed request only ends that attempt.
func (s *shell) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if !strings.HasPrefix(input, "/") {
		s.send(ctx, input)
		return false
	}

	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, shellHelp)
	case "/tab":
		tab, err := view.ParseTab(arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.open(ctx, tab)
	case "/upload":
		if arg == "" {
			// nothing selected
			return false
		}
		s.open(ctx, view.TabFiles)
		if err := runUpload(ctx, s.dash.Upload, arg, s.out); err != nil {
			fmt.Fprintln(s.out, err)
		}
	case "/history":
		s.open(ctx, view.TabHistory)
	case "/refresh":
		if err := s.dash.History.Fetch(ctx); err != nil {
			msg, _ := s.dash.History.State().Message()
			fmt.Fprintln(s.out, msg)
			return false
		}
		printHistory(s.out, s.dash.History.Log().Messages())
	case "/clear":
		s.dash.History.ClearLocal()
		fmt.Fprintln(s.out, "History cleared for this session.")
	default:
		fmt.Fprintf(s.out, "unknown command %s (try /help)\n", cmd)
	}
	return false
}

func (s *shell) open(ctx context.Context, tab view.Tab) {
	if err := s.dash.Open(ctx, tab); err != nil {
		msg, _ := s.dash.History.State().Message()
		fmt.Fprintln(s.out, msg)
		return
	}
	if tab == view.TabHistory {
		printHistory(s.out, s.dash.History.Log().Messages())
	}
}

func (s *shell) send(ctx context.Context, message string) {
	if s.dash.View.Active() != view.TabChat {
		s.open(ctx, view.TabChat)
	}
	reply, err := s.dash.Chat.Send(ctx, message)
	if err != nil {
		msg, _ := s.dash.Chat.State().Message()
		fmt.Fprintln(s.out, msg)
		return
	}
	fmt.Fprintf(s.out, "%s\n\n", reply.Reply)
}
