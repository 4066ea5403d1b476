package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comigor/memoria/internal/chat"
	"github.com/comigor/memoria/internal/history"
	"github.com/comigor/memoria/internal/upload"
)

func readPassword(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func authCmd(a *app, use, short string, register bool) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			exchange := a.dash.Auth.Login
			if register {
				exchange = a.dash.Auth.Register
			}
			sess, err := exchange(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			msg := sess.Message
			if msg == "" {
				msg = "Signed in"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	return authCmd(a, "register", "Create an account and store its token", true)
}

func loginCmd(a *app) *cobra.Command {
	return authCmd(a, "login", "Sign in and store the token", false)
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dash.Auth.Logout()
		},
	}
}

func chatCmd(a *app) *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant a question about your documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []chat.Option
			if cmd.Flags().Changed("top-k") {
				opts = append(opts, chat.WithTopK(topK))
			}
			if _, err := a.dash.Chat.Send(cmd.Context(), strings.Join(args, " "), opts...); err != nil {
				msg, _ := a.dash.Chat.State().Message()
				return errors.New(msg)
			}
			reply, _ := a.dash.Chat.State().Payload()
			fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", chat.DefaultTopK, "number of document chunks to retrieve")
	return cmd
}

func uploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF, DOCX or TXT file into your memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), a.dash.Upload, args[0], cmd.OutOrStdout())
		},
	}
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your conversation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.dash.History.Fetch(cmd.Context()); err != nil {
				msg, _ := a.dash.History.State().Message()
				return errors.New(msg)
			}
			printHistory(cmd.OutOrStdout(), a.dash.History.Log().Messages())
			return nil
		},
	}
}

func printHistory(w io.Writer, msgs []history.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No conversation history yet.")
		return
	}
	for _, m := range msgs {
		who := "Assistant"
		if m.Role == history.RoleUser {
			who = "You"
		}
		stamp := ""
		if !m.CreatedAt.IsZero() {
			stamp = " (" + m.CreatedAt.Local().Format("2006-01-02 15:04") + ")"
		}
		fmt.Fprintf(w, "%s%s:\n%s\n\n", who, stamp, m.Text)
	}
}

func printUpload(w io.Writer, res upload.Result) {
	fmt.Fprintf(w, "Upload successful! Processed %d text chunks from your document.\n", res.IngestedChunks)
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
}

func runUpload(ctx context.Context, c *upload.Controller, path string, w io.Writer) error {
	var data io.Reader = strings.NewReader("")
	// validation happens before anything is read; only accepted files are opened
	if upload.Allowed(path) {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		data = f
	}

	res, err := c.SelectFile(ctx, &upload.File{Name: filepath.Base(path), Data: data})
	if err != nil {
		msg, _ := c.State().Message()
		return fmt.Errorf("upload failed: %s", msg)
	}
	printUpload(w, res)
	return nil
}
