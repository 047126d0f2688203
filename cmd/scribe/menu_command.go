package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/editor"
	"scribe/internal/retrieval"
	"scribe/internal/versionstore"
	"scribe/internal/workflow"
)

var menuOptions = []string{
	"Scrape and process new content",
	"Continue processing existing content",
	"Retrieve and view previous versions",
	"Exit",
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu over ingest, resume, and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *versionstore.Store) error {
				mgr, err := ctx.newManager(cmd, store)
				if err != nil {
					return err
				}
				m := &menu{
					out:         cmd.OutOrStdout(),
					prompt:      editor.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
					manager:     mgr,
					retriever:   retrieval.New(store),
					previewSize: ctx.configValue().Workflow.PreviewChars,
				}
				return m.loop(cmd.Context())
			})
		},
	}
}

type menu struct {
	out         io.Writer
	prompt      *editor.Prompter
	manager     *workflow.Manager
	retriever   *retrieval.Retriever
	previewSize int
}

func (m *menu) loop(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, "\n=== Automated Book Reviewer System ===")
		choice, err := m.prompt.Choose("Choose an option:", menuOptions)
		if err != nil {
			return quietEOF(err)
		}
		switch choice {
		case 1:
			err = m.ingest(ctx)
		case 2:
			err = m.resume(ctx)
		case 3:
			err = m.browse(ctx)
		default:
			fmt.Fprintln(m.out, "Goodbye.")
			return nil
		}
		if err != nil {
			if errors.Is(err, editor.ErrInputClosed) || errors.Is(err, context.Canceled) {
				return quietEOF(err)
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func quietEOF(err error) error {
	if errors.Is(err, editor.ErrInputClosed) {
		return nil
	}
	return err
}

func (m *menu) ingest(ctx context.Context) error {
	url, err := m.prompt.Ask("Enter the URL to scrape", "")
	if err != nil {
		return err
	}
	if url == "" {
		fmt.Fprintln(m.out, "A URL is required.")
		return nil
	}
	label, err := m.prompt.Ask("Enter chapter label (blank uses the page title)", "")
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nStarting AI processing...")
	result, err := m.manager.Ingest(ctx, url, label)
	printResult(m.out, result, err)
	return err
}

func (m *menu) resume(ctx context.Context) error {
	url, err := m.prompt.Ask("Enter the URL of the content to continue", "")
	if err != nil {
		return err
	}
	if url == "" {
		fmt.Fprintln(m.out, "A URL is required.")
		return nil
	}
	result, err := m.manager.Resume(ctx, url)
	printResult(m.out, result, err)
	return err
}

func (m *menu) browse(ctx context.Context) error {
	url, err := m.prompt.Ask("Enter URL to filter by (blank for all)", "")
	if err != nil {
		return err
	}
	versions, err := m.retriever.History(ctx, url)
	if err != nil {
		return err
	}
	renderVersionTable(m.out, versions)
	if len(versions) == 0 {
		return nil
	}

	answer, err := m.prompt.Ask("Enter the number of the version to view (blank to go back)", "")
	if err != nil || answer == "" {
		return err
	}
	index, convErr := strconv.Atoi(strings.TrimSpace(answer))
	if convErr != nil || index < 1 || index > len(versions) {
		fmt.Fprintf(m.out, "Please enter a number between 1 and %d\n", len(versions))
		return nil
	}
	selected := versions[index-1]
	printVersion(m.out, selected, m.previewSize, false)

	full, err := m.prompt.Confirm("View full content?")
	if err != nil {
		return err
	}
	if full {
		fmt.Fprintln(m.out, selected.Content)
	}
	edit, err := m.prompt.Confirm("Open in editor for modifications?")
	if err != nil || !edit {
		return err
	}
	result, err := m.manager.Branch(ctx, selected.ID)
	printResult(m.out, result, err)
	return err
}
