package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	pdfutil "github.com/dharsanguruparan/AkademIQ/internal/pdf"
)

func (a *app) limits() pdfutil.Limits {
	return pdfutil.Limits{MaxBytes: a.cfg.MaxFileSize, MaxPages: a.cfg.MaxPDFPages}
}

// documentID returns the current document or ErrNoDocument.
func (a *app) documentID() (string, error) {
	if a.session.DocumentID == "" {
		return "", client.ErrNoDocument
	}
	return a.session.DocumentID, nil
}

func newUploadCmd(a *app) *cobra.Command {
	var skipPreflight bool
	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF and make it the current document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !skipPreflight {
				rep, err := pdfutil.Check(path, a.limits())
				if err != nil {
					return a.fail(err)
				}
				a.printf("%s: %d pages, %s\n", rep.FileName, rep.Pages, humanBytes(rep.Size))
			}
			f, err := os.Open(path)
			if err != nil {
				return a.fail(err)
			}
			defer f.Close()

			a.printf("Uploading...\n")
			res, err := a.api.Upload(cmd.Context(), path, f)
			if err != nil {
				return a.fail(err)
			}
			a.session.DocumentID = res.DocumentID
			a.session.FileName = filepath.Base(path)
			if err := a.saveSession(); err != nil {
				return err
			}
			a.printf("Uploaded\n")
			a.printf("Document: %s (%d pages)\n", res.DocumentID, res.PageCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Send the file without local PDF checks")
	return cmd
}

func newDocumentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "List, select and preview documents",
	}
	var name string
	useCmd := &cobra.Command{
		Use:   "use <document-id>",
		Short: "Make a previously uploaded document current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.DocumentID = args[0]
			a.session.FileName = name
			if err := a.saveSession(); err != nil {
				return err
			}
			a.printf("Current document: %s\n", args[0])
			return nil
		},
	}
	useCmd.Flags().StringVar(&name, "name", "", "Display name for the document")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List uploaded documents",
			RunE: func(cmd *cobra.Command, args []string) error {
				docs, err := a.api.ListDocuments(cmd.Context())
				if err != nil {
					return a.fail(err)
				}
				if len(docs) == 0 {
					a.printf("No documents yet. Upload a PDF to get started.\n")
					return nil
				}
				for _, d := range docs {
					marker := " "
					if d.ID == a.session.DocumentID {
						marker = "*"
					}
					a.printf("%s %s  %-30s %d pages\n", marker, d.ID, orDash(d.FileName), d.PageCount)
				}
				return nil
			},
		},
		useCmd,
		&cobra.Command{
			Use:   "preview <file.pdf>",
			Short: "Check a PDF locally and show the start of its first page",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rep, err := pdfutil.Check(args[0], a.limits())
				if err != nil {
					if errors.Is(err, pdfutil.ErrTooManyPages) {
						a.printf("Only the first %d pages are accepted by the backend.\n", a.cfg.MaxPDFPages)
					}
					return a.fail(err)
				}
				a.printf("%s: %d pages, %s\n", rep.FileName, rep.Pages, humanBytes(rep.Size))
				if rep.Preview == "" {
					a.printf("(no extractable text on the first page)\n")
				} else {
					a.printf("\n%s\n", rep.Preview)
				}
				return nil
			},
		},
	)
	return cmd
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
