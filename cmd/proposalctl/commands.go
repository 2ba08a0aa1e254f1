package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/domain"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/export"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/repository"
)

func rootCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and manage saved proposals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		listCmd(e),
		showCmd(e),
		deleteCmd(e),
		clearCmd(e),
		exportCmd(e),
		templatesCmd(e),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// withRepo opens the repository for the duration of fn.
func withRepo(cmd *cobra.Command, e env, fn func(repo repository.ProposalRepository) error) error {
	repo, closeFn, err := e.openRepo(cmd.Context())
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(repo)
}

func listCmd(e env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved proposals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, e, func(repo repository.ProposalRepository) error {
				all, err := repo.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), all)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tNUMBER\tUPDATED")
				for _, p := range all {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Data.DocumentNumber, p.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the records as JSON")
	return cmd
}

func showCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved proposal as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, e, func(repo repository.ProposalRepository) error {
				p, err := getProposal(cmd, repo, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}
}

func deleteCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, e, func(repo repository.ProposalRepository) error {
				deleted, err := repo.DeleteOne(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%s: %w", args[0], domain.ErrProposalNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func clearCmd(e env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved proposal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			return withRepo(cmd, e, func(repo repository.ProposalRepository) error {
				if err := repo.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared all saved proposals")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all records")
	return cmd
}

func exportCmd(e env) *cobra.Command {
	var (
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a saved proposal to PDF, PNG or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := export.Format(format)
			svc := export.NewService(nil, nil)
			if _, err := svc.ContentType(f); err != nil {
				return err
			}
			return withRepo(cmd, e, func(repo repository.ProposalRepository) error {
				p, err := getProposal(cmd, repo, args[0])
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					return svc.ExportDocument(cmd.Context(), &p.Data, f, cmd.OutOrStdout())
				}
				return exportToFile(cmd, svc, &p.Data, f, out)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "Output format (pdf, png, preview)")
	return cmd
}

// exportToFile leaves no file behind when rendering fails.
func exportToFile(cmd *cobra.Command, svc *export.Service, doc *domain.Document, f export.Format, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := svc.ExportDocument(cmd.Context(), doc, f, file); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func templatesCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the proposal templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := e.loadCatalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tDESCRIPTION")
			for _, t := range catalog.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Slug, t.Name, t.Description)
			}
			return tw.Flush()
		},
	}
}

func getProposal(cmd *cobra.Command, repo repository.ProposalRepository, id string) (*domain.SavedProposal, error) {
	p, err := repo.GetOne(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrProposalNotFound)
	}
	return p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
