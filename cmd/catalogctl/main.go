// Package main is an offline admin tool for the course catalog file. It
// reads and edits the same CSV the server uses; do not run it against a
// file a live server is editing.
package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atinyakov/CourseKeeper/internal/models"
	"github.com/atinyakov/CourseKeeper/internal/repository"
	"github.com/atinyakov/CourseKeeper/internal/service"
)

var (
	version   string
	buildDate string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	catalogFile    string
	attachmentsDir string
}

// open loads the catalog and wires the service the subcommands use.
func (g *globalFlags) open() (*service.CatalogService, error) {
	repo := repository.NewCatalogRepository(g.catalogFile)
	if err := repo.Load(); err != nil {
		return nil, err
	}
	return service.NewCatalogService(repo, repository.NewAttachmentRepository(g.attachmentsDir)), nil
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and edit the course catalog file",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&g.catalogFile, "catalog", cmp.Or(os.Getenv("CATALOG_FILE"), "cursos.csv"), "path to the catalog CSV file")
	cmd.PersistentFlags().StringVar(&g.attachmentsDir, "attachments", cmp.Or(os.Getenv("ATTACHMENTS_DIR"), "www"), "attachments base directory")

	cmd.AddCommand(listCmd(g), showCmd(g), attachmentsCmd(g), editCmd(g))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalogctl version %s (build: %s)\n",
				cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		},
	})
	return cmd
}

func listCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := g.open()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSTATUS\tCREDITS\tYEAR/SEM\tTITLE")
			for _, c := range svc.Courses() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%s\n", c.Code, c.Status, c.Credits, c.Year, c.Semester, c.TitleES)
			}
			return tw.Flush()
		},
	}
}

func showCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show CODE",
		Short: "Show every field of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := g.open()
			if err != nil {
				return err
			}
			c, err := svc.Course(args[0])
			if err != nil {
				return err
			}
			printCourse(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func attachmentsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "attachments CODE",
		Short: "List the files attached to a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := g.open()
			if err != nil {
				return err
			}
			if _, err := svc.Course(args[0]); err != nil {
				return err
			}
			names, err := svc.Attachments(args[0])
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func editCmd(g *globalFlags) *cobra.Command {
	var description, comments string

	cmd := &cobra.Command{
		Use:   "edit CODE",
		Short: "Change the description and/or comments of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("description") && !flags.Changed("comments") {
				return fmt.Errorf("nothing to change: pass --description and/or --comments")
			}
			svc, err := g.open()
			if err != nil {
				return err
			}
			c, err := svc.Course(args[0])
			if err != nil {
				return err
			}

			edit := models.CourseEdit{Description: c.Description, Comments: c.Comments}
			if flags.Changed("description") {
				edit.Description = description
			}
			if flags.Changed("comments") {
				edit.Comments = comments
			}
			if err := svc.Commit(c.Code, edit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", c.Code)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&comments, "comments", "", "new comments")
	return cmd
}

func printCourse(w io.Writer, c models.Course) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "code:\t%s\n", c.Code)
	fmt.Fprintf(tw, "title_es:\t%s\n", c.TitleES)
	fmt.Fprintf(tw, "title_en:\t%s\n", c.TitleEN)
	fmt.Fprintf(tw, "credits:\t%d\n", c.Credits)
	fmt.Fprintf(tw, "contact_hours:\t%d\n", c.ContactHours)
	fmt.Fprintf(tw, "year:\t%d\n", c.Year)
	fmt.Fprintf(tw, "semester:\t%d\n", c.Semester)
	fmt.Fprintf(tw, "status:\t%s\n", c.Status)
	fmt.Fprintf(tw, "description:\t%s\n", c.Description)
	fmt.Fprintf(tw, "comments:\t%s\n", c.Comments)
	_ = tw.Flush()
}
