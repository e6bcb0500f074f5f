package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/errs"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List and edit the project catalog",
	}

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsUpdateCmd())
	cmd.AddCommand(newProjectsDeleteCmd())

	return cmd
}

// newReconciler returns a reconciler with the catalog already loaded.
func newReconciler(cmd *cobra.Command) (*catalog.Reconciler, *catalog.HTTPGateway, error) {
	gateway, err := newGateway(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := requireSession(gateway); err != nil {
		return nil, nil, err
	}
	rec := catalog.NewReconciler(gateway, catalog.NewEditForm(), catalog.NewCache())
	if err := rec.Refresh(cmd.Context()); err != nil {
		return nil, nil, err
	}
	return rec, gateway, nil
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, gateway, err := newReconciler(cmd)
			if err != nil {
				return err
			}

			records := catalog.DisplayOrder(rec.Cache().Get())
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimColor.Sprint("No projects yet"))
				return nil
			}
			for _, record := range records {
				printProject(cmd, gateway, record)
			}
			return nil
		},
	}
}

func printProject(cmd *cobra.Command, gateway *catalog.HTTPGateway, record catalog.ProjectRecord) {
	out := cmd.OutOrStdout()
	marker := ""
	if record.Featured {
		marker = featureColor.Sprint(" ★ featured")
	}
	fmt.Fprintf(out, "%s%s %s\n", accentColor.Sprint(record.Title), marker, dimColor.Sprintf("(%s, order %d)", record.ID, record.SortOrder))
	if record.Description != "" {
		fmt.Fprintf(out, "  %s\n", record.Description)
	}
	if stack := record.TechStackList(); len(stack) > 0 {
		fmt.Fprintf(out, "  stack: %s\n", strings.Join(stack, " · "))
	}
	if tags := record.TagList(); len(tags) > 0 {
		fmt.Fprintf(out, "  tags:  %s\n", strings.Join(tags, " · "))
	}
	if record.Link != "" {
		fmt.Fprintf(out, "  link:  %s\n", record.Link)
	}
	if record.GithubURL != "" {
		fmt.Fprintf(out, "  code:  %s\n", record.GithubURL)
	}
	if record.ImageURL != "" {
		fmt.Fprintf(out, "  image: %s\n", gateway.ResolveImageURL(record.ImageURL))
	}
}

// projectFlags maps command flags onto edit form fields. Only flags the
// user set are applied.
type projectFlags struct {
	title       string
	description string
	link        string
	githubURL   string
	techStack   string
	tags        string
	featured    bool
	sortOrder   int
	image       string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Project title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&f.link, "link", "", "Live project URL")
	cmd.Flags().StringVar(&f.githubURL, "github", "", "Source repository URL")
	cmd.Flags().StringVar(&f.techStack, "tech", "", "Comma separated tech stack")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma separated tags")
	cmd.Flags().BoolVar(&f.featured, "featured", false, "Show the project first")
	cmd.Flags().IntVar(&f.sortOrder, "sort-order", 0, "Position among projects with the same featured flag")
	cmd.Flags().StringVar(&f.image, "image", "", "Path of an image to upload")
}

func (f *projectFlags) apply(cmd *cobra.Command, form *catalog.EditForm) error {
	fields := []struct {
		flag  string
		field string
		value string
	}{
		{"title", "title", f.title},
		{"description", "description", f.description},
		{"link", "link", f.link},
		{"github", "githubUrl", f.githubURL},
		{"tech", "techStack", f.techStack},
		{"tags", "tags", f.tags},
		{"featured", "featured", strconv.FormatBool(f.featured)},
		{"sort-order", "sortOrder", strconv.Itoa(f.sortOrder)},
	}
	for _, field := range fields {
		if !cmd.Flags().Changed(field.flag) {
			continue
		}
		if err := form.SetField(field.field, field.value); err != nil {
			return err
		}
	}

	if f.image != "" {
		img, err := catalog.LoadImage(f.image)
		if err != nil {
			return err
		}
		form.AttachImage(img)
	}
	return nil
}

// reportSubmit prints the reconciler status. A failed refresh after a
// successful mutation is only a warning.
func reportSubmit(cmd *cobra.Command, rec *catalog.Reconciler, err error) error {
	var refreshErr *catalog.RefreshError
	if errors.As(err, &refreshErr) {
		printWarning(cmd, "%s", rec.Status())
		return nil
	}
	if err != nil {
		return err
	}
	printSuccess(cmd, "%s", rec.Status())
	return nil
}

func newProjectsCreateCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a project to the catalog",
		Example: `  portfolio projects create --title "Portfolio" --description "This site" \
    --tech "Go, React" --tags "web" --featured --image ./cover.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := newReconciler(cmd)
			if err != nil {
				return err
			}
			rec.Form().BeginCreate()
			if err := flags.apply(cmd, rec.Form()); err != nil {
				return err
			}
			return reportSubmit(cmd, rec, rec.Submit(cmd.Context()))
		},
	}
	flags.register(cmd)

	return cmd
}

func newProjectsUpdateCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change fields of an existing project",
		Long: `Loads the project into the edit form, applies only the flags given and
saves it. The stored image is kept unless --image is passed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := newReconciler(cmd)
			if err != nil {
				return err
			}
			record, ok := rec.Cache().Find(args[0])
			if !ok {
				return errs.NewClientNotFoundError("project " + args[0] + " not found")
			}
			rec.Form().BeginEdit(record)
			if err := flags.apply(cmd, rec.Form()); err != nil {
				return err
			}
			return reportSubmit(cmd, rec, rec.Submit(cmd.Context()))
		},
	}
	flags.register(cmd)

	return cmd
}

func newProjectsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <project-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a project from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := newReconciler(cmd)
			if err != nil {
				return err
			}
			record, ok := rec.Cache().Find(args[0])
			if !ok {
				return errs.NewClientNotFoundError("project " + args[0] + " not found")
			}
			if !yes && !confirm(cmd, bufio.NewReader(cmd.InOrStdin()), fmt.Sprintf("Delete %q?", record.Title)) {
				printWarning(cmd, "Cancelled")
				return nil
			}
			return reportSubmit(cmd, rec, rec.Delete(cmd.Context(), record.ID))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
