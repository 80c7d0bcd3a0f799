package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/contactdesk/internal/client"
	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/spf13/cobra"
)

const exportFilename = "contacts_export.csv"

func healthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := a.dc.Health(cmd.Context())
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), h)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status:   %s\ndatabase: %s\n", h.Status, h.Database)
			if h.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "error:    %s\n", h.Error)
			}
			if !h.Connected() {
				return errors.New("database disconnected")
			}
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"all"},
		Short:   "List every submission, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printSubmissions(cmd.OutOrStdout(), a.dc.All(cmd.Context()))
		},
	}
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sub, err := a.dc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printSubmissions(cmd.OutOrStdout(), []core.Submission{*sub})
		},
	}
}

func addCmd(a *app) *cobra.Command {
	var (
		in    core.NewSubmission
		width int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a contact message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Platform == "" && width > 0 {
				in.Platform = core.PlatformFromWidth(width)
			}

			sub, err := a.dc.Save(cmd.Context(), in)
			if err != nil {
				var se *client.SaveError
				if errors.As(err, &se) {
					printSaveError(cmd.ErrOrStderr(), se)
				}
				return err
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), sub)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent successfully (id %d, platform %s)\n", sub.ID, sub.Platform)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Sender name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Sender email")
	cmd.Flags().StringVar(&in.Message, "message", "", "Message body")
	cmd.Flags().StringVar(&in.Platform, "platform", "", "Desktop, Tablet or Mobile")
	cmd.Flags().IntVar(&width, "width", 0, "Viewport width in pixels, used to derive --platform")
	return cmd
}

func printSaveError(w io.Writer, se *client.SaveError) {
	switch se.Kind {
	case client.KindValidation:
		fmt.Fprintln(w, "Some fields are invalid:")
		fields := make([]string, 0, len(se.Fields))
		for f := range se.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(w, "  %s %s\n", f, se.Fields[f])
		}
	case client.KindUnreachable:
		fmt.Fprintln(w, "Error saving data. Please make sure the server is running.")
	default:
		fmt.Fprintln(w, "The server could not save the message. Please try again.")
	}
}

func queryCmd(a *app) *cobra.Command {
	var req core.FilterRequest

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter submissions",
		Long: "Filter submissions. Name and email match case-insensitive substrings, platform matches exactly " +
			"and dates (YYYY-MM-DD or RFC 3339) are inclusive bounds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printSubmissions(cmd.OutOrStdout(), a.dc.Query(cmd.Context(), req))
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Name contains")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email contains")
	cmd.Flags().StringVar(&req.Platform, "platform", "", "Exact platform")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Earliest timestamp")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "Latest timestamp")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show submission statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats := a.dc.Stats(cmd.Context())
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all submissions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.dc.ExportCSV(cmd.Context())
			if errors.Is(err, core.ErrNoData) {
				return errors.New("no data to export")
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", exportFilename, `Destination file, "-" for stdout`)
	return cmd
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: `Import submissions from a CSV file ("-" for stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			res, err := a.dc.ImportCSV(cmd.Context(), src)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d\n", res.Imported, res.Skipped)
			for _, re := range res.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  row %d: %s\n", re.Row, re.Error)
			}
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.dc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact deleted successfully")
			return nil
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to clear all data?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err := a.dc.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Data centre cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
