package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the search corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		results, err := app.svc.Search(cmd.Context(), args[0], flagLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no results")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DISTANCE\tFILE\tSNIPPET")
		for _, r := range results {
			fmt.Fprintf(w, "%.4f\t%s\t%s\n", r.Distance, r.FilePath, oneLine(r.Snippet, 80))
		}
		return w.Flush()
	},
}

// oneLine flattens a snippet for table output.
func oneLine(s string, limit int) string {
	flat := make([]rune, 0, limit)
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		flat = append(flat, r)
		if len(flat) >= limit {
			break
		}
	}
	return string(flat)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed files",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		files, err := app.svc.ListIndexedFiles(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "max results (default 5)")
}
