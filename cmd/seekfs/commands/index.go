package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <directory>",
	Short: "Index a directory into the search corpus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		files, err := app.svc.IndexDirectory(cmd.Context(), dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		fmt.Printf("indexed %d files\n", len(files))
		return nil
	},
}
