package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/components/xlsxtemplate"
)

func (c *cli) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an import template workbook to disk",
		Example: `
	formkit template --columns '[{"defaultTitle":"Name"},{"defaultTitle":"Age"}]' --explain Sample --title Template`,
		RunE: c.writeTemplate,
	}
	cmd.Flags().String("columns", "[]", "JSON array of {defaultTitle} columns")
	cmd.Flags().String("explain", "", "note written to the second row")
	cmd.Flags().String("title", "", "sheet title, also the default file name")
	cmd.Flags().StringP("out", "o", "", "output file (<title>.xlsx if empty)")
	return cmd
}

func (c *cli) writeTemplate(cmd *cobra.Command, _ []string) error {
	columns, _ := cmd.Flags().GetString("columns")
	explain, _ := cmd.Flags().GetString("explain")
	title, _ := cmd.Flags().GetString("title")
	out, _ := cmd.Flags().GetString("out")

	params, err := xlsxtemplate.DecodeParams(map[string]any{
		"columns": columns,
		"explain": explain,
		"title":   title,
	})
	if err != nil {
		return err
	}
	if out == "" {
		out = xlsxtemplate.SheetName(params.Title) + ".xlsx"
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := xlsxtemplate.Write(f, params); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", out)
	return nil
}
