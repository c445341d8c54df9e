package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/serialfield"
	"github.com/goliatone/go-formkit/pkg/uischema"
)

func (c *cli) describeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the serial number field definition",
		Example: `
	formkit describe
	formkit describe --format yaml --locale zh-CN`,
		RunE: c.describe,
	}
	cmd.Flags().String("format", "json", "output format. One of json, yaml")
	cmd.Flags().String("locale", "", "compile translated titles for this locale")
	return cmd
}

func (c *cli) describe(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	locale, _ := cmd.Flags().GetString("locale")

	def := serialfield.NewDefinition(rules.DefaultCatalog())
	if locale != "" {
		def = def.Compile(locale, i18n.Default())
	}

	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(def, "", "  ")
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = uischema.ToYAML(def)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func (c *cli) rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule types and reset cycles",
		RunE:  c.listRules,
	}
	cmd.Flags().String("locale", "", "translate titles for this locale")
	return cmd
}

func (c *cli) listRules(cmd *cobra.Command, _ []string) error {
	locale, _ := cmd.Flags().GetString("locale")
	t := i18n.Default()
	catalog := rules.DefaultCatalog()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tTITLE\tOPTIONS")
	for _, rt := range catalog.Types() {
		fields := rt.Fieldset()
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", rt.Kind(), i18n.T(t, locale, rt.Title()), names)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CYCLE\tCRON")
	for _, cycle := range rules.Cycles() {
		cron := cycle.Cron
		switch cycle.Choice {
		case rules.CycleNone:
			cron = "null"
		case rules.CycleCustom:
			cron = "<cron expression>"
		}
		fmt.Fprintf(w, "%s\t%s\n", i18n.T(t, locale, cycle.Label), cron)
	}
	return w.Flush()
}
