package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/internal/prompt"
	"github.com/goliatone/go-formkit/internal/store/sqlite"
	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/sequence"
	"github.com/goliatone/go-formkit/pkg/serialfield"
)

func (c *cli) patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Edit pattern lists and generate serial numbers from them",
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a pattern list interactively",
		Example: `
	formkit patterns edit --file order-no.yaml
	formkit patterns edit --file order-no.json --locale zh-CN`,
		RunE: withSignalWatcher(c.editPatterns),
	}
	editCmd.Flags().StringP("file", "f", "", "JSON or YAML file holding the pattern list; created on save")
	editCmd.Flags().String("locale", "", "translate prompts for this locale")
	editCmd.MarkFlagRequired("file")

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Issue the next serial number for a pattern list",
		Example: `
	formkit patterns next --file order-no.yaml --key orders.orderNo`,
		RunE: withSignalWatcher(c.nextSerial),
	}
	nextCmd.Flags().StringP("file", "f", "", "JSON or YAML file holding the pattern list")
	nextCmd.Flags().String("key", "", "counter namespace, usually <collection>.<field>")
	nextCmd.MarkFlagRequired("file")
	nextCmd.MarkFlagRequired("key")

	cmd.AddCommand(editCmd, nextCmd)
	return cmd
}

func (c *cli) editPatterns(ctx context.Context, cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	locale, _ := cmd.Flags().GetString("locale")

	patterns, err := readPatterns(file, true)
	if err != nil {
		return err
	}

	editor := prompt.NewEditor(prompt.NewSurveyDriver(cmd.OutOrStdout()),
		prompt.WithLocale(locale, i18n.Default()))
	edited, saved, err := editor.Edit(ctx, patterns)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if !saved {
		return nil
	}
	if err := writePatterns(file, edited); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Patterns written to %s\n", file)
	return nil
}

func (c *cli) nextSerial(ctx context.Context, cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	key, _ := cmd.Flags().GetString("key")

	patterns, err := readPatterns(file, false)
	if err != nil {
		return err
	}
	if issues := serialfield.Check(patterns, rules.DefaultCatalog()); len(issues) > 0 {
		return issues[0]
	}

	logger := c.logger()
	store, err := sqlite.Open(ctx, c.cfg.Store.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	value, err := sequence.New(store, sequence.WithLogger(logger)).Next(ctx, key, patterns)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}

func isYAML(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readPatterns decodes a pattern list file. A missing file is an empty list
// when allowMissing is set.
func readPatterns(file string, allowMissing bool) (serialfield.Patterns, error) {
	data, err := os.ReadFile(file)
	if allowMissing && errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var patterns serialfield.Patterns
	if isYAML(file) {
		err = yaml.Unmarshal(data, &patterns)
	} else {
		err = json.Unmarshal(data, &patterns)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	return patterns, nil
}

func writePatterns(file string, patterns serialfield.Patterns) error {
	if patterns == nil {
		patterns = serialfield.Patterns{}
	}
	var (
		data []byte
		err  error
	)
	if isYAML(file) {
		data, err = yaml.Marshal(patterns)
	} else {
		data, err = json.MarshalIndent(patterns, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
