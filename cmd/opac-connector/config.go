// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/opac-connector/internal/connector"
	"github.com/pdiddy/opac-connector/internal/export"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the connector settings and their form",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configFormCmd = &cobra.Command{
	Use:   "form",
	Short: "Describe the settings form, prefilled from the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		values := map[string]string{connector.OptionURL: cfg.Catalog.BaseURL}
		if cfg.Catalog.PageLimit > 0 {
			values[connector.OptionPageLimit] = fmt.Sprint(cfg.Catalog.PageLimit)
		}
		form := connector.RenderConfigForm(values)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return export.WriteJSON(form, os.Stdout)
		}
		fmt.Println(form.Title)
		fmt.Println(strings.Repeat("-", len(form.Title)))
		for _, f := range form.Fields {
			required := ""
			if f.Required {
				required = " (required)"
			}
			fmt.Printf("%-12s %-20s %q%s\n", f.Name, f.Label, f.Value, required)
			if f.Help != "" {
				fmt.Printf("%-12s %s\n", "", f.Help)
			}
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		problems := connector.ValidateConfigForm(map[string]string{
			connector.OptionURL:       cfg.Catalog.BaseURL,
			connector.OptionPageLimit: fmt.Sprint(cfg.Catalog.PageLimit),
		})
		if len(problems) == 0 {
			fmt.Println("Configuration is valid.")
			return nil
		}
		for _, name := range connector.ConfigOptionNames() {
			if msg, ok := problems[name]; ok {
				fmt.Fprintf(os.Stderr, "%s: %s\n", name, msg)
			}
		}
		return fmt.Errorf("%d invalid setting(s)", len(problems))
	},
}

func init() {
	configFormCmd.Flags().Bool("json", false, "output the form as JSON")

	configCmd.AddCommand(configShowCmd, configFormCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
