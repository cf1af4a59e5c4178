package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sourcebook/internal/config"
	"sourcebook/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Wrote config to ") + titleStyle.Render(path))
		fmt.Println(dimStyle.Render("Set llm.api_key (or the GEMINI_API_KEY environment variable) before generating."))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n", headerStyle.Render("provider:"), cfg.LLM.Provider)
		fmt.Printf("%s %s\n", headerStyle.Render("model:"), cfg.LLM.Model)
		fmt.Printf("%s %s\n", headerStyle.Render("database:"), cfg.Storage.DatabasePath)
		fmt.Printf("%s %s\n", headerStyle.Render("log dir:"), cfg.Logging.Dir)
		key := "unset"
		if cfg.LLM.APIKey != "" {
			key = "set"
		}
		fmt.Printf("%s %s\n", headerStyle.Render("api key:"), key)
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the display theme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			theme, err := st.GetState(store.StateTheme)
			if err != nil {
				return err
			}
			if theme == "" {
				theme = "dark"
			}
			fmt.Println(titleStyle.Render(theme))
			return nil
		}
		theme := args[0]
		if theme != "light" && theme != "dark" {
			return fmt.Errorf("theme must be light or dark")
		}
		if err := st.SetState(store.StateTheme, theme); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Theme set to ") + titleStyle.Render(theme))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
