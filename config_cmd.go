package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metcalfc/pacer/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the pacer config file",
	Long:    paragraph(fmt.Sprintf("\n%s the pacer config file. We'll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("pacer config\npacer config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// A broken config file must still be editable.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.EnsureFile(path); err != nil {
			return err
		}
		if env, err := config.ReadEnv(); err == nil {
			log.Debug("editing config", "path", path, "editor", env.Editor)
		}

		c, err := editor.Cmd("Pacer", path)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", path)
		return nil
	},
}

// configPath picks the --config file, the file viper loaded, or the
// default location.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	dirs, err := config.SearchDirs()
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		for _, ext := range []string{".yml", ".yaml"} {
			p := filepath.Join(dir, config.Name+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return config.DefaultFile()
}
