package main

import (
	"fmt"
	"log/slog"

	hackos "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"

	"github.com/kittclouds/godash/internal/kv"
	"github.com/kittclouds/godash/internal/profile"
)

var (
	profileName    string
	profileAge     string
	profileCountry string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the dashboard profile and theme",
}

// openProfiles mounts the state directory through hackpadfs so the manager
// sees the same interface the browser build does.
func openProfiles() (*profile.Manager, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}

	osFS := hackos.NewFS()
	fsDir, err := osFS.FromOSPath(dir)
	if err != nil {
		return nil, fmt.Errorf("map state directory: %w", err)
	}
	stateFS, err := osFS.Sub(fsDir)
	if err != nil {
		return nil, fmt.Errorf("mount state directory: %w", err)
	}

	kvStore, err := kv.NewFileStore(stateFS, "localstore")
	if err != nil {
		return nil, err
	}
	return profile.NewManager(kvStore, slog.Default()), nil
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := openProfiles()
		if err != nil {
			fatal("Failed to open profile store", err)
		}

		p := profile.Profile{
			Name:    profileName,
			Age:     profileAge,
			Country: profileCountry,
		}
		if err := profiles.Save(p); err != nil {
			fatal("Failed to save profile", err)
		}
		fmt.Println(p.Greeting())
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := openProfiles()
		if err != nil {
			fatal("Failed to open profile store", err)
		}

		p, complete, err := profiles.Load()
		if err != nil {
			fatal("Failed to load profile", err)
		}
		if !complete {
			fmt.Println("No complete profile saved yet.")
			return
		}
		fmt.Println(p.Greeting())
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [toggle]",
	Short: "Show or toggle the theme preference",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := openProfiles()
		if err != nil {
			fatal("Failed to open profile store", err)
		}

		if len(args) == 1 && args[0] == "toggle" {
			theme, err := profiles.ToggleTheme()
			if err != nil {
				fatal("Failed to toggle theme", err)
			}
			fmt.Println(theme)
			return
		}

		theme, err := profiles.Theme()
		if err != nil {
			fatal("Failed to read theme", err)
		}
		fmt.Println(theme)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(themeCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)

	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Profile name")
	profileSetCmd.Flags().StringVar(&profileAge, "age", "", "Profile age")
	profileSetCmd.Flags().StringVar(&profileCountry, "country", "", "Profile country")
	profileSetCmd.MarkFlagRequired("name")
	profileSetCmd.MarkFlagRequired("age")
	profileSetCmd.MarkFlagRequired("country")
}
