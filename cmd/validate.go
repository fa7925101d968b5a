package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kayz/docsynth/internal/assemble"
	"github.com/kayz/docsynth/internal/catalog"
	"github.com/kayz/docsynth/internal/config"
	"github.com/kayz/docsynth/internal/sampling"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check catalogs and templates without generating",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		profiles, err := catalog.LoadProfiles(cfg.ProfilesDir(), cfg.Profiles.Domain, cfg.Profiles.Files)
		if err != nil {
			return err
		}
		fmt.Printf("profiles:   %d (domain %s)\n", profiles.Count(), cfg.Profiles.Domain)

		structures, err := catalog.LoadStructures(cfg.StructuresDir(), cfg.Profiles.Domain, cfg.Structures.Enabled)
		if err != nil {
			return err
		}
		fmt.Printf("structures: %d\n", structures.Count())

		if cfg.Style.File != "" {
			fam, err := sampling.LoadFamily(cfg.SamplingPath(cfg.Style.File), "style")
			if err != nil {
				return err
			}
			fmt.Printf("style:      %d nodes\n", len(fam.Nodes))
		}
		if cfg.Content.File != "" {
			fam, err := sampling.LoadFamily(cfg.SamplingPath(cfg.Content.File), "content")
			if err != nil {
				return err
			}
			fmt.Printf("content:    %d nodes\n", len(fam.Nodes))
		}

		tmpl, err := assemble.LoadTemplate(cfg.TemplatePath())
		if err != nil {
			return err
		}
		fmt.Printf("template:   %s (%d slots: %v)\n", tmpl.Name, len(tmpl.Slots()), tmpl.Slots())

		if cfg.Roster.Enabled {
			if _, err := catalog.LoadRoster(cfg.RosterPath()); err != nil {
				return err
			}
			fmt.Println("roster:     ok")
		}

		fmt.Println("Configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
