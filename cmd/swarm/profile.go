package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/config"
)

// profilesPath is $SWARM_PROFILES_PATH or the default state file.
func profilesPath() (string, error) {
	if p := os.Getenv("SWARM_PROFILES_PATH"); p != "" {
		return p, nil
	}
	return config.DefaultProfilesPath()
}

func loadProfiles() (string, config.Profiles, error) {
	path, err := profilesPath()
	if err != nil {
		return "", config.Profiles{}, err
	}
	ps, err := config.LoadProfiles(path)
	return path, ps, err
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Manage named backend profiles",
	GroupID: "system",
	// Profile subcommands only touch the local file; skip client setup.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name> <api-url>",
	Short: "Add or update a named profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		coordinator, _ := cmd.Flags().GetString("coordinator")
		natsURL, _ := cmd.Flags().GetString("nats")
		user, _ := cmd.Flags().GetString("user-id")
		activate, _ := cmd.Flags().GetBool("use")

		path, ps, err := loadProfiles()
		if err != nil {
			return err
		}
		ps.Profiles[name] = config.Profile{APIURL: url, CoordinatorURL: coordinator, NATSURL: natsURL, UserID: user}
		if activate || ps.Active == "" {
			ps.Active = name
		}
		if err := config.SaveProfiles(path, ps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile %q saved (%s)\n", name, url)
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path, ps, err := loadProfiles()
		if err != nil {
			return err
		}
		if _, ok := ps.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		ps.Active = name
		if err := config.SaveProfiles(path, ps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "now using profile %q\n", name)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path, ps, err := loadProfiles()
		if err != nil {
			return err
		}
		if _, ok := ps.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		delete(ps.Profiles, name)
		if ps.Active == name {
			ps.Active = ""
		}
		if err := config.SaveProfiles(path, ps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile %q removed\n", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ps, err := loadProfiles()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ps)
		}
		if len(ps.Profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no profiles configured")
			return nil
		}

		names := make([]string, 0, len(ps.Profiles))
		for n := range ps.Profiles {
			names = append(names, n)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tAPI URL\tNATS\tUSER")
		for _, n := range names {
			p := ps.Profiles[n]
			marker := " "
			if n == ps.Active {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", marker, n, p.APIURL, dash(p.NATSURL), dash(p.UserID))
		}
		return w.Flush()
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	profileAddCmd.Flags().String("coordinator", "", "portfolio coordinator URL shown in diagnostics")
	profileAddCmd.Flags().String("nats", "", "NATS URL for event fan-out")
	profileAddCmd.Flags().String("user-id", "", "fixed user ID for this profile")
	profileAddCmd.Flags().Bool("use", false, "make this the active profile")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileRemoveCmd)
}
