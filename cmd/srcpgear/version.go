package main

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// versionInfo is the output of `srcpgear version`.
type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// readVersionInfo resolves each field with the priority
// ldflags > debug.ReadBuildInfo > fallback.
func readVersionInfo() versionInfo {
	info := versionInfo{Version: version, Commit: commit, Date: date}

	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		if info.Version == "" {
			info.Version = buildInfo.Main.Version
		}
		for _, setting := range buildInfo.Settings {
			switch {
			case setting.Key == "vcs.revision" && info.Commit == "":
				info.Commit = setting.Value
				if len(info.Commit) > 7 {
					info.Commit = info.Commit[:7]
				}
			case setting.Key == "vcs.time" && info.Date == "":
				info.Date = setting.Value
			}
		}
	}

	if info.Version == "" {
		info.Version = "(devel)"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// getVersion returns the version string.
func getVersion() string {
	return readVersionInfo().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of srcpgear.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := readVersionInfo()

			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(info)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "srcpgear version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.Date)
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Print version information as JSON")

	return cmd
}
