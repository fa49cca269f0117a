package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/observability"
)

var (
	coursesJSON  bool
	coursesSkip  int
	coursesLimit int
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Browse the backend's course catalog",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses with their weights and cutoff range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := backend.NewClient(cfg.Backend, log, observability.NewNoop())
		courses, err := client.ListCourses(cmd.Context(), coursesSkip, coursesLimit)
		if err != nil {
			return err
		}

		if coursesJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(courses)
		}
		printCourses(cmd.OutOrStdout(), courses)
		return nil
	},
}

var coursesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("identificador de curso inválido: %q", args[0])
		}

		client := backend.NewClient(cfg.Backend, log, observability.NewNoop())
		course, err := client.GetCourse(cmd.Context(), id)
		if err != nil {
			return err
		}

		if coursesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(course)
		}
		printCourse(cmd.OutOrStdout(), course)
		return nil
	},
}

func init() {
	coursesCmd.PersistentFlags().BoolVar(&coursesJSON, "json", false, "print JSON instead of tables")
	coursesListCmd.Flags().IntVar(&coursesSkip, "skip", 0, "courses to skip")
	coursesListCmd.Flags().IntVar(&coursesLimit, "limit", backend.DefaultCourseLimit, "page size")
	coursesCmd.AddCommand(coursesListCmd, coursesGetCmd)
	rootCmd.AddCommand(coursesCmd)
}
