package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"
	"github.com/careerkitsune/careerkitsune-ai/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Generate an interview preparation plan without a conversation",
	RunE:  runPrep,
}

func init() {
	rootCmd.AddCommand(prepCmd)

	prepCmd.Flags().String("company", "", "company the interview is with")
	prepCmd.Flags().String("role", "", "role interviewed for")
	prepCmd.Flags().String("in", "", `time until the interview, for example "5 days" or "2 weeks"`)
	prepCmd.Flags().String("description-file", "", "file with the job description")
	prepCmd.Flags().StringP("user", "u", "", "user whose skills feed the gap analysis")
	prepCmd.Flags().StringP("format", "o", formatText, "output format: text, json or yaml")

	prepCmd.MarkFlagRequired("company")
	prepCmd.MarkFlagRequired("role")
}

func runPrep(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	format, _ := cmd.Flags().GetString("format")
	if format != formatText && format != formatJSON && format != formatYAML {
		return fmt.Errorf("unknown format %q", format)
	}

	req := interview.Request{
		UserID:      cmd.Flag("user").Value.String(),
		CompanyName: cmd.Flag("company").Value.String(),
		Role:        cmd.Flag("role").Value.String(),
	}
	if in := strings.TrimSpace(cmd.Flag("in").Value.String()); in != "" {
		// Reuse the conversational parser so both paths agree on wording.
		req.TimeUntilInterview = "in " + in
	}
	if path := cmd.Flag("description-file").Value.String(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}
		req.JobDescription = string(data)
	}

	repo, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the backend", zap.Error(err), zap.String("backend", config.Backend))
	}
	defer repo.Close()

	generator := interview.NewGenerator(repo, logger.Named("interview"))
	generator.SetSkillTimeout(config.Assistant.CollaboratorTimeout)

	plan, err := generator.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}
	return writePlan(cmd.OutOrStdout(), plan, format)
}

func writePlan(w io.Writer, plan *interview.Plan, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(w, "%s\n\n%s\n", dialogue.PlanSummary(plan), dialogue.ScheduleView(plan.PreparationSchedule))
		return err
	}
}
