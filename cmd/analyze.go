package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"learnpulse_backend/internal/config"
	"learnpulse_backend/internal/engine"
	"learnpulse_backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// analysisInput 输入文件既可以是完整文档，也可以只是记录列表
type analysisInput struct {
	User    engine.User             `json:"user" yaml:"user"`
	Records []engine.LearningRecord `json:"records" yaml:"records"`
}

type analysisOutput struct {
	Profile    *engine.LearnerProfile     `json:"profile"`
	Prediction *engine.LearningPrediction `json:"prediction,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build a learner profile from a records file and print it as JSON",
	Example: `  learnpulse analyze --input records.yaml
  learnpulse analyze --input records.json --user s1 --predict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input")
		userID, _ := cmd.Flags().GetString("user")
		predict, _ := cmd.Flags().GetBool("predict")
		verbose, _ := cmd.Flags().GetBool("verbose")

		logger.InitConsole(verbose)

		in, err := loadAnalysisInput(inputPath)
		if err != nil {
			return err
		}
		if userID != "" {
			in.User.ID = userID
		}
		if in.User.ID == "" {
			in.User.ID = "cli"
		}

		eng := engine.New(engine.WithThresholds(thresholdsFromFlags(cmd)))

		profile, err := eng.BuildLearnerProfile(in.User, in.Records)
		if err != nil {
			return fmt.Errorf("build profile: %w", err)
		}
		if profile.SkippedRecords > 0 {
			logger.Log.Warn("Skipped invalid records", zap.Int("skipped", profile.SkippedRecords))
		}

		out := analysisOutput{Profile: profile}
		if predict {
			out.Prediction, err = eng.Predict(in.User, in.Records, profile)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	},
}

// thresholdsFromFlags 显式指定 --config 时使用其中的 engine 阈值，否则使用默认值
func thresholdsFromFlags(cmd *cobra.Command) engine.Thresholds {
	if !cmd.Flags().Changed("config") {
		return engine.DefaultThresholds()
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Warn("Failed to load config, using default thresholds", zap.Error(err))
		return engine.DefaultThresholds()
	}
	return cfg.Engine.Thresholds
}

func loadAnalysisInput(path string) (*analysisInput, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var in analysisInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(data, &in.Records)
		} else {
			err = json.Unmarshal(data, &in)
		}
	case ".yaml", ".yml":
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil && len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			err = node.Content[0].Decode(&in.Records)
		} else if err == nil {
			err = yaml.Unmarshal(data, &in)
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &in, nil
}

func init() {
	analyzeCmd.Flags().StringP("input", "i", "", "Records file (.yaml or .json)")
	analyzeCmd.Flags().String("user", "", "Learner id, overrides the one in the input file")
	analyzeCmd.Flags().Bool("predict", false, "Also run prediction, risk assessment and interventions")
	analyzeCmd.Flags().BoolP("verbose", "v", false, "Debug logging to stderr")
	analyzeCmd.MarkFlagRequired("input")
}
