package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlRecords = `
user:
  id: s1
  grade: 七年级
records:
  - timestamp: 2024-03-01T09:00:00Z
    subject: 数学
    topic: 代数
    difficulty: 中级
    score: 60
    durationSeconds: 300
  - timestamp: 2024-03-02T09:00:00Z
    subject: 数学
    topic: 代数
    difficulty: 中级
    score: 70
    durationSeconds: 300
  - timestamp: 2024-03-03T09:00:00Z
    subject: 数学
    topic: 几何
    difficulty: 高级
    score: 150
    durationSeconds: 300
`

const jsonRecords = `[
  {"timestamp": "2024-03-01T09:00:00Z", "subject": "英语", "topic": "阅读", "score": 80, "durationSeconds": 600},
  {"timestamp": "2024-03-02T09:00:00Z", "subject": "英语", "topic": "阅读", "score": 85, "durationSeconds": 600}
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (map[string]json.RawMessage, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	return decoded, nil
}

func TestAnalyzeCommand_YAMLDocument(t *testing.T) {
	path := writeFile(t, "records.yaml", yamlRecords)

	out, err := runCommand(t, "analyze", "--input", path, "--user=", "--predict=false")
	require.NoError(t, err)

	var profile struct {
		UserID         string `json:"userId"`
		RecordCount    int    `json:"recordCount"`
		SkippedRecords int    `json:"skippedRecords"`
	}
	require.NoError(t, json.Unmarshal(out["profile"], &profile))
	assert.Equal(t, "s1", profile.UserID)
	assert.Equal(t, 2, profile.RecordCount)
	assert.Equal(t, 1, profile.SkippedRecords)
	assert.NotContains(t, out, "prediction")
}

func TestAnalyzeCommand_JSONListWithPrediction(t *testing.T) {
	path := writeFile(t, "records.json", jsonRecords)

	out, err := runCommand(t, "analyze", "--input", path, "--user", "s9", "--predict")
	require.NoError(t, err)

	var prediction struct {
		UserID string `json:"userId"`
		Risk   struct {
			OverallLevel string `json:"overallLevel"`
		} `json:"risk"`
	}
	require.Contains(t, out, "prediction")
	require.NoError(t, json.Unmarshal(out["prediction"], &prediction))
	assert.Equal(t, "s9", prediction.UserID)
	assert.NotEmpty(t, prediction.Risk.OverallLevel)
}

func TestAnalyzeCommand_BadInput(t *testing.T) {
	_, err := runCommand(t, "analyze", "--input", writeFile(t, "records.csv", "a,b"), "--user=", "--predict=false")
	assert.ErrorContains(t, err, "unsupported input format")

	_, err = runCommand(t, "analyze", "--input", filepath.Join(t.TempDir(), "missing.yaml"), "--user=", "--predict=false")
	assert.ErrorContains(t, err, "read input")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "learnpulse (devel)\n", out.String())
}
