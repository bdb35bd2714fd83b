package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		User: UserConfig{ID: "local", Name: "Student"},
		Inference: InferenceConfig{
			Provider:         ProviderOpenAI,
			Enabled:          true,
			MaxRetryAttempts: 3,
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		Store:  StoreConfig{Type: StoreTypeYAML, Directory: "sets"},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Path:     filepath.Join("data", "quizgpt.db"),
			Host:     "localhost",
			Port:     3306,
			Database: "quizgpt",
			Username: "user",
		},
		Outputs: OutputsConfig{ReportDirectory: filepath.Join("outputs", "reports")},
		Test:    TestConfig{QuestionCount: 5, ItemsPerPage: 1},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	templateFile := filepath.Join(t.TempDir(), "report.md.tmpl")
	require.NoError(t, os.WriteFile(templateFile, []byte("# {{ .Title }}"), 0644))

	tests := []struct {
		name            string
		configContent   string
		useExplicitPath bool
		env             map[string]string

		want              func() *Config
		wantErrorContains []string
	}{
		{
			name: "no config file uses defaults",
			want: defaultConfig,
		},
		{
			name: "custom values",
			configContent: `user:
  id: u-1
  name: Aiko
inference:
  provider: gemini
  enabled: false
store:
  type: database
database:
  driver: mysql
  host: db.example.com
test:
  question_count: 10
  items_per_page: 3
templates:
  test_report_template: ` + templateFile + `
`,
			useExplicitPath: true,
			env:             map[string]string{"GEMINI_API_KEY": "gemini-key", "DB_PASSWORD": "secret"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.User = UserConfig{ID: "u-1", Name: "Aiko"}
				cfg.Inference.Provider = ProviderGemini
				cfg.Inference.Enabled = false
				cfg.Gemini.APIKey = "gemini-key"
				cfg.Store.Type = StoreTypeDatabase
				cfg.Database.Driver = DriverMySQL
				cfg.Database.Host = "db.example.com"
				cfg.Database.Password = "secret"
				cfg.Test = TestConfig{QuestionCount: 10, ItemsPerPage: 3}
				cfg.Templates.TestReportTemplate = templateFile
				return cfg
			},
		},
		{
			name:          "environment variables",
			configContent: "openai:\n  model: gpt-4\n",
			env:           map[string]string{"OPENAI_API_KEY": "openai-key", "OPENAI_MODEL": "gpt-4.1"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.OpenAI = OpenAIConfig{APIKey: "openai-key", Model: "gpt-4.1"}
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `user:
  id: u-1
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "invalid values",
			configContent: `inference:
  provider: anthropic
store:
  type: s3
test:
  question_count: 0
`,
			wantErrorContains: []string{
				"invalid configuration",
				"provider must be one of [openai gemini]",
				"type must be one of [yaml database]",
				"question_count must be 1 or greater",
			},
		},
		{
			name:              "missing template file",
			configContent:     "templates:\n  test_report_template: /does/not/exist.tmpl\n",
			wantErrorContains: []string{"templates.test_report_template must be an existing and readable template file"},
		},
		{
			name:              "sqlite store without path",
			configContent:     "store:\n  type: database\ndatabase:\n  driver: sqlite3\n  path: \"\"\n",
			wantErrorContains: []string{"database.path is required for the sqlite3 driver"},
		},
		{
			name:              "mysql store without host",
			configContent:     "store:\n  type: database\ndatabase:\n  driver: mysql\n  host: \"\"\n",
			wantErrorContains: []string{"database.host is required for the mysql driver"},
		},
		{
			name:              "yaml store without directory",
			configContent:     "store:\n  directory: \"\"\n",
			wantErrorContains: []string{"store.directory is required for the yaml store"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			for _, key := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY", "DB_PASSWORD"} {
				if _, ok := tt.env[key]; !ok {
					// empty values are ignored by viper
					t.Setenv(key, "")
				}
			}

			tempDir := t.TempDir()
			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "quizgpt.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestConfig_InferenceAPIKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.OpenAI.APIKey = "openai-key"
	cfg.Gemini.APIKey = "gemini-key"
	assert.Equal(t, "openai-key", cfg.InferenceAPIKey())

	cfg.Inference.Provider = ProviderGemini
	assert.Equal(t, "gemini-key", cfg.InferenceAPIKey())
}
