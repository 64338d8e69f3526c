package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

func (a *App) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <project-name>",
		Short: "Initialize a new Scribe project",
		Long: `Initialize a new Scribe project with a standard directory structure.

Creates a project directory with:
  - main.go: A starter Go file using the Scribe SDK
  - scribe.yaml: Project configuration
  - tools/: Directory for custom tools

Example:
  scribe init myagent
  scribe init myagent --provider openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(args[0])
		},
	}

	cmd.Flags().StringVar(&a.initProvider, "provider", "openai", "Default provider for generated code")

	return cmd
}

func (a *App) runInit(projectPath string) error {
	projectName := filepath.Base(projectPath)

	// Validate project name (just the base name, not full path)
	if err := validateProjectName(projectName); err != nil {
		return err
	}

	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %q already exists", projectPath)
	}

	dirs := []string{
		projectPath,
		filepath.Join(projectPath, "tools"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Keep the empty tools directory under version control
	gitkeep := filepath.Join(projectPath, "tools", ".gitkeep")
	if err := os.WriteFile(gitkeep, []byte{}, 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", gitkeep, err)
	}

	mainPath := filepath.Join(projectPath, "main.go")
	if err := generateFile(mainPath, mainGoTemplate, templateData{
		Provider: a.initProvider,
	}); err != nil {
		return fmt.Errorf("failed to create main.go: %w", err)
	}

	configPath := filepath.Join(projectPath, "scribe.yaml")
	if err := generateFile(configPath, scribeYamlTemplate, templateData{
		Provider: a.initProvider,
	}); err != nil {
		return fmt.Errorf("failed to create scribe.yaml: %w", err)
	}

	fmt.Fprintf(a.stdout, "Created Scribe project: %s\n\n", projectName)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintf(a.stdout, "  cd %s\n", projectPath)
	fmt.Fprintf(a.stdout, "  export %s=<your-key>\n", envVarForProvider(a.initProvider))
	fmt.Fprintln(a.stdout, "  go run main.go")

	return nil
}

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	validName := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}

	reserved := []string{".", "..", "scribe"}
	for _, r := range reserved {
		if name == r {
			return fmt.Errorf("invalid project name %q: reserved name", name)
		}
	}

	return nil
}

type templateData struct {
	Provider string
}

var templateFuncs = template.FuncMap{
	"envVar":       envVarForProvider,
	"defaultModel": defaultModel,
}

func generateFile(path string, tmplContent string, data templateData) error {
	tmpl, err := template.New("file").Funcs(templateFuncs).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

func envVarForProvider(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o"
	default:
		return "default"
	}
}

// Templates

var mainGoTemplate = `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/scribe-labs/scribe/core"
	"github.com/scribe-labs/scribe/providers/{{.Provider}}"
)

func main() {
	apiKey := os.Getenv("{{.Provider | envVar}}")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "{{.Provider | envVar}} not set")
		os.Exit(1)
	}

	p := {{.Provider}}.New(apiKey)
	c := core.NewClient(p)

	resp, err := c.Chat("{{.Provider | defaultModel}}").
		User("Hello, world!").
		GetResponse(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Println(resp.Output)
}
`

var scribeYamlTemplate = `# Scribe project configuration
default_provider: {{.Provider}}
default_model: {{.Provider | defaultModel}}

# Provider configurations
# API keys should be set via 'scribe keys set <provider>' or environment variables
providers:
  {{.Provider}}:
    api_key_ref: {{.Provider | envVar}}
`
