package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// Prompt represents a simple interactive prompt configuration
type Prompt struct {
	Message     string
	Default     string
	Placeholder string
	Required    bool
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(p Prompt) (string, error) {
	value := p.Default

	input := huh.NewInput().
		Title(p.Message).
		Placeholder(p.Placeholder).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if p.Required && value == "" {
		return "", fmt.Errorf("value is required")
	}

	return value, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// CascadeDecision is the user's answer to a move that needs a cascade.
type CascadeDecision struct {
	Apply     bool
	Confirmed []string
}

// cascadeOptions lists the conflicting dependents as selectable options.
func cascadeOptions(res schedule.MoveResult) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(res.Plan.Conflicting))
	for _, t := range res.Plan.Conflicting {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", t.Name, t.ID), t.ID))
	}
	return opts
}

// cascadeForm builds the confirmation form for a proposed move. Conflicting
// dependents are only offered when there are any.
func cascadeForm(res schedule.MoveResult, d *CascadeDecision) *huh.Form {
	d.Apply = true
	title := fmt.Sprintf("Move %s by %+d days and shift %d dependent task(s)?",
		res.TaskID, res.DaysDelta, len(res.Plan.Clean)+len(res.Plan.Conflicting))

	fields := []huh.Field{
		huh.NewConfirm().
			Title(title).
			Affirmative("Move").
			Negative("Cancel").
			Value(&d.Apply),
	}
	if res.Plan.HasConflicts() {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Shift these anyway? Their own dependencies will be violated.").
			Description("Unselected tasks stay where they are.").
			Options(cascadeOptions(res)...).
			Value(&d.Confirmed))
	}
	return huh.NewForm(huh.NewGroup(fields...))
}

// ConfirmCascade asks whether to apply a move that needs a cascade and
// which conflicting dependents to override.
func ConfirmCascade(res schedule.MoveResult) (CascadeDecision, error) {
	var d CascadeDecision
	if err := cascadeForm(res, &d).Run(); err != nil {
		return CascadeDecision{}, fmt.Errorf("prompt failed: %w", err)
	}
	if !d.Apply {
		d.Confirmed = nil
	}
	return d, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ciEnvVars disable prompting when any of them is set.
var ciEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"BUILDKITE",
}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	return !InCI() && IsInteractive()
}
