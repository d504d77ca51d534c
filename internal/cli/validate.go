package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/league"
)

// LeagueSummary describes one valid league file.
type LeagueSummary struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Teams   int    `json:"teams"`
	Players int    `json:"players"`
}

// ValidationError is one rejected league file.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Leagues []LeagueSummary   `json:"leagues"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <league.cue>...",
		Short: "Validate league definitions",
		Long: `Load CUE league files against the league schema.

Checks syntax, attribute ranges, domains, positions and id uniqueness.

Exit codes:
  0 - All leagues valid
  1 - One or more leagues rejected
  2 - A file could not be found`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := ValidationResult{Leagues: []LeagueSummary{}}

	for _, file := range files {
		formatter.VerboseLog("Loading %s", file)
		l, err := league.Load(file)
		if err != nil {
			var le *league.LoadError
			if errors.As(err, &le) && le.Code == league.ErrCodeNotFound {
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, le.Message, nil)
			}
			result.Errors = append(result.Errors, toValidationError(file, err))
			continue
		}

		summary := LeagueSummary{File: file, Name: l.Name, Teams: len(l.Teams)}
		for _, t := range l.Teams {
			summary.Players += len(t.Players)
		}
		result.Leagues = append(result.Leagues, summary)
	}
	result.Valid = len(result.Errors) == 0

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: result.Errors[0].Code, Message: result.Errors[0].Message}
		}
		if err := formatter.encode(resp); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, s := range result.Leagues {
			fmt.Fprintf(w, "✓ %s: %s (%d teams, %d players)\n", s.File, s.Name, s.Teams, s.Players)
		}
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(w, "✗ %s:%d\n", e.File, e.Line)
			} else {
				fmt.Fprintf(w, "✗ %s\n", e.File)
			}
			fmt.Fprintf(w, "  %s: %s\n", e.Code, e.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

func toValidationError(file string, err error) ValidationError {
	var le *league.LoadError
	if !errors.As(err, &le) {
		return ValidationError{File: file, Code: ErrCodeLeague, Message: err.Error()}
	}
	ve := ValidationError{File: file, Code: le.Code, Message: le.Message}
	if le.Pos.IsValid() {
		ve.Line = le.Pos.Line()
	}
	return ve
}
