package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptsentry/promptsentry-go/canary"
	"github.com/promptsentry/promptsentry-go/internal/store"
)

func canaryCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canary",
		Short: "Generate, embed, and check canary words",
	}

	cmd.AddCommand(canaryGenerateCommand(deps))
	cmd.AddCommand(canaryEmbedCommand(deps))
	cmd.AddCommand(canaryCheckCommand(deps))

	return cmd
}

func canaryGenerateCommand(deps Dependencies) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random canary word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if length == 0 {
				length = deps.CanaryLength
			}

			word, err := canary.Generate(length)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), word)
			return err
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "Canary word length (default: configured length)")

	return cmd
}

func canaryEmbedCommand(deps Dependencies) *cobra.Command {
	var word string
	var format string

	cmd := &cobra.Command{
		Use:   "embed [prompt]",
		Short: "Embed a canary marker into a prompt",
		Long: "Prepends a canary marker line to the prompt and prints the result.\n" +
			"The canary word is logged to stderr so it can be checked later.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPromptArg(cmd, args)
			if err != nil {
				return err
			}

			if word == "" {
				word, err = canary.Generate(deps.CanaryLength)
				if err != nil {
					return err
				}
			}
			if format == "" {
				format = deps.CanaryFormat
			}

			combined, used, err := canary.Embed(prompt, word, format)
			if err != nil {
				return err
			}

			deps.Logger.Info("canary embedded", "word", used)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), combined)
			return err
		},
	}

	cmd.Flags().StringVar(&word, "word", "", "Canary word (default: generated)")
	cmd.Flags().StringVar(&format, "format", "", "Marker template containing {canary} (default: configured format)")

	return cmd
}

func canaryCheckCommand(deps Dependencies) *cobra.Command {
	var word string

	cmd := &cobra.Command{
		Use:   "check [completion]",
		Short: "Check a completion for canary leakage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completion, err := readPromptArg(cmd, args)
			if err != nil {
				return err
			}

			result := canary.Check(completion, word)

			if result.Leaked {
				deps.Logger.Error("canary leaked", "word", result.CanaryWord)
			}

			if deps.Store != nil && result.Error == "" {
				rec := store.CanaryCheck{
					CreatedAt:  time.Now(),
					CanaryWord: result.CanaryWord,
					Leaked:     result.Leaked,
				}
				if err := deps.Store.RecordCanaryCheck(cmd.Context(), rec); err != nil {
					deps.Logger.Warn("failed to record canary check", "error", err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&word, "word", "", "Canary word to look for")
	_ = cmd.MarkFlagRequired("word")

	return cmd
}
