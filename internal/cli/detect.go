package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/promptsentry/promptsentry-go/guard"
	"github.com/promptsentry/promptsentry-go/internal/store"
)

func detectCommand(deps Dependencies) *cobra.Command {
	var anonID string
	var meta []string

	cmd := &cobra.Command{
		Use:   "detect [prompt]",
		Short: "Send a prompt to the detection service",
		Long: "Sends a prompt to the detection service and prints the verdict as JSON.\n" +
			"Reads the prompt from stdin when no argument is given. Service failures\n" +
			"fail open: the verdict is safe with an error description attached.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Detector == nil {
				return fmt.Errorf("detection client not configured")
			}

			prompt, err := readPromptArg(cmd, args)
			if err != nil {
				return err
			}

			metadata, err := parseMetadata(meta)
			if err != nil {
				return err
			}

			if anonID == "" {
				anonID = uuid.NewString()
			}

			start := time.Now()
			resp, err := deps.Detector.Detect(cmd.Context(), guard.DetectionRequest{
				Prompt:     prompt,
				UserAnonID: anonID,
				Metadata:   metadata,
			})
			if err != nil {
				return err
			}
			latency := time.Since(start)

			if resp.Error != "" {
				deps.Logger.Warn("detection degraded", "error", resp.Error)
			}
			if !resp.Safe {
				deps.Logger.Error("prompt flagged as injection", "detection_id", resp.DetectionID)
			}

			if deps.Store != nil {
				rec := store.Detection{
					DetectionID: resp.DetectionID,
					CreatedAt:   time.Now(),
					PromptChars: len(prompt),
					Safe:        resp.Safe,
					FailOpen:    resp.Safe && resp.Error != "",
					Error:       resp.Error,
					LatencyMS:   latency.Milliseconds(),
				}
				if err := deps.Store.RecordDetection(cmd.Context(), rec); err != nil {
					deps.Logger.Warn("failed to record detection", "error", err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&anonID, "anon-id", "", "Anonymous user ID (default: generated UUID)")
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "Metadata key=value pair (repeatable)")

	return cmd
}

// parseMetadata converts repeated key=value flags into a metadata map.
func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}
