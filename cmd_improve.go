package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptimprover/improver"
	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/models"
)

var (
	improveApiKey string
	improveJSON   bool
)

// improveCmd rewrites one prompt and prints the result
var improveCmd = &cobra.Command{
	Use:   "improve [prompt]",
	Short: "Improve a prompt once and print the result",
	Long: `Send one prompt to the configured provider and print the improved
prompt followed by the explanation.

The prompt is read from the arguments, or from stdin when none are given.
The stored API key is used unless --api-key is set.`,
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVar(&improveApiKey, "api-key", "", "Use this API key instead of the stored one")
	improveCmd.Flags().BoolVar(&improveJSON, "json", false, "Print the JSON outcome")
}

func runImprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	prompt := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read prompt: %w", err)
		}
		prompt = string(data)
	}

	var store keystore.Store
	if improveApiKey != "" {
		store = keystore.NewMemoryStore()
		if err := store.Set(ctx, improveApiKey); err != nil {
			return err
		}
	} else {
		var closeStore func() error
		var err error
		store, closeStore, err = keystore.New(ctx, appConfig.Credentials)
		if err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
		defer closeStore()
	}

	generator, err := newGenerator(appConfig.LLM)
	if err != nil {
		return err
	}
	service := improver.NewService(generator, store, newImproverOptions(appConfig.LLM, nil))

	result, err := service.Improve(ctx, prompt)
	return printOutcome(cmd.OutOrStdout(), improver.Present(result, err), err)
}

func printOutcome(w io.Writer, outcome models.ImprovePromptResponse, err error) error {
	if improveJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if encodeErr := encoder.Encode(outcome); encodeErr != nil {
			return encodeErr
		}
		return err
	}

	if err != nil {
		if errors.Is(err, improver.ErrMissingCredential) || errors.Is(err, improver.ErrInvalidCredential) {
			return fmt.Errorf("%s Run \"promptimprover key set\" or pass --api-key", outcome.Status)
		}
		if outcome.Explanation != "" {
			return errors.New(outcome.Explanation)
		}
		return errors.New(outcome.Status)
	}

	fmt.Fprintln(w, "Improved prompt:")
	fmt.Fprintln(w, outcome.ImprovedPrompt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Explanation:")
	fmt.Fprintln(w, outcome.Explanation)
	return nil
}
