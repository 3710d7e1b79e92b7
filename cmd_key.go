package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/utils"
)

// keyCmd manages the stored API key
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API key",
	Long: `Manage the API key used for improve requests.

Available subcommands:
  set    - Store a new API key
  clear  - Remove the stored API key
  status - Show whether a key is stored

A running "promptimprover serve" caches the key for credentials.cacheTTL
(30s by default), so a change made here reaches it after that delay.
Use the page or the /credential endpoint for an immediate change.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store a new API key",
	Long:  `Store an API key. It is read from stdin when not given as an argument.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeySet,
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runKeyClear,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is stored",
	Args:  cobra.NoArgs,
	RunE:  runKeyStatus,
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}

func openStore(cmd *cobra.Command) (keystore.Store, func() error, error) {
	store, closeStore, err := keystore.New(cmd.Context(), appConfig.Credentials)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, closeStore, nil
}

func runKeySet(cmd *cobra.Command, args []string) error {
	var apiKey string
	if len(args) == 1 {
		apiKey = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read api key: %w", err)
		}
		apiKey = strings.TrimSpace(line)
	}

	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Set(cmd.Context(), apiKey); err != nil {
		if errors.Is(err, keystore.ErrEmptyKey) {
			return errors.New("api key must not be empty")
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s)\n", utils.MaskKey(apiKey))
	return nil
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
	return nil
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	apiKey, err := store.Get(cmd.Context())
	if errors.Is(err, keystore.ErrNotConfigured) {
		fmt.Fprintln(cmd.OutOrStdout(), "API key: not configured")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API key: %s (%s backend)\n", utils.MaskKey(apiKey), appConfig.Credentials.Backend)
	return nil
}
