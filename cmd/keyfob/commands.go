package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/avwilde/keyfob"
	"github.com/avwilde/keyfob/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagService     string
	flagAccount     string
	flagLabel       string
	flagComment     string
	flagDescription string
)

// itemFromFlags resolves the target item from flags and config.
func itemFromFlags(cfg *config.Config) (keyfob.Item, error) {
	service := flagService
	if service == "" {
		service = cfg.Service
	}
	if service == "" {
		return keyfob.Item{}, errors.New("no service given: pass --service or set one in ~/.keyfob/config.yaml")
	}
	return keyfob.Item{
		Service:     service,
		Account:     flagAccount,
		Comment:     flagComment,
		Description: flagDescription,
	}, nil
}

// readSecret returns the secret value: the argument if given, otherwise
// stdin (hidden prompt on a terminal, raw read when piped).
func readSecret(args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Enter secret value: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		fmt.Println()
		return b, nil
	}
	b, err := os.ReadFile("/dev/stdin")
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return []byte(strings.TrimRight(string(b), "\n")), nil
}

var setCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store a new secret in the Keychain",
	Long:  "Store a new secret. If value is omitted, reads from stdin (useful for piping). Fails if the entry already exists; use put to overwrite.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		item, err := itemFromFlags(cfg)
		if err != nil {
			return err
		}
		secret, err := readSecret(args)
		if err != nil {
			return err
		}

		store := openStore(cfg)
		if err := store.Add(secret, item, flagLabel); err != nil {
			return err
		}
		fmt.Printf("Secret %q stored\n", item)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [value]",
	Short: "Replace the secret of an existing entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		item, err := itemFromFlags(cfg)
		if err != nil {
			return err
		}
		secret, err := readSecret(args)
		if err != nil {
			return err
		}

		store := openStore(cfg)
		if err := store.Update(secret, item); err != nil {
			return err
		}
		fmt.Printf("Secret %q updated\n", item)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put [value]",
	Short: "Store a secret, overwriting any existing entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		item, err := itemFromFlags(cfg)
		if err != nil {
			return err
		}
		secret, err := readSecret(args)
		if err != nil {
			return err
		}

		store := openStore(cfg)
		if err := store.Upsert(secret, item); err != nil {
			return err
		}
		fmt.Printf("Secret %q stored\n", item)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieve a secret from the Keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		item, err := itemFromFlags(cfg)
		if err != nil {
			return err
		}

		store := openStore(cfg)
		data, err := store.Retrieve(item)
		if err != nil {
			return err
		}
		// Text secrets get a trailing newline; binary goes out raw.
		if s, ok := asText(data); ok && term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Println(s)
			return nil
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove a secret from the Keychain",
	Aliases: []string{"rm"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		item, err := itemFromFlags(cfg)
		if err != nil {
			return err
		}

		store := openStore(cfg)
		if err := store.Delete(item); err != nil {
			return err
		}
		fmt.Printf("Secret %q deleted\n", item)
		return nil
	},
}

// asText reports whether data can be shown as UTF-8 text.
func asText(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagService, "service", "s", "", "Keychain service attribute")
	rootCmd.PersistentFlags().StringVarP(&flagAccount, "account", "a", "", "Keychain account attribute")
	rootCmd.PersistentFlags().StringVar(&flagComment, "comment", "", "unprotected comment stored with the entry")
	rootCmd.PersistentFlags().StringVar(&flagDescription, "description", "", "unprotected description stored with the entry")

	setCmd.Flags().StringVarP(&flagLabel, "label", "l", "", "label shown in Keychain Access.app")

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
}
