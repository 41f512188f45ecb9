// Command stegcrypt hides encrypted messages in PNG and BMP images.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/absfs/stegcrypt"
)

const version = "0.1.0"

var (
	logLevel     string
	envFile      string
	kdfName      string
	authenticate bool
	truncate     bool
	logger       hclog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stegcrypt",
		Short:         "Hide encrypted text in images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			if !cmd.Flags().Changed("log-level") {
				logLevel = getEnv("STEGCRYPT_LOG_LEVEL", logLevel)
			}
			if !cmd.Flags().Changed("kdf") {
				kdfName = getEnv("STEGCRYPT_KDF", kdfName)
			}
			logger = newLogger(logLevel, os.Stderr)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error (or set STEGCRYPT_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&kdfName, "kdf", "legacy", "Key derivation: legacy, argon2id, pbkdf2, scrypt (or set STEGCRYPT_KDF)")
	rootCmd.PersistentFlags().BoolVar(&authenticate, "authenticate", false, "Append an HMAC tag to the ciphertext (not legacy compatible)")
	rootCmd.PersistentFlags().BoolVar(&truncate, "truncate", false, "Silently truncate messages that do not fit (legacy behavior)")

	rootCmd.AddCommand(hideCmd())
	rootCmd.AddCommand(revealCmd())
	rootCmd.AddCommand(capacityCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

// newStego builds a Stego from the global flags
func newStego() (*stegcrypt.Stego, error) {
	kd, err := keyDerivation(kdfName)
	if err != nil {
		return nil, err
	}

	cfg := stegcrypt.DefaultConfig()
	cfg.KeyDerivation = kd
	cfg.Authenticate = authenticate
	cfg.Logger = logger
	if truncate {
		cfg.Overflow = stegcrypt.OverflowTruncate
	}
	return stegcrypt.New(cfg)
}

// newImageStore builds an image store over the host filesystem
func newImageStore() (*stegcrypt.FSImageStore, error) {
	base, err := newHostFS()
	if err != nil {
		return nil, err
	}
	return stegcrypt.NewFSImageStore(base)
}

func keyDerivation(name string) (stegcrypt.KeyDerivation, error) {
	switch name {
	case "legacy", "":
		return stegcrypt.LegacyKeyDerivation{}, nil
	case "argon2id":
		return stegcrypt.NewArgon2idKeyDerivation(stegcrypt.Argon2idParams{}), nil
	case "pbkdf2":
		return stegcrypt.NewPBKDF2KeyDerivation(stegcrypt.PBKDF2Params{HashFunc: stegcrypt.SHA256}), nil
	case "scrypt":
		return stegcrypt.NewScryptKeyDerivation(stegcrypt.ScryptParams{}), nil
	default:
		return nil, fmt.Errorf("unknown key derivation %q", name)
	}
}

func passwordOrEnv(password string) (string, error) {
	if password == "" {
		password = os.Getenv("STEGCRYPT_PASSWORD")
	}
	if password == "" {
		return "", fmt.Errorf("--password is required (or set STEGCRYPT_PASSWORD)")
	}
	return password, nil
}

// renderError turns library errors into user-facing status lines
func renderError(err error) string {
	var ce *stegcrypt.CapacityError
	switch {
	case stegcrypt.IsWrongPassword(err):
		return "Error: incorrect password or no hidden message"
	case errors.As(err, &ce):
		return fmt.Sprintf("Error: message too long for image (needs %d pixels, image has %d)", ce.Required, ce.Available)
	default:
		return "Error: " + err.Error()
	}
}

// hideCmd embeds a message
func hideCmd() *cobra.Command {
	var in, out, message, password string
	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Encrypt a message and hide it in an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			if message == "" {
				return fmt.Errorf("--message is required")
			}
			password, err := passwordOrEnv(password)
			if err != nil {
				return err
			}

			s, err := newStego()
			if err != nil {
				return err
			}
			store, err := newImageStore()
			if err != nil {
				return err
			}
			if err := s.HideFile(store, in, out, message, password); err != nil {
				return err
			}
			fmt.Printf("Message hidden successfully in %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image (PNG, BMP, JPEG, GIF)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output image (.png or .bmp)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to hide")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (or set STEGCRYPT_PASSWORD)")
	return cmd
}

// revealCmd extracts a message
func revealCmd() *cobra.Command {
	var in, outText, password string
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Extract and decrypt a hidden message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			password, err := passwordOrEnv(password)
			if err != nil {
				return err
			}

			s, err := newStego()
			if err != nil {
				return err
			}
			base, err := newHostFS()
			if err != nil {
				return err
			}
			store, err := stegcrypt.NewFSImageStore(base)
			if err != nil {
				return err
			}

			if outText == "" {
				img, err := store.Load(in)
				if err != nil {
					return err
				}
				message, err := s.Reveal(img, password)
				if err != nil {
					return err
				}
				fmt.Printf("Extracted Message: %s\n", message)
				return nil
			}

			sink, err := stegcrypt.NewFileSink(base, outText)
			if err != nil {
				return err
			}
			message, err := s.RevealFile(store, in, password, sink)
			if err != nil {
				return err
			}
			fmt.Printf("Extracted Message: %s\nExtracted message saved to %s\n", message, sink.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Image holding a message")
	cmd.Flags().StringVar(&outText, "out-text", "", "Also write the message to this file")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (or set STEGCRYPT_PASSWORD)")
	return cmd
}

// capacityCmd reports how much an image can hold
func capacityCmd() *cobra.Command {
	var in, message, password string
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show how many bits an image holds and a message needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			store, err := newImageStore()
			if err != nil {
				return err
			}
			img, err := store.Load(in)
			if err != nil {
				return err
			}

			capacity := stegcrypt.Capacity(img)
			chars := capacity/8 - 1
			if chars < 0 {
				chars = 0
			}
			fmt.Printf("Capacity: %d bits (%d token characters)\n", capacity, chars)
			if message == "" {
				return nil
			}

			password, err := passwordOrEnv(password)
			if err != nil {
				return err
			}
			kd, err := keyDerivation(kdfName)
			if err != nil {
				return err
			}
			key, err := kd.DeriveKey(password)
			if err != nil {
				return err
			}
			engine, err := stegcrypt.NewCipherEngine(key, authenticate)
			if err != nil {
				return err
			}
			token, err := stegcrypt.EncryptWith(engine, message)
			if err != nil {
				return err
			}
			required := stegcrypt.RequiredBits(token)
			fmt.Printf("Required: %d bits, fits: %v\n", required, required <= capacity)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Carrier image")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to measure")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (or set STEGCRYPT_PASSWORD)")
	return cmd
}

// versionCmd prints version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stegcrypt version %s\n", version)
		},
	}
}
