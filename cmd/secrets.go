package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var jwtSecretKeys = []string{
	"JWT_ACCESS_SECRET",
	"JWT_REFRESH_SECRET",
	"JWT_RESET_SECRET",
	"JWT_CONFIRM_SECRET",
}

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage JWT signing secrets",
}

var secretsRotateCmd = &cobra.Command{
	Use:   "rotate [env-file]",
	Short: "Replace all JWT signing secrets in an env file with fresh random values",
	Long: `Replace all JWT signing secrets in an env file with fresh random values.

Rotation invalidates every outstanding token signed with the old secrets, so
all users will have to log in again once the server is restarted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		envFile := ".env"
		if len(args) == 1 {
			envFile = args[0]
		}

		env, err := readEnvFile(envFile)
		if err != nil {
			return err
		}

		for _, key := range jwtSecretKeys {
			secret, err := generateSecret()
			if err != nil {
				return err
			}
			env[key] = secret
		}

		if err = godotenv.Write(env, envFile); err != nil {
			return fmt.Errorf("failed to write %s: %w", envFile, err)
		}

		for _, key := range jwtSecretKeys {
			fmt.Printf("rotated: %s\n", key)
		}
		fmt.Println("restart the server to pick up the new secrets")
		return nil
	},
}

func init() {
	secretsCmd.AddCommand(secretsRotateCmd)
	rootCmd.AddCommand(secretsCmd)
}

func readEnvFile(envFile string) (map[string]string, error) {
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return map[string]string{}, nil
	}

	env, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return env, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
