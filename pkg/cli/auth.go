package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mchmarny/termpulse/pkg/auth"
	"github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "termpulse"
	keyringUser    = "github_token"

	tokenEnvVar       = "GITHUB_TOKEN"
	legacyTokenEnvVar = "GITHUB_ACCESS_TOKEN"
)

var (
	tokenFlag = &cli.StringFlag{
		Name:  "token",
		Usage: "GitHub personal access token to store (skips the device flow)",
	}

	clientIDFlag = &cli.StringFlag{
		Name:  "client-id",
		Usage: "GitHub OAuth app client ID for the device flow",
	}

	authCmd = &cli.Command{
		Name:  "auth",
		Usage: "Manage the GitHub token used by the importer",
		Subcommands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Store a GitHub token (device flow, or --token directly)",
				Action: cmdAuthLogin,
				Flags: []cli.Flag{
					tokenFlag,
					clientIDFlag,
				},
			},
			{
				Name:   "status",
				Usage:  "Show whether a GitHub token is available",
				Action: cmdAuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored GitHub token",
				Action: cmdAuthLogout,
			},
		},
	}
)

func cmdAuthLogin(c *cli.Context) error {
	token := c.String(tokenFlag.Name)

	if token == "" {
		clientID := c.String(clientIDFlag.Name)
		if clientID == "" {
			return cli.ShowSubcommandHelp(c)
		}

		code, err := auth.GetDeviceCode(clientID)
		if err != nil {
			return fmt.Errorf("starting device flow: %w", err)
		}

		fmt.Printf("Open %s and enter code: %s\n", code.VerificationURL, code.UserCode)

		if token, err = auth.WaitForToken(clientID, code); err != nil {
			return fmt.Errorf("waiting for authorization: %w", err)
		}
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	slog.Info("token stored", "service", keyringService)
	return nil
}

func cmdAuthStatus(c *cli.Context) error {
	token, source := resolveToken()
	return encode(map[string]any{
		"authenticated": token != "",
		"source":        source,
	})
}

func cmdAuthLogout(c *cli.Context) error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil {
		if err == keyring.ErrNotFound {
			slog.Info("no stored token")
			return nil
		}
		return fmt.Errorf("removing token: %w", err)
	}
	slog.Info("token removed")
	return nil
}

// getGitHubToken returns the token from the keyring, falling back to the
// environment.
func getGitHubToken() (string, error) {
	token, _ := resolveToken()
	if token == "" {
		return "", fmt.Errorf("no GitHub token: run %s auth login, or set %s", name, tokenEnvVar)
	}
	return token, nil
}

func resolveToken() (token, source string) {
	if t, err := keyring.Get(keyringService, keyringUser); err == nil && t != "" {
		return t, "keyring"
	}
	if t := os.Getenv(tokenEnvVar); t != "" {
		return t, "env:" + tokenEnvVar
	}
	if t := os.Getenv(legacyTokenEnvVar); t != "" {
		return t, "env:" + legacyTokenEnvVar
	}
	return "", "none"
}
