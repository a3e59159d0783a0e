package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Printcart API credentials",
		Long:  "Prompt for the API username and password, check them against the API and save them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if username == "" {
				username = viper.GetString(keyUsername)
			}

			if username == "" {
				_, _ = fmt.Fprint(out, "Username: ")
				username = readLine(reader)
			}

			if password == "" {
				_, _ = fmt.Fprint(out, "Password: ")

				secret, err := readSecret(cmd.InOrStdin(), reader)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				_, _ = fmt.Fprintln(out)
				password = secret
			}

			viper.Set(keyUsername, username)
			viper.Set(keyPassword, password)

			if !noVerify {
				client, err := newClient()
				if err != nil {
					return err
				}

				stores, err := client.Store()
				if err != nil {
					return err
				}

				_, err = stores.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("authentication failed: %w", err)
				}
			}

			config := loadConfig()

			err := saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = color.New(color.FgGreen).Fprintf(out, "Logged in as %s\n", username)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "API username")
	cmd.Flags().StringVar(&password, "password", "", "API password (prompted when omitted)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "save the credentials without checking them")

	return cmd
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')

	return strings.TrimSpace(line)
}

// readSecret reads a password without echo when stdin is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) (string, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		secret, err := term.ReadPassword(int(file.Fd()))
		if err != nil {
			return "", err
		}

		return string(secret), nil
	}

	return readLine(reader), nil
}
