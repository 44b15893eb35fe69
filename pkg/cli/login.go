package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func newLoginCommand() *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Authenticate and store a session token",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
		Run:         runLogin,
	}

	cmd.Flags.String("username", "", "Username")
	cmd.Flags.String("password", "", "Password (prompted when omitted)")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runLogin(args []string) error {
	cmd := newLoginCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	username := cmd.Flags.Lookup("username").Value.String()
	password := cmd.Flags.Lookup("password").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if username == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := doRequest("POST", server+"/auth/login", "", payload, &result); err != nil {
		return err
	}

	if err := saveToken(result.Token); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (session expires %s)\n", username, result.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}
