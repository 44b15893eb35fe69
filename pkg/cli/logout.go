package cli

import (
	"flag"
	"fmt"
)

func newLogoutCommand() *Command {
	cmd := &Command{
		Name:        "logout",
		Description: "Revoke the current session and forget the token",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
		Run:         runLogout,
	}

	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runLogout(args []string) error {
	cmd := newLogoutCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	token, err := loadToken()
	if err != nil {
		return err
	}

	// Revoke server-side first; the local token is removed even when the
	// session was already gone.
	if err := doRequest("POST", server+"/auth/logout", token, nil, nil); err != nil {
		fmt.Printf("Warning: server-side logout failed: %v\n", err)
	}

	if err := clearToken(); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
