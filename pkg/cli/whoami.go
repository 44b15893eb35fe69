package cli

import (
	"flag"
	"fmt"
)

func newWhoamiCommand() *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the authenticated identity",
		Flags:       flag.NewFlagSet("whoami", flag.ExitOnError),
		Run:         runWhoami,
	}

	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runWhoami(args []string) error {
	cmd := newWhoamiCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	token, err := loadToken()
	if err != nil {
		return err
	}

	var principal struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := doRequest("GET", server+"/auth/whoami", token, nil, &principal); err != nil {
		return err
	}

	fmt.Printf("%s (id=%d, role=%s)\n", principal.Username, principal.UserID, principal.Role)
	return nil
}
