package cli

import (
	"flag"
	"fmt"
	"time"
)

type userRecord struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUsersCommand() *Command {
	cmd := &Command{
		Name:        "users",
		Description: "Manage user accounts (admin only)",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("users", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newUsersListCommand()
	cmd.Subcommands["create"] = newUsersCreateCommand()
	cmd.Subcommands["deactivate"] = newUsersDeactivateCommand()

	return cmd
}

func newUsersListCommand() *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List all user accounts",
		Flags:       flag.NewFlagSet("users list", flag.ExitOnError),
		Run:         runUsersList,
	}

	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runUsersList(args []string) error {
	cmd := newUsersListCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	token, err := loadToken()
	if err != nil {
		return err
	}

	var users []userRecord
	if err := doRequest("GET", server+"/auth/users", token, nil, &users); err != nil {
		return err
	}

	fmt.Printf("%-6s %-20s %-8s %-8s\n", "ID", "USERNAME", "ROLE", "ACTIVE")
	for _, u := range users {
		fmt.Printf("%-6d %-20s %-8s %-8t\n", u.ID, u.Username, u.Role, u.IsActive)
	}
	return nil
}

func newUsersCreateCommand() *Command {
	cmd := &Command{
		Name:        "create",
		Description: "Create a user account",
		Flags:       flag.NewFlagSet("users create", flag.ExitOnError),
		Run:         runUsersCreate,
	}

	cmd.Flags.String("username", "", "Username")
	cmd.Flags.String("password", "", "Initial password")
	cmd.Flags.String("email", "", "Email address")
	cmd.Flags.String("role", "user", "Role: admin, user, or viewer")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runUsersCreate(args []string) error {
	cmd := newUsersCreateCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	username := cmd.Flags.Lookup("username").Value.String()
	password := cmd.Flags.Lookup("password").Value.String()
	email := cmd.Flags.Lookup("email").Value.String()
	role := cmd.Flags.Lookup("role").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	payload := map[string]string{
		"username": username,
		"password": password,
		"email":    email,
		"role":     role,
	}
	var created userRecord
	if err := doRequest("POST", server+"/auth/users", token, payload, &created); err != nil {
		return err
	}

	fmt.Printf("Created user %s (id=%d, role=%s)\n", created.Username, created.ID, created.Role)
	return nil
}

func newUsersDeactivateCommand() *Command {
	cmd := &Command{
		Name:        "deactivate",
		Description: "Deactivate a user account",
		Flags:       flag.NewFlagSet("users deactivate", flag.ExitOnError),
		Run:         runUsersDeactivate,
	}

	cmd.Flags.Int64("id", 0, "User ID")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runUsersDeactivate(args []string) error {
	cmd := newUsersDeactivateCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	id := cmd.Flags.Lookup("id").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if id == "0" || id == "" {
		return fmt.Errorf("user id is required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	if err := doRequest("DELETE", server+"/auth/users/"+id, token, nil, nil); err != nil {
		return err
	}

	fmt.Printf("Deactivated user %s\n", id)
	return nil
}
