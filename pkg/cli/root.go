package cli

import (
	"flag"
	"fmt"
	"os"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "curator",
		Description: "Curator - content management CLI",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("curator", flag.ExitOnError),
	}

	root.Subcommands["login"] = newLoginCommand()
	root.Subcommands["logout"] = newLogoutCommand()
	root.Subcommands["whoami"] = newWhoamiCommand()
	root.Subcommands["users"] = newUsersCommand()
	root.Subcommands["articles"] = newArticlesCommand()

	return root
}

// Execute runs the command
func (c *Command) Execute() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.dispatch(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// dispatch routes to a nested subcommand when one exists, otherwise runs
// the command itself.
func (c *Command) dispatch(args []string) error {
	if len(c.Subcommands) > 0 {
		if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
			return c.usage()
		}
		if subcmd, ok := c.Subcommands[args[0]]; ok {
			return subcmd.dispatch(args[1:])
		}
		return fmt.Errorf("unknown command: %s %s", c.Name, args[0])
	}
	return c.Run(args)
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	for name, cmd := range c.Subcommands {
		fmt.Printf("  %-15s %s\n", name, cmd.Description)
	}
	return nil
}
