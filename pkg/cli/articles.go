package cli

import (
	"flag"
	"fmt"
	"time"
)

type articleRecord struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"body,omitempty"`
	IsShared    bool      `json:"is_shared"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newArticlesCommand() *Command {
	cmd := &Command{
		Name:        "articles",
		Description: "Work with articles",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("articles", flag.ExitOnError),
	}

	cmd.Subcommands["list"] = newArticlesListCommand()
	cmd.Subcommands["get"] = newArticlesGetCommand()
	cmd.Subcommands["create"] = newArticlesCreateCommand()
	cmd.Subcommands["share"] = newArticlesShareCommand()
	cmd.Subcommands["delete"] = newArticlesDeleteCommand()

	return cmd
}

func newArticlesListCommand() *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List visible articles",
		Flags:       flag.NewFlagSet("articles list", flag.ExitOnError),
		Run:         runArticlesList,
	}

	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runArticlesList(args []string) error {
	cmd := newArticlesListCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	token, err := loadToken()
	if err != nil {
		return err
	}

	var articles []articleRecord
	if err := doRequest("GET", server+"/articles", token, nil, &articles); err != nil {
		return err
	}

	fmt.Printf("%-6s %-40s %-8s %-8s\n", "ID", "TITLE", "OWNER", "SHARED")
	for _, a := range articles {
		fmt.Printf("%-6d %-40s %-8d %-8t\n", a.ID, a.Title, a.OwnerUserID, a.IsShared)
	}
	return nil
}

func newArticlesGetCommand() *Command {
	cmd := &Command{
		Name:        "get",
		Description: "Show one article",
		Flags:       flag.NewFlagSet("articles get", flag.ExitOnError),
		Run:         runArticlesGet,
	}

	cmd.Flags.Int64("id", 0, "Article ID")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runArticlesGet(args []string) error {
	cmd := newArticlesGetCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	id := cmd.Flags.Lookup("id").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if id == "0" || id == "" {
		return fmt.Errorf("article id is required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	var article articleRecord
	if err := doRequest("GET", server+"/articles/"+id, token, nil, &article); err != nil {
		return err
	}

	fmt.Printf("ID:      %d\n", article.ID)
	fmt.Printf("Title:   %s\n", article.Title)
	fmt.Printf("Owner:   %d\n", article.OwnerUserID)
	fmt.Printf("Shared:  %t\n", article.IsShared)
	if article.URL != "" {
		fmt.Printf("URL:     %s\n", article.URL)
	}
	if article.Body != "" {
		fmt.Printf("\n%s\n", article.Body)
	}
	return nil
}

func newArticlesCreateCommand() *Command {
	cmd := &Command{
		Name:        "create",
		Description: "Create an article",
		Flags:       flag.NewFlagSet("articles create", flag.ExitOnError),
		Run:         runArticlesCreate,
	}

	cmd.Flags.String("title", "", "Article title")
	cmd.Flags.String("url", "", "Source URL")
	cmd.Flags.String("body", "", "Article body")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runArticlesCreate(args []string) error {
	cmd := newArticlesCreateCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	title := cmd.Flags.Lookup("title").Value.String()
	url := cmd.Flags.Lookup("url").Value.String()
	body := cmd.Flags.Lookup("body").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if title == "" {
		return fmt.Errorf("title is required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	payload := map[string]string{"title": title, "url": url, "body": body}
	var created articleRecord
	if err := doRequest("POST", server+"/articles", token, payload, &created); err != nil {
		return err
	}

	fmt.Printf("Created article %d: %s\n", created.ID, created.Title)
	return nil
}

func newArticlesShareCommand() *Command {
	cmd := &Command{
		Name:        "share",
		Description: "Mark an article shared or private",
		Flags:       flag.NewFlagSet("articles share", flag.ExitOnError),
		Run:         runArticlesShare,
	}

	cmd.Flags.Int64("id", 0, "Article ID")
	cmd.Flags.Bool("off", false, "Make the article private instead")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runArticlesShare(args []string) error {
	cmd := newArticlesShareCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	id := cmd.Flags.Lookup("id").Value.String()
	off := cmd.Flags.Lookup("off").Value.String() == "true"
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if id == "0" || id == "" {
		return fmt.Errorf("article id is required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	payload := map[string]bool{"shared": !off}
	var updated articleRecord
	if err := doRequest("PUT", server+"/articles/"+id+"/share", token, payload, &updated); err != nil {
		return err
	}

	if updated.IsShared {
		fmt.Printf("Article %d is now shared\n", updated.ID)
	} else {
		fmt.Printf("Article %d is now private\n", updated.ID)
	}
	return nil
}

func newArticlesDeleteCommand() *Command {
	cmd := &Command{
		Name:        "delete",
		Description: "Delete an article",
		Flags:       flag.NewFlagSet("articles delete", flag.ExitOnError),
		Run:         runArticlesDelete,
	}

	cmd.Flags.Int64("id", 0, "Article ID")
	cmd.Flags.String("server", defaultServerURL, "Server URL")

	return cmd
}

func runArticlesDelete(args []string) error {
	cmd := newArticlesDeleteCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	id := cmd.Flags.Lookup("id").Value.String()
	server := serverURL(cmd.Flags.Lookup("server").Value.String())

	if id == "0" || id == "" {
		return fmt.Errorf("article id is required")
	}

	token, err := loadToken()
	if err != nil {
		return err
	}

	if err := doRequest("DELETE", server+"/articles/"+id, token, nil, nil); err != nil {
		return err
	}

	fmt.Printf("Deleted article %s\n", id)
	return nil
}
