package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/apitestkit/apitestkit/pkg/client"
	"github.com/apitestkit/apitestkit/pkg/config"
	"github.com/apitestkit/apitestkit/pkg/logger"
	"github.com/apitestkit/apitestkit/pkg/sse"
	"github.com/apitestkit/apitestkit/pkg/testcase"
)

var loginCommand = &cli.Command{
	Name:      "login",
	Usage:     "Authenticate against the platform and store the token",
	ArgsUsage: "<username>",
	Action:    runLogin,
}

var pullCommand = &cli.Command{
	Name:      "pull",
	Usage:     "Download a case from the platform",
	ArgsUsage: "<case-id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to this file instead of stdout",
		},
	},
	Action: runPull,
}

var pushCommand = &cli.Command{
	Name:      "push",
	Usage:     "Upload a case file to the platform",
	ArgsUsage: "<case-file>",
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:  "project",
			Usage: "Target project id (default from config)",
		},
		&cli.Int64Flag{
			Name:  "id",
			Usage: "Update this existing case instead of creating one",
		},
	},
	Action: runPush,
}

var execCommand = &cli.Command{
	Name:      "exec",
	Usage:     "Trigger a server-side run of a stored case",
	ArgsUsage: "<case-id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "Environment name (default from config)",
		},
	},
	Action: runExec,
}

var clarifyCommand = &cli.Command{
	Name:      "clarify",
	Usage:     "Ask the assistant to refine a case",
	ArgsUsage: "<case-file> <prompt>",
	Action:    runClarify,
}

// tokenClearingPolicy drops the stored token when the backend rejects it,
// so the next command prompts for login instead of failing the same way.
type tokenClearingPolicy struct {
	cfg  *config.Config
	path string
}

func (p *tokenClearingPolicy) OnUnauthorized() {
	p.cfg.Token = ""
	if err := config.Save(p.path, p.cfg); err != nil {
		logger.Warn("clear token: %v", err)
	}
	fmt.Fprintln(os.Stderr, "token rejected, run `apitestkit login` again")
}

// newClient builds a platform client from flags and stored config.
func newClient(c *cli.Context) (*client.Client, *config.Config, string, error) {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return nil, nil, "", err
	}

	server := c.String("server")
	if server == "" {
		server = cfg.Server
	}
	if server == "" {
		return nil, nil, "", fmt.Errorf("no server configured, pass --server or run login")
	}

	token := c.String("token")
	if token == "" {
		token = cfg.Token
	}

	cl := client.New(server,
		client.WithToken(token),
		client.WithUnauthorizedPolicy(&tokenClearingPolicy{cfg: cfg, path: path}),
	)
	return cl, cfg, path, nil
}

func runLogin(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected a username")
	}
	username := c.Args().First()

	cfg, path, err := loadConfig(c)
	if err != nil {
		return err
	}
	server := c.String("server")
	if server == "" {
		server = cfg.Server
	}
	if server == "" {
		return fmt.Errorf("no server configured, pass --server")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	cl := client.New(server)
	token, err := cl.Login(c.Context, username, password)
	if err != nil {
		return err
	}

	cfg.Server = server
	cfg.Token = token
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func runPull(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cl, _, _, err := newClient(c)
	if err != nil {
		return err
	}

	tc, err := cl.GetTestCase(c.Context, id)
	if err != nil {
		return err
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(tc.Content), 0o644); err != nil {
			return err
		}
		fmt.Printf("pulled case %d (%s) to %s\n", tc.ID, tc.Name, out)
		return nil
	}
	fmt.Print(tc.Content)
	return nil
}

func runPush(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one case file")
	}
	path := c.Args().First()

	// Parse locally first so obviously broken files never reach the
	// platform.
	tc, err := testcase.ParseFile(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cl, cfg, _, err := newClient(c)
	if err != nil {
		return err
	}

	if id := c.Int64("id"); id > 0 {
		remote, err := cl.GetTestCase(c.Context, id)
		if err != nil {
			return err
		}
		remote.Name = tc.Name
		remote.Content = string(data)
		if err := cl.UpdateTestCase(c.Context, remote); err != nil {
			return err
		}
		fmt.Printf("updated case %d (%s)\n", id, tc.Name)
		return nil
	}

	project := c.Int64("project")
	if project == 0 {
		project = cfg.Project
	}
	if project == 0 {
		return fmt.Errorf("no project configured, pass --project")
	}

	id, err := cl.ImportYAML(c.Context, project, tc.Name, string(data))
	if err != nil {
		return err
	}
	fmt.Printf("created case %d (%s)\n", id, tc.Name)
	return nil
}

func runExec(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cl, cfg, _, err := newClient(c)
	if err != nil {
		return err
	}

	env := c.String("env")
	if env == "" {
		env = cfg.Env
	}

	result, err := cl.ExecuteTestCase(c.Context, client.ExecuteRequest{CaseID: id, Env: env})
	if err != nil {
		return err
	}
	fmt.Printf("report %d: %s\n", result.ReportID, result.Status)
	return nil
}

func runClarify(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected a case file and a prompt")
	}
	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	prompt := c.Args().Get(1)

	cl, _, _, err := newClient(c)
	if err != nil {
		return err
	}

	req := client.ClarifyRequest{Content: string(data), Prompt: prompt}
	err = cl.Clarify(c.Context, req, func(ev sse.Event) error {
		switch ev.Type {
		case sse.EventContent:
			fmt.Print(ev.Content)
		case sse.EventState:
			logger.Debug("assistant state: %s", ev.State)
		case sse.EventError:
			return errors.New(ev.Message)
		}
		return nil
	})
	fmt.Println()
	return err
}

func parseID(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one case id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid case id %q", c.Args().First())
	}
	return id, nil
}
