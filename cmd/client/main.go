package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chat-hub/client"
	"chat-hub/domain/search"
	"chat-hub/observability"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=http://localhost:8080"`
	Name      string `env:"CHAT_NAME,required=true"`
	Password  string `env:"CHAT_PASSWORD,required=true"`
	LogLevel  string `env:"LOG_LEVEL,default=warn"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run owns the terminal client lifecycle: login, conversation selection
// and the read loop. The reconciler does the polling in the background.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := observability.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the session.
	session := client.NewSession()
	apiClient := client.NewAPI(config.ServerURL, session)
	if err := apiClient.Login(ctx, config.Name, config.Password); err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}
	defer session.Close()

	color.Green.Printf(">>> Connected to %s as %s (Ctrl+C to quit)\n", config.ServerURL, session.Name())
	printHelp()

	reconciler := client.NewReconciler(apiClient, session, log)
	defer reconciler.Deselect()

	// 4. Render loop: repaint the active timeline once a second.
	go func() {
		var lastCount int
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				view := reconciler.Timeline().Snapshot()
				for _, msg := range view[min(lastCount, len(view)):] {
					prefix := msg.SenderID
					if msg.IsAttachment {
						prefix += " [file]"
					}
					fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format(time.TimeOnly), prefix, msg.Content)
				}
				lastCount = len(view)
			}
		}
	}()

	// 5. Input loop.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := dispatch(ctx, apiClient, reconciler, line); err != nil {
			color.Red.Printf("error: %v\n", err)
		}
	}

	return exitOK, nil
}

func dispatch(ctx context.Context, apiClient *client.API, reconciler *client.Reconciler, line string) error {
	switch {
	case line == "/help":
		printHelp()
		return nil

	case line == "/users":
		users, err := apiClient.Users(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			flag := ""
			if u.Banned {
				flag = " (banned)"
			}
			fmt.Printf("  %s  %s%s\n", u.ID, u.Name, flag)
		}
		return nil

	case line == "/groups":
		groups, err := apiClient.MyGroups(ctx)
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Printf("  %s  %s (%d members)\n", g.ID, g.Name, len(g.Members))
		}
		return nil

	case strings.HasPrefix(line, "/dm "):
		reconciler.Select(ctx, client.PrivateConversation(strings.TrimPrefix(line, "/dm ")))
		return nil

	case strings.HasPrefix(line, "/group "):
		reconciler.Select(ctx, client.GroupConversation(strings.TrimPrefix(line, "/group ")))
		return nil

	case strings.HasPrefix(line, "/file "):
		return reconciler.SendAttachment(ctx, strings.TrimPrefix(line, "/file "))

	case strings.HasPrefix(line, "/find "):
		conv, ok := reconciler.Active()
		if !ok {
			return client.ErrNoConversation
		}
		query := search.NewQuery(line)
		hits, err := apiClient.SearchMessages(ctx, conv, query.Terms)
		if err != nil {
			return err
		}
		if len(hits) > query.Limit {
			hits = hits[:query.Limit]
		}
		for _, msg := range hits {
			fmt.Printf("  [%s] %s: %s\n", msg.CreatedAt.Format(time.TimeOnly), msg.SenderID, msg.Content)
		}
		return nil

	case strings.HasPrefix(line, "/"):
		return fmt.Errorf("unknown command %q", strings.Fields(line)[0])

	default:
		return reconciler.Send(ctx, line)
	}
}

func printHelp() {
	fmt.Println(`commands:
  /users              list accounts
  /groups             list your groups
  /dm <userId>        open a 1:1 conversation
  /group <groupId>    open a group conversation
  /file <ref>         send an uploaded file reference
  /find <terms>       search the open conversation
  anything else       send as a message`)
}
