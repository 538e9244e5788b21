package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"pawmatch/client"
	"pawmatch/domain"
	"pawmatch/projection"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerURL      string        `env:"PAWMATCH_URL,default=http://localhost:8080"`
	Email          string        `env:"PAWMATCH_EMAIL,required=true"`
	Password       string        `env:"PAWMATCH_PASSWORD,required=true"`
	MatchID        string        `env:"PAWMATCH_MATCH_ID"`
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY,default=2s"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(log, config.ServerURL)
	if err := c.Login(ctx, config.Email, config.Password); err != nil {
		return exitRuntime, fmt.Errorf("login: %w", err)
	}

	matchID := domain.MatchID(config.MatchID)
	if matchID == "" {
		matches, err := c.Matches(ctx)
		if err != nil {
			return exitRuntime, err
		}
		if len(matches) == 0 {
			return exitOK, fmt.Errorf("no match yet for %s", config.Email)
		}
		matchID = matches[0].ID
	}

	if err := c.Connect(ctx); err != nil {
		return exitRuntime, err
	}
	defer c.Close()
	timeline, err := c.Join(ctx, matchID)
	if err != nil {
		return exitRuntime, err
	}
	color.FgGreen.Printf(">>> Joined chat %s (Ctrl+C to quit, /history to redraw)\n", matchID)
	render(timeline)

	go keepConnected(ctx, c, config.ReconnectDelay)
	go watchMatches(ctx, c)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == "/history":
				render(timeline)
			default:
				if _, err := c.Send(matchID, line); err != nil {
					color.FgRed.Printf("send failed: %v\n", err)
				}
			}
		}
	}
}

// keepConnected reconnects after a drop, rejoining and refetching history.
func keepConnected(ctx context.Context, c *client.Client, delay time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.Done():
		}
		color.FgYellow.Println("connection lost, reconnecting...")
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if err := c.Reconnect(ctx); err == nil {
				color.FgGreen.Println("reconnected")
				break
			}
		}
	}
}

func watchMatches(ctx context.Context, c *client.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case match := <-c.MatchCreated():
			color.FgMagenta.Printf("new match %s: %s and %s\n", match.ID, match.PetAID, match.PetBID)
		}
	}
}

func render(timeline *projection.Timeline) {
	for _, entry := range timeline.Entries() {
		msg := entry.Message
		line := fmt.Sprintf("[%s] %s: %s", msg.CreatedAt.Format(time.TimeOnly), msg.SenderID, msg.Content)
		if entry.Status == projection.Pending {
			color.FgGray.Println(line + " (sending)")
			continue
		}
		fmt.Println(line)
	}
}
