package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	gtaw "github.com/okuzmin/go-twitter-api-wrapper"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/throttle"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

func main() {
	// Get credentials from environment variables
	consumerKey := os.Getenv("TWITTER_CONSUMER_KEY")
	consumerSecret := os.Getenv("TWITTER_CONSUMER_SECRET")
	tokenKey := os.Getenv("TWITTER_TOKEN_KEY")
	tokenSecret := os.Getenv("TWITTER_TOKEN_SECRET")

	if consumerKey == "" || consumerSecret == "" {
		log.Fatal("TWITTER_CONSUMER_KEY and TWITTER_CONSUMER_SECRET environment variables are required")
	}

	// Route structured logs to stdout; adjust the level as needed.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	config := &gtaw.Config{
		Headers:   map[string]string{"User-Agent": "example-bot/1.0"},
		Throttler: throttle.NewInterval(time.Second),
		Logger:    logger,
	}

	client, err := gtaw.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()

	// Without a stored access token, walk the three-legged handshake:
	// request temporary credentials, send the user to the authorize URL,
	// and trade the PIN they bring back for token credentials.
	var token *gtaw.Credentials
	if tokenKey != "" && tokenSecret != "" {
		token, err = gtaw.NewTokenCredentials(consumerKey, consumerSecret, tokenKey, tokenSecret)
		if err != nil {
			log.Fatalf("Bad token credentials: %v", err)
		}
	} else {
		app, err := gtaw.NewApplicationCredentials(consumerKey, consumerSecret)
		if err != nil {
			log.Fatalf("Bad application credentials: %v", err)
		}

		temp, err := client.RequestTemporaryCredentials(ctx, app, "")
		if err != nil {
			log.Fatalf("Failed to request temporary credentials: %v", err)
		}

		authURL, err := client.AuthorizationURL(temp)
		if err != nil {
			log.Fatalf("Failed to build authorization URL: %v", err)
		}
		fmt.Printf("Open this URL in a browser and authorize the app:\n  %s\n", authURL)
		fmt.Print("Enter the PIN shown after authorizing: ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read PIN: %v", err)
		}

		token, err = client.ConfirmCredentials(ctx, temp, strings.TrimSpace(line))
		if err != nil {
			log.Fatalf("Failed to confirm credentials: %v", err)
		}
		fmt.Printf("Authorized as @%s\n", token.Extra["screen_name"])
		fmt.Printf("Store these for next time:\n  TWITTER_TOKEN_KEY=%s\n  TWITTER_TOKEN_SECRET=%s\n",
			token.TokenKey, token.TokenSecret)
	}

	// Fetch the home timeline.
	timeline, err := client.Call(ctx, token,
		types.Operation{Method: "GET", Path: "statuses/home_timeline"},
		map[string]any{"count": 5})
	if err != nil {
		log.Fatalf("Failed to fetch timeline: %v", err)
	}

	statuses, _ := timeline.([]any)
	fmt.Printf("\nHome timeline (%d statuses):\n", len(statuses))
	for i, raw := range statuses {
		status, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		user, _ := status["user"].(map[string]any)
		fmt.Printf("%d. @%v: %.80v\n", i+1, user["screen_name"], status["text"])
	}

	// Follow the sample stream for a handful of messages.
	fmt.Println("\nSampling the public stream:")
	stream, err := client.Flow(ctx, token, gtaw.SampleStream, nil)
	if err != nil {
		log.Fatalf("Failed to open stream: %v", err)
	}
	defer stream.Close()

	for i := 0; i < 5; i++ {
		message, err := stream.Next()
		if err != nil {
			log.Printf("Stream ended: %v", err)
			break
		}
		status, ok := message.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  %.100v\n", status["text"])
	}
}
