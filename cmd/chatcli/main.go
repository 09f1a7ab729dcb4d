// Command chatcli is a minimal terminal client for the chat board. It
// polls the server, prints new messages as they arrive, notes when they
// expire from the view, and sends whatever is typed on stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cinefeed/backend/internal/feed"
	"github.com/cinefeed/backend/internal/models"
)

func main() {
	baseURL := os.Getenv("CHAT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller := feed.New(baseURL)
	controller.OnAppend = func(msg models.Message) {
		fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.UserName, msg.Message)
	}
	controller.OnEvict = func(msg models.Message) {
		fmt.Printf("  (message from %s faded out)\n", msg.UserName)
	}

	go controller.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
		os.Exit(0)
	}()

	fmt.Printf("Connected to %s. Type a message and press enter.\n", baseURL)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text != "" {
			controller.SetInput(text)
		}
		if controller.Input() == "" {
			continue
		}
		if err := controller.Send(ctx); err != nil {
			// The failed text is back in the input; retry keeps it.
			fmt.Printf("  ! %v (press enter to retry)\n", err)
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin error: %v", err)
	}
}
