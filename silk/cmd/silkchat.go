// Terminal chat client for the SILK Finance assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"silk/silk/client"
	"silk/silk/config"
	"silk/silk/types"
	httputils "silk/silk/utils/http"
	"silk/silk/utils/logging"
)

// apiStreamer satisfies client.Streamer by going through the server's
// master-agent endpoint instead of hitting the AI gateway directly.
type apiStreamer struct {
	baseURL        string
	token          string
	conversationID string
}

func (a *apiStreamer) StreamChat(ctx context.Context, history []types.Message) (io.ReadCloser, error) {
	body, status, err := httputils.PostStream(ctx, a.baseURL+"/agent/chat", a.token, types.ChatRequest{
		Messages:       history,
		ConversationID: a.conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("agent request failed (status %d): %w", status, err)
	}
	return body, nil
}

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx := context.Background()

	baseURL := getArg(1, "http://localhost:"+cfg.Port)
	email := getArg(2, "customer@example.com")

	var login struct {
		Token string `json:"token"`
	}
	if err := httputils.PostJSON(ctx, baseURL+"/auth/login", "", types.LoginRequest{Email: email}, &login); err != nil {
		fmt.Fprintln(os.Stderr, "login failed:", err)
		os.Exit(1)
	}

	var conv struct {
		ID string `json:"id"`
	}
	if err := httputils.PostJSON(ctx, baseURL+"/conversations/", login.Token, struct{}{}, &conv); err != nil {
		fmt.Fprintln(os.Stderr, "could not open conversation:", err)
		os.Exit(1)
	}

	streamer := &apiStreamer{baseURL: baseURL, token: login.Token, conversationID: conv.ID}
	session := client.NewSession(streamer, nil)
	session.ConversationID = conv.ID

	// print only the unseen tail of the streaming assistant message
	printed := 0
	session.Subscribe(func(messages []types.Message) {
		if len(messages) == 0 {
			return
		}
		last := messages[len(messages)-1]
		if last.Role != "assistant" {
			printed = 0
			return
		}
		if printed < len(last.Content) {
			fmt.Print(last.Content[printed:])
			printed = len(last.Content)
		}
	})

	fmt.Println("SILK Finance assistant — conversation", conv.ID)
	fmt.Println("Type your message or 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		printed = 0
		fmt.Print("silk> ")
		if err := session.Send(ctx, line); err != nil {
			fmt.Println()
			fmt.Fprintln(os.Stderr, "error:", err)
			logging.ErrorLogger.Error("send failed", zap.Error(err))
			continue
		}
		fmt.Println()
	}
}

func getArg(i int, fallback string) string {
	if len(os.Args) > i && os.Args[i] != "" {
		return os.Args[i]
	}
	return fallback
}
