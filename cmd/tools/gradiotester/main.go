package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	gradiomodel "github.com/taskmatrix/facade/internal/model/gradio"
	"github.com/taskmatrix/facade/internal/service/gradio"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	url := flag.String("url", "http://localhost:11220", "base URL of the Gradio service")
	mode := flag.String("mode", "simple", "test mode: simple, image or chat")
	lang := flag.String("lang", "English", "language choice (English or Chinese)")
	text := flag.String("text", "", "text query (image mode)")
	imagePath := flag.String("image", "", "image file path (image mode)")
	session := flag.String("session", "", "custom session hash, generated when empty")
	timeout := flag.Duration("timeout", 60*time.Second, "per-request timeout")

	flag.Parse()

	client := gradio.NewClient(*url, *session)

	switch *mode {
	case "simple":
		runSimple(client, *timeout)
	case "image":
		runImage(client, *imagePath, *text, *lang, *timeout)
	case "chat":
		runChat(client, *lang, *timeout)
	default:
		flag.Usage()
		log.Fatal("pick a mode with -mode=simple, -mode=image or -mode=chat")
	}
}

// runSimple walks the upstream's read-only endpoints and prints what it finds.
func runSimple(client *gradio.Client, timeout time.Duration) {
	fmt.Println("TaskMatrix Visual ChatGPT - Simple Test")
	fmt.Println(strings.Repeat("-", 40))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Printf("1. Checking connection to %s...\n", client.BaseURL())
	if err := client.CheckConnection(ctx); err != nil {
		fmt.Printf("   Connection: FAILED (%v)\n", err)
		fmt.Println("\nMake sure the Gradio container is running before retrying.")
		os.Exit(1)
	}
	fmt.Println("   Connection: OK")

	fmt.Println("\n2. Getting Gradio config...")
	if cfg, err := client.AppConfig(ctx); err != nil {
		fmt.Printf("   Failed to get config: %v\n", err)
	} else {
		fingerprint, _ := cfg["fingerprint"].(string)
		if fingerprint == "" {
			fingerprint = "N/A"
		}
		fmt.Println("   Config retrieved successfully")
		fmt.Printf("   Fingerprint: %s\n", fingerprint)
	}

	fmt.Println("\n3. Checking queue status...")
	if status, err := client.QueueStatus(ctx); err != nil {
		fmt.Printf("   Failed to get queue status: %v\n", err)
	} else {
		pretty, _ := json.MarshalIndent(status, "   ", "    ")
		fmt.Printf("   Queue info: %s\n", pretty)
	}

	fmt.Println("\n4. Available tools:")
	for _, tool := range gradio.Tools() {
		fmt.Printf("   - %s\n", tool)
	}
}

// runImage submits a single image query.
func runImage(client *gradio.Client, imagePath, text, lang string, timeout time.Duration) {
	if imagePath == "" {
		log.Fatal("image mode needs an image file via -image")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("submitting image query: image=%s lang=%s session=%s", imagePath, lang, client.SessionHash())

	resp, err := client.RunImage(ctx, imagePath, text, nil, lang)
	if err != nil {
		log.Fatalf("image run failed: %v", err)
	}

	printPredictData(resp)
}

// runChat drives an interactive conversation against the upstream.
func runChat(client *gradio.Client, lang string, timeout time.Duration) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("TaskMatrix Visual ChatGPT - Interactive Demo")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	checkCtx, cancel := context.WithTimeout(context.Background(), timeout)
	err := client.CheckConnection(checkCtx)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", client.BaseURL(), err)
	}
	fmt.Println("Connected successfully!")

	fmt.Println("Type 'quit' to exit, 'clear' to clear history, 'lang' to switch language")
	fmt.Println(strings.Repeat("-", 40))

	history := gradiomodel.History{}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			fmt.Println("\nExiting...")
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit":
			fmt.Println("Goodbye!")
			return
		case "clear":
			history = gradiomodel.History{}
			clearCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_, err := client.ClearMemory(clearCtx)
			cancel()
			if err != nil {
				fmt.Printf("Failed to clear upstream memory: %v\n", err)
			}
			fmt.Println("Conversation history cleared.")
			continue
		case "lang":
			if lang == "English" {
				lang = "Chinese"
			} else {
				lang = "English"
			}
			fmt.Printf("Language switched to: %s\n", lang)
			continue
		}

		fmt.Printf("\nAssistant (%s): ", lang)

		runCtx, cancel := context.WithTimeout(context.Background(), timeout)
		resp, err := client.RunText(runCtx, input, history, lang)
		cancel()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		reply := printPredictData(resp)
		history = append(history, [2]string{input, reply})
	}
}

// printPredictData prints the upstream's answer and returns its text form.
func printPredictData(resp *gradiomodel.PredictResponse) string {
	if len(resp.Data) == 0 {
		fmt.Println("(empty response)")
		return ""
	}

	if text, ok := resp.Data[0].(string); ok {
		fmt.Println(text)
		return text
	}

	raw, _ := json.Marshal(resp.Data)
	fmt.Println(string(raw))
	return string(raw)
}
