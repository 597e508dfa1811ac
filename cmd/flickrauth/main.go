// flickrauth walks through the OAuth authorization flow on the terminal and
// saves the resulting access token to a file usable as FLICKR_AUTH_FILE.
//
//	flickrauth -perms write -out auth.txt
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/config"
)

func main() {
	perms := flag.String("perms", "read", "requested permission level: read, write or delete")
	out := flag.String("out", "flickr_auth.txt", "file to save the access token to")
	withKeys := flag.Bool("include-keys", false, "also store the consumer key pair in the file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		log.Fatal("FLICKR_API_KEY and FLICKR_API_SECRET must be set")
	}

	handler, err := auth.NewHandler(cfg.APIKey, cfg.APISecret)
	if err != nil {
		log.Fatalf("Failed to create auth handler: %v", err)
	}

	ctx := context.Background()
	if err := handler.FetchRequestToken(ctx); err != nil {
		log.Fatalf("Failed to fetch request token: %v", err)
	}

	url, err := handler.AuthorizationURL(*perms)
	if err != nil {
		log.Fatalf("Failed to build authorization URL: %v", err)
	}
	fmt.Println("Open this URL in a browser and authorize the application:")
	fmt.Println()
	fmt.Printf("  %s\n\n", url)
	fmt.Print("Enter the verifier code shown afterwards: ")

	reader := bufio.NewReader(os.Stdin)
	verifier, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read verifier: %v", err)
	}
	verifier = strings.TrimSpace(verifier)

	if err := handler.ExchangeVerifier(ctx, verifier); err != nil {
		log.Fatalf("Failed to exchange verifier: %v", err)
	}
	if err := handler.SaveFile(*out, *withKeys); err != nil {
		log.Fatalf("Failed to save token: %v", err)
	}
	fmt.Printf("Access token saved to %s\n", *out)
}
