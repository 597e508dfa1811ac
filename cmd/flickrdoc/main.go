// flickrdoc prints the service's own documentation for its remote
// procedures, fetched through the reflection endpoints.
//
//	flickrdoc                         list every method
//	flickrdoc flickr.photos.getInfo   show one method in detail
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	flickr "github.com/photoflow/go-flickr"
	"github.com/photoflow/go-flickr/config"
	"github.com/photoflow/go-flickr/methodinfo"
	"github.com/photoflow/go-flickr/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// A .env file is a convenience for development; absence is fine.
	_ = godotenv.Load()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	if cfg.Tracing {
		shutdown, err := telemetry.InitTracer("flickrdoc", slog.Default())
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer shutdown(ctx)
	}

	client, err := flickr.FromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to build client: %v", err)
	}

	if flag.NArg() == 0 {
		methods, err := methodinfo.Methods(ctx, client)
		if err != nil {
			log.Fatalf("Failed to list methods: %v", err)
		}
		for _, m := range methods {
			fmt.Println(m)
		}
		return
	}

	for _, name := range flag.Args() {
		m, err := methodinfo.Get(ctx, client, name)
		if err != nil {
			log.Fatalf("Failed to describe %s: %v", name, err)
		}
		printMethod(m)
	}
	_ = os.Stdout.Sync()
}

func printMethod(m *methodinfo.Method) {
	fmt.Printf("%s\n\n", m.Name)
	if m.Description != "" {
		fmt.Printf("%s\n\n", m.Description)
	}
	fmt.Printf("needs login: %t  needs signing: %t  required perms: %s\n\n",
		m.NeedsLogin, m.NeedsSigning, m.RequiredPerms)

	if len(m.Arguments) > 0 {
		fmt.Println("Arguments:")
		for _, a := range m.Arguments {
			opt := "required"
			if a.Optional {
				opt = "optional"
			}
			fmt.Printf("  %s (%s): %s\n", a.Name, opt, a.Description)
		}
		fmt.Println()
	}
	if len(m.Errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range m.Errors {
			fmt.Printf("  %d: %s\n", e.Code, e.Message)
		}
	}
}
