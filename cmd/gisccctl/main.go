// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command gisccctl manages site content from the command line through the
// same content API the admin pages use.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// command is one subcommand. run receives the arguments after its name.
type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"version":        {"print version information", cmdVersion},
	"login":          {"-email E -password P: sign in and store the token", cmdLogin},
	"logout":         {"forget the stored token", cmdLogout},
	"whoami":         {"show the signed in admin", cmdWhoami},
	"blogs":          {"[-q term] [-page n]: list blogs", cmdBlogs},
	"events":         {"[-q term] [-page n]: list events", cmdEvents},
	"event-create":   {"-title -description -date [-venue] [-image] [-active]: create an event", cmdEventCreate},
	"event-update":   {"-id ID -title -description -date [-venue] [-image] [-active]: update an event", cmdEventUpdate},
	"event-delete":   {"-id ID: delete an event", cmdEventDelete},
	"gallery":        {"[-category name]: list gallery images", cmdGallery},
	"gallery-add":    {"-image URL [-title] [-category]: add a gallery image", cmdGalleryAdd},
	"gallery-delete": {"-id ID: delete a gallery image", cmdGalleryDelete},
}

// app holds what every command needs.
type app struct {
	client *apiclient.Client
	guard  *auth.Guard
	tokens *auth.FileTokenStore
	out    io.Writer
	info   version.Info
	// wait bounds how long session verification may take.
	wait time.Duration
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, "Usage: gisccctl [options] <command> [command options]\n\nOptions:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, "\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].usage)
	}
}

// run parses the global flags, builds the app and dispatches the command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gisccctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", os.Getenv("GISCC_API_BASE_URL"), "Content API base URL")
	tokenPath := fs.String("token-file", auth.DefaultTokenPath(), "Where the bearer token is stored")
	timeout := fs.Duration("timeout", 15*time.Second, "API request timeout")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	a := &app{
		out:  stdout,
		info: version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime},
		wait: *timeout,
	}
	if name != "version" {
		if *apiURL == "" {
			_, _ = fmt.Fprintln(stderr, "error: -api or GISCC_API_BASE_URL is required")
			return 2
		}
		a.tokens = auth.NewFileTokenStore(*tokenPath)
		client, err := apiclient.New(*apiURL, apiclient.WithTimeout(*timeout), apiclient.WithTokenSource(a.tokens))
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		a.client = client
		a.guard = auth.NewGuard(client, a.tokens, auth.Options{VerifyTimeout: *timeout})
		defer func() { _ = a.guard.Close() }()
	}

	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
	return 0
}

// describe turns API errors into the message the server sent.
func describe(err error) string {
	if msg := apiclient.Message(err); apiclient.IsClientError(err) && msg != "" {
		return msg
	}
	return err.Error()
}
