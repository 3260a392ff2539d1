package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	Sites(ctx context.Context)
	Artifacts(ctx context.Context)
	Site(ctx context.Context, id string)
	Artifact(ctx context.Context, id string)
	AddArtifact(ctx context.Context)
	AddDiary(ctx context.Context)
	Annotate(ctx context.Context, args []string)
	Queue(ctx context.Context)
	Sync(ctx context.Context)
	ClearCache(ctx context.Context)
	Login(ctx context.Context)
}

// runREPL reads a line per iteration, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or "exit"/"quit".
//
// Command handlers report their own errors; the loop stays resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("archepal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: sites, artifacts, site <id>, artifact <id>, addartifact, adddiary, annotate <artifact|diary> <local-id> <text>, queue, sync, clearcache, login, exit")
		case "sites":
			a.Sites(ctx)
		case "artifacts":
			a.Artifacts(ctx)
		case "site":
			if len(args) == 0 {
				printlnFn("Usage: site <id>")
				continue
			}
			a.Site(ctx, args[0])
		case "artifact":
			if len(args) == 0 {
				printlnFn("Usage: artifact <id>")
				continue
			}
			a.Artifact(ctx, args[0])
		case "addartifact":
			a.AddArtifact(ctx)
		case "adddiary":
			a.AddDiary(ctx)
		case "annotate":
			a.Annotate(ctx, args)
		case "queue":
			a.Queue(ctx)
		case "sync":
			a.Sync(ctx)
		case "clearcache":
			a.ClearCache(ctx)
		case "login":
			a.Login(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
