package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/archepal/archepal/internal/client/services"
	"github.com/archepal/archepal/internal/common"
)

// Queue shows the pending-sync badge counts.
func (a *App) Queue(ctx context.Context) {
	artifacts, err := a.queue.Count(ctx, services.KindArtifact)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	diary, err := a.queue.Count(ctx, services.KindDiary)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Pending sync: %d artifacts, %d diary entries", artifacts, diary))
}

// Sync drains both write queues now.
func (a *App) Sync(ctx context.Context) {
	res, err := a.syncer.DrainAll(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSyncInProgress) {
			printlnFn("A sync is already running.")
			return
		}
		printlnFn(err.Error())
	}
	printlnFn(fmt.Sprintf("Synced %d, failed %d", res.Synced, res.Failed))
}

// Annotate merges an AI image summary into a still-pending queue entry:
//
//	annotate <artifact|diary> <local-id> <text...>
func (a *App) Annotate(ctx context.Context, args []string) {
	if len(args) < 3 {
		printlnFn("Usage: annotate <artifact|diary> <local-id> <text>")
		return
	}

	var kind services.Kind
	switch args[0] {
	case "artifact":
		kind = services.KindArtifact
	case "diary":
		kind = services.KindDiary
	default:
		printlnFn("Unknown queue:", args[0])
		return
	}

	localID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		printlnFn("Bad local id:", args[1])
		return
	}

	summary := strings.Join(args[2:], " ")
	if err := a.queue.UpdateEntry(ctx, kind, localID, map[string]any{"aiImageSummary": summary}); err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn("Entry annotated.")
}

// ClearCache empties every read cache (queues are untouched). Used on
// logout/reset.
func (a *App) ClearCache(ctx context.Context) {
	if err := a.caches.ClearAll(ctx); err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn("Caches cleared.")
}

// Login installs a user session token for authenticated remote calls.
func (a *App) Login(ctx context.Context) {
	token, err := GetSecret(a.out, "Session token")
	if err != nil {
		printlnFn(err.Error())
		return
	}
	a.docs.SetSessionToken(token)
	printlnFn("Session token set.")
}
