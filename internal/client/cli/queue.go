package cli

import (
	"context"
	"fmt"
	"os"
)

func pendingLabel(n int) string {
	if n == 1 {
		return "1 pending"
	}
	return fmt.Sprintf("%d pending", n)
}

func (a *App) Sync(ctx context.Context) error {
	res, err := a.engine.SyncNow(ctx)
	if err != nil {
		printFn("Sync failed:", err.Error())
		return err
	}
	if res.Skipped {
		if !a.monitor.Online() {
			printFn("Offline; changes will sync when the connection returns")
		} else {
			printFn("A sync is already running")
		}
		return nil
	}
	printFn(fmt.Sprintf("Synced %d record(s), %d failed", res.Synced, res.Failed))
	return nil
}

// ShowQueue lists every record still in the outbox, pending first.
func (a *App) ShowQueue(ctx context.Context) error {
	pending, err := a.store.Repos.Outbox.ListPending(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	failed, err := a.store.Repos.Outbox.ListFailed(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}

	if len(pending) == 0 && len(failed) == 0 {
		printFn("Queue is empty")
		return nil
	}
	for _, rec := range append(pending, failed...) {
		line := fmt.Sprintf("%s  %-11s %-8s %-14s %s",
			rec.ID, rec.EntityType, rec.Action, rec.StatusLabel(), rec.EntityID)
		if rec.LastError != "" {
			line += "  (" + rec.LastError + ")"
		}
		printFn(line)
	}
	return nil
}

func (a *App) RetryRecord(ctx context.Context, id string) error {
	if err := a.engine.RetryFailed(ctx, id); err != nil {
		printFn("Could not retry:", err.Error())
		return err
	}
	printFn("Record re-queued; it will replay on the next sync")
	return nil
}

// ClearFailed drops every failed record after an explicit confirmation.
func (a *App) ClearFailed(ctx context.Context) error {
	n, err := a.store.Repos.Outbox.FailedCount(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	if n == 0 {
		printFn("No failed records")
		return nil
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Discard %d failed record(s)? The changes will never reach the server.", n), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printFn("Cancelled")
		return nil
	}

	removed, err := a.store.Repos.Outbox.ClearFailed(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	printFn(fmt.Sprintf("Discarded %d record(s)", removed))
	return nil
}

func (a *App) ShowStatus(ctx context.Context) error {
	if a.monitor.Online() {
		printFn("Connection: online")
	} else {
		printFn("Connection: offline")
	}

	pending, err := a.store.Repos.Outbox.PendingCount(ctx)
	if err != nil {
		return err
	}
	failed, err := a.store.Repos.Outbox.FailedCount(ctx)
	if err != nil {
		return err
	}
	printFn(fmt.Sprintf("Queue: %d pending, %d failed", pending, failed))

	last, err := a.engine.LastSyncAt(ctx)
	if err != nil {
		return err
	}
	if last.IsZero() {
		printFn("Last sync: never")
	} else {
		printFn("Last sync:", last.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
