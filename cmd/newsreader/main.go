// Package main runs the headless news client engine: it restores the
// persisted session, synchronizes engagement state when a user is signed in
// and logs the current headline feed.
package main

import (
	"context"
	"log/slog"
	"os"

	"newsreader/internal/client"
	"newsreader/internal/comments"
	"newsreader/internal/dto"
	"newsreader/internal/engagement"
	"newsreader/internal/notify"
	"newsreader/internal/session"
	"newsreader/pkg/kvstore"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	kv, err := kvstore.Open(cfg.Storage.SnapshotPath)
	if err != nil {
		slog.Error("Failed to open state snapshot", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(kv)

	api, err := client.New(cfg.API.BaseURL, sessions,
		client.WithAdminPrefix(cfg.API.AdminPrefix),
		client.WithPageSize(cfg.API.PageSize),
	)
	if err != nil {
		slog.Error("Failed to create API client", "error", err)
		os.Exit(1)
	}

	notifier := notify.NewLog(slog.Default())
	engagements := engagement.NewStore(api, sessions, kv, notifier)
	threads := comments.NewStore(api, sessions, notifier)

	ctx := context.Background()

	if sess := sessions.Current(); sess.Kind == session.User {
		slog.Info("restored session", "user", sess.Subject.ID)
		if err := engagements.FetchBookmarks(ctx); err != nil {
			slog.Warn("bookmark sync failed", "error", err)
		}
		if err := engagements.FetchLikes(ctx); err != nil {
			slog.Warn("like sync failed", "error", err)
		}
	}

	feed, err := api.News(ctx, client.NewsQuery{})
	if err != nil {
		slog.Error("Failed to fetch headlines", "error", err)
		os.Exit(1)
	}

	for _, article := range feed.Items {
		slog.Info("headline",
			slog.String("title", article.Title),
			slog.String("source", article.SourceName),
			slog.Bool("bookmarked", engagements.IsBookmarked(article)),
		)
	}
	slog.Info("feed fetched", "count", len(feed.Items), "hasMore", feed.HasMore())

	if len(feed.Items) > 0 && feed.Items[0].Persisted() {
		if err := threads.Fetch(ctx, feed.Items[0].ID, dto.SortNewest); err != nil {
			slog.Warn("comment fetch failed", "error", err)
		} else {
			slog.Info("comments loaded",
				slog.String("article", feed.Items[0].ID),
				slog.Int("topLevel", len(threads.TopLevel())),
			)
		}
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
