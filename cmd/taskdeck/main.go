package main

import (
	"fmt"
	"os"

	"taskdeck/internal/config"
	"taskdeck/internal/reconcile"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

func main() {
	cfg := config.Get()

	path, err := session.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot locate session file:", err)
		os.Exit(1)
	}
	sess, err := session.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load session:", err)
		os.Exit(1)
	}

	client := store.New(cfg.APIBaseURL, sess.Name)
	rec := reconcile.New(client)

	if err := ui.Run(rec, client, sess); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
