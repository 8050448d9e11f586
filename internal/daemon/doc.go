// Package daemon runs the rankwatch background watch loop.
//
// The Poller pulls the full scan listing from the ranking service on a
// configurable interval, compares each business's newest scan against the
// mark persisted from earlier polls, and logs an alert when the average
// rank worsens by more than the configured threshold. Marks live in the
// SQLite store, so a restart does not replay alerts the user already saw.
//
// Key features:
//   - Interval polling with an immediate sweep on startup
//   - Per-business drop detection backed by persistent scan marks
//   - Daemon mode with PID file management and detached re-exec
//   - Graceful shutdown with SIGTERM/SIGINT handling
//   - Live reload of watch settings when the config file changes (fsnotify)
//
// Example usage:
//
//	st, err := store.New("~/.rankwatch/rankwatch.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	client := rankapi.New(cfg.API.BaseURL, cfg.API.Key)
//	p, err := daemon.New(client, st, cfg, configPath, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Run in the foreground
//	if err := p.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer p.Stop()
//
//	// Or detach a background daemon
//	if err := daemon.Start(pidFile, logFile, childArgs); err != nil {
//		log.Fatal(err)
//	}
package daemon
