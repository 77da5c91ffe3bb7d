// Command docpatch converts DOCX documents into a flat JSON model and
// applies atomic patch batches, writing each result as a new version file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docpatch-labs/docpatch-cli/internal/adapters/driven/config/file"
	"github.com/docpatch-labs/docpatch-cli/internal/adapters/driven/docx"
	"github.com/docpatch-labs/docpatch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docpatch-labs/docpatch-cli/internal/adapters/driving/cli"
	"github.com/docpatch-labs/docpatch-cli/internal/core/ports/driven"
	"github.com/docpatch-labs/docpatch-cli/internal/core/services"
	"github.com/docpatch-labs/docpatch-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	watcher, err := file.NewWatcher(configStore)
	if err != nil {
		logger.Warn("Config watcher unavailable: %v", err)
	} else {
		go watcher.Run(ctx)
		defer watcher.Close()
	}

	callLog := openCallLog(configStore)
	if callLog != nil {
		defer callLog.Close()
	}

	editor := services.NewEditorService(
		docx.NewConverter(),
		docx.NewReconstructor(),
		docx.NewVersionAllocator(),
		callLog,
	)

	cli.SetServices(cli.Services{
		Editor:  editor,
		CallLog: callLog,
		Config:  configStore,
	})

	return cli.ExecuteContext(ctx)
}

// openCallLog opens the SQLite audit log unless audit.enabled is set to
// false. Audit failures never block editing.
func openCallLog(configStore driven.ConfigStore) driven.CallLog {
	if v, ok := configStore.Get("audit.enabled"); ok {
		if enabled, isBool := v.(bool); isBool && !enabled {
			return nil
		}
	}

	store, err := sqlite.NewStore(configStore.GetString("audit.path"))
	if err != nil {
		logger.Warn("Audit log unavailable: %v", err)
		return nil
	}
	return store
}
