package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"mathmark/internal/session"
	"mathmark/internal/storage"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted annotation sessions",
}

func init() {
	sessionImportCmd.Flags().Float64Var(&canvasWidth, "width", 0, "Canvas width; overrides canvas.width")
	sessionImportCmd.Flags().Float64Var(&canvasHeight, "height", 0, "Canvas height; overrides canvas.height")
	sessionResolveCmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Canvas image for the oracle tier")

	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionResolveCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
}

// initManager opens the session store and builds a manager over it.
func initManager(ctx context.Context, a *app) (*session.Manager, *storage.SQLiteStore) {
	store, err := storage.NewSQLiteStore(a.cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return session.NewManager(store, a.logger, a.resolverOptions(ctx)...), store
}

var sessionImportCmd = &cobra.Command{
	Use:   "import [registry.json]",
	Short: "Create a session from a registry file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		elems, err := loadElements(args[0])
		if err != nil {
			log.Fatalf("Failed to load registry: %v", err)
		}

		m, store := initManager(ctx, a)
		defer store.Close()

		canvas := a.canvas()
		if canvasWidth > 0 {
			canvas.Width = canvasWidth
		}
		if canvasHeight > 0 {
			canvas.Height = canvasHeight
		}

		s := m.Create()
		if err := m.Sync(ctx, s.ID, elems, canvas); err != nil {
			log.Fatalf("Failed to sync session: %v", err)
		}
		fmt.Printf("✅ Session %s created with %d elements. Database: %s\n", s.ID, len(elems), a.cfg.Storage.Path)
	},
}

var sessionResolveCmd = &cobra.Command{
	Use:   "resolve [session-id] [phrase]",
	Short: "Resolve a phrase against a stored session",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		phrase := strings.Join(args[1:], " ")

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		m, store := initManager(ctx, a)
		defer store.Close()

		s, err := m.Get(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to load session: %v", err)
		}
		b64, err := loadSnapshot(snapshotPath)
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}

		ann, ok := s.Resolver.ResolveWithSnapshot(ctx, phrase, b64)
		if !ok {
			fmt.Printf("❌ No target found for %q\n", phrase)
			return
		}
		printJSON(ann)
	},
}

var sessionExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Print a stored session's elements as registry JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		m, store := initManager(ctx, a)
		defer store.Close()

		s, err := m.Get(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to load session: %v", err)
		}
		if err := writeElements(os.Stdout, s.Registry().Snapshot().Elements()); err != nil {
			log.Fatalf("Failed to write elements: %v", err)
		}
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		store, err := storage.NewSQLiteStore(a.cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		ids, err := store.ListSessions(ctx)
		if err != nil {
			log.Fatalf("Failed to list sessions: %v", err)
		}
		if len(ids) == 0 {
			fmt.Println("No sessions stored.")
			return
		}
		for _, id := range ids {
			rec, err := store.LoadSession(ctx, id)
			if err != nil {
				fmt.Printf("%s  (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("%s  %3d elements  %.0fx%.0f  %s\n",
				id, len(rec.Elements), rec.Canvas.Width, rec.Canvas.Height, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "rm [session-id...]",
	Short: "Delete stored sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := initApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.logger.Sync()

		m, store := initManager(ctx, a)
		defer store.Close()

		for _, id := range args {
			if err := m.Delete(ctx, id); err != nil {
				log.Fatalf("Failed to delete session %s: %v", id, err)
			}
			fmt.Printf("🗑️  Deleted session %s\n", id)
		}
	},
}
