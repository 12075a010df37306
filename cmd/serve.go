package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"clientsplit/config"
	"clientsplit/storage"
	"clientsplit/web"

	"github.com/spf13/cobra"
)

var (
	servePort      int
	serveHistoryDB string
	serveNoOpen    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start local web UI for uploading a raw table and a template",
	Long: `Start a local HTTP server with an upload form.

The form reads the raw table's columns, lets you pick the grouping column and
returns the generated workbook as a download. With a history database, every
run is recorded and listed under /api/runs.`,
	Example: `
  # Start local server on the configured port
  clientsplit serve

  # Start on a custom port and record runs
  clientsplit serve --port 9090 --history ./clientsplit.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		port := cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		historyDB := resolveHistoryDB(serveHistoryDB, cfg)

		var store *storage.SQLiteStore
		if historyDB != "" {
			store, err = storage.OpenSQLite(historyDB)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(*cfg, store),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		if store != nil {
			fmt.Printf("Recording runs in %s\n", historyDB)
		}
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (default from config)")
	serveCmd.Flags().StringVar(&serveHistoryDB, "history", "", "Record runs in this SQLite database (default from config when enabled)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

// resolveHistoryDB prefers the flag and falls back to the configured
// database when history is enabled.
func resolveHistoryDB(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.History.Enabled {
		return cfg.History.DB
	}
	return ""
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
