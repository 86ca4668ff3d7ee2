// Package cli реализует командную строку сервера синхронизации.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/homekeeper/internal/config"
	"github.com/iudanet/homekeeper/internal/logging"
	"github.com/iudanet/homekeeper/internal/server"
	"github.com/iudanet/homekeeper/internal/server/jwt"
	"github.com/iudanet/homekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/homekeeper/internal/validation"
)

// BuildInfo версия сборки, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type root struct {
	logOut     io.Writer
	now        func() time.Time
	configFile string
}

// NewRootCmd creates the homekeeper-server command tree
func NewRootCmd(out, logOut io.Writer, info BuildInfo) *cobra.Command {
	r := &root{logOut: logOut, now: time.Now}

	cmd := &cobra.Command{
		Use:   "homekeeper-server",
		Short: "Household sync server",
		Long: `homekeeper-server stores household records for every account and applies
batches of offline writes sent by homekeeper clients. Every write carries an
operation id, so a batch resent after a lost response is applied only once.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.configFile, "config", "", "config file (default: ./server.yaml or ~/.homekeeper/server.yaml)")
	flags.String("dsn", "", "path to SQLite database (default: homekeeper-server.db)")
	flags.String("jwt-secret", "", "secret used to sign access tokens")
	flags.Duration("retention", 0, "how long completed operation ids are kept (default: 720h)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-file", "", "write logs to a rotating file instead of stderr")

	cmd.AddCommand(
		newVersionCmd(info),
		r.newServeCmd(),
		r.newLedgerCmd(),
		r.newTokenCmd(),
	)
	return cmd
}

func (r *root) loadConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	return config.LoadServer(r.configFile, cmd.Flags())
}

// withStorage открывает базу на время выполнения fn
func (r *root) withStorage(cmd *cobra.Command, fn func(cfg *config.ServerConfig, store *sqlite.Storage) error) (err error) {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cmd.Context(), cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	return fn(cfg, store)
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "homekeeper server")
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
		},
	}
}

func (r *root) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireSecret(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return r.serve(ctx, cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default: :8080)")
	return cmd
}

func (r *root) serve(ctx context.Context, cfg *config.ServerConfig) (err error) {
	logger, logFile, err := logging.New(cfg.Log, r.logOut)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		err = errors.Join(err, logFile.Close())
	}()

	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	store, err := sqlite.New(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	logger.Info("Starting homekeeper server",
		"addr", cfg.Addr,
		"dsn", cfg.DSN,
		"ledger_retention", cfg.LedgerRetention,
		"rate_limit", cfg.RateLimit)

	return server.New(cfg, logger, store, tokens).Run(ctx)
}

func (r *root) newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and clean the operation id ledger",
	}

	var userID string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Count ledger entries by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withStorage(cmd, func(cfg *config.ServerConfig, store *sqlite.Storage) error {
				cutoff := r.now().Add(-cfg.LedgerRetention)
				stats, err := store.LedgerStats(cmd.Context(), userID, cutoff)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Total:\t%d\n", stats.Total)
				fmt.Fprintf(tw, "Completed:\t%d\n", stats.Completed)
				fmt.Fprintf(tw, "Pending:\t%d\n", stats.Pending)
				fmt.Fprintf(tw, "Failed:\t%d\n", stats.Failed)
				fmt.Fprintf(tw, "Older than %s:\t%d\n", cfg.LedgerRetention, stats.OldCompleted)
				return tw.Flush()
			})
		},
	}
	statsCmd.Flags().StringVar(&userID, "user-id", "", "count only this user's entries")

	gcCmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete completed entries older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withStorage(cmd, func(cfg *config.ServerConfig, store *sqlite.Storage) error {
				deleted, err := store.DeleteCompletedBefore(cmd.Context(), r.now().Add(-cfg.LedgerRetention))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d completed entries\n", deleted)
				return nil
			})
		},
	}

	cmd.AddCommand(statsCmd, gcCmd)
	return cmd
}

func (r *root) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage client access tokens",
	}

	var (
		userID   string
		username string
		ttl      time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for 'homekeeper login'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireSecret(); err != nil {
				return err
			}
			if err := validation.ValidateUserID(userID); err != nil {
				return err
			}
			if err := validation.ValidateUsername(username); err != nil {
				return err
			}

			lifetime := cfg.TokenTTL
			if ttl > 0 {
				lifetime = ttl
			}

			tokens, err := jwt.NewService(cfg.JWTSecret, lifetime)
			if err != nil {
				return err
			}
			token, expiresIn, err := tokens.GenerateAccessToken(userID, username)
			if err != nil {
				return err
			}

			// токен отдельной строкой в stdout, чтобы его можно было передать в login
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "Expires in %s\n", time.Duration(expiresIn)*time.Second)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&userID, "user-id", "", "account id stored in the token")
	issueCmd.Flags().StringVar(&username, "username", "", "display name stored in the token")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: token_ttl from config)")
	_ = issueCmd.MarkFlagRequired("user-id")

	cmd.AddCommand(issueCmd)
	return cmd
}

// Execute запускает командную строку и возвращает код завершения
func Execute(cmd *cobra.Command, errOut io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
