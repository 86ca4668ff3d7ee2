package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/homekeeper/internal/client/iocli"
	"github.com/iudanet/homekeeper/internal/config"
	"github.com/iudanet/homekeeper/internal/models"
)

// BuildInfo версия сборки, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// root держит состояние одного запуска командной строки
type root struct {
	out        iocli.IO
	logOut     io.Writer
	configFile string
	app        *app
}

// NewRootCmd creates the homekeeper command tree.
// Зависимости собираются после чтения конфигурации перед каждой командой
// и закрываются после нее, в том числе при ошибке.
func NewRootCmd(out iocli.IO, logOut io.Writer, info BuildInfo) *cobra.Command {
	r := &root{out: out, logOut: logOut}

	cmd := &cobra.Command{
		Use:   "homekeeper",
		Short: "Offline-first household lists, recipes and chores",
		Long: `homekeeper keeps shopping lists, items, recipes and chores on this device
and synchronizes them with the household server when it is reachable.
Every change is saved locally first and sent later by 'sync' or 'daemon'.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.configFile, "config", "", "config file (default: ./client.yaml or ~/.homekeeper/client.yaml)")
	flags.String("server", "", "server URL (default: http://localhost:8080)")
	flags.String("db", "", "path to local database (default: homekeeper.db)")
	flags.Duration("timeout", 0, "HTTP request timeout (default: 30s)")
	flags.Int("batch-size", 0, "max queued writes per sync request (default: 50)")
	flags.Duration("interval", 0, "daemon sync interval (default: 30s)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-file", "", "write logs to a rotating file instead of stderr")

	cmd.AddCommand(
		newVersionCmd(out, info),
		r.newLoginCmd(),
		r.newLogoutCmd(),
		r.newStatusCmd(),
		r.newSyncCmd(),
		r.newDaemonCmd(),
		r.newAddCmd(),
		r.newGetCmd(),
		r.newListCmd(),
		r.newUpdateCmd(),
		r.newDeleteCmd(),
		r.newQueueCmd(),
	)
	return cmd
}

func (r *root) setUp(cmd *cobra.Command) error {
	cfg, err := config.LoadClient(r.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	r.app, err = newApp(cmd.Context(), cfg, r.out, r.logOut)
	return err
}

func (r *root) tearDown() error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

func newVersionCmd(out iocli.IO, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			out.Println("homekeeper client")
			out.Printf("Version:    %s\n", info.Version)
			out.Printf("Build Date: %s\n", info.BuildDate)
			out.Printf("Git Commit: %s\n", info.GitCommit)
		},
	}
}

func (r *root) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Save the access token issued by the household server",
		Long: `Save the access token issued by the household server.
Without an argument the token is read from the terminal without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return r.app.cli.runLogin(cmd.Context(), token)
		}),
	}
}

func (r *root) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: r.runE(func(cmd *cobra.Command, _ []string) error {
			return r.app.cli.runLogout(cmd.Context())
		}),
	}
}

func (r *root) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account, pending writes and last sync time",
		Args:  cobra.NoArgs,
		RunE: r.runE(func(cmd *cobra.Command, _ []string) error {
			return r.app.cli.runStatus(cmd.Context())
		}),
	}
}

func (r *root) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send one batch of queued writes and refresh local data",
		Args:  cobra.NoArgs,
		RunE: r.runE(func(cmd *cobra.Command, _ []string) error {
			return r.app.cli.runSync(cmd.Context())
		}),
	}
}

func (r *root) newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Synchronize in the background until interrupted",
		Args:  cobra.NoArgs,
		RunE: r.runE(func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return r.app.cli.runDaemon(ctx)
		}),
	}
}

func (r *root) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a list, item, recipe or chore",
	}

	var list models.ShoppingList
	listCmd := &cobra.Command{
		Use:   "list <name>",
		Short: "Add a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			list.Name = args[0]
			return r.app.cli.runAddList(cmd.Context(), &list)
		}),
	}
	listCmd.Flags().StringVar(&list.Store, "store", "", "store to shop at")

	var item models.ShoppingItem
	itemCmd := &cobra.Command{
		Use:   "item <name>",
		Short: "Add an item to a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			item.Name = args[0]
			return r.app.cli.runAddItem(cmd.Context(), &item)
		}),
	}
	itemCmd.Flags().StringVar(&item.ListID, "list", "", "id of the shopping list")
	itemCmd.Flags().StringVarP(&item.Quantity, "quantity", "q", "", "quantity, e.g. \"2 l\"")
	_ = itemCmd.MarkFlagRequired("list")

	var recipe models.Recipe
	recipeCmd := &cobra.Command{
		Use:   "recipe <name>",
		Short: "Add a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			recipe.Name = args[0]
			return r.app.cli.runAddRecipe(cmd.Context(), &recipe)
		}),
	}
	recipeCmd.Flags().StringSliceVarP(&recipe.Ingredients, "ingredient", "i", nil, "ingredient (repeatable)")
	recipeCmd.Flags().StringArrayVarP(&recipe.Steps, "step", "s", nil, "preparation step (repeatable)")
	recipeCmd.Flags().IntVar(&recipe.Servings, "servings", 0, "number of servings")

	var chore models.Chore
	choreCmd := &cobra.Command{
		Use:   "chore <name>",
		Short: "Add a household chore",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			chore.Name = args[0]
			return r.app.cli.runAddChore(cmd.Context(), &chore)
		}),
	}
	choreCmd.Flags().StringVar(&chore.AssignedTo, "assign", "", "household member")
	choreCmd.Flags().StringVar(&chore.Recurrence, "every", "", "recurrence: daily, weekly, ...")

	cmd.AddCommand(listCmd, itemCmd, recipeCmd, choreCmd)
	return cmd
}

func (r *root) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			return r.app.cli.runGet(cmd.Context(), args[0], args[1])
		}),
	}
}

func (r *root) newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <lists|items|recipes|chores>",
		Short: "List records of one type",
		Args:  cobra.ExactArgs(1),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			return r.app.cli.runList(cmd.Context(), args[0], asJSON)
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (r *root) newUpdateCmd() *cobra.Command {
	var assignments []string
	cmd := &cobra.Command{
		Use:     "update <type> <id> --set key=value...",
		Short:   "Change fields of a record",
		Example: "  homekeeper update item 3f2a... --set checked=true --set quantity=\"3 l\"",
		Args:    cobra.ExactArgs(2),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			return r.app.cli.runUpdate(cmd.Context(), args[0], args[1], assignments)
		}),
	}
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "field assignment key=value (repeatable)")
	return cmd
}

func (r *root) newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: r.runE(func(cmd *cobra.Command, args []string) error {
			return r.app.cli.runDelete(cmd.Context(), args[0], args[1], yes)
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (r *root) newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect writes waiting to be sent",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "List queued writes",
			Args:  cobra.NoArgs,
			RunE: r.runE(func(cmd *cobra.Command, _ []string) error {
				return r.app.cli.runQueueList(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "retry [operation-id...]",
			Short: "Return failed writes to the queue (all if none given)",
			RunE: r.runE(func(cmd *cobra.Command, args []string) error {
				return r.app.cli.runQueueRetry(cmd.Context(), args)
			}),
		},
	)
	return cmd
}

// runE открывает зависимости на время выполнения команды
func (r *root) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := r.setUp(cmd); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, r.tearDown())
		}()
		return fn(cmd, args)
	}
}

// Execute запускает командную строку и возвращает код завершения
func Execute(cmd *cobra.Command, errOut io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
