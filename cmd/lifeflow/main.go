package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/cli/backups"
	"github.com/julianstephens/lifeflow/internal/cli/budgets"
	"github.com/julianstephens/lifeflow/internal/cli/chores"
	"github.com/julianstephens/lifeflow/internal/cli/data"
	"github.com/julianstephens/lifeflow/internal/cli/groceries"
	"github.com/julianstephens/lifeflow/internal/cli/habits"
	"github.com/julianstephens/lifeflow/internal/cli/system"
	"github.com/julianstephens/lifeflow/internal/cli/tasks"
	"github.com/julianstephens/lifeflow/internal/config"
	"github.com/julianstephens/lifeflow/internal/constants"
	lferrors "github.com/julianstephens/lifeflow/internal/errors"
	"github.com/julianstephens/lifeflow/internal/keyring"
	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/storage"
	"github.com/julianstephens/lifeflow/internal/storage/postgres"
	"github.com/julianstephens/lifeflow/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. Without a password; use LIFEFLOW_DB_CONNECTION, the OS keyring or .pgpass for credentials." type:"string" default:"${default_config}"`
	Debug   bool   `help:"Log debug output to the log file."`

	Init    system.InitCmd    `cmd:"" help:"Initialize lifeflow storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Habit    habits.HabitCmd      `cmd:"" help:"Track habits and streaks."`
	Chore    chores.ChoreCmd      `cmd:"" help:"Manage recurring chores."`
	Task     tasks.TaskCmd        `cmd:"" help:"Manage tasks and deadlines."`
	Grocery  groceries.GroceryCmd `cmd:"" help:"Manage the shopping list."`
	Budget   budgets.BudgetCmd    `cmd:"" help:"Record spending and monthly goals."`
	Notify   system.NotifyCmd     `cmd:"" help:"Deliver due reminders (run from cron or a timer)."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings system.ConfigCmd     `cmd:"" name:"config" help:"Show and change settings and credentials."`
	Export   data.ExportCmd       `cmd:"" help:"Export all data as YAML or JSON."`
	Import   data.ImportCmd       `cmd:"" help:"Import data written by 'export'."`
}

// Commands that open the store themselves or do not need it.
var skipLoad = map[string]bool{
	"init":                     true,
	"doctor":                   true,
	"config set-connection":    true,
	"config delete-connection": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habits, chores, tasks, groceries and budget in one place."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	env, err := config.Load()
	if err != nil {
		lferrors.Fatal(err)
	}

	configDir, err := config.ConfigDir(CLI.Config)
	if err != nil {
		lferrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || env.Debug,
		ConfigDir: configDir,
		Level:     env.LogLevel,
	}); err != nil {
		lferrors.Fatal(err)
	}

	store, err := openStore(CLI.Config, env)
	if err != nil {
		lferrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Timezone: env.Timezone,
		TrayDir:  env.TrayDir,
	}

	if !skipLoad[commandPath(ctx)] {
		if err := store.Load(); err != nil {
			lferrors.Fatal(err)
		}
	}

	lferrors.Fatal(ctx.Run(appCtx))
}

// commandPath drops positional arguments from the selected command, e.g.
// "habit done <habit>" becomes "habit done".
func commandPath(ctx *kong.Context) string {
	var parts []string
	for _, p := range strings.Fields(ctx.Command()) {
		if strings.HasPrefix(p, "<") {
			break
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// openStore picks PostgreSQL when --config is a connection string, or when
// the default path is in use and LIFEFLOW_DB_CONNECTION or the keyring holds
// one. Otherwise --config is a SQLite file.
func openStore(configFlag string, env *config.Env) (storage.Provider, error) {
	flagConn := ""
	if config.IsPostgres(configFlag) {
		flagConn = configFlag
	}

	if flagConn != "" || configFlag == constants.DefaultConfigPath {
		connStr, source, err := keyring.ResolveConnectionString(flagConn, env.DBConnection)
		if err != nil {
			return nil, err
		}
		if connStr != "" {
			if err := postgres.ValidateConnString(connStr); err != nil {
				// Embedded passwords are refused on the command line, where they
				// would end up in shell history.
				if !errors.Is(err, postgres.ErrEmbeddedCredentials) || source == keyring.SourceFlag {
					return nil, fmt.Errorf("%s connection string: %w", source, err)
				}
			}
			logger.Debug("Using PostgreSQL", "source", source)
			return postgres.New(connStr), nil
		}
	}

	path, err := config.ExpandPath(configFlag)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using SQLite", "path", path)
	return sqlite.NewStore(path), nil
}
