package main

import (
	"database/sql"
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	server_config "github.com/carson-networks/ledger-server/internal/config"
)

func main() {
	app := &cli.App{
		Name:  "db_migrations",
		Usage: "apply or roll back the ledger schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file layered under the environment",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "source",
				Value: "file://migrations",
				Usage: "migration source URL",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					return run(c, func(m *migrate.Migrate) error { return m.Up() })
				},
			},
			{
				Name:  "down",
				Usage: "roll back the given number of migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					return run(c, func(m *migrate.Migrate) error { return m.Steps(-c.Int("steps")) })
				},
			},
			{
				Name:  "version",
				Usage: "print the applied version",
				Action: func(c *cli.Context) error {
					return run(c, func(*migrate.Migrate) error { return nil })
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("db_migrations")
	}
}

func run(c *cli.Context, step func(m *migrate.Migrate) error) error {
	env, err := server_config.Load(c.String("config"))
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", env.ConnectionDetails().DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(c.String("source"), "postgres", driver)
	if err != nil {
		return err
	}

	preMigrationVersion, err := version(m)
	if err != nil {
		return err
	}

	err = step(m)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	postMigrationVersion, err := version(m)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"command":              c.Command.Name,
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
	return nil
}

// version treats an empty schema as version 0.
func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, errors.New("schema is dirty, fix it by hand and force the version")
	}
	return v, nil
}
