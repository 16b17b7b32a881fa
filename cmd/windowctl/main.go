// Command windowctl inspects and corrects the advisor's persisted state.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"window_advisor/internal/config"
	"window_advisor/internal/repository"
	"window_advisor/internal/repository/db"
	"window_advisor/internal/service"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	flags := pflag.NewFlagSet("windowctl", pflag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	configPath := flags.StringP("config", "c", "", "path to config file (default configs/config.yml)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(exitOK)
		}
		os.Exit(exitUsage)
	}

	os.Exit(run(context.Background(), *configPath, flags.Args(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, configPath string, args []string, stdout, stderr io.Writer) int {
	// hash-password needs neither config nor database.
	if len(args) > 0 && args[0] == "hash-password" {
		return hashPassword(args[1:], stdout, stderr)
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "windowctl: %v\n", err)
		return exitError
	}
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		fmt.Fprintf(stderr, "windowctl: open %s: %v\n", cfg.DB.Path, err)
		return exitError
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	states := service.NewStateStore(repos.StateRepo, cfg.DefaultMode)
	a := &app{
		override:   service.NewOverrideService(states),
		monitoring: service.NewMonitoringService(states, repos.ReadingRepo, repos.NotificationRepo),
		out:        stdout,
	}
	return exitCode(a.dispatch(ctx, args), stderr)
}

// exitCode maps dispatch errors: bad arguments are usage errors, anything
// else is a store failure.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usageText)
		return exitUsage
	case errors.Is(err, service.ErrInvalidWindowState), errors.Is(err, service.ErrInvalidMode):
		fmt.Fprintf(stderr, "windowctl: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "windowctl: %v\n", err)
		return exitError
	}
}

func hashPassword(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}
	hash, err := service.HashPassword(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "windowctl: %v\n", err)
		return exitError
	}
	fmt.Fprintln(stdout, hash)
	return exitOK
}
