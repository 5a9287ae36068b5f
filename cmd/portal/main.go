// Command portal is a terminal client for the school portal backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/school-portal/internal/app"
	"github.com/and161185/school-portal/internal/config"
	"github.com/and161185/school-portal/internal/errs"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `portal CLI
Usage:
  portal [-config file.yaml] <cmd> [args]

Commands:
  version
  login      -email <email> -password <password>   (saves token)
  logout
  me
  school
  news       [-id N] [-lang ru|kz] [list flags]
  teachers   [-id N] [-filter subjects] [-filters] [list flags]
  sections   [-id N] [-lang ru|kz] [list flags]
  canteen    [-id N] [-lang ru|kz] [list flags]
  honor      [-id N] [-lang ru|kz] [list flags]
  classes    [-filter grades] [-filters] [list flags]
  schedule   [-teacher N] [-filter subjects] [-filters] [list flags]
  rm         -kind news|teacher|section|canteen|honor -id N -email <admin> -password <admin>
  lang       [ru|kz|toggle]

List flags:
  -school N  -q <term>  -sort <field>  -page N  -size N
`)
	os.Exit(2)
}

// main loads configuration, restores the saved session and dispatches a subcommand.
func main() {
	cfgPath := flag.String("config", "", "config file (yaml)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	if flag.Arg(0) == "version" {
		fmt.Printf("portal %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init", zap.Error(err))
	}
	_ = a.Start(ctx)

	err = run(ctx, a, flag.Arg(0), flag.Args()[1:], os.Stdout)
	a.Close()
	if err != nil {
		fail(a, err)
	}
}

func fail(a *app.App, err error) {
	if errors.Is(err, errUsage) {
		usage()
	}
	if a.Handle(err) == app.ActionRedirectLogin {
		fmt.Fprintln(os.Stderr, a.Message(err)+": portal login -email ... -password ...")
	} else {
		fmt.Fprintln(os.Stderr, a.Message(err))
	}
	if k := errs.Kind(err); k != "" {
		fmt.Fprintln(os.Stderr, "kind:", k)
	}
	os.Exit(1)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
