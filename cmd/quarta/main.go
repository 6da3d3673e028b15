package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jask/quarta/internal/config"
)

const usage = `usage: quarta <command> [arguments]

commands:
  import FILE...                         store CSV files as sheets
  list                                   list stored sheets
  open ID                                browse a sheet interactively
  report ID [-q QUERY] [-min YYYY-MM] [-max YYYY-MM]
                                         print a sheet's insights as JSON
  rename ID NAME                         rename a sheet
  delete ID                              delete a sheet
  prune -older-than DURATION             delete sheets not opened recently (e.g. 720h, 30d)
  reset -yes                             delete every sheet
  sample [-months N] [-seed S] [-name NAME] [-print]
                                         store (or print) a generated sheet
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" || args[0] == "--help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	a, err := newApp(ctx, cfg, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		return a.importCmd(ctx, rest)
	case "list":
		return a.listCmd(ctx)
	case "open":
		return a.openCmd(ctx, rest)
	case "report":
		return a.reportCmd(ctx, rest)
	case "rename":
		return a.renameCmd(ctx, rest)
	case "delete":
		return a.deleteCmd(ctx, rest)
	case "prune":
		return a.pruneCmd(ctx, rest)
	case "reset":
		return a.resetCmd(ctx, rest)
	case "sample":
		return a.sampleCmd(ctx, rest)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
