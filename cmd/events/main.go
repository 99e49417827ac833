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

	"ms-events/internal/app"
	"ms-events/internal/config"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/validation"
)

const usage = `usage: events <command> [flags]

commands:
  event-save     -file event.json (or - for stdin); an "id" updates
  event-get      -id ID | -slug SLUG
  event-list
  event-delete   -id ID
  booking-create -event ID -email ADDRESS
  booking-list   -event ID | -email ADDRESS
  booking-cancel -id ID
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "events: %v\n", err)
		os.Exit(1)
	}

	// stdout carries command output, so log lines go to stderr.
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("APP", err.Error())
		os.Exit(1)
	}

	code := 0
	if err := a.Start(ctx); err != nil {
		log.Error("APP", err.Error())
		code = 1
	} else if err := run(ctx, a, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
			code = 2
		case validation.IsValidationError(err):
			fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
			code = 3
		default:
			log.Error("APP", err.Error())
			code = 1
		}
	}

	if err := a.Close(); err != nil {
		log.Warn("APP", fmt.Sprintf("Shutdown: %v", err))
	}
	os.Exit(code)
}

var errUsage = errors.New("bad usage")

func run(ctx context.Context, a *app.App, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	id := fs.String("id", "", "record id")
	slug := fs.String("slug", "", "event slug")
	file := fs.String("file", "", "JSON event document")
	eventID := fs.String("event", "", "event id")
	email := fs.String("email", "", "attendee email")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var result interface{}
	var err error

	switch cmd {
	case "event-save":
		var rec models.Event
		if rec, err = readEvent(*file, stdin); err != nil {
			return err
		}
		result, err = a.Events.Save(ctx, rec)
	case "event-get":
		switch {
		case *id != "":
			result, err = a.Events.Get(ctx, *id)
		case *slug != "":
			result, err = a.Events.GetBySlug(ctx, *slug)
		default:
			return fmt.Errorf("%w: event-get needs -id or -slug", errUsage)
		}
	case "event-list":
		result, err = a.Events.List(ctx)
	case "event-delete":
		if *id == "" {
			return fmt.Errorf("%w: event-delete needs -id", errUsage)
		}
		err = a.Events.Delete(ctx, *id)
	case "booking-create":
		result, err = a.Bookings.Create(ctx, models.Booking{EventID: *eventID, Email: *email})
	case "booking-list":
		switch {
		case *eventID != "":
			result, err = a.Bookings.ListByEvent(ctx, *eventID)
		case *email != "":
			result, err = a.Bookings.ListByEmail(ctx, *email)
		default:
			return fmt.Errorf("%w: booking-list needs -event or -email", errUsage)
		}
	case "booking-cancel":
		if *id == "" {
			return fmt.Errorf("%w: booking-cancel needs -id", errUsage)
		}
		err = a.Bookings.Cancel(ctx, *id)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readEvent(path string, stdin io.Reader) (models.Event, error) {
	var rec models.Event
	var r io.Reader
	switch path {
	case "":
		return rec, fmt.Errorf("%w: event-save needs -file", errUsage)
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return rec, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode event: %w", err)
	}
	return rec, nil
}
