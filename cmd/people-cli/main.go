// Package main is the entry point for the people store CLI.
// It runs imports and prints reports against the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/app"
	"github.com/prn-tf/people/internal/config"
	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/importer"
	"github.com/prn-tf/people/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("People CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return

	case "help", "-h", "--help":
		printUsage()
		return

	case "migrate", "import", "genders", "average-age", "cities", "passwords",
		"strongest", "born-between", "user":
		if err := run(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	source := fs.String("source", "", "import source: file, s3 or http")
	path := fs.String("path", "", "dataset file (source file)")
	bucket := fs.String("bucket", "", "dataset bucket (source s3)")
	key := fs.String("key", "", "dataset object key (source s3)")
	url := fs.String("url", "", "dataset URL (source http)")
	results := fs.Int("results", 0, "number of users to request (source http)")
	skipInvalid := fs.Bool("skip-invalid", false, "skip entries that cannot be built")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if cfg.Logging.Format == "json" {
		cfg.Logging.Format = "console"
	}
	logger := app.NewLogger(cfg.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch command {
	case "migrate":
		logger.Info().Str("driver", cfg.Database.Driver).Msg("schema is up to date")
		return nil

	case "import":
		imp := cfg.Import
		setIf(&imp.Source, *source)
		setIf(&imp.Path, *path)
		setIf(&imp.S3.Bucket, *bucket)
		setIf(&imp.S3.Key, *key)
		setIf(&imp.HTTP.URL, *url)
		if *results > 0 {
			imp.HTTP.Results = *results
		}
		return runImport(ctx, a, logger, imp, *skipInvalid || imp.SkipInvalid)

	case "genders":
		shares, err := a.Stats.Genders(ctx)
		if err != nil {
			return err
		}
		for _, s := range shares {
			fmt.Printf("%-10s %6d %6.2f%%\n", s.Gender, s.Count, s.Percentage)
		}
		return nil

	case "average-age":
		gender := ""
		if len(rest) > 0 {
			gender = rest[0]
		}
		out, err := a.Stats.AverageAge(ctx, gender)
		if err != nil {
			return err
		}
		fmt.Printf("%.2f (%d persons)\n", out.Average, out.Persons)
		return nil

	case "cities", "passwords":
		limit, err := limitArg(rest)
		if err != nil {
			return err
		}
		var counts []service.ValueCount
		if command == "cities" {
			counts, err = a.Stats.MostCommonCities(ctx, limit)
		} else {
			counts, err = a.Stats.MostCommonPasswords(ctx, limit)
		}
		if err != nil {
			return err
		}
		for _, c := range counts {
			fmt.Printf("%-30s %6d\n", c.Value, c.Count)
		}
		return nil

	case "strongest":
		limit, err := limitArg(rest)
		if err != nil {
			return err
		}
		scores, err := a.Stats.StrongestPasswords(ctx, limit)
		if err != nil {
			return err
		}
		for _, s := range scores {
			fmt.Printf("%-20s %-30s %3d\n", s.Username, s.Password, s.Strength)
		}
		return nil

	case "born-between":
		if len(rest) != 2 {
			return fmt.Errorf("usage: people-cli born-between FROM TO")
		}
		from, err := domain.ParseDate(rest[0])
		if err != nil {
			return err
		}
		to, err := domain.ParseDate(rest[1])
		if err != nil {
			return err
		}
		persons, err := a.Stats.BornBetween(ctx, from, to)
		if err != nil {
			return err
		}
		for _, p := range persons {
			fmt.Printf("%s  %s %s %s\n", p.DateOfBirth, p.Name.Title, p.Name.FirstName, p.Name.SecondName)
		}
		return nil

	case "user":
		if len(rest) != 1 {
			return fmt.Errorf("usage: people-cli user ID")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", rest[0])
		}
		u, err := a.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		loc, err := cfg.Clock.Location()
		if err != nil {
			return err
		}
		printUser(u, domain.SystemClock{Location: loc}.Today())
		return nil
	}
	return nil
}

func runImport(ctx context.Context, a *app.App, logger zerolog.Logger, cfg config.ImportConfig, skipInvalid bool) error {
	src, err := importer.NewSource(ctx, cfg)
	if err != nil {
		return err
	}

	out, err := a.Users.Import(ctx, service.ImportInput{Source: src, SkipInvalid: skipInvalid})
	if err != nil {
		return err
	}

	logger.Info().Str("source", src.Name()).Msg("import complete")
	fmt.Printf("total: %d, imported: %d, skipped: %d\n", out.Total, out.Imported, out.Skipped)
	return nil
}

func printUser(u *domain.User, today domain.CalendarDate) {
	p := u.Person
	fmt.Printf("ID:        %d\n", u.ID)
	fmt.Printf("Name:      %s %s %s\n", p.Name.Title, p.Name.FirstName, p.Name.SecondName)
	fmt.Printf("Gender:    %s\n", p.Gender)
	fmt.Printf("Born:      %s (age %d, birthday in %d days)\n", p.DateOfBirth, p.Age(today), p.DaysToBirthday(today))
	fmt.Printf("Username:  %s (strength %d)\n", u.Login.Username, u.Login.Strength())
	if years, ok := u.Login.RegisteredYears(today); ok {
		fmt.Printf("Member:    %d years\n", years)
	}
	fmt.Printf("Email:     %s\n", u.Contact.Email)
	fmt.Printf("Phone:     %s / %s\n", u.Contact.Phone(), u.Contact.Cell())
	fmt.Printf("Address:   %s, %s %s, %s\n", u.Location.Street, u.Location.Postcode, u.Location.City, u.Location.State)
}

// parseArgs parses flags anywhere on the command line and returns the
// positional arguments in order. Everything after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		remaining := fs.Args()
		if len(remaining) == 0 {
			return rest, nil
		}
		if consumed := len(args) - len(remaining); consumed > 0 && args[consumed-1] == "--" {
			return append(rest, remaining...), nil
		}
		rest = append(rest, remaining[0])
		args = remaining[1:]
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// limitArg reads an optional positional limit; 0 means no limit.
func limitArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`People CLI

Usage:
  people-cli <command> [arguments] [flags]

Commands:
  migrate                 Create or upgrade the database schema
  import                  Import users from a dataset (file, s3 or http)
  genders                 Show the gender breakdown
  average-age [gender]    Show the average age, overall or for one gender
  cities [N]              Show the N most common cities
  passwords [N]           Show the N most common passwords
  strongest [N]           Show the N strongest passwords
  born-between FROM TO    List persons born between two dates (YYYY-MM-DD)
  user ID                 Show one user
  version                 Print version information
  help                    Show this help message

Flags:
  --config PATH           Config file (default: ./config.yaml, ./configs, /etc/people)
  --source, --path, --bucket, --key, --url, --results, --skip-invalid
                          Override the import settings

Environment Variables:
  PEOPLE_DATABASE_DRIVER  sqlite or postgres
  PEOPLE_DATABASE_PATH    SQLite database file

Examples:
  people-cli import --path persons.json
  people-cli import --source http --results 500
  people-cli cities 5
  people-cli born-between 1990-01-01 1995-12-31`)
}
