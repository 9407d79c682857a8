package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"ccb-bridge/internal/config"
	"ccb-bridge/internal/devutil"
	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/logging"
	"ccb-bridge/internal/metrics"
	"ccb-bridge/internal/providers"
	"ccb-bridge/internal/providers/ccb"
)

type lookup struct {
	id       string
	name     string
	phone    string
	email    string
	campusID string
	create   bool
	fields   []string
}

var errNotResolved = errors.New("person not resolved (see logs)")

func main() {
	var (
		l          lookup
		configPath = flag.String("config", "", "optional YAML config file (env overrides it)")
		fields     = flag.String("fields", "", "comma-separated JSON keys to print (default all)")
	)
	flag.StringVar(&l.id, "id", "", "fetch an individual by CCB id")
	flag.StringVar(&l.name, "name", "", "full name to find or create")
	flag.StringVar(&l.phone, "phone", "", "phone number")
	flag.StringVar(&l.email, "email", "", "email address")
	flag.StringVar(&l.campusID, "campus", "", "campus id to assign")
	flag.BoolVar(&l.create, "create", false, "always create a new individual instead of searching first")
	flag.Parse()
	l.fields = devutil.SplitFields(*fields)

	if l.id == "" && l.name == "" {
		log.Fatal("missing -id or -name")
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, closeLogs, err := logging.New(logging.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		log.Fatal(err)
	}
	defer closeLogs()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CCB.Timeout+30*time.Second)
	defer cancel()

	dir := ccb.NewFromConfig(cfg.CCB, logger, metrics.New())
	if err := resolve(ctx, dir, l, os.Stdout); err != nil {
		closeLogs()
		log.Fatal(err)
	}
}

func resolve(ctx context.Context, dir providers.Directory, l lookup, w io.Writer) error {
	var (
		p  domain.Person
		ok bool
	)
	switch {
	case l.id != "":
		p, ok = dir.PersonByID(ctx, l.id)
	case l.create:
		p, ok = dir.CreatePerson(ctx, l.name, l.phone, l.email, l.campusID)
	default:
		p, ok = dir.FindOrCreatePerson(ctx, l.name, l.phone, l.email, l.campusID)
	}
	if !ok {
		return errNotResolved
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(l.fields) > 0 {
		return enc.Encode(devutil.Pick(p, l.fields...))
	}
	return enc.Encode(p)
}
