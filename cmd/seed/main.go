package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/config"
	"github.com/shinyyama/overbid-backend/internal/db"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	dep, err := service.NewDeployment(cfg.ProgramID)
	if err != nil {
		return err
	}

	seq := ledger.NewSequencer(gdb)
	collections := service.NewCollectionService(seq, dep)
	issuance := service.NewIssuanceService(seq, dep)

	authority, err := envAddress("SEED_AUTHORITY")
	if err != nil {
		return err
	}
	minter, err := envAddress("SEED_MINTER")
	if err != nil {
		return err
	}

	if _, err := collections.Initialize(ctx, authority); err != nil {
		if !errors.Is(err, service.ErrCollectionAlreadyInitialized) {
			return fmt.Errorf("initialize: %w", err)
		}
		log.Infof("collection %s already initialized", dep.Address)
	}

	canSeed, err := shouldSeed(ctx, seq, dep)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Infof("items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	uris, err := seedURIs()
	if err != nil {
		return err
	}
	for _, uri := range uris {
		a, err := issuance.Issue(ctx, service.IssueParams{URI: uri, Payer: minter})
		if err != nil {
			return fmt.Errorf("issue %q: %w", uri, err)
		}
		log.Debugf("issued %s uri=%s", a.Address, uri)
	}
	log.Infof("seeded %d items to minter %s", len(uris), minter)
	return nil
}

// seedURIs lists metadata URIs from SEED_URI_GLOB when set, otherwise SEED_COUNT placeholder images.
func seedURIs() ([]string, error) {
	if pattern := os.Getenv("SEED_URI_GLOB"); pattern != "" {
		paths, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		base := strings.TrimRight(os.Getenv("SEED_URI_BASE"), "/")
		uris := make([]string, 0, len(paths))
		for _, p := range paths {
			uris = append(uris, base+"/"+filepath.Base(p))
		}
		return uris, nil
	}
	count := 8
	if v := os.Getenv("SEED_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SEED_COUNT %q", v)
		}
		count = n
	}
	uris := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		uris = append(uris, picsumURL("overbid", i))
	}
	return uris, nil
}

func envAddress(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		if err := address.Validate(v); err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}
	return address.New()
}

func shouldSeed(ctx context.Context, seq *ledger.Sequencer, dep service.Deployment) (bool, error) {
	cnt, err := seq.View().Collections.CountItems(ctx, dep.Address)
	if err != nil {
		return false, fmt.Errorf("count items: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}

func picsumURL(slug string, itemIndex int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%d/600/600", slug, itemIndex)
}
