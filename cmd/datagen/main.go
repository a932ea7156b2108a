package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/db"
	"github.com/ayo6706/brokerage-admin/internal/mockdata"
	"github.com/ayo6706/brokerage-admin/internal/repository"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	counts := mockdata.DefaultCounts()
	var (
		users        = flag.Int("users", counts.Users, "number of users to generate")
		transactions = flag.Int("transactions", counts.Transactions, "number of transactions to generate")
		kycRequests  = flag.Int("kyc", counts.KycRequests, "number of KYC requests to generate")
		tickets      = flag.Int("tickets", counts.Tickets, "number of support tickets to generate")
		seed         = flag.Int64("seed", 0, "random seed for deterministic generation (0 picks one)")
		outputDir    = flag.String("output-dir", "data", "directory to write one JSON file per collection")
		writeStdout  = flag.Bool("stdout", false, "write combined dataset to stdout instead of files")
		databaseURL  = flag.String("database-url", os.Getenv("DATABASE_URL"), "seed this Postgres database instead of writing files")
		reset        = flag.Bool("reset", false, "truncate existing records before seeding Postgres")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var opts []mockdata.Option
	if *seed != 0 {
		opts = append(opts, mockdata.WithSeed(*seed))
	}
	dataset, err := mockdata.New(opts...).Dataset(ctx, mockdata.Counts{
		Users:        *users,
		Transactions: *transactions,
		KycRequests:  *kycRequests,
		Tickets:      *tickets,
	})
	if err != nil {
		fail("generation failed: %v", err)
	}

	switch {
	case *writeStdout:
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fail("failed to write dataset to stdout: %v", err)
		}
		return
	case *databaseURL != "":
		if err := seedDatabase(ctx, *databaseURL, dataset, *reset); err != nil {
			fail("failed to seed database: %v", err)
		}
		fmt.Fprintf(os.Stdout, "Seeded %d users, %d transactions, %d KYC requests and %d tickets\n",
			len(dataset.Users), len(dataset.Transactions), len(dataset.KycRequests), len(dataset.Tickets))
		return
	}

	if err := mockdata.WriteDataset(dataset, *outputDir); err != nil {
		fail("failed to write dataset: %v", err)
	}
	fmt.Fprintf(os.Stdout, "Generated %d users, %d transactions, %d KYC requests and %d tickets into %s\n",
		len(dataset.Users), len(dataset.Transactions), len(dataset.KycRequests), len(dataset.Tickets), *outputDir)
}

func seedDatabase(ctx context.Context, url string, dataset mockdata.Dataset, reset bool) error {
	pool, err := db.Connect(ctx, url, 0)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	if reset {
		if err := repository.Truncate(ctx, pool); err != nil {
			return err
		}
	}
	seeded, err := repository.NewPostgresStore(pool).Seed(ctx, dataset)
	if err != nil {
		return err
	}
	if !seeded {
		return fmt.Errorf("database already holds records; rerun with -reset")
	}
	return nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
