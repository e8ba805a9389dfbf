package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"scriptflow/internal/infra"
	"scriptflow/internal/sqlinline"
)

func main() {
	var (
		userFlag    string
		dailyFlag   int
		monthlyFlag float64
	)
	flag.StringVar(&userFlag, "user", "", "user id (uuid) to configure")
	flag.IntVar(&dailyFlag, "daily", 10, "daily item limit, 0 for unlimited")
	flag.Float64Var(&monthlyFlag, "monthly", 50, "monthly budget in USD, 0 for unlimited")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userbudget").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	if _, err := runner.Exec(ctx, sqlinline.QSetBudgetLimits, userID, dailyFlag, monthlyFlag); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set limits: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("budget limits set for %s: daily=%d monthly=%.2f\n", userID, dailyFlag, monthlyFlag)
}
