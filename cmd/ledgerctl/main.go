// Command ledgerctl runs operator tasks against the billing database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"billing/internal/cache"
	"billing/internal/clock"
	"billing/internal/config"
	"billing/internal/database"
	"billing/internal/logger"
	"billing/internal/middleware"
	"billing/internal/money"
	"billing/internal/ratefeed"
	"billing/internal/seed"
	"billing/internal/services"
)

const usage = `usage: ledgerctl <command> [args]

commands:
  seed <username> <username> [payments]   top up two wallets and send payments between them
  reconcile                               recompute every wallet balance from its entries
  fetch-rates [YYYY-MM-DD]                store the day's exchange rates (default today)
  create-user [--staff] <username> <email> <currency>
  token <username>                        print a bearer token for the user`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()

	if err := run(appConfig, os.Args[1], os.Args[2:]); err != nil {
		logger.Get().Fatalf("ledgerctl %s: %v", os.Args[1], err)
	}
}

func run(appConfig *config.Config, command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return err
	}
	defer dbManager.Close()

	feed := ratefeed.NewClient(appConfig.ExchangeRatesURL, appConfig.RateFeedTimeout)
	svc := services.New(dbManager.DB(), feed, cache.Noop{}, clock.System{})

	switch command {
	case "seed":
		return runSeed(ctx, svc, args)
	case "reconcile":
		drifted, err := svc.Ledger.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("reconciled wallets, %d balance(s) corrected\n", drifted)
		return nil
	case "fetch-rates":
		return runFetchRates(ctx, svc, args)
	case "create-user":
		return runCreateUser(ctx, svc, args)
	case "token":
		return runToken(ctx, svc, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func runSeed(ctx context.Context, svc *services.Services, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("seed needs two usernames")
	}
	n := seed.DefaultPayments
	if len(args) > 2 {
		var err error
		if n, err = strconv.Atoi(args[2]); err != nil || n < 1 {
			return fmt.Errorf("invalid payment count %q", args[2])
		}
	}

	first, err := svc.Users.GetUserByUsername(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	second, err := svc.Users.GetUserByUsername(ctx, args[1])
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	if first.Wallet == nil || second.Wallet == nil {
		return fmt.Errorf("both users need a wallet")
	}

	res, err := seed.Run(ctx, svc.Ledger, svc.Payments, first.Wallet, second.Wallet, n)
	if err != nil {
		return err
	}
	fmt.Printf("created %d transactions\n", res.Transactions())
	return nil
}

func runFetchRates(ctx context.Context, svc *services.Services, args []string) error {
	var day time.Time
	if len(args) > 0 {
		var err error
		if day, err = time.Parse("2006-01-02", args[0]); err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}
	}
	if err := svc.Rates.EnsureRatesForDate(ctx, day); err != nil {
		return err
	}

	rates, err := svc.Rates.FindRates(ctx, nil, day)
	if err != nil {
		return err
	}
	for _, r := range rates {
		fmt.Printf("%s %s->%s %s\n", r.Date.Format("2006-01-02"), r.FromCurrency, r.ToCurrency, r.Rate.StringFixed(money.Places))
	}
	return nil
}

func runCreateUser(ctx context.Context, svc *services.Services, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	staff := fs.Bool("staff", false, "grant staff access")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("create-user needs <username> <email> <currency>")
	}

	currency, err := money.ParseCurrency(fs.Arg(2))
	if err != nil {
		return err
	}
	user, err := svc.Users.CreateUserWithWallet(ctx, fs.Arg(0), fs.Arg(1), currency, *staff)
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (%s) with %s wallet %s\n", user.Username, user.ID, user.Wallet.Currency, user.Wallet.ID)
	return nil
}

func runToken(ctx context.Context, svc *services.Services, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("token needs <username>")
	}
	user, err := svc.Users.GetUserByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	token, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
