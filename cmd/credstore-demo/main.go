package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alicebob/miniredis/v2"
	credstore "github.com/incidentmart/credstore"
	"github.com/incidentmart/credstore/internal/config"
	"github.com/incidentmart/credstore/kv"
	"github.com/incidentmart/credstore/kv/rediskv"
	"github.com/incidentmart/credstore/kv/sqlitekv"
	"github.com/incidentmart/credstore/metrics/export/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usage = `usage: credstore-demo [flags] <command> [args]

commands:
  register <name> <company> <email> <password>
  verify   <token>
  signin   <email> <password> [remember]
  reset    <email>
  confirm  <token> <new-password>
  users
  scenario

Backend selection and policy come from CREDSTORE_* environment variables
(a .env file in the working directory is loaded first).
`

func main() {
	var (
		envFile = flag.String("env", ".env", "optional .env file to load before reading the environment")
		metrics = flag.Bool("metrics", false, "print Prometheus metrics after the command")
		audit   = flag.Bool("audit", false, "log audit events")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := config.LoadEnvFiles(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	backend, cleanup, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open backend", zap.String("backend", cfg.Backend), zap.Error(err))
	}
	defer cleanup()

	engineCfg := credstore.DefaultConfig()
	engineCfg.KeyPrefix = cfg.KeyPrefix
	engineCfg.AuthDelay = cfg.AuthDelay
	engineCfg.GenericAuthErrors = cfg.GenericAuthErrors
	engineCfg.Lockout.MaxAttempts = cfg.MaxAttempts
	engineCfg.Lockout.Duration = cfg.LockoutDuration
	engineCfg.Password.Algorithm = cfg.PasswordAlgorithm
	engineCfg.Tokens.Format = cfg.TokenFormat
	engineCfg.Audit.Enabled = *audit
	engineCfg.Metrics.Enabled = *metrics
	engineCfg.Metrics.EnableLatencyHistograms = *metrics

	engine, err := credstore.New().
		WithConfig(engineCfg).
		WithBackend(backend).
		WithLogger(logger).
		WithAuditSink(credstore.NewZapSink(logger)).
		Build()
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}
	defer engine.Close()

	code := run(ctx, engine, flag.Arg(0), flag.Args()[1:])

	if *metrics {
		fmt.Print(prometheus.NewPrometheusExporter(engine).Render())
	}
	if code != 0 {
		engine.Close()
		_ = logger.Sync()
		cleanup()
		os.Exit(code)
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (kv.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), func() {}, nil
	case config.BackendSQLite:
		b, err := sqlitekv.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite", zap.String("path", cfg.SQLitePath))
		return b, func() { _ = b.Close() }, nil
	case config.BackendMiniredis:
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		logger.Info("using miniredis", zap.String("addr", mr.Addr()))
		return rediskv.New(client), func() {
			_ = client.Close()
			mr.Close()
		}, nil
	case config.BackendRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("using redis", zap.String("addr", cfg.RedisAddr))
		return rediskv.New(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
}

func run(ctx context.Context, engine *credstore.Engine, cmd string, args []string) int {
	switch cmd {
	case "register":
		if len(args) != 4 {
			return badArgs(cmd)
		}
		res, err := engine.Register(ctx, credstore.RegisterRequest{Name: args[0], Company: args[1], Email: args[2], Password: args[3]})
		if err != nil {
			return fail(engine, err)
		}
		fmt.Printf("registered %s\nverification token: %s\n", res.Email, res.VerificationToken)
	case "verify":
		if len(args) != 1 {
			return badArgs(cmd)
		}
		if err := engine.Verify(ctx, args[0]); err != nil {
			return fail(engine, err)
		}
		fmt.Println("email verified")
	case "signin":
		if len(args) < 2 || len(args) > 3 {
			return badArgs(cmd)
		}
		remember := len(args) == 3 && args[2] == "remember"
		res, err := engine.SignIn(credstore.WithClientID(ctx, "credstore-demo"), args[0], args[1], remember)
		if err != nil {
			return fail(engine, err)
		}
		fmt.Printf("welcome %s (%s)\n", res.User.Name, res.User.Company)
	case "reset":
		if len(args) != 1 {
			return badArgs(cmd)
		}
		res, err := engine.StartReset(ctx, args[0])
		if err != nil {
			return fail(engine, err)
		}
		fmt.Println(res.Message)
		if res.Token != "" {
			fmt.Printf("reset token: %s\n", res.Token)
		}
	case "confirm":
		if len(args) != 2 {
			return badArgs(cmd)
		}
		if err := engine.CompleteReset(ctx, args[0], args[1]); err != nil {
			return fail(engine, err)
		}
		fmt.Println("password updated")
	case "users":
		for _, u := range engine.ListUsers(ctx) {
			fmt.Printf("%s\t%s\t%s\tverified=%t\t%s\n", u.Email, u.Name, u.Company, u.Verified, u.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case "scenario":
		return scenario(ctx, engine)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	return 0
}

// scenario walks registration, lockout and reset end to end.
func scenario(ctx context.Context, engine *credstore.Engine) int {
	const email = "demo@example.com"

	step := func(name string, err error) {
		status := "ok"
		if err != nil {
			status = engine.Message(err)
		}
		fmt.Printf("%-32s %s\n", name, status)
	}

	res, err := engine.Register(ctx, credstore.RegisterRequest{Name: "Demo", Company: "Example", Email: email, Password: "password1"})
	step("register", err)
	if err != nil {
		return 1
	}
	_, err = engine.SignIn(ctx, email, "password1", false)
	step("sign in before verification", err)

	step("verify", engine.Verify(ctx, res.VerificationToken))

	limit := engine.Config().Lockout.MaxAttempts
	for i := 1; i <= limit+1; i++ {
		_, err = engine.SignIn(ctx, email, "wrong-password", false)
		step(fmt.Sprintf("wrong password #%d", i), err)
	}

	engine.ClearLockout(ctx, email)
	engine.ClearFailedAttempts(ctx, email)
	step("clear lockout", nil)

	reset, err := engine.StartReset(ctx, email)
	step("request reset", err)
	if err != nil || reset.Token == "" {
		return 1
	}
	step("complete reset", engine.CompleteReset(ctx, reset.Token, "brand-new-password"))
	step("reuse reset token", engine.CompleteReset(ctx, reset.Token, "another-password"))

	_, err = engine.SignIn(ctx, email, "brand-new-password", true)
	step("sign in with new password", err)
	if remembered, ok := engine.Remembered(ctx); ok {
		fmt.Printf("%-32s %s\n", "remembered", remembered)
	}
	if err != nil {
		return 1
	}
	return 0
}

func badArgs(cmd string) int {
	fmt.Fprintf(os.Stderr, "wrong arguments for %s\n\n%s", cmd, usage)
	return 2
}

func fail(engine *credstore.Engine, err error) int {
	fmt.Fprintln(os.Stderr, engine.Message(err))
	var locked *credstore.LockedError
	if errors.As(err, &locked) {
		fmt.Fprintf(os.Stderr, "locked until %s\n", locked.Until.Format("15:04:05"))
	}
	return 1
}
