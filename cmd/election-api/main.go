package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/elections/internal/api"
	"github.com/ougirez/elections/internal/pkg/config"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/ougirez/elections/internal/pkg/logger"
	"github.com/ougirez/elections/internal/pkg/store"
	"github.com/ougirez/elections/internal/pkg/store/memstore"
	"github.com/ougirez/elections/internal/pkg/store/xpgx"
	"github.com/ougirez/elections/internal/pkg/utils"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	migrate := flag.Bool("migrate", false, "apply the database schema before serving")
	mintToken := flag.Int64("mint-token", 0, "print a bearer token for the given user code and exit")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err.Error())
		os.Exit(1)
	}

	if err := logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetBool(constants.ViperLogDevelopmentKey)); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *mintToken > 0 {
		token, err := utils.GenerateAuthToken(
			viper.GetString(constants.ViperSecretKey),
			viper.GetDuration(constants.ViperTokenTTLKey),
			*mintToken,
			"",
		)
		if err != nil {
			logger.Fatalf(ctx, "GenerateAuthToken: %s", err.Error())
		}
		fmt.Println(token)
		return
	}

	st, closeStore, err := openStore(ctx, *migrate)
	if err != nil {
		logger.Fatalf(ctx, "open store: %s", err.Error())
	}
	defer closeStore()

	svc, err := api.NewAPIService(st, api.Config{
		Secret:         viper.GetString(constants.ViperSecretKey),
		RequestTimeout: viper.GetDuration(constants.ViperRequestTimeoutKey),
		AllowOrigins:   config.AllowOrigins(),
	})
	if err != nil {
		logger.Fatalf(ctx, "NewAPIService: %s", err.Error())
	}

	addr := viper.GetString(constants.ViperHTTPAddrKey)
	go svc.Serve(addr)
	logger.Infof(ctx, "listening on %s", addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
	logger.Info(shutdownCtx, "server stopped")
}

func openStore(ctx context.Context, migrate bool) (store.Store, func(), error) {
	driver := viper.GetString(constants.ViperStoreDriverKey)

	if driver == constants.StoreDriverMemory {
		seed := memstore.Seed{}
		if path := viper.GetString(constants.ViperStoreSeedFileKey); path != "" {
			var err error
			if seed, err = memstore.LoadSeed(path); err != nil {
				return nil, nil, err
			}
		}
		logger.Warn(ctx, "using the in-memory store, submissions are lost on restart")
		return memstore.New(seed), func() {}, nil
	}

	db, err := xpgx.Connect(ctx, xpgx.Config{
		DSN:            viper.GetString(constants.ViperPostgresDSNKey),
		MaxConns:       viper.GetInt32(constants.ViperPostgresMaxConnKey),
		ConnectTimeout: viper.GetDuration(constants.ViperPostgresConnectKey),
	})
	if err != nil {
		return nil, nil, err
	}

	pool := xpgx.Wrap(db)
	if migrate {
		if err = store.Migrate(ctx, pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("store.Migrate: %w", err)
		}
		logger.Info(ctx, "database schema is up to date")
	}

	return store.NewStore(pool), db.Close, nil
}
