package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/autocomplete"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/cache"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/config"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/logger"
	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/upstream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var RootCmd = &cobra.Command{
	Use:          RootCmdName,
	Short:        RootCmdShort,
	Long:         RootCmdLong,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(RootCmd.PersistentFlags())
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(LookupCmd)
}

// setup loads settings and builds the suggestion service logging to logOut.
// The returned func releases the cache connection.
func setup(ctx context.Context, cmd *cobra.Command, logOut io.Writer) (*config.Config, *logger.Logger, *autocomplete.Service, func(), error) {
	cfg, err := config.Load(viper.GetViper(), cmd.Flags())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	log := logger.NewWriter(cfg.Env, logOut)

	client, err := upstream.New(cfg.UpstreamOptions(), log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("error initializing dataset client: %w", err)
	}

	var c cache.Cache = cache.Nop{}
	cleanup := func() {}
	if cfg.RedisURL != "" {
		rdb, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("error connecting cache: %w", err)
		}
		c = cache.NewRedis(rdb, cfg.CacheTTL, log)
		cleanup = func() {
			log.Info("closing cache")
			_ = rdb.Close()
		}
	}

	return cfg, log, autocomplete.NewService(client, c, log), cleanup, nil
}
