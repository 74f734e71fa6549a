package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/injkit/injagent/internal/cache"
	"github.com/injkit/injagent/internal/catalog"
	"github.com/injkit/injagent/internal/chain/broadcaster"
	"github.com/injkit/injagent/internal/chain/tmrpc"
	"github.com/injkit/injagent/internal/config"
	agerr "github.com/injkit/injagent/internal/errors"
	"github.com/injkit/injagent/internal/httpx"
	"github.com/injkit/injagent/internal/logx"
	"github.com/injkit/injagent/internal/policy"
	"github.com/injkit/injagent/internal/portfolio"
	"github.com/injkit/injagent/internal/tools"
	"github.com/injkit/injagent/internal/version"
	"github.com/injkit/injagent/internal/wallet"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
	}
}

type runtimeState struct {
	runner   *Runner
	flags    config.GlobalFlags
	settings config.Settings
	log      *zap.Logger

	cache   *cache.Store
	catalog *catalog.Catalog
	service *tools.Service
	loaded  bool
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r, log: zap.NewNop()}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	err = normalizeRunError(err)
	state.close()
	if err == nil {
		return 0
	}
	fmt.Fprintln(r.stderr, "Error: "+err.Error())
	return agerr.ExitCode(err)
}

func (s *runtimeState) close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	_ = s.log.Sync()
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Wallet-backed transaction tools for Injective",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return agerr.Wrap(agerr.CodeUsage, "load configuration", err)
			}
			s.settings = settings

			log, err := logx.New(settings.Debug)
			if err != nil {
				return agerr.Wrap(agerr.CodeInternal, "build logger", err)
			}
			s.log = log

			if cmd.Name() == "version" || cmd.Name() == "tools" {
				return nil
			}
			return policy.CheckToolAllowed(settings.EnableTools, cmd.Name())
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return agerr.Wrap(agerr.CodeUsage, "parse flags", err)
	})

	cmd.PersistentFlags().StringVar(&s.flags.Network, "network", "", "Network to target (mainnet|testnet|devnet)")
	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "HTTP request timeout")
	cmd.PersistentFlags().IntVar(&s.flags.Retries, "retries", -1, "Retries per HTTP request")
	cmd.PersistentFlags().StringVar(&s.flags.EnableTools, "enable-tools", "", "Allowlist tool names (comma-separated)")
	cmd.PersistentFlags().StringVar(&s.flags.WalletPath, "wallet-path", "", "Path to the wallet file")
	cmd.PersistentFlags().BoolVar(&s.flags.NoCache, "no-cache", false, "Disable catalog snapshot caching")
	cmd.PersistentFlags().BoolVar(&s.flags.Debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(s.newWalletAddressCommand())
	cmd.AddCommand(s.newCreateWalletCommand())
	cmd.AddCommand(s.newWalletBalanceCommand())
	cmd.AddCommand(s.newSearchTokensCommand())
	cmd.AddCommand(s.newSearchSpotMarketsCommand())
	cmd.AddCommand(s.newSearchDerivativeMarketsCommand())
	cmd.AddCommand(s.newSendFundsCommand())
	cmd.AddCommand(s.newTradeSpotMarketCommand())
	cmd.AddCommand(s.newToolsCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// ensureService builds the tool service on first use. The asset catalog is
// loaded only when the invoked tool needs it; a failed load is fatal for
// that invocation.
func (s *runtimeState) ensureService(needCatalog bool) error {
	if s.service == nil {
		httpClient := httpx.New(s.settings.Timeout, s.settings.Retries)
		endpoints := s.settings.Endpoints

		if s.settings.CacheEnabled && s.cache == nil {
			store, err := cache.Open(s.settings.CachePath, s.settings.CacheLockPath)
			if err != nil {
				s.log.Warn("catalog cache unavailable", zap.Error(err))
			} else {
				s.cache = store
			}
		}

		s.catalog = catalog.New(httpClient, endpoints.Catalog, string(s.settings.Network), s.cache, s.settings.CacheTTL, s.log)
		chainClient := tmrpc.New(httpClient, endpoints.RPC, endpoints.REST, endpoints.ChainID)
		bc := broadcaster.New(chainClient, s.settings.BroadcastTimeout, s.settings.PollInterval, s.log)
		balances := portfolio.New(httpClient, endpoints.Indexer)
		walletStore := wallet.NewStore(s.settings.WalletPath)

		s.service = tools.NewService(walletStore, s.catalog, balances, bc, endpoints.Explorer, s.log)
	}

	if needCatalog && !s.loaded {
		ctx, cancel := context.WithTimeout(context.Background(), 3*s.settings.Timeout)
		defer cancel()
		if err := s.catalog.LoadAll(ctx); err != nil {
			return err
		}
		s.loaded = true
	}
	return nil
}

// emit prints a tool result to stdout, or surfaces its typed error for
// exit-code mapping.
func (s *runtimeState) emit(res tools.Result) error {
	if res.IsError {
		if res.Err != nil {
			return res.Err
		}
		return agerr.New(agerr.CodeInternal, res.Text)
	}
	fmt.Fprintln(s.runner.stdout, res.Text)
	return nil
}

func newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			if long {
				fmt.Fprintln(cmd.OutOrStdout(), version.Long())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.CLIVersion)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

func normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := agerr.As(err); ok {
		return err
	}
	if isLikelyUsageError(err) {
		return agerr.Wrap(agerr.CodeUsage, "invalid command input", err)
	}
	return agerr.Wrap(agerr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	patterns := []string{
		"unknown command",
		"unknown flag",
		"required flag(s)",
		"flag needs an argument",
		"invalid argument",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
