package app

import (
	"strings"

	"github.com/spf13/cobra"
)

func (s *runtimeState) newSearchTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search-tokens <query>",
		Short: "Fuzzy-search verified tokens by denom, symbol, or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			return s.emit(s.service.SearchTokens(joinQuery(args)))
		},
	}
}

func (s *runtimeState) newSearchSpotMarketsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search-spot-markets <query>",
		Short: "Fuzzy-search spot markets by ticker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			return s.emit(s.service.SearchSpotMarkets(joinQuery(args)))
		},
	}
}

func (s *runtimeState) newSearchDerivativeMarketsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search-derivative-markets <query>",
		Short: "Fuzzy-search derivative markets by ticker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			return s.emit(s.service.SearchDerivativeMarkets(joinQuery(args)))
		},
	}
}

func joinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
