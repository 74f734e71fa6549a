package app

import (
	"context"

	"github.com/spf13/cobra"

	agerr "github.com/injkit/injagent/internal/errors"
)

func (s *runtimeState) newWalletAddressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-wallet-address",
		Short: "Print the address of the locally stored wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(false); err != nil {
				return err
			}
			return s.emit(s.service.WalletAddress())
		},
	}
}

func (s *runtimeState) newCreateWalletCommand() *cobra.Command {
	var override bool
	cmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Generate a new wallet and persist it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(false); err != nil {
				return err
			}
			return s.emit(s.service.CreateWallet(override))
		},
	}
	cmd.Flags().BoolVar(&override, "override", false, "Replace an existing wallet")
	return cmd
}

func (s *runtimeState) newWalletBalanceCommand() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "check-wallet-balance",
		Short: "List verified token balances for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.ensureService(true); err != nil {
				return err
			}
			target := address
			if target == "" {
				local, found := s.service.LocalAddress()
				if !found {
					return agerr.New(agerr.CodeUsage, "--address is required when no wallet exists")
				}
				target = local
			}
			return s.emit(s.service.WalletBalance(context.Background(), target))
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Injective address to inspect (defaults to the local wallet)")
	return cmd
}
