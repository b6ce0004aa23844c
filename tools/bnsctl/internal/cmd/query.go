// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-bns/action/protocol/bns"
	"github.com/iotexproject/iotex-bns/state/factory"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve NAMESPACE NAME",
	Short: "Print the zonefile hash of a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFactory(func(ctx context.Context, sf factory.Factory) error {
			zonefile, err := sf.ReadState(ctx, bns.ProtocolID(), []byte("Resolve"), []byte(args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(zonefile))
			return nil
		})
	},
}

var priceCmd = &cobra.Command{
	Use:   "price NAMESPACE [NAME]",
	Short: "Print the price of a namespace, or of a name in a namespace",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFactory(func(ctx context.Context, sf factory.Factory) error {
			var (
				out []byte
				err error
			)
			if len(args) == 1 {
				out, err = sf.ReadState(ctx, bns.ProtocolID(), []byte("NamespacePrice"), []byte(args[0]))
			} else {
				out, err = sf.ReadState(ctx, bns.ProtocolID(), []byte("NamePrice"), []byte(args[0]), []byte(args[1]))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		})
	},
}

var namespaceCmd = &cobra.Command{
	Use:   "namespace NAMESPACE",
	Short: "Print the record of a namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFactory(func(ctx context.Context, sf factory.Factory) error {
			b, err := sf.ReadState(ctx, bns.ProtocolID(), []byte("NamespaceProperties"), []byte(args[0]))
			if err != nil {
				return err
			}
			var ns bns.Namespace
			if err := ns.Deserialize(b); err != nil {
				return err
			}
			printNamespace(cmd, &ns)
			return nil
		})
	},
}

var nameCmd = &cobra.Command{
	Use:   "name NAMESPACE NAME",
	Short: "Print the record of a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFactory(func(ctx context.Context, sf factory.Factory) error {
			b, err := sf.ReadState(ctx, bns.ProtocolID(), []byte("NameProperties"), []byte(args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			var n bns.Name
			if err := n.Deserialize(b); err != nil {
				return err
			}
			free, err := sf.ReadState(ctx, bns.ProtocolID(), []byte("CanNameBeRegistered"), []byte(args[0]), []byte(args[1]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:\t%s\n", bns.FullyQualifiedName(n.Name, n.Namespace))
			fmt.Fprintf(out, "owner:\t%s\n", n.Owner.String())
			fmt.Fprintf(out, "zonefile:\t%s\n", hexutil.Encode(n.ZonefileHash))
			fmt.Fprintf(out, "imported:\t%t\n", n.Imported)
			fmt.Fprintf(out, "leaseStartedAt:\t%d\n", n.LeaseStartedAt)
			fmt.Fprintf(out, "revoked:\t%t\n", n.Revoked)
			fmt.Fprintf(out, "available:\t%s\n", free)
			return nil
		})
	},
}

func printNamespace(cmd *cobra.Command, ns *bns.Namespace) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "namespace:\t%s\n", ns.ID)
	fmt.Fprintf(out, "owner:\t%s\n", ns.Owner.String())
	fmt.Fprintf(out, "importer:\t%s\n", ns.Importer.String())
	fmt.Fprintf(out, "lifetime:\t%d\n", ns.Lifetime)
	fmt.Fprintf(out, "revealedAt:\t%d\n", ns.RevealedAt)
	fmt.Fprintf(out, "importWindowEnd:\t%d\n", ns.ImportWindowEnd)
	fmt.Fprintf(out, "launched:\t%t\n", ns.Launched)
	if ns.Launched {
		fmt.Fprintf(out, "launchedAt:\t%d\n", ns.LaunchedAt)
	}
	fmt.Fprintf(out, "priceFrozen:\t%t\n", ns.PriceFrozen)
	pf := ns.PriceFunction
	fmt.Fprintf(out, "price:\tbase %d coeff %d buckets %v discounts %d/%d\n",
		pf.Base, pf.Coeff, pf.Buckets, pf.NonAlphaDiscount, pf.NoVowelDiscount)
}

var commitmentCmd = &cobra.Command{
	Use:   "commitment NAMESPACE [NAME] SALT",
	Short: "Print the commitment to preorder a namespace, or a name in a namespace",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		var h [20]byte
		if len(args) == 2 {
			h = bns.NamespaceCommitment(args[0], textOrHex(args[1]))
		} else {
			h = bns.NameCommitment(args[1], args[0], textOrHex(args[2]))
		}
		fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(h[:]))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(namespaceCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(commitmentCmd)
}
