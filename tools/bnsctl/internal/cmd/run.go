// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/state/factory"
)

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Apply the blocks of a script",
	Long:  `Apply the blocks of a yaml script in order and print the receipt of every action.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScript(args[0])
		if err != nil {
			return err
		}
		return withFactory(func(ctx context.Context, sf factory.Factory) error {
			return runScript(ctx, cmd.OutOrStdout(), sf, s)
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(ctx context.Context, out io.Writer, sf factory.Factory, s *script) error {
	for i := range s.Blocks {
		blk := &s.Blocks[i]
		elps, err := blk.envelopes()
		if err != nil {
			return err
		}
		receipts, err := sf.ApplyBlock(ctx, blk.Height, elps)
		if err != nil {
			return err
		}
		for j, r := range receipts {
			printReceipt(out, action.Name(elps[j].Action()), r)
		}
	}
	return nil
}

func printReceipt(out io.Writer, name string, r *action.Receipt) {
	if r.Succeeded() {
		fmt.Fprintf(out, "%d\t%s\tok\t%s\n", r.BlockHeight, name, hexutil.Encode(r.ReturnValue))
		return
	}
	fmt.Fprintf(out, "%d\t%s\t%d\t%s\n", r.BlockHeight, name, r.Status, r.Message)
}
