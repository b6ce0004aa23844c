// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// A command-line tool to replay naming actions against a state db and query names.
package main

import "github.com/iotexproject/iotex-bns/tools/bnsctl/internal/cmd"

func main() {
	cmd.Execute()
}
