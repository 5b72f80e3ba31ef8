// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/cinemap/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
