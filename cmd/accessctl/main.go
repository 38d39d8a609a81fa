// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command accessctl inspects the dashboard's access rules and performs
// operator chores: generating session keys and migrating the user store.
//
// # Usage
//
//	accessctl routes
//	accessctl permissions --role moderator
//	accessctl check --role user --path /reports
//	accessctl keys
//	accessctl migrate up
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
