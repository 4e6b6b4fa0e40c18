/*
svparse is a console utility for the SystemVerilog grammar.
Usage is

	svparse [-c <config>] [--env <file>] [-v] [--color <mode>] <command> ...

Commands are:

	parse [-t] [-j <n>] [-f <format>] [--start <name>] [-w <width>] [-e] [-s <prefix>] <file>...
	check
	tables [-o json|yaml] [precedence|ambiguities|roles|productions|all]

parse prints syntax trees as an indented tree, S-expressions or JSON;
-t enables error recovery, -e expects every sample to contain a syntax error,
-s <prefix> treats a file starting with the prefix as multiple samples.

check builds the grammar and runs all build time checks.

tables dumps the precedence, ambiguity, role and production tables.

Settings are read from .svparse.yaml, then from SVPARSE_* environment variables
(the .env file is consulted for missing ones), then from command line flags.
The program exits with code 1 on any error, messages are printed to STDERR.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ava12/svgrammar/cmd/svparse/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if e := commands.NewRootCommand().ExecuteContext(ctx); e != nil {
		fmt.Fprintln(os.Stderr, e)
		stop()
		os.Exit(1)
	}
}
