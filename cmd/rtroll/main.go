// Package main provides rtroll, a command-line roller for actor sheets.
//
// Usage:
//
//	rtroll [flags] <command> [args]
//
// Commands:
//
//	derive                 print the derived stat block
//	skills                 print every skill target
//	test <characteristic>  characteristic test, e.g. "test ws"
//	skill <key>            skill test
//	spec <key> <index>     specialization test
//	custom <item>          custom skill item test
//	attack <weapon>        weapon attack
//	power <power>          power test
//	damage <item>          damage roll for a weapon or power
//	initiative             initiative roll
//	hitloc <roll>          hit location of a d100 roll
//	macros                 list the loaded Lua macros
//	macro <name> [args]    run a Lua macro
//	store                  save the -sheet file to the database
//	actors                 list stored actors
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
