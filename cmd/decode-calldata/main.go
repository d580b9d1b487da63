// Command decode-calldata prints the sub-calls of a router multicall.
//
//	decode-calldata 0xac9650d8...
//	decode-calldata -plan _ETH_USDC   # latest plan from the redis feed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/you/route-planner/internal/config"
	"github.com/you/route-planner/internal/connectors/redisfeed"
	"github.com/you/route-planner/internal/inspect"
	"github.com/you/route-planner/internal/interop"
	"github.com/you/route-planner/internal/routerabi"
)

func main() {
	cfgPath := flag.String("config", "", "config file; built-in defaults when empty")
	planName := flag.String("plan", "", "read the latest plan with this name from the feed")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fail("load config", err)
		}
	}
	a, err := routerabi.Load(cfg.Router.ABIPath)
	if err != nil {
		fail("load abi", err)
	}

	var calldata, value string
	switch {
	case *planName != "":
		con := redisfeed.NewConsumer(cfg)
		defer con.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		plan, err := con.Latest(ctx, *planName)
		if err != nil {
			fail("read plan "+*planName, err)
		}
		calldata, value = plan.Calldata, plan.Value
		fmt.Printf("to %s at %s\n", plan.To, time.UnixMilli(plan.TsMs).UTC().Format(time.RFC3339))
	case flag.NArg() == 1:
		calldata = strings.TrimSpace(flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "usage: decode-calldata [-config file] (-plan name | 0xcalldata)")
		os.Exit(2)
	}

	data, err := hexutil.Decode(calldata)
	if err != nil {
		fail("calldata", err)
	}
	if value != "" {
		v, err := interop.HexToDecimalString(value)
		if err != nil {
			fail("value", err)
		}
		fmt.Printf("value %s wei\n", v)
	}
	rep, err := inspect.Describe(a, data)
	if err != nil {
		fail("decode", err)
	}
	if err := rep.Write(os.Stdout); err != nil {
		fail("write", err)
	}
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
