// Command walletlink routes a deeplink through the engine with a logging host
// and prints what the wallet would have done.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/vitwit/walletlink"
	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/config"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/protocol"
	"github.com/vitwit/walletlink/types"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "configuration file (toml, yaml or json)",
		EnvVars: []string{config.EnvPrefix + "_CONFIG"},
	}
	originFlag = &cli.StringFlag{
		Name:  "origin",
		Usage: "origin id attached to navigations and pairing requests",
		Value: "cli",
	}
	rpcFlag = &cli.StringFlag{
		Name:  "rpc",
		Usage: "JSON-RPC endpoint used as the active network",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "walletlink",
		Usage:   "wallet deeplink router",
		Version: walletlink.Version,
		Flags:   []cli.Flag{configFlag},
		Commands: []*cli.Command{
			commandRoute,
			commandTable,
			commandNetworks,
		},
	}
}

var commandRoute = &cli.Command{
	Name:      "route",
	Usage:     "route a deeplink and log the resulting host calls",
	ArgsUsage: "<url>",
	Flags:     []cli.Flag{originFlag, rpcFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one url, got %d", ctx.NArg())
		}
		cfg, err := config.Load(ctx.String(configFlag.Name))
		if err != nil {
			return err
		}
		log := logger.NewZapLogger(cfg.LogLevel)
		host := clients.LoggingHost{Log: log}

		opts := []walletlink.Option{
			walletlink.WithConfig(cfg),
			walletlink.WithLogger(log),
		}
		if rpc := ctx.String(rpcFlag.Name); rpc != "" {
			provider, err := clients.NewRPCNetworkProvider(ctx.Context, rpc)
			if err != nil {
				return err
			}
			defer provider.Close()
			opts = append(opts, walletlink.WithNetworkProvider(provider))
		}

		tok, err := walletlink.AcquireToken()
		if err != nil {
			return err
		}
		engine, err := walletlink.Init(tok, host, host, opts...)
		if err != nil {
			return err
		}
		defer engine.Close()

		handled := engine.Route(ctx.Context, ctx.Args().First(), types.RouteOptions{
			OriginID: ctx.String(originFlag.Name),
		})
		engine.RunPending()
		engine.Wait()

		printResult(ctx.App.Writer, ctx.Args().First(), handled)
		return nil
	},
}

var commandTable = &cli.Command{
	Name:  "table",
	Usage: "print the loop-back protocol table",
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String(configFlag.Name))
		if err != nil {
			return err
		}
		table, err := protocol.NewTable(cfg.ProtocolTable, cfg.UniversalBase())
		if err != nil {
			return err
		}
		printTable(ctx.App.Writer, cfg.UniversalBase(), table)
		return nil
	},
}

var commandNetworks = &cli.Command{
	Name:  "networks",
	Usage: "print the known networks",
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String(configFlag.Name))
		if err != nil {
			return err
		}
		printNetworks(ctx.App.Writer, cfg)
		return nil
	},
}

func printResult(w io.Writer, url string, handled bool) {
	if handled {
		fmt.Fprintf(w, "%s %s\n", color.GreenString("handled"), url)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.YellowString("not handled"), url)
}

func printTable(w io.Writer, base string, t *protocol.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Action", "Link", "Rewritten To"})
	for _, e := range t.Entries() {
		tw.Append([]string{e.Action.String(), base + "/" + e.Action.String() + "/", e.Prefix})
	}
	tw.Render()
}

func printNetworks(w io.Writer, cfg *types.Config) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Chain ID", "Name", "Network", "Active"})
	for _, n := range cfg.Networks {
		active := ""
		if n.ChainID == cfg.ActiveChainID {
			active = color.GreenString("*")
		}
		name := n.Name
		if n.Network.IsTestnet() {
			name = color.CyanString(n.Name)
		}
		tw.Append([]string{n.ChainID, name, n.Network.String(), active})
	}
	tw.Render()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}
