package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cliName        = "overbidctl"
	defaultKeyPath = filepath.Join(os.Getenv("HOME"), "."+cliName, "key.json")
	v              = viper.New()
)

func init() {
	rootCmd.AddCommand(keygenCmd, initCmd, issueCmd, bidCmd, redeemCmd, showCmd, balanceCmd, airdropCmd)

	flags := []flag{
		{Name: "api", DefValue: "http://localhost:8080", Description: "Overbid API base URL"},
		{Name: "key", DefValue: defaultKeyPath, Description: "Path to the ed25519 key file"},
		{Name: "timeout", DefValue: 15 * time.Second, Description: "Request timeout"},
	}
	configureCLI(v, "OVERBID", flags, rootCmd)

	issueCmd.Flags().String("uri", "", "Metadata URI of the new item")
	issueCmd.Flags().String("asset", "", "Asset address to use instead of a random one")
	bidCmd.Flags().String("amount", "", "Bid in SOL, e.g. 0.01")
	bidCmd.Flags().String("holder", "", "Current holder; looked up when empty")
	airdropCmd.Flags().String("amount", "1", "Amount in SOL")
	airdropCmd.Flags().String("to", "", "Recipient; defaults to the local key")
}

var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: "overbidctl drives an Overbid API",
	Long: `overbidctl drives an Overbid API: issue items, outbid holders and redeem points.

Mutating commands are signed with the local key. Create one with 'overbidctl keygen'.
Flags can also be set through OVERBID_* environment variables, e.g. OVERBID_API.
`,
	SilenceUsage: true,
}

func keyedClient() *client {
	kp, err := loadKey(v.GetString("key"))
	checkErr(err)
	return newClient(v.GetString("api"), v.GetDuration("timeout"), kp)
}

func anonClient() *client {
	return newClient(v.GetString("api"), v.GetDuration("timeout"), nil)
}

func printJSON(x interface{}) {
	out, err := json.MarshalIndent(x, "", "  ")
	checkErr(err)
	fmt.Println(string(out))
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new signing key",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		kp, err := generateKey(v.GetString("key"))
		checkErr(err)
		fmt.Printf("Address: %s\nKey file: %s\n", kp.Address, v.GetString("key"))
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the collection with the local key as authority",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		var out map[string]interface{}
		checkErr(keyedClient().do(context.Background(), http.MethodPost, "/api/collection", nil, &out))
		printJSON(out)
	},
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a new item minted to the local key",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		uri, _ := c.Flags().GetString("uri")
		asset, _ := c.Flags().GetString("asset")
		if uri == "" {
			checkErr(errors.New("--uri is required"))
		}
		var out map[string]interface{}
		body := map[string]string{"uri": uri, "asset": asset}
		checkErr(keyedClient().do(context.Background(), http.MethodPost, "/api/assets", body, &out))
		printJSON(out)
	},
}

var bidCmd = &cobra.Command{
	Use:   "bid <asset>",
	Short: "Outbid the current holder of an asset",
	Args:  cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := context.Background()
		raw, _ := c.Flags().GetString("amount")
		amount, err := parseSOL(raw)
		checkErr(err)
		holder, _ := c.Flags().GetString("holder")
		if holder == "" {
			var detail struct {
				Holder string `json:"holder"`
			}
			checkErr(anonClient().do(ctx, http.MethodGet, "/api/assets/"+args[0], nil, &detail))
			holder = detail.Holder
		}

		var out struct {
			Bid struct {
				Signature string `json:"signature"`
				Slot      uint64 `json:"slot"`
				Refund    uint64 `json:"refund"`
				Pooled    uint64 `json:"pooled"`
			} `json:"bid"`
			MinimumNextBid uint64 `json:"minimumNextBid"`
		}
		body := map[string]interface{}{"holder": holder, "amount": amount}
		checkErr(keyedClient().do(ctx, http.MethodPost, "/api/assets/"+args[0]+"/bids", body, &out))
		fmt.Printf("Bid %s SOL accepted at slot %d (signature %s)\n", formatSOL(amount), out.Bid.Slot, out.Bid.Signature)
		fmt.Printf("  refunded to %s: %s SOL\n", holder, formatSOL(out.Bid.Refund))
		fmt.Printf("  pooled:        %s SOL\n", formatSOL(out.Bid.Pooled))
		fmt.Printf("  suggested next bid: %s SOL\n", formatSOL(out.MinimumNextBid))
	},
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <asset>",
	Short: "Redeem the points accrued to an asset you hold",
	Args:  cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		var out struct {
			Points uint64 `json:"points"`
			Slot   uint64 `json:"slot"`
		}
		checkErr(keyedClient().do(context.Background(), http.MethodPost, "/api/assets/"+args[0]+"/redeem", nil, &out))
		fmt.Printf("Redeemed %s SOL at slot %d\n", formatSOL(out.Points), out.Slot)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [asset]",
	Short: "Show the collection, or one asset",
	Args:  cobra.MaximumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		path := "/api/collection"
		if len(args) == 1 {
			path = "/api/assets/" + args[0]
		}
		var out map[string]interface{}
		checkErr(anonClient().do(context.Background(), http.MethodGet, path, nil, &out))
		printJSON(out)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show a wallet balance; defaults to the local key",
	Args:  cobra.MaximumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		var addr string
		if len(args) == 1 {
			addr = args[0]
		} else {
			kp, err := loadKey(v.GetString("key"))
			checkErr(err)
			addr = kp.Address
		}
		var out struct {
			Balance uint64 `json:"balance"`
		}
		checkErr(anonClient().do(context.Background(), http.MethodGet, "/api/wallets/"+addr, nil, &out))
		fmt.Printf("%s: %s SOL\n", addr, formatSOL(out.Balance))
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Request test funds from a development API",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		raw, _ := c.Flags().GetString("amount")
		amount, err := parseSOL(raw)
		checkErr(err)
		to, _ := c.Flags().GetString("to")
		if to == "" {
			kp, err := loadKey(v.GetString("key"))
			checkErr(err)
			to = kp.Address
		}
		var out struct {
			Balance uint64 `json:"balance"`
		}
		body := map[string]uint64{"amount": amount}
		checkErr(anonClient().do(context.Background(), http.MethodPost, "/api/wallets/"+to+"/airdrop", body, &out))
		fmt.Printf("%s: %s SOL\n", to, formatSOL(out.Balance))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
