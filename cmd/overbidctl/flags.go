package main

import (
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type flag struct {
	Name        string
	DefValue    interface{}
	Description string
}

// configureCLI registers persistent flags on cmd and lets OVERBID_* env vars override them.
func configureCLI(v *viper.Viper, envPrefix string, flags []flag, cmd *cobra.Command) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	fs := cmd.PersistentFlags()
	for _, f := range flags {
		switch defval := f.DefValue.(type) {
		case string:
			fs.String(f.Name, defval, f.Description)
		case bool:
			fs.Bool(f.Name, defval, f.Description)
		case time.Duration:
			fs.Duration(f.Name, defval, f.Description)
		default:
			log.Fatalf("unknown flag type: %T", f.DefValue)
		}
		v.SetDefault(f.Name, f.DefValue)
		if err := v.BindPFlag(f.Name, fs.Lookup(f.Name)); err != nil {
			log.Fatal(err)
		}
	}
}

func checkErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
