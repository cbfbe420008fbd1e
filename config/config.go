// Package config loads the engine configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vitwit/walletlink/types"
	"github.com/vitwit/walletlink/utils"
)

// EnvPrefix prefixes environment overrides, e.g. WALLETLINK_UNIVERSAL_HOST.
const EnvPrefix = "WALLETLINK"

// Load reads configuration from path, or from $WALLETLINK_CONFIG, or from
// ~/.config/walletlink/config.{toml,yaml,json}. A missing default file is not
// an error; a missing explicit file is.
func Load(path string) (*types.Config, error) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "walletlink"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, &types.WalletLinkError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("failed to read config: %v", err),
				Err:     err,
			}
		}
	}

	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, &types.WalletLinkError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to parse config: %v", err),
			Err:     err,
		}
	}

	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks struct-tag rules on c.
func Validate(c *types.Config) error {
	if err := utils.ValidateStruct(c); err != nil {
		return &types.WalletLinkError{
			Code:    types.ErrConfigError,
			Message: err.Error(),
			Err:     err,
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, d *types.Config) {
	v.SetDefault("universal_host", d.UniversalHost)
	v.SetDefault("store_links", d.StoreLinks)
	v.SetDefault("schemes.pairing_session", string(d.Schemes.PairingSession))
	v.SetDefault("schemes.payment", string(d.Schemes.Payment))
	v.SetDefault("schemes.dapp", string(d.Schemes.Dapp))
	v.SetDefault("schemes.wallet", string(d.Schemes.Wallet))
	v.SetDefault("protocol_table", d.ProtocolTable)
	v.SetDefault("active_chain_id", d.ActiveChainID)
	v.SetDefault("max_rewrites", d.MaxRewrites)
	v.SetDefault("warning_seconds", d.WarningSeconds)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("enable_metrics", d.EnableMetrics)

	networks := make([]map[string]any, 0, len(d.Networks))
	for _, n := range d.Networks {
		networks = append(networks, map[string]any{
			"chain_id": n.ChainID,
			"name":     n.Name,
			"network":  string(n.Network),
			"rpc_url":  n.RPCUrl,
		})
	}
	v.SetDefault("networks", networks)
}
