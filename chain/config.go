package chain

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds RPC endpoints and token contract addresses. The variable names
// are shared with the web frontend, hence the NEXT_PUBLIC prefix.
type Config struct {
	EthRPCURL             string `envconfig:"NEXT_PUBLIC_ETH_RPC_URL"`
	PolygonRPCURL         string `envconfig:"NEXT_PUBLIC_POLYGON_RPC_URL"`
	BNBTestnetRPCURL      string `envconfig:"NEXT_PUBLIC_BNB_TESTNET_RPC_URL" default:"https://data-seed-prebsc-1-s1.binance.org:8545/"`
	USDCAddress           string `envconfig:"NEXT_PUBLIC_USDC_ADDRESS"`
	USDTAddress           string `envconfig:"NEXT_PUBLIC_USDT_ADDRESS"`
	BNBTestnetUSDCAddress string `envconfig:"NEXT_PUBLIC_BNB_TESTNET_USDC_ADDRESS"`
	BNBTestnetUSDTAddress string `envconfig:"NEXT_PUBLIC_BNB_TESTNET_USDT_ADDRESS"`
	BNBAddress            string `envconfig:"NEXT_PUBLIC_BNB_ADDRESS"`
	LCXAddress            string `envconfig:"NEXT_PUBLIC_LCX_ADDRESS"`

	DefaultNetwork string `envconfig:"DEFAULT_NETWORK" default:"sepolia"`
}

func LoadConfig() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, err
	}
	return c, nil
}

// ethRPC returns the Ethereum endpoint, falling back to the Polygon variable
// for deployments that only configured that one.
func (c *Config) ethRPC() string {
	if c.EthRPCURL != "" {
		return c.EthRPCURL
	}
	return c.PolygonRPCURL
}
