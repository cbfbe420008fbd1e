package types

// Network is a short network key used in configuration and logs.
type Network string

const (
	NetworkMainnet     Network = "mainnet"
	NetworkSepolia     Network = "sepolia" // testnet
	NetworkLinea       Network = "linea-mainnet"
	NetworkPolygon     Network = "polygon"
	NetworkPolygonAmoy Network = "polygon-amoy" // testnet
	NetworkBase        Network = "base"
	NetworkBaseSepolia Network = "base-sepolia" // testnet
)

func (n Network) String() string {
	return string(n)
}

// IsTestnet reports whether the network is a known test network.
func (n Network) IsTestnet() bool {
	return n == NetworkSepolia || n == NetworkPolygonAmoy || n == NetworkBaseSepolia
}

// NetworkInfo describes a network the wallet can switch to.
type NetworkInfo struct {
	ChainID string  `json:"chainId" mapstructure:"chain_id" validate:"required,numeric"`
	Name    string  `json:"name" mapstructure:"name" validate:"required"`
	Network Network `json:"network" mapstructure:"network" validate:"required"`
	RPCUrl  string  `json:"rpcUrl,omitempty" mapstructure:"rpc_url" validate:"omitempty,url"`
}

// DefaultNetworks returns the built-in network registry.
func DefaultNetworks() []NetworkInfo {
	return []NetworkInfo{
		{ChainID: "1", Name: "Ethereum Main Network", Network: NetworkMainnet},
		{ChainID: "11155111", Name: "Sepolia", Network: NetworkSepolia},
		{ChainID: "59144", Name: "Linea Main Network", Network: NetworkLinea},
		{ChainID: "137", Name: "Polygon Mainnet", Network: NetworkPolygon},
		{ChainID: "80002", Name: "Polygon Amoy", Network: NetworkPolygonAmoy},
		{ChainID: "8453", Name: "Base Mainnet", Network: NetworkBase},
		{ChainID: "84532", Name: "Base Sepolia", Network: NetworkBaseSepolia},
	}
}
