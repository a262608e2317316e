package chain

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Family string

const (
	FamilyEthereum Family = "ethereum"
	FamilyBNB      Family = "bnb"
)

const (
	NetworkSepolia    = "sepolia"
	NetworkBNBTestnet = "bnb-testnet"

	DefaultNetwork = NetworkSepolia

	NativeDecimals = 18
)

// Network is one concrete chain that payments can be verified against.
type Network struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	ChainID      int64    `json:"chainId"`
	Family       Family   `json:"family"`
	Testnet      bool     `json:"testnet"`
	NativeSymbol string   `json:"nativeSymbol"`
	Aliases      []string `json:"-"`
	RPCURL       string   `json:"-"`
}

// FamilyOf matches the network identifier against the known chain families.
// Anything that does not mention bnb is treated as Ethereum.
func FamilyOf(network string) Family {
	if strings.Contains(strings.ToLower(network), string(FamilyBNB)) {
		return FamilyBNB
	}
	return FamilyEthereum
}

func isTestnetName(network string) bool {
	return strings.Contains(strings.ToLower(network), "test")
}

// Registry is the static network and token table built from Config.
type Registry struct {
	networks map[string]Network
	tokens   map[string]map[string]common.Address
	fallback string
}

func NewRegistry(c *Config) *Registry {
	r := &Registry{
		networks: map[string]Network{},
		tokens:   map[string]map[string]common.Address{},
		fallback: DefaultNetwork,
	}
	r.AddNetwork(Network{
		Key:          NetworkSepolia,
		Name:         "Ethereum Sepolia",
		ChainID:      11155111,
		Family:       FamilyEthereum,
		Testnet:      true,
		NativeSymbol: "ETH",
		Aliases:      []string{"ethereum", "eth", "eth-sepolia"},
		RPCURL:       c.ethRPC(),
	})
	r.AddNetwork(Network{
		Key:          NetworkBNBTestnet,
		Name:         "BNB Smart Chain Testnet",
		ChainID:      97,
		Family:       FamilyBNB,
		Testnet:      true,
		NativeSymbol: "BNB",
		Aliases:      []string{"bnb-test", "bnbtestnet", "bsc-testnet"},
		RPCURL:       c.BNBTestnetRPCURL,
	})

	r.AddToken(NetworkSepolia, "USDC", c.USDCAddress)
	r.AddToken(NetworkSepolia, "USDT", c.USDTAddress)
	// wrapped BNB, only a token outside the BNB family
	r.AddToken(NetworkSepolia, "BNB", c.BNBAddress)
	r.AddToken(NetworkSepolia, "LCX", c.LCXAddress)
	r.AddToken(NetworkBNBTestnet, "USDC", c.BNBTestnetUSDCAddress)
	r.AddToken(NetworkBNBTestnet, "USDT", c.BNBTestnetUSDTAddress)
	r.AddToken(NetworkBNBTestnet, "LCX", c.LCXAddress)

	if c.DefaultNetwork != "" {
		r.fallback = r.Network(c.DefaultNetwork).Key
	}
	return r
}

func (r *Registry) AddNetwork(n Network) {
	r.networks[n.Key] = n
}

// AddToken registers a token contract. Empty or malformed addresses are
// ignored so that unset env variables leave the token unsupported.
func (r *Registry) AddToken(network, symbol, address string) {
	if !common.IsHexAddress(address) {
		return
	}
	if r.tokens[network] == nil {
		r.tokens[network] = map[string]common.Address{}
	}
	r.tokens[network][strings.ToUpper(symbol)] = common.HexToAddress(address)
}

// Network resolves an identifier to a concrete chain: exact key or alias
// first, then family and testnet hints, then the configured default network.
func (r *Registry) Network(network string) Network {
	name := strings.ToLower(strings.TrimSpace(network))
	if n, ok := r.networks[name]; ok {
		return n
	}
	for _, key := range r.keys() {
		for _, alias := range r.networks[key].Aliases {
			if alias == name {
				return r.networks[key]
			}
		}
	}
	family, testnet := FamilyOf(name), isTestnetName(name)
	if family != FamilyEthereum {
		for _, key := range r.keys() {
			n := r.networks[key]
			if n.Family == family && n.Testnet == testnet {
				return n
			}
		}
	}
	return r.Default()
}

// Default is the network that unknown identifiers resolve to.
func (r *Registry) Default() Network {
	return r.networks[r.fallback]
}

// Token returns the contract address for a token symbol on the network that
// the identifier resolves to.
func (r *Registry) Token(network, symbol string) (common.Address, bool) {
	n := r.Network(network)
	addr, ok := r.tokens[n.Key][strings.ToUpper(symbol)]
	return addr, ok
}

func (r *Registry) Networks() []Network {
	result := make([]Network, 0, len(r.networks))
	for _, key := range r.keys() {
		result = append(result, r.networks[key])
	}
	return result
}

// Tokens lists the configured token symbols of a network, sorted.
func (r *Registry) Tokens(network string) []string {
	n := r.Network(network)
	result := make([]string, 0, len(r.tokens[n.Key]))
	for symbol := range r.tokens[n.Key] {
		result = append(result, symbol)
	}
	sort.Strings(result)
	return result
}

func (r *Registry) keys() []string {
	keys := make([]string, 0, len(r.networks))
	for key := range r.networks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
