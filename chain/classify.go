package chain

import (
	"strings"
)

type TransferKind int

const (
	TransferNative TransferKind = iota
	TransferToken
)

func (k TransferKind) String() string {
	if k == TransferNative {
		return "native"
	}
	return "erc20"
}

// nativeAssets lists the symbols paid through the transaction value field and
// the network family they are native on. An empty family means every network.
var nativeAssets = map[string]Family{
	"ETH": "",
	"BNB": FamilyBNB,
}

// Classify decides how a payment of token is carried on the resolved network.
func Classify(token string, network Network) TransferKind {
	family, ok := nativeAssets[strings.ToUpper(strings.TrimSpace(token))]
	if !ok {
		return TransferToken
	}
	if family == "" || network.Family == family {
		return TransferNative
	}
	return TransferToken
}

// Classify resolves the network identifier the same way Network does before
// classifying, so aliases and hints pick the same chain as the reader.
func (r *Registry) Classify(token, network string) TransferKind {
	return Classify(token, r.Network(network))
}
