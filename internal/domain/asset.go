package domain

import "strings"

// Asset is one of the tracked cryptocurrencies with a recurring
// 15-minute up/down market series.
type Asset string

const (
	AssetBTC Asset = "btc"
	AssetETH Asset = "eth"
	AssetSOL Asset = "sol"
	AssetXRP Asset = "xrp"
)

// Assets lists every supported asset in a stable order.
func Assets() []Asset {
	return []Asset{AssetBTC, AssetETH, AssetSOL, AssetXRP}
}

// ParseAsset validates an asset name coming from external input.
func ParseAsset(s string) (Asset, bool) {
	a := Asset(strings.ToLower(s))
	switch a {
	case AssetBTC, AssetETH, AssetSOL, AssetXRP:
		return a, true
	}
	return "", false
}

// DisplayName returns the human-readable name of the asset.
func (a Asset) DisplayName() string {
	switch a {
	case AssetBTC:
		return "Bitcoin"
	case AssetETH:
		return "Ethereum"
	case AssetSOL:
		return "Solana"
	case AssetXRP:
		return "XRP"
	}
	return string(a)
}
