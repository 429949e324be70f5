// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import "strings"

// PluginID identifies the connector to the host's asset resolver.
const PluginID = "repository_koha"

// iconAsset is the asset used for both the record icon and its thumbnail.
const iconAsset = "icon"

// AssetResolver maps a plugin asset name to a URL the host can serve.
type AssetResolver interface {
	ResolveAsset(pluginID, name string) string
}

// AssetFunc adapts a function to the AssetResolver interface.
type AssetFunc func(pluginID, name string) string

// ResolveAsset calls f(pluginID, name).
func (f AssetFunc) ResolveAsset(pluginID, name string) string { return f(pluginID, name) }

// StaticAssets resolves assets under a fixed URL prefix as
// {BaseURL}/{pluginID}/{name}. An empty BaseURL resolves to "".
type StaticAssets struct {
	BaseURL string
}

// ResolveAsset implements AssetResolver.
func (s StaticAssets) ResolveAsset(pluginID, name string) string {
	if s.BaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + pluginID + "/" + name
}
