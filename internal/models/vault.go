/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

// VaultWalletAddress is an address held by a vault account for one asset
type VaultWalletAddress struct {
	AssetId       string `json:"assetId"`
	Address       string `json:"address"`
	Description   string `json:"description,omitempty"`
	Tag           string `json:"tag,omitempty"`
	Type          string `json:"type,omitempty"`
	LegacyAddress string `json:"legacyAddress,omitempty"`
}

// Paging carries cursors for paginated list endpoints
type Paging struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// VaultAddressesResponse is the body of the paginated vault address lookup
type VaultAddressesResponse struct {
	Addresses []VaultWalletAddress `json:"addresses"`
	Paging    *Paging              `json:"paging,omitempty"`
}
