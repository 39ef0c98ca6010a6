package fireblocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fireblocks-signer-go/internal/models"

	"go.uber.org/zap"
)

// Addresses lists the addresses a vault account holds for an asset
func (c *Client) Addresses(ctx context.Context, vaultId, assetId string) ([]models.VaultWalletAddress, error) {
	const op = "vault addresses"
	if vaultId == "" || assetId == "" {
		return nil, newError(ErrInvalidArgument, op, "vault id and asset id are required", nil)
	}

	path := fmt.Sprintf("/v1/vault/accounts/%s/%s/addresses_paginated", url.PathEscape(vaultId), url.PathEscape(assetId))

	var response models.VaultAddressesResponse
	err := c.do(ctx, op, http.MethodGet, path, nil, &response, func() error {
		for i, addr := range response.Addresses {
			if addr.Address == "" {
				return fmt.Errorf("address at index %d is empty", i)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Vault addresses fetched",
		zap.String("vault_id", vaultId),
		zap.String("asset_id", assetId),
		zap.Int("count", len(response.Addresses)))

	return response.Addresses, nil
}

// Address returns the first address a vault account holds for an asset
func (c *Client) Address(ctx context.Context, vaultId, assetId string) (string, error) {
	addresses, err := c.Addresses(ctx, vaultId, assetId)
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", newError(ErrNoAddress, "vault addresses",
			fmt.Sprintf("No address for vault %s asset %s", vaultId, assetId), nil)
	}
	return addresses[0].Address, nil
}
