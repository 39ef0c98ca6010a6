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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fireblocks-signer-go/internal/common"
	"fireblocks-signer-go/internal/config"
	"fireblocks-signer-go/internal/models"

	"go.uber.org/zap"
)

func printAddress(addr models.VaultWalletAddress, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %-12s → %s\n", symbol, addr.AssetId, addr.Address)

	detailSymbol := common.BoxDetailPrefix(isLast)
	if addr.Type != "" {
		fmt.Printf("%s   Type: %s\n", detailSymbol, addr.Type)
	}
	if addr.Description != "" {
		fmt.Printf("%s   Description: %s\n", detailSymbol, addr.Description)
	}
	if addr.LegacyAddress != "" && addr.LegacyAddress != addr.Address {
		fmt.Printf("%s   Legacy: %s\n", detailSymbol, addr.LegacyAddress)
	}
}

func main() {
	vaultFlag := flag.String("vault", "0", "Vault account id")
	assetFlag := flag.String("asset", "SOL_TEST", "Asset id")
	allFlag := flag.Bool("all", false, "List every address instead of only the first")
	flag.Parse()

	common.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.Log)
	defer loggerCleanup()

	client, err := common.InitializeClient(cfg.Fireblocks)
	if err != nil {
		logger.Fatal("Failed to initialize client", zap.Error(err))
	}

	ctx := context.Background()

	if !*allFlag {
		address, err := client.Address(ctx, *vaultFlag, *assetFlag)
		if err != nil {
			logger.Fatal("Failed to get vault address",
				zap.String("vault_id", *vaultFlag),
				zap.String("asset_id", *assetFlag),
				zap.Error(err))
		}
		fmt.Println(address)
		return
	}

	addresses, err := client.Addresses(ctx, *vaultFlag, *assetFlag)
	if err != nil {
		logger.Fatal("Failed to list vault addresses",
			zap.String("vault_id", *vaultFlag),
			zap.String("asset_id", *assetFlag),
			zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("VAULT %s ADDRESSES (%s)", *vaultFlag, *assetFlag), common.WideWidth)
	for i, addr := range addresses {
		printAddress(addr, i == len(addresses)-1)
	}
	common.PrintFooter(fmt.Sprintf("SUMMARY: %d addresses", len(addresses)), common.WideWidth)

	logger.Info("Address query completed",
		zap.String("vault_id", *vaultFlag),
		zap.String("asset_id", *assetFlag),
		zap.Int("total_addresses", len(addresses)))
}
