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
	"time"

	"fireblocks-signer-go/internal/common"
	"fireblocks-signer-go/internal/config"
	"fireblocks-signer-go/internal/fireblocks"
	"fireblocks-signer-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func parseAndValidateFlags() (*fireblocks.TransferParams, error) {
	vaultFlag := flag.String("vault", "0", "Source vault account id")
	assetFlag := flag.String("asset", "SOL_TEST", "Asset id")
	amountFlag := flag.String("amount", "", "Amount to transfer (required)")
	destinationFlag := flag.String("destination", "", "Destination address")
	tagFlag := flag.String("tag", "", "Destination tag or memo (optional)")
	destinationVaultFlag := flag.String("destination-vault", "", "Destination vault account id")
	noteFlag := flag.String("note", "", "Transaction note (optional)")
	flag.Parse()

	if *amountFlag == "" {
		return nil, fmt.Errorf("--amount is required")
	}
	if (*destinationFlag == "") == (*destinationVaultFlag == "") {
		return nil, fmt.Errorf("exactly one of --destination or --destination-vault is required")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	return &fireblocks.TransferParams{
		AssetId:            *assetFlag,
		VaultId:            *vaultFlag,
		DestinationAddress: *destinationFlag,
		DestinationTag:     *tagFlag,
		DestinationVaultId: *destinationVaultFlag,
		Amount:             amount,
		Note:               *noteFlag,
	}, nil
}

func printTransferSummary(params *fireblocks.TransferParams) {
	destination := params.DestinationAddress
	if destination == "" {
		destination = "vault " + params.DestinationVaultId
	}

	common.PrintHeader("TRANSFER REQUEST", common.DefaultWidth)
	fmt.Printf("Source vault: %s\n", params.VaultId)
	fmt.Printf("Asset:        %s\n", params.AssetId)
	fmt.Printf("Amount:       %s\n", params.Amount.String())
	fmt.Printf("Destination:  %s\n", destination)
	if params.DestinationTag != "" {
		fmt.Printf("Tag:          %s\n", params.DestinationTag)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	params, err := parseAndValidateFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

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

	printTransferSummary(params)

	created, err := client.Transfer(ctx, *params)
	if err != nil {
		logger.Fatal("Transfer failed", zap.Error(err))
	}
	fmt.Printf("Submitted transfer %s\n", created)

	start := time.Now()
	result, signature, err := client.Poll(ctx, created.Id, fireblocks.PollOptions{
		Timeout:  cfg.Poll.Timeout,
		Interval: cfg.Poll.Interval,
		OnStatus: func(tx *models.TransactionResponse) {
			fmt.Println(common.ProgressLine(time.Since(start), tx))
		},
	})
	if err != nil {
		logger.Fatal("Failed to poll transfer",
			zap.String("transaction_id", created.Id),
			zap.Error(err))
	}

	common.PrintTransactionResult(result, signature)

	logger.Info("Transfer finished",
		zap.String("transaction_id", result.Id),
		zap.String("status", string(result.Status)),
		zap.String("amount", params.Amount.String()))
}
