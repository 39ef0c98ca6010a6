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
	"os/signal"
	"syscall"
	"time"

	"fireblocks-signer-go/internal/common"
	"fireblocks-signer-go/internal/config"
	"fireblocks-signer-go/internal/fireblocks"
	"fireblocks-signer-go/internal/models"
	"fireblocks-signer-go/internal/payload"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

type submitRequest struct {
	vaultId         string
	assetId         string
	memo            string
	signOnly        bool
	useDurableNonce bool
}

func parseFlags() *submitRequest {
	vaultFlag := flag.String("vault", "0", "Vault account id")
	assetFlag := flag.String("asset", "SOL_TEST", "Asset id")
	memoFlag := flag.String("memo", "", "Memo text (defaults to a timestamped message)")
	signOnlyFlag := flag.Bool("sign-only", false, "Sign without broadcasting, then broadcast locally via RPC")
	durableNonceFlag := flag.Bool("durable-nonce", false, "Ask the custody service to use a durable nonce")
	flag.Parse()

	memo := *memoFlag
	if memo == "" {
		memo = fmt.Sprintf("fireblocks-signer-go %s", time.Now().UTC().Format(time.RFC3339))
	}

	return &submitRequest{
		vaultId:         *vaultFlag,
		assetId:         *assetFlag,
		memo:            memo,
		signOnly:        *signOnlyFlag,
		useDurableNonce: *durableNonceFlag,
	}
}

func buildPayload(ctx context.Context, client *fireblocks.Client, builder *payload.MemoBuilder, req *submitRequest) (*solana.Transaction, string, error) {
	address, err := client.Address(ctx, req.vaultId, req.assetId)
	if err != nil {
		return nil, "", fmt.Errorf("unable to get vault address: %w", err)
	}

	feePayer, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, "", fmt.Errorf("vault address %s is not a solana public key: %w", address, err)
	}

	tx, err := builder.Build(ctx, feePayer, req.memo)
	if err != nil {
		return nil, "", err
	}

	encoded, err := payload.Encode(tx)
	if err != nil {
		return nil, "", err
	}

	zap.L().Info("Built memo transaction",
		zap.String("fee_payer", feePayer.String()),
		zap.String("memo", req.memo),
		zap.String("blockhash", tx.Message.RecentBlockhash.String()))

	return tx, encoded, nil
}

func broadcastSigned(ctx context.Context, builder *payload.MemoBuilder, tx *solana.Transaction, signature string) error {
	raw, err := fireblocks.DecodeSignature(signature)
	if err != nil {
		return err
	}
	if err := payload.AttachSignature(tx, raw); err != nil {
		return fmt.Errorf("returned signature does not verify: %w", err)
	}

	sent, err := builder.Broadcast(ctx, tx)
	if err != nil {
		return err
	}

	fmt.Printf("Broadcast signature: %s\n", sent)
	zap.L().Info("Broadcast sign-only transaction", zap.String("signature", sent.String()))
	return nil
}

func main() {
	req := parseFlags()

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := payload.NewMemoBuilder(cfg.Solana.RpcUrl)

	tx, encoded, err := buildPayload(ctx, client, builder, req)
	if err != nil {
		logger.Fatal("Failed to build payload", zap.Error(err))
	}

	created, err := client.ProgramCallWithOptions(ctx, req.assetId, req.vaultId, encoded, fireblocks.ProgramCallOptions{
		SignOnly:        req.signOnly,
		UseDurableNonce: req.useDurableNonce,
		Note:            req.memo,
	})
	if err != nil {
		logger.Fatal("Failed to submit transaction", zap.Error(err))
	}
	fmt.Printf("Submitted transaction %s\n", created)

	start := time.Now()
	result, signature, err := client.Poll(ctx, created.Id, fireblocks.PollOptions{
		Timeout:  cfg.Poll.Timeout,
		Interval: cfg.Poll.Interval,
		OnStatus: func(tx *models.TransactionResponse) {
			fmt.Println(common.ProgressLine(time.Since(start), tx))
		},
	})
	if err != nil {
		if result != nil {
			common.PrintTransactionResult(result, "")
		}
		logger.Fatal("Failed to poll transaction",
			zap.String("transaction_id", created.Id),
			zap.Error(err))
	}

	common.PrintTransactionResult(result, signature)

	if !result.Status.Succeeded() {
		logger.Fatal("Transaction did not complete",
			zap.String("transaction_id", result.Id),
			zap.String("status", string(result.Status)),
			zap.String("sub_status", result.SubStatus))
	}

	if req.signOnly {
		if signature == "" {
			logger.Fatal("Sign-only transaction completed without a signature",
				zap.String("transaction_id", result.Id))
		}
		if err := broadcastSigned(ctx, builder, tx, signature); err != nil {
			logger.Fatal("Failed to broadcast signed transaction", zap.Error(err))
		}
	}

	logger.Info("Submission completed",
		zap.String("transaction_id", result.Id),
		zap.String("signature", signature),
		zap.Bool("sign_only", req.signOnly))
}
