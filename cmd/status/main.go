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
	"errors"
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

	"go.uber.org/zap"
)

func main() {
	idFlag := flag.String("id", "", "Transaction id (required)")
	onceFlag := flag.Bool("once", false, "Fetch the current status once instead of polling")
	timeoutFlag := flag.Duration("timeout", 0, "Poll timeout (defaults to POLL_TIMEOUT)")
	intervalFlag := flag.Duration("interval", 0, "Poll interval (defaults to POLL_INTERVAL)")
	flag.Parse()

	if *idFlag == "" {
		fmt.Fprintln(os.Stderr, "--id is required")
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

	// Ctrl-C stops polling and reports whatever was last seen
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *onceFlag {
		tx, signature, err := client.GetTransaction(ctx, *idFlag)
		if err != nil {
			logger.Fatal("Failed to get transaction", zap.String("transaction_id", *idFlag), zap.Error(err))
		}
		common.PrintTransactionResult(tx, signature)
		return
	}

	opts := fireblocks.PollOptions{
		Timeout:  cfg.Poll.Timeout,
		Interval: cfg.Poll.Interval,
	}
	if *timeoutFlag > 0 {
		opts.Timeout = *timeoutFlag
	}
	if *intervalFlag > 0 {
		opts.Interval = *intervalFlag
	}

	start := time.Now()
	var last models.TransactionStatus
	opts.OnStatus = func(tx *models.TransactionResponse) {
		if tx.Status == last {
			return
		}
		last = tx.Status
		fmt.Println(common.ProgressLine(time.Since(start), tx))
	}

	logger.Info("Polling transaction",
		zap.String("transaction_id", *idFlag),
		zap.Duration("timeout", opts.Timeout),
		zap.Duration("interval", opts.Interval))

	result, signature, err := client.Poll(ctx, *idFlag, opts)
	switch {
	case err == nil:
		common.PrintTransactionResult(result, signature)
	case errors.Is(err, fireblocks.ErrTimeout):
		if result != nil {
			common.PrintTransactionResult(result, "")
		}
		logger.Warn("Transaction did not reach a terminal status", zap.Error(err))
		os.Exit(1)
	case errors.Is(err, context.Canceled):
		logger.Info("Polling stopped", zap.String("transaction_id", *idFlag))
	default:
		logger.Fatal("Failed to poll transaction", zap.String("transaction_id", *idFlag), zap.Error(err))
	}
}
