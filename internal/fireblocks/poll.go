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

package fireblocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fireblocks-signer-go/internal/models"

	"go.uber.org/zap"
)

// PollOptions controls a Poll call. Interval must be shorter than Timeout.
type PollOptions struct {
	Timeout  time.Duration
	Interval time.Duration

	// OnStatus is called with every fetched transaction, repeats included
	OnStatus func(*models.TransactionResponse)
}

// Poll fetches a transaction until it reaches a terminal status or
// opts.Timeout elapses.
//
// On a terminal status it returns the transaction and, when the transaction
// completed, its signature. Failed, cancelled, rejected, blocked or timed out
// transactions return no signature and a nil error; inspect Status and
// SubStatus. If the timeout elapses first, Poll returns the last transaction
// it saw together with an ErrTimeout error. A request still in flight at the
// deadline is aborted. Any error from fetching the transaction ends the poll
// immediately.
func (c *Client) Poll(ctx context.Context, txId string, opts PollOptions) (*models.TransactionResponse, string, error) {
	const op = "poll"
	if txId == "" {
		return nil, "", newError(ErrInvalidArgument, op, "transaction id is required", nil)
	}
	if opts.Timeout <= 0 || opts.Interval <= 0 {
		return nil, "", newError(ErrInvalidArgument, op, "timeout and interval must be positive", nil)
	}
	if opts.Interval >= opts.Timeout {
		return nil, "", newError(ErrInvalidArgument, op,
			fmt.Sprintf("interval %s must be shorter than timeout %s", opts.Interval, opts.Timeout), nil)
	}

	deadline := time.Now().Add(opts.Timeout)
	pollCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	logger := c.logger.With(zap.String("transaction_id", txId))
	logger.Debug("Polling transaction status",
		zap.Duration("timeout", opts.Timeout),
		zap.Duration("interval", opts.Interval))

	var last *models.TransactionResponse
	for attempt := 1; ; attempt++ {
		if !time.Now().Before(deadline) {
			return last, "", c.pollTimeout(txId, opts.Timeout, last, nil)
		}

		tx, signature, err := c.GetTransaction(pollCtx, txId)
		// A malformed signature only matters once the transaction completes
		var sigErr error
		if err != nil && tx != nil && errors.Is(err, ErrInvalidSignature) {
			sigErr, err = err, nil
		}
		if err != nil {
			if errors.Is(err, ErrTimeout) && ctx.Err() == nil && pollCtx.Err() != nil {
				return last, "", c.pollTimeout(txId, opts.Timeout, last, err)
			}
			logger.Warn("Transaction status check failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return tx, "", err
		}

		if opts.OnStatus != nil {
			opts.OnStatus(tx)
		}
		if last == nil || last.Status != tx.Status || last.SubStatus != tx.SubStatus {
			logger.Info("Transaction status changed",
				zap.String("status", string(tx.Status)),
				zap.String("sub_status", tx.SubStatus),
				zap.Int("attempt", attempt))
		}
		last = tx

		if tx.Status.Terminal() {
			if !tx.Status.Succeeded() {
				logger.Warn("Transaction ended without completing",
					zap.String("status", string(tx.Status)),
					zap.String("sub_status", tx.SubStatus))
				return tx, "", nil
			}
			if sigErr != nil {
				logger.Warn("Completed transaction carries an invalid signature", zap.Error(sigErr))
				return tx, "", sigErr
			}
			logger.Info("Transaction completed",
				zap.String("signature", signature),
				zap.Int("attempts", attempt))
			return tx, signature, nil
		}

		wait := min(opts.Interval, time.Until(deadline))
		if wait <= 0 {
			return last, "", c.pollTimeout(txId, opts.Timeout, last, nil)
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-pollCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return last, "", classifyTransportError(op, ctx.Err())
			}
			return last, "", c.pollTimeout(txId, opts.Timeout, last, nil)
		}
	}
}

func (c *Client) pollTimeout(txId string, timeout time.Duration, last *models.TransactionResponse, cause error) error {
	lastStatus := "none"
	if last != nil {
		lastStatus = string(last.Status)
	}
	c.logger.Warn("Transaction did not reach a terminal status in time",
		zap.String("transaction_id", txId),
		zap.Duration("timeout", timeout),
		zap.String("last_status", lastStatus))
	return newError(ErrTimeout, "poll",
		fmt.Sprintf("transaction %s not terminal after %s (last status %s)", txId, timeout, lastStatus), cause)
}
