// Package ingest connects to exchange market data streams and turns raw
// trades into one-minute candles for the engine.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanun0323/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"
)

const _binanceBaseWsUrl = "wss://stream.binance.com:9443/ws"

type BinancePub struct {
	wss *ws.WebSocket
}

func NewBinancePub(ctx context.Context) *BinancePub {
	return &BinancePub{
		wss: ws.New(ctx, _binanceBaseWsUrl),
	}
}

func (repo *BinancePub) Len() int {
	return repo.wss.Len()
}

func (repo *BinancePub) Close() {
	repo.wss.Close()
}

func (repo *BinancePub) CloseWhenEmpty() bool {
	if repo.Len() == 0 {
		repo.Close()
		logs.Info("close websocket. reason: empty")
		return true
	}

	return false
}

func (repo *BinancePub) StartWebsocket(ctx context.Context) error {
	if err := repo.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

type BinanceSubscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

type BinanceSubscribeResponse struct {
	ID     int64 `json:"id"`
	Result any   `json:"result"`
}

func subscriberResponseParser(m ws.Message) (BinanceSubscribeResponse, bool) {
	var resp BinanceSubscribeResponse
	err := m.Unmarshal(&resp)
	return resp, err == nil
}

// SubscribeTrade subscribes the 'Trade Streams' channel for a symbol.
func (repo *BinancePub) SubscribeTrade(ctx context.Context, symbol string) error {
	appendIntoRegister := true
	if err := repo.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, ws *ws.WebSocket) error {
			payload := BinanceSubscribeRequest{
				Method: "SUBSCRIBE",
				Params: []string{
					fmt.Sprintf("%s@trade", strings.ToLower(symbol)),
				},
				ID: 1,
			}

			if err := ws.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			resp, ok := subscriberResponseParser(m)
			if !ok || resp.ID != 1 {
				return false, nil
			}

			if resp.Result != nil {
				return false, errors.Errorf("subscribe and wait, err: %+v", resp.Result)
			}
			return true, nil
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}

type BinanceTrade struct {
	EventType string          `json:"e"`
	EventTime int64           `json:"E"`
	Symbol    string          `json:"s"`
	TradeID   int64           `json:"t"`
	Price     decimal.Decimal `json:"p"`
	Quantity  decimal.Decimal `json:"q"`
	TradeTime int64           `json:"T"`
	IsMaker   bool            `json:"m"`
}

func (repo *BinancePub) ObserveTrade(ctx context.Context, handler func(t BinanceTrade)) (unsubscribe func()) {
	ch, cancel := repo.wss.Subscribe()

	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				resp, ok := ws.ReadMessage[BinanceTrade](m)
				if !ok || resp.EventType != "trade" {
					continue
				}

				handler(resp)
			}
		}
	}()

	return cancel
}
