package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"bybit_bot/internal/models"
)

// klineFrame — кадр публичного стрима kline.{interval}.{symbol}.
type klineFrame struct {
	Topic string `json:"topic"`
	Data  []struct {
		Start    int64  `json:"start"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
		Confirm  bool   `json:"confirm"`
		Interval string `json:"interval"`
	} `json:"data"`
}

// parseTicks вытаскивает закрытые свечи из кадра. Незакрытые (confirm=false)
// пропускаем — наружу уходят только финальные значения.
func parseTicks(msg []byte, symbol, timeframe string) []models.CandleTick {
	var frame klineFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		return nil
	}
	if frame.Topic == "" || len(frame.Data) == 0 {
		return nil
	}

	out := make([]models.CandleTick, 0, len(frame.Data))
	for _, row := range frame.Data {
		if !row.Confirm {
			continue
		}
		open, err1 := strconv.ParseFloat(row.Open, 64)
		high, err2 := strconv.ParseFloat(row.High, 64)
		low, err3 := strconv.ParseFloat(row.Low, 64)
		closep, err4 := strconv.ParseFloat(row.Close, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		if closep <= 0 {
			continue
		}
		vol, _ := strconv.ParseFloat(row.Volume, 64)

		out = append(out, models.CandleTick{
			Symbol:    symbol,
			Timeframe: timeframe,
			Candle: models.Candle{
				Timestamp: row.Start,
				Open:      open,
				High:      high,
				Low:       low,
				Close:     closep,
				Volume:    vol,
			},
		})
	}
	return out
}

// streamKlines держит одно WS-соединение с переподключением.
func (c *Client) streamKlines(ctx context.Context, symbol, timeframe string) {
	topic := "kline." + timeframe + "." + symbol

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Printf("[WS] connect %s", topic)
		conn, _, err := c.wsDialer.Dial(c.cfg.Bybit.WSHost, nil)
		if err != nil {
			log.Printf("[WS] dial error %s: %v", topic, err)
			if c.st != nil {
				c.st.SetWSConnected(false)
			}
			time.Sleep(time.Second)
			continue
		}

		sub := map[string]any{
			"op":   "subscribe",
			"args": []string{topic},
		}
		if err := conn.WriteJSON(sub); err != nil {
			log.Printf("[WS] subscribe error %s: %v", topic, err)
			_ = conn.Close()
			continue
		}
		if c.st != nil {
			c.st.SetWSConnected(true)
		}

		// keepalive ping каждые 20s — иначе Bybit рвёт соединение по тишине
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		// основной read-loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] read error %s: %v", topic, err)
				_ = conn.Close()
				close(stopPing)
				if c.st != nil {
					c.st.SetWSConnected(false)
				}
				break
			}

			for _, tick := range parseTicks(msg, symbol, timeframe) {
				if c.st != nil {
					c.st.TouchTickUnixMilli(tick.Candle.Timestamp)
				}
			}

			select {
			case <-ctx.Done():
				_ = conn.Close()
				close(stopPing)
				return
			default:
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}
