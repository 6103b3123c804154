package natsinfo

import (
	"errors"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/envutils"
)

var ErrNatsConnectionTimeout = errors.New("unable establish nats connection")

type NatsConfig struct {
	Port string
	Host string
}

func (c *NatsConfig) GetURL() string {
	if c.Host == "" || c.Port == "" {
		return nats.DefaultURL
	}
	return fmt.Sprintf("nats://%s:%s", c.Host, c.Port)
}

func NewNatsConfig() *NatsConfig {
	return &NatsConfig{
		Host: envutils.Env("NATS_HOST", "nats"),
		Port: envutils.Env("NATS_PORT", "4222"),
	}
}

type NewNatsConnectionParams struct {
	fx.In
	Lifecycle fx.Lifecycle

	Config *NatsConfig
	Logger *zap.Logger
}

type NewNatsConnectionResult struct {
	fx.Out

	Conn *nats.Conn
	JS   nats.JetStreamContext
}

func NewNatsConnection(params NewNatsConnectionParams) (NewNatsConnectionResult, error) {
	conn, err := nats.Connect(params.Config.GetURL(),
		nats.Timeout(time.Second*30),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return NewNatsConnectionResult{}, err
	}

	js, err := conn.JetStream()
	if err != nil {
		return NewNatsConnectionResult{}, err
	}

	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	done := time.NewTimer(time.Second * 30)
	defer done.Stop()

wait:
	for {
		select {
		case <-done.C:
			conn.Close()
			return NewNatsConnectionResult{}, ErrNatsConnectionTimeout
		case <-ticker.C:
			if nats.CONNECTED == conn.Status() {
				break wait
			}
		}
	}
	params.Logger.Info("nats connected", zap.String("url", params.Config.GetURL()))

	params.Lifecycle.Append(fx.StopHook(conn.Drain))

	return NewNatsConnectionResult{
		Conn: conn,
		JS:   js,
	}, nil
}
