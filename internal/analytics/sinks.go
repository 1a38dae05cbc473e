package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher is the subset of *nats.Conn used by NATSSink.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes each event as JSON on <prefix>.<event type>.
type NATSSink struct {
	pub    Publisher
	prefix string
}

func NewNATSSink(pub Publisher, prefix string) *NATSSink {
	return &NATSSink{pub: pub, prefix: prefix}
}

func (s *NATSSink) Subject(t EventType) string {
	return s.prefix + "." + string(t)
}

func (s *NATSSink) Record(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.pub.Publish(s.Subject(e.Type), data); err != nil {
		return fmt.Errorf("publish %s: %w", s.Subject(e.Type), err)
	}
	return nil
}

// ConnectNATS dials the server with reconnects enabled.
func ConnectNATS(url string, log zerolog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("dominom"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
		nats.Timeout(5*time.Second),
	)
}

// RedisSink keeps daily counters in a hash per day and unique players in a
// HyperLogLog.
type RedisSink struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisSink(client redis.Cmdable, prefix string, ttl time.Duration) *RedisSink {
	if ttl <= 0 {
		ttl = DefaultRetention * 24 * time.Hour
	}
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

// Keys returns the counter hash and player set keys of the event's day.
func (s *RedisSink) Keys(at time.Time) (counters, players string) {
	day := at.UTC().Format(dayLayout)
	return fmt.Sprintf("%s:%s", s.prefix, day), fmt.Sprintf("%s:%s:players", s.prefix, day)
}

func (s *RedisSink) Record(ctx context.Context, e Event) error {
	counters, players := s.Keys(e.At)
	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, counters, string(e.Type), 1)
	pipe.Expire(ctx, counters, s.ttl)
	if e.Type == EventPlayerJoin && e.Player != "" {
		pipe.PFAdd(ctx, players, e.Player)
		pipe.Expire(ctx, players, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record %s: %w", e.Type, err)
	}
	return nil
}

// LogSink writes every event at debug level.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, e Event) error {
	s.log.Debug().
		Str("event", string(e.Type)).
		Str("room", e.RoomID).
		Int("seat", e.Seat).
		Str("player", e.Player).
		Interface("data", e.Data).
		Msg("analytics")
	return nil
}
