package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripmate/tripmate-client/config"
)

const redisPingTimeout = 5 * time.Second

// RedisOptions contains configuration for connecting to Redis.
type RedisOptions struct {
	Config config.RedisConfig
	Logger *slog.Logger
}

type redisTopology string

const (
	redisDirect   redisTopology = "direct"
	redisSentinel redisTopology = "sentinel"
	redisCluster  redisTopology = "cluster"
)

// ConnectRedis connects to the configured Redis deployment and pings it.
//
//nolint:ireturn // the topology picks single, sentinel or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg RedisOptions) (redis.UniversalClient, error) {
	topology, opts, err := redisClientOptions(cfg.Config)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch topology {
	case redisCluster:
		client = redis.NewClusterClient(opts.Cluster())
	case redisSentinel:
		client = redis.NewFailoverClient(opts.Failover())
	default:
		client = redis.NewClient(opts.Simple())
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected",
			"topology", string(topology),
			"addrs", strings.Join(opts.Addrs, ","),
			"db", opts.DB)
	}
	return client, nil
}

// redisClientOptions turns configuration into client options. Credentials embedded in a
// redis:// or rediss:// URI win over the separately configured password.
func redisClientOptions(cfg config.RedisConfig) (redisTopology, *redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	switch {
	case cfg.UseCluster:
		opts.Addrs = nonEmpty(cfg.ClusterNodes)
		if len(opts.Addrs) == 0 {
			if err := applyURI(opts, cfg.URI); err != nil {
				return "", nil, err
			}
		}
		if len(opts.Addrs) == 0 {
			return "", nil, errors.New("redis cluster configuration requires at least one address")
		}
		// Cluster mode has a single keyspace.
		opts.DB = 0
		return redisCluster, opts, nil

	case cfg.UseSentinel:
		opts.Addrs = nonEmpty(cfg.SentinelNodes)
		if len(opts.Addrs) == 0 {
			return "", nil, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		if strings.TrimSpace(cfg.SentinelMasterName) == "" {
			return "", nil, errors.New("redis sentinel configuration requires a master name")
		}
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return redisSentinel, opts, nil

	default:
		if strings.TrimSpace(cfg.URI) == "" {
			return "", nil, errors.New("redis direct configuration requires a URI")
		}
		if err := applyURI(opts, cfg.URI); err != nil {
			return "", nil, err
		}
		return redisDirect, opts, nil
	}
}

func applyURI(opts *redis.UniversalOptions, raw string) error {
	uri := strings.TrimSpace(raw)
	if uri == "" {
		return nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	if parsed.DB != 0 {
		opts.DB = parsed.DB
	}
	opts.TLSConfig = parsed.TLSConfig
	return nil
}

func nonEmpty(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
