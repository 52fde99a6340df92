package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/serroba/shortlink/internal/cache"
	"github.com/serroba/shortlink/internal/cluster"
)

// Store backends.
const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StorePostgres  = "postgres"
	StoreCassandra = "cassandra"
	StoreRedis     = "redis"
)

// Cache backends.
const (
	CacheMemory    = "memory"
	CacheRedis     = "redis"
	CacheMemcached = "memcached"
)

// Invalidation transports.
const (
	InvalidationNone  = "none"
	InvalidationRedis = "redis"
)

// Options is the command line and SERVICE_* environment configuration.
type Options struct {
	Port                  int    `default:"8080"                                help:"Port to listen on"                                      short:"p"`
	CodeLength            int    `default:"5"                                   help:"Length of generated short codes"                        short:"c"`
	MaxAttempts           int    `default:"10"                                  help:"Candidate codes tried before giving up"`
	Workers               int    `default:"0"                                   help:"Worker processes, 0 means one per CPU"                  short:"w"`
	Standalone            bool   `default:"false"                               help:"Serve from this process without spawning workers"`
	Store                 string `default:"sqlite"                              help:"Link store: memory, sqlite, postgres, cassandra, redis"`
	DatabaseURL           string `default:"postgres://localhost:5432/shortlink" help:"Postgres connection URL"`
	CassandraHosts        string `default:"localhost:9042"                      help:"Comma separated Cassandra hosts"`
	CassandraKeyspace     string `default:"shortlink"                           help:"Cassandra keyspace"`
	SQLitePath            string `default:"shortlink.db"                        help:"SQLite database file"`
	Cache                 string `default:"memory"                              help:"Cache backend: memory, redis, memcached"`
	CacheMode             string `default:"sharded"                             help:"Cache key space: sharded per worker or shared"`
	CacheSize             int    `default:"100000"                              help:"Max entries of the in-memory cache, 0 is unbounded"`
	RedisAddr             string `default:"localhost:6379"                      help:"Redis server address"                                   short:"r"`
	MemcachedAddr         string `default:"localhost:11211"                     help:"Comma separated memcached servers"`
	Invalidation          string `default:"redis"                               help:"Cross-worker cache invalidation: none or redis"`
	InvalidationStreamLen int    `default:"10000"                               help:"Approximate max entries kept in the removal stream"`
	AllowedOrigins        string `default:"http://localhost:3000"               help:"Comma separated CORS origins"`
	LogFormat             string `default:"console"                             help:"Log format: console or json"`
	MaxRestartBackoff     int    `default:"30"                                  help:"Max seconds between restarts of a crashing worker"`
}

// Validate rejects unknown backend names, out of range numbers and combinations under which a
// worker could keep serving a removed link from its own cache.
func (o *Options) Validate() error {
	var errs []error

	if o.CodeLength <= 0 {
		errs = append(errs, fmt.Errorf("code length must be positive, got %d", o.CodeLength))
	}

	if !oneOf(o.Store, StoreMemory, StoreSQLite, StorePostgres, StoreCassandra, StoreRedis) {
		errs = append(errs, fmt.Errorf("unknown store %q", o.Store))
	}

	if !oneOf(o.Cache, CacheMemory, CacheRedis, CacheMemcached) {
		errs = append(errs, fmt.Errorf("unknown cache %q", o.Cache))
	}

	if !oneOf(o.CacheMode, string(cache.ModeSharded), string(cache.ModeShared)) {
		errs = append(errs, fmt.Errorf("unknown cache mode %q", o.CacheMode))
	}

	if !oneOf(o.Invalidation, InvalidationNone, InvalidationRedis) {
		errs = append(errs, fmt.Errorf("unknown invalidation %q", o.Invalidation))
	}

	if o.Cache == CacheMemory && o.CacheMode == string(cache.ModeShared) {
		errs = append(errs, errors.New("cache mode shared needs a redis or memcached cache"))
	}

	if o.Invalidation == InvalidationRedis && o.InvalidationStreamLen <= 0 {
		errs = append(errs, fmt.Errorf("invalidation stream len must be positive, got %d", o.InvalidationStreamLen))
	}

	if o.Invalidation == InvalidationNone && o.multipleWorkers() && o.privateCache() {
		errs = append(errs, errors.New(
			"invalidation none with several workers serves removed links from other workers' caches: "+
				"use --invalidation=redis, a shared redis or memcached cache, or a single worker"))
	}

	return errors.Join(errs...)
}

func (o *Options) multipleWorkers() bool {
	return !o.Standalone && cluster.WorkerCount(o.Workers) > 1
}

// privateCache reports whether a worker's cache entries are invisible to its siblings.
func (o *Options) privateCache() bool {
	return o.Cache == CacheMemory || o.CacheMode != string(cache.ModeShared)
}

// Worker identifies the serving process among its siblings.
type Worker struct {
	ID int
}

func oneOf(value string, allowed ...string) bool {
	return slices.Contains(allowed, value)
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
