package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/scylladb/gocqlx"
	"github.com/scylladb/gocqlx/qb"
	"github.com/serroba/shortlink/internal/shortener"
)

const cassandraTable = "links"

// NewCassandraSession connects to the cluster and makes sure the links table exists.
// The keyspace itself must already exist.
func NewCassandraSession(hosts []string, keyspace string) (*gocql.Session, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("create cassandra session: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS ` + cassandraTable + ` (code text PRIMARY KEY, url text)`
	if err := session.Query(schema).Exec(); err != nil {
		session.Close()

		return nil, fmt.Errorf("create links table: %w", err)
	}

	return session, nil
}

// CassandraStore is a Cassandra/ScyllaDB implementation of shortener.Repository.
type CassandraStore struct {
	session *gocql.Session
}

// NewCassandraStore creates a new Cassandra-backed link store.
func NewCassandraStore(session *gocql.Session) *CassandraStore {
	return &CassandraStore{session: session}
}

func (c *CassandraStore) Find(ctx context.Context, code shortener.Code) (string, bool, error) {
	stmt, names := qb.Select(cassandraTable).Columns("url").Where(qb.Eq("code")).Limit(1).ToCql()
	q := gocqlx.Query(c.session.Query(stmt).WithContext(ctx), names).BindMap(qb.M{"code": string(code)})

	var url string

	if err := q.GetRelease(&url); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return "", false, nil
		}

		return "", false, shortener.StoreError("find", err)
	}

	return url, true, nil
}

// Insert is a lightweight transaction, so only the first writer of a code is applied.
func (c *CassandraStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	stmt := `INSERT INTO ` + cassandraTable + ` (code, url) VALUES (?, ?) IF NOT EXISTS`

	applied, err := c.session.Query(stmt, string(link.Code), link.OriginalURL).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return shortener.StoreError("insert", err)
	}

	if !applied {
		return shortener.ErrCodeTaken
	}

	return nil
}

func (c *CassandraStore) DeleteMany(ctx context.Context, codes []shortener.Code) error {
	if len(codes) == 0 {
		return nil
	}

	stmt, _ := qb.Delete(cassandraTable).Where(qb.In("code")).ToCql()

	if err := c.session.Query(stmt, shortener.Strings(codes)).WithContext(ctx).Exec(); err != nil {
		return shortener.StoreError("delete", err)
	}

	return nil
}

// Ping runs a trivial query against the system keyspace.
func (c *CassandraStore) Ping(ctx context.Context) error {
	return c.session.Query(`SELECT release_version FROM system.local`).WithContext(ctx).Exec()
}

// Shutdown closes the session.
func (c *CassandraStore) Shutdown() error {
	c.session.Close()

	return nil
}

var _ shortener.Repository = (*CassandraStore)(nil)
