package cql

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/kzaag/dpsql/target"
)

/*
	TargetGetCluster reads the cluster configuration from t.
	Recognized args: timeout (seconds), port and consistency.
*/
func TargetGetCluster(t *target.Target) (*gocql.ClusterConfig, error) {
	var err error
	timeout, port := 10, 0

	if err = t.GetInt("timeout", &timeout); err != nil {
		return nil, err
	}
	if err = t.GetInt("port", &port); err != nil {
		return nil, err
	}

	cluster := gocql.NewCluster(t.Server...)
	cluster.Timeout = time.Second * time.Duration(timeout)
	cluster.Keyspace = t.Database
	if port > 0 {
		cluster.Port = port
	}

	if c, ok := t.Args["consistency"]; ok {
		if cluster.Consistency, err = gocql.ParseConsistencyWrapper(c); err != nil {
			return nil, err
		}
	}

	if t.User != "" {
		password, err := t.GetPassword()
		if err != nil {
			return nil, err
		}
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: t.User,
			Password: password,
		}
	}

	return cluster, nil
}

// TargetGetDB connects to the cluster, retrying as set by the retries and interval args.
func TargetGetDB(t *target.Target) (target.DB[ColumnDef], error) {
	retries, interval := 1, 2
	if err := t.GetInt("retries", &retries); err != nil {
		return nil, err
	}
	if err := t.GetInt("interval", &interval); err != nil {
		return nil, err
	}

	cluster, err := TargetGetCluster(t)
	if err != nil {
		return nil, err
	}

	var sess *gocql.Session
	for attempt := 1; ; attempt++ {
		if sess, err = cluster.CreateSession(); err == nil {
			return NewSession(sess, t.Database), nil
		}
		if attempt >= retries {
			return nil, errors.Wrapf(err, "couldnt connect to %s after %d attempts", t.Host(), attempt)
		}
		time.Sleep(time.Second * time.Duration(interval))
	}
}

func TargetCtxNew() *target.Ctx[ColumnDef] {
	return &target.Ctx[ColumnDef]{
		DbNew:      TargetGetDB,
		Definer:    Defs{},
		ColumnType: StmtColumnType,
		DbSuffix:   ".cql",
	}
}
