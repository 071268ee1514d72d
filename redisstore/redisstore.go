/*
Package redisstore stores serialized canopy forests in a redis DB, one
key per ensemble.
*/
package redisstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pbanos/canopy"
	"gopkg.in/redis.v5"
)

/*
Store saves and loads forests on a redis DB under a common key prefix.
*/
type Store struct {
	rc     *redis.Client
	prefix string
	ted    canopy.TreeEncodeDecoder
}

/*
New takes a redis client, a key prefix and a TreeEncodeDecoder and
returns a Store that keeps every ensemble serialized under
prefix:name.
*/
func New(rc *redis.Client, prefix string, ted canopy.TreeEncodeDecoder) *Store {
	return &Store{rc, prefix, ted}
}

/*
Save takes a context, a name and a forest, serializes the forest and
stores it under the name's key, replacing whatever the key held. An
error is returned if the forest cannot be serialized or stored.
*/
func (rs *Store) Save(ctx context.Context, name string, f *canopy.Forest) error {
	var buf bytes.Buffer
	if err := canopy.WriteForest(ctx, f, rs.ted, &buf); err != nil {
		return fmt.Errorf("saving forest %q: %v", name, err)
	}
	if _, err := rs.rc.Set(rs.keyFor(name), buf.Bytes(), 0).Result(); err != nil {
		return fmt.Errorf("saving forest %q in redis: %v", name, err)
	}
	return nil
}

/*
Load takes a context, a name and a forest and replaces the forest's
contents with the entries stored under the name's key. An error is
returned if the key cannot be retrieved or its contents cannot be
parsed back into a forest.
*/
func (rs *Store) Load(ctx context.Context, name string, f *canopy.Forest) error {
	data, err := rs.rc.Get(rs.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("retrieving forest %q: %v", name, err)
	}
	if err = canopy.ReadForest(ctx, f, rs.ted, bytes.NewReader([]byte(data))); err != nil {
		return fmt.Errorf("retrieving forest %q: %v", name, err)
	}
	return nil
}

/*
Delete takes a context and a name and removes the name's key from the
redis DB. An error is returned if the key cannot be removed.
*/
func (rs *Store) Delete(ctx context.Context, name string) error {
	if _, err := rs.rc.Del(rs.keyFor(name)).Result(); err != nil {
		return fmt.Errorf("deleting forest %q from redis: %v", name, err)
	}
	return nil
}

func (rs *Store) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
