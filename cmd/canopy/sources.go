package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/event"
	"github.com/pbanos/canopy/event/csv"
	"github.com/pbanos/canopy/event/mongosource"
	"github.com/pbanos/canopy/event/sqlsource"
	"github.com/pbanos/canopy/event/sqlsource/pgadapter"
	"github.com/pbanos/canopy/event/sqlsource/sqlite3adapter"
	yamlmd "github.com/pbanos/canopy/event/yaml"
	"github.com/pbanos/canopy/redisstore"
	treejson "github.com/pbanos/canopy/tree/json"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
	redis "gopkg.in/redis.v5"
)

type dataCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	table         string
	collection    string
	maxDBConns    int
}

func (dcc *dataCmdConfig) declareFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(dcc.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the events to read (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(dcc.metadataInput), "metadata", "m", "", "path to a YML file describing the variable, label and weight columns of the input (required)")
	cmd.PersistentFlags().StringVar(&(dcc.table), "table", "events", "table to read events from when the input is a database")
	cmd.PersistentFlags().StringVar(&(dcc.collection), "collection", "events", "collection to read events from when the input is a MongoDB URL")
	cmd.PersistentFlags().IntVar(&(dcc.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
}

/*
metadata reads and parses the YML metadata file the config points to.
*/
func (dcc *dataCmdConfig) metadata() (*event.Metadata, error) {
	if dcc.metadataInput == "" {
		return nil, fmt.Errorf("no metadata file given")
	}
	dcc.Logf("Reading metadata at %s...", dcc.metadataInput)
	return yamlmd.ReadMetadataFromFile(dcc.metadataInput)
}

/*
source opens the event source the config points to and returns it
together with a closer the caller owns. Depending on the input flag the
events come from STDIN or a CSV file (parsed as CSV), an SQLite3 file,
a PostgreSQL database or a MongoDB collection.
*/
func (dcc *dataCmdConfig) source(metadata *event.Metadata) (event.Source, io.Closer, error) {
	switch {
	case strings.HasPrefix(dcc.dataInput, "postgresql://") || strings.HasPrefix(dcc.dataInput, "postgres://"):
		dcc.Logf("Opening PostgreSQL connection to read events...")
		db, err := pgadapter.Open(dcc.dataInput, dcc.maxDBConns)
		if err != nil {
			return nil, nil, err
		}
		src, err := sqlsource.New(db, dcc.table, metadata)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return src, db, nil
	case strings.HasPrefix(dcc.dataInput, "mongodb://"):
		dcc.Logf("Opening MongoDB session to read events...")
		session, err := mgo.Dial(dcc.dataInput)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %v", dcc.dataInput, err)
		}
		src, err := mongosource.New(session, dcc.collection, metadata)
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return src, mgoSessionCloser{session}, nil
	case strings.HasSuffix(dcc.dataInput, ".db"):
		dcc.Logf("Opening SQLite3 file %s to read events...", dcc.dataInput)
		db, err := sqlite3adapter.Open(dcc.dataInput, dcc.maxDBConns)
		if err != nil {
			return nil, nil, err
		}
		src, err := sqlsource.New(db, dcc.table, metadata)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return src, db, nil
	default:
		if dcc.dataInput == "" {
			dcc.Logf("Reading events from STDIN...")
		} else {
			dcc.Logf("Opening %s to read events...", dcc.dataInput)
		}
		return csv.Open(dcc.dataInput, metadata)
	}
}

type mgoSessionCloser struct {
	session *mgo.Session
}

func (mc mgoSessionCloser) Close() error {
	mc.session.Close()
	return nil
}

/*
outputForest serializes the forest to the given output: a redis URL of
the form redis://host:port/name stores it on redis under the URL's
name, any other value is taken as a path to a file to create, and an
empty value writes to STDOUT.
*/
func outputForest(ctx context.Context, output string, f *canopy.Forest) error {
	if strings.HasPrefix(output, "redis://") {
		rc, name, err := redisEnsemble(output)
		if err != nil {
			return err
		}
		defer rc.Close()
		return redisstore.New(rc, "canopy", treejson.EncodeDecoder{}).Save(ctx, name, f)
	}
	var w *os.File
	var err error
	if output == "" {
		w = os.Stdout
	} else {
		w, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("creating ensemble file %s: %v", output, err)
		}
		defer w.Close()
	}
	return canopy.WriteForest(ctx, f, treejson.EncodeDecoder{}, w)
}

/*
readForest loads a forest serialized at the given input, which follows
the same conventions as outputForest, into the given forest.
*/
func readForest(ctx context.Context, input string, f *canopy.Forest) error {
	if strings.HasPrefix(input, "redis://") {
		rc, name, err := redisEnsemble(input)
		if err != nil {
			return err
		}
		defer rc.Close()
		return redisstore.New(rc, "canopy", treejson.EncodeDecoder{}).Load(ctx, name, f)
	}
	var r io.ReadCloser
	var err error
	if input == "" {
		r = os.Stdin
	} else {
		r, err = os.Open(input)
		if err != nil {
			return fmt.Errorf("opening ensemble file %s: %v", input, err)
		}
		defer r.Close()
	}
	return canopy.ReadForest(ctx, f, treejson.EncodeDecoder{}, r)
}

func redisEnsemble(rawurl string) (*redis.Client, string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis URL %s: %v", rawurl, err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return nil, "", fmt.Errorf("redis URL %s names no ensemble", rawurl)
	}
	return redis.NewClient(&redis.Options{Addr: u.Host}), name, nil
}
