// Package boltstore keeps tables in a bolt database file.
//
// A Store is both a tabular.Loader and a source lister:
// the tables saved into it can be iterated in the order they were first saved.
package boltstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/patternkit/multicsv/sources"
	"github.com/patternkit/multicsv/tabular"
	uuid "github.com/satori/go.uuid"
)

const (
	ErrNotFound  = tabular.ErrSourceNotFound
	ErrCorrupted errorkit.Error = "stored table is corrupted"
)

var (
	bucketTables = []byte("tables")
	bucketOrder  = []byte("order")
	bucketIndex  = []byte("index")
)

// checksumSize is the length of the xxhash64 prefix in front of every stored payload.
const checksumSize = 8

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTables, bucketOrder, bucketIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, errorkit.Merge(err, db.Close())
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errorkit.Merge(err, db.Close())
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errorkit.Merge(err, encoder.Close(), db.Close())
	}
	return &Store{DB: db, encoder: encoder, decoder: decoder}, nil
}

type Store struct {
	DB *bolt.DB

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Close the Store and release the file lock
func (s *Store) Close() error {
	s.decoder.Close()
	return errorkit.Merge(s.encoder.Close(), s.DB.Close())
}

type record struct {
	Header []string
	Rows   [][]string
}

// Save stores the table under id and returns the id.
// An empty id is replaced with a new UUID.
// Saving an existing id replaces its content but keeps its position in the source order.
func (s *Store) Save(ctx context.Context, id string, t *tabular.Records) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewV4().String()
	}
	payload, err := s.encode(record{Header: t.Header, Rows: t.Rows})
	if err != nil {
		return "", err
	}
	return id, s.DB.Update(func(tx *bolt.Tx) error {
		key := []byte(id)
		if err := tx.Bucket(bucketTables).Put(key, payload); err != nil {
			return err
		}
		index := tx.Bucket(bucketIndex)
		if index.Get(key) != nil {
			return nil
		}
		order := tx.Bucket(bucketOrder)
		seq, err := order.NextSequence()
		if err != nil {
			return err
		}
		seqKey := uint64ToBytes(seq)
		if err := order.Put(seqKey, key); err != nil {
			return err
		}
		return index.Put(key, seqKey)
	})
}

// Load implements tabular.Loader.
func (s *Store) Load(ctx context.Context, id string) (tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		rec      record
		checksum uint64
	)
	err := s.DB.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketTables).Get([]byte(id))
		if value == nil {
			return ErrNotFound.F("%s", id)
		}
		var err error
		rec, checksum, err = s.decode(value)
		return err
	})
	if err != nil {
		return nil, err
	}
	t := tabular.NewRecords(rec.Header, rec.Rows)
	t.Checksum = checksum
	return t, nil
}

// Sources lists the stored table ids in the order they were first saved.
func (s *Store) Sources(ctx context.Context) (sources.List, error) {
	var ids []string
	err := s.DB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrder).ForEach(func(_, id []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids = append(ids, string(id))
			return nil
		})
	})
	if err != nil {
		return sources.List{}, err
	}
	return sources.New(ids...), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DB.Update(func(tx *bolt.Tx) error {
		key := []byte(id)
		index := tx.Bucket(bucketIndex)
		seqKey := index.Get(key)
		if seqKey == nil {
			return ErrNotFound.F("%s", id)
		}
		if err := tx.Bucket(bucketOrder).Delete(seqKey); err != nil {
			return err
		}
		if err := index.Delete(key); err != nil {
			return err
		}
		return tx.Bucket(bucketTables).Delete(key)
	})
}

func (s *Store) encode(rec record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	out := make([]byte, checksumSize, checksumSize+buf.Len())
	binary.LittleEndian.PutUint64(out, xxhash.Sum64(buf.Bytes()))
	return s.encoder.EncodeAll(buf.Bytes(), out), nil
}

func (s *Store) decode(value []byte) (record, uint64, error) {
	var rec record
	if len(value) < checksumSize {
		return rec, 0, ErrCorrupted.F("payload is %d bytes long", len(value))
	}
	expected := binary.LittleEndian.Uint64(value[:checksumSize])
	data, err := s.decoder.DecodeAll(value[checksumSize:], nil)
	if err != nil {
		return rec, 0, ErrCorrupted.Wrap(err)
	}
	if actual := xxhash.Sum64(data); actual != expected {
		return rec, 0, ErrCorrupted.F("checksum mismatch: stored %d, calculated %d", expected, actual)
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return rec, 0, ErrCorrupted.Wrap(fmt.Errorf("gob: %w", err))
	}
	return rec, expected, nil
}

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
