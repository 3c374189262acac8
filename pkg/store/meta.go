package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"src.vt.sh/pkg/vt"
)

const keyGrammarVersion = "grammar-version"

var errBadGrammarVersion = errors.New("malformed grammar version")

func init() {
	initDB["initialize metadata table"] = func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}
		if v := b.Get([]byte(keyGrammarVersion)); v != nil {
			stored, n := binary.Uvarint(v)
			if n <= 0 {
				return errBadGrammarVersion
			}
			if stored != vt.GrammarVersion {
				return fmt.Errorf("database uses text grammar version %d, but %d is supported",
					stored, vt.GrammarVersion)
			}
			return nil
		}
		return b.Put([]byte(keyGrammarVersion), binary.AppendUvarint(nil, vt.GrammarVersion))
	}
}

// GrammarVersion returns the version of the text grammar the stored arrays
// are written in.
func (s *dbStore) GrammarVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bolt.Tx) error {
		v, n := binary.Uvarint(tx.Bucket([]byte(bucketMeta)).Get([]byte(keyGrammarVersion)))
		if n <= 0 {
			return errBadGrammarVersion
		}
		version = int(v)
		return nil
	})
	return version, err
}
