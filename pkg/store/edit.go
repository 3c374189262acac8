package store

import (
	"encoding/binary"
	"errors"

	bolt "go.etcd.io/bbolt"
	"src.vt.sh/pkg/edit"
	"src.vt.sh/pkg/kind"
	. "src.vt.sh/pkg/store/storedefs"
	"src.vt.sh/pkg/vt"
)

var errBadEditRecord = errors.New("malformed edit record")

func init() {
	initDB["initialize edit table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEdits))
		return err
	}
}

// PutEditRecord stores an edit record under a name, replacing any edit
// already stored under it.
func (s *dbStore) PutEditRecord(name string, r EditRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEdits))
		return b.Put([]byte(name), marshalEditRecord(r))
	})
}

// EditRecord returns the edit record stored under a name.
func (s *dbStore) EditRecord(name string) (EditRecord, error) {
	var r EditRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEdits))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		var err error
		r, err = unmarshalEditRecord(v)
		return err
	})
	return r, err
}

// DelEdit deletes the edit stored under a name.
func (s *dbStore) DelEdit(name string) error {
	return s.del(bucketEdits, name)
}

// EditNames returns the names of all stored edits, in byte order.
func (s *dbStore) EditNames() ([]string, error) {
	return s.names(bucketEdits)
}

// PutEdit stores an edit under a name.
func PutEdit[E kind.Elem](s Store, name string, e edit.Edit[E]) error {
	values, indexes, dense := e.SerializationData()
	return s.PutEditRecord(name, EditRecord{
		Values: values.Repr(), Indexes: indexes, Dense: dense})
}

// GetEdit returns the edit of element kind E stored under a name.
func GetEdit[E kind.Elem](s Store, name string) (edit.Edit[E], error) {
	r, err := s.EditRecord(name)
	if err != nil {
		return edit.Edit[E]{}, err
	}
	values, err := vt.ParseAs[E](r.Values)
	if err != nil {
		return edit.Edit[E]{}, err
	}
	return edit.FromSerializationData(values, r.Indexes, r.Dense)
}

// An edit record is stored as a flag byte that is 1 for dense edits, the
// length of the values text as an uvarint, the values text, and the indexes
// as varints.

func marshalEditRecord(r EditRecord) []byte {
	var buf []byte
	if r.Dense {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.AppendUvarint(buf, uint64(len(r.Values)))
	buf = append(buf, r.Values...)
	for _, i := range r.Indexes {
		buf = binary.AppendVarint(buf, i)
	}
	return buf
}

func unmarshalEditRecord(buf []byte) (EditRecord, error) {
	if len(buf) == 0 || buf[0] > 1 {
		return EditRecord{}, errBadEditRecord
	}
	r := EditRecord{Dense: buf[0] == 1}
	buf = buf[1:]
	n, w := binary.Uvarint(buf)
	if w <= 0 || n > uint64(len(buf)-w) {
		return EditRecord{}, errBadEditRecord
	}
	buf = buf[w:]
	r.Values = string(buf[:n])
	buf = buf[n:]
	for len(buf) > 0 {
		i, w := binary.Varint(buf)
		if w <= 0 {
			return EditRecord{}, errBadEditRecord
		}
		r.Indexes = append(r.Indexes, i)
		buf = buf[w:]
	}
	return r, nil
}
