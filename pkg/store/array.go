package store

import (
	bolt "go.etcd.io/bbolt"
	"src.vt.sh/pkg/kind"
	. "src.vt.sh/pkg/store/storedefs"
	"src.vt.sh/pkg/vt"
	"src.vt.sh/pkg/vt/errs"
)

func init() {
	initDB["initialize array table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketArrays))
		return err
	}
}

// PutArray stores an array under a name, replacing any array already stored
// under it.
func (s *dbStore) PutArray(name string, v vt.Value) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketArrays))
		return b.Put([]byte(name), []byte(v.Repr()))
	})
}

// Array returns the array stored under a name.
func (s *dbStore) Array(name string) (vt.Value, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketArrays))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		text = string(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vt.Parse(text)
}

// DelArray deletes the array stored under a name.
func (s *dbStore) DelArray(name string) error {
	return s.del(bucketArrays, name)
}

// ArrayNames returns the names of all stored arrays, in byte order.
func (s *dbStore) ArrayNames() ([]string, error) {
	return s.names(bucketArrays)
}

// GetArray returns the array of kind E stored under a name. It fails with an
// errs.Type if the stored array has a different kind.
func GetArray[E kind.Elem](s Store, name string) (*vt.Array[E], error) {
	v, err := s.Array(name)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*vt.Array[E])
	if !ok {
		return nil, errs.Type{What: "array " + name,
			Valid: kind.Of[E]().Name, Actual: v.Kind().Name}
	}
	return a, nil
}
