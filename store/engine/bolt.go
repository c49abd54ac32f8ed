package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nvkalinin/openhours/log"
	"github.com/nvkalinin/openhours/store"
	"go.etcd.io/bbolt"
)

const schedBucket = "schedules"

// Bolt хранит все расписания в одном бакете (const schedBucket): ключ - имя
// расписания, значение - JSON расписания целиком. Расписание маленькое и всегда
// читается и пишется как единое целое, дробить его на ключи нет смысла.
type Bolt struct {
	db *bbolt.DB
}

func NewBolt(file string) (*Bolt, error) {
	b, err := bbolt.Open(file, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot open bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt opened %s successfully", file)

	return &Bolt{
		db: b,
	}, nil
}

func (b *Bolt) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("cannot close bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt closed successfully")
	return nil
}

func (b *Bolt) Find(name string) (s *store.Schedule, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(schedBucket))
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return nil
		}
		log.Printf("[DEBUG] store/bolt get key=%s len=%d", name, len(data))

		s = &store.Schedule{}
		if err := json.Unmarshal(data, s); err != nil {
			s = nil
			log.Printf("[WARN] bolt: invalid schedule at '%s': %v", name, err)
			return nil
		}

		ok = true
		return nil
	})
	return
}

func (b *Bolt) Put(name string, s *store.Schedule) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(schedBucket))
		if err != nil {
			return fmt.Errorf("bolt cannot create bucket '%s': %v", schedBucket, err)
		}

		val, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("bolt cannot marshal '%s': %v", name, err)
		}

		log.Printf("[DEBUG] store/bolt put key=%s len=%d", name, len(val))
		if err := bucket.Put([]byte(name), val); err != nil {
			return fmt.Errorf("bolt cannot put '%s': %v", name, err)
		}
		return nil
	})
}

func (b *Bolt) Names() (names []string, err error) {
	err = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(schedBucket))
		if bucket == nil {
			return nil
		}

		// Ключи в bolt отсортированы по возрастанию.
		return bucket.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return
}

func (b *Bolt) Backup(w io.Writer) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		log.Printf("[DEBUG] store/bolt writing backup len=%d", tx.Size())
		_, err := tx.WriteTo(w)
		return err
	})
}
