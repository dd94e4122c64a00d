package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"
	"redimaq/internal/domain/content"
	domainerr "redimaq/internal/domain/errors"
)

var ErrNotFound = domainerr.ErrNotFound

func (s *Store) Fingerprint() (string, error) {
	var fp string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(kFingerprint)
		if v == nil {
			return ErrNotFound
		}
		fp = string(v)
		return nil
	})
	return fp, err
}

func getPost(tx *bolt.Tx, slug string) (content.Post, error) {
	b := tx.Bucket(bPosts)
	if b == nil {
		return content.Post{}, ErrNotFound
	}
	v := b.Get([]byte(slug))
	if v == nil {
		return content.Post{}, ErrNotFound
	}
	var p content.Post
	err := json.Unmarshal(v, &p)
	return p, err
}

func (s *Store) GetBySlug(slug string) (content.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.Post{}, ErrNotFound
	}
	var p content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		p, err = getPost(tx, slug)
		return err
	})
	return p, err
}

func (s *Store) GetByID(id int) (content.Post, error) {
	var p content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIDs)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(idKey(id))
		if v == nil {
			return ErrNotFound
		}
		var err error
		p, err = getPost(tx, string(v))
		return err
	})
	return p, err
}

// All returns every post in source order.
func (s *Store) All() ([]content.Post, error) {
	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxOrder)
		if idx == nil {
			return nil
		}
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromKey(k, 4)
			if slug == "" {
				continue
			}
			p, err := getPost(tx, slug)
			if err != nil {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// Catalog loads All into an immutable snapshot.
func (s *Store) Catalog() (*content.Catalog, error) {
	posts, err := s.All()
	if err != nil {
		return nil, err
	}
	return content.NewCatalog(posts), nil
}

// ListByCategory returns up to limit posts of cat, newest first, skipping
// exclude. limit <= 0 means no limit.
func (s *Store) ListByCategory(cat, exclude string, limit int) ([]content.Post, error) {
	cat = strings.TrimSpace(cat)
	if cat == "" {
		return nil, nil
	}
	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxCat)
		if parent == nil {
			return nil
		}
		sb := parent.Bucket([]byte(cat))
		if sb == nil {
			return nil
		}
		cur := sb.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromKey(k, 8)
			if slug == "" || slug == exclude {
				continue
			}
			p, err := getPost(tx, slug)
			if err != nil {
				continue
			}
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) Categories() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIdxCat)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
