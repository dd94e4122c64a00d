package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"
	"redimaq/internal/domain/content"
)

// Fingerprint identifies a post set by the content hashes of its sources in
// order.
func Fingerprint(posts []content.Post) string {
	h := sha256.New()
	for _, p := range posts {
		h.Write([]byte(p.Slug))
		h.Write([]byte{0})
		h.Write([]byte(p.Hash))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Rebuild replaces the catalogue with posts, keeping their order. It reports
// false without writing when the stored fingerprint already matches.
func (s *Store) Rebuild(posts []content.Post) (bool, error) {
	fp := Fingerprint(posts)
	if cur, err := s.Fingerprint(); err == nil && cur == fp {
		return false, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bPosts, bIDs, bIdxOrder, bIdxCat, bMeta} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}

		postsB, err := tx.CreateBucket(bPosts)
		if err != nil {
			return err
		}
		idsB, err := tx.CreateBucket(bIDs)
		if err != nil {
			return err
		}
		orderB, err := tx.CreateBucket(bIdxOrder)
		if err != nil {
			return err
		}
		catB, err := tx.CreateBucket(bIdxCat)
		if err != nil {
			return err
		}
		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}

		for pos, p := range posts {
			if strings.TrimSpace(p.Slug) == "" {
				continue
			}
			if postsB.Get([]byte(p.Slug)) != nil {
				return fmt.Errorf("duplicate slug %q", p.Slug)
			}
			if idsB.Get(idKey(p.ID)) != nil {
				return fmt.Errorf("duplicate id %d", p.ID)
			}

			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := postsB.Put([]byte(p.Slug), pb); err != nil {
				return err
			}
			if err := idsB.Put(idKey(p.ID), []byte(p.Slug)); err != nil {
				return err
			}
			if err := orderB.Put(makeOrderKey(pos, p.Slug), []byte{1}); err != nil {
				return err
			}

			if cat := strings.TrimSpace(p.Category); cat != "" {
				sb, err := catB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				day, ok := p.Day()
				if err := sb.Put(makeDateSlugKey(day, ok, p.Slug), []byte{1}); err != nil {
					return err
				}
			}
		}
		return metaB.Put(kFingerprint, []byte(fp))
	})
	if err != nil {
		return false, fmt.Errorf("index: rebuild: %w", err)
	}
	return true, nil
}
