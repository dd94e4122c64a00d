package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Fingerprint identifies the inputs of one static export. Two exports with
// the same RenderHash write the same files.
type Fingerprint struct {
	ContentHash  string `yaml:"content"`
	ThemeHash    string `yaml:"theme"`
	ConfigHash   string `yaml:"config"`
	RendererHash string `yaml:"renderer"`
	RenderHash   string `yaml:"render"`
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(f.RendererHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// HashFS hashes the path and bytes of every regular file in fsys. WalkDir
// visits in lexical order, so the result is stable.
func HashFS(fsys fs.FS) (string, error) {
	h := sha256.New()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashValue hashes the YAML encoding of v.
func HashValue(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (f Fingerprint) Marshal() ([]byte, error) { return yaml.Marshal(f) }

func UnmarshalFingerprint(data []byte) (Fingerprint, error) {
	var f Fingerprint
	err := yaml.Unmarshal(data, &f)
	return f, err
}
