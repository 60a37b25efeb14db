package embedding

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the msgpack layout written by Save.
type snapshot struct {
	Dim     int         `msgpack:"dim"`
	Words   []string    `msgpack:"w"`
	Vectors [][]float32 `msgpack:"v"`
}

// Load reads a model from path. Files ending in .msgpack or .mpk are read as
// snapshots, anything else as word2vec text.
func Load(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embedding model: %w", err)
	}
	defer f.Close()

	var v *Vectors
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		v, err = ReadSnapshot(f)
	default:
		v, err = ReadText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debugf("Loaded %d word vectors (dim %d) from %s", v.Len(), v.Dim(), path)
	return v, nil
}

// ReadSnapshot decodes a msgpack snapshot.
func ReadSnapshot(r io.Reader) (*Vectors, error) {
	var s snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return NewVectors(s.Words, s.Vectors)
}

// ReadText parses the word2vec text format.
func ReadText(r io.Reader) (*Vectors, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		words []string
		vecs  [][]float32
		line  int
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		// "count dim" header
		if line == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector", line)
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vec[i] = float32(x)
		}
		words = append(words, fields[0])
		vecs = append(vecs, vec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewVectors(words, vecs)
}

// Save writes v as a msgpack snapshot.
func (v *Vectors) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := v.WriteSnapshot(f); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// WriteSnapshot encodes v to w.
func (v *Vectors) WriteSnapshot(w io.Writer) error {
	s := snapshot{Dim: v.Dim()}
	if v != nil {
		s.Words = v.words
		s.Vectors = v.vecs
	}
	return msgpack.NewEncoder(w).Encode(&s)
}
