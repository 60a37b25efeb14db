package embedding

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = `5 3
野球 1 0 0
ホームラン 0.9 0.1 0
打者 0.8 0.2 0
猫 0 0 1
犬 0 0.1 0.9
`

func loadFixture(t *testing.T) *Vectors {
	t.Helper()
	v, err := ReadText(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	return v
}

func TestReadText(t *testing.T) {
	v := loadFixture(t)
	if v.Len() != 5 || v.Dim() != 3 {
		t.Fatalf("Len=%d Dim=%d, want 5 and 3", v.Len(), v.Dim())
	}
	if !v.Contains("猫") || v.Contains("鳥") {
		t.Error("Contains() mismatch")
	}
	if _, err := ReadText(strings.NewReader("a 1 2\nb 1\n")); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestMostSimilar(t *testing.T) {
	v := loadFixture(t)
	got, err := v.MostSimilar([]string{"野球"}, 2)
	if err != nil {
		t.Fatalf("MostSimilar: %v", err)
	}
	if len(got) != 2 || got[0].Word != "ホームラン" || got[1].Word != "打者" {
		t.Errorf("MostSimilar(野球) = %v", got)
	}

	got, err = v.MostSimilar([]string{"猫", "野球"}, 0)
	if err != nil {
		t.Fatalf("MostSimilar: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("want the 3 remaining words, got %v", got)
	}
	for _, n := range got {
		if n.Word == "猫" || n.Word == "野球" {
			t.Errorf("query word %q returned", n.Word)
		}
	}
}

func TestMostSimilarOutOfVocabulary(t *testing.T) {
	v := loadFixture(t)
	if _, err := v.MostSimilar([]string{"野球", "鳥"}, 20); !errors.Is(err, ErrOutOfVocabulary) {
		t.Errorf("err = %v, want ErrOutOfVocabulary", err)
	}
	var empty *Vectors
	if empty.Contains("野球") {
		t.Error("nil model contains a word")
	}
	if _, err := empty.MostSimilar([]string{"野球"}, 20); !errors.Is(err, ErrOutOfVocabulary) {
		t.Errorf("nil model err = %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	v := loadFixture(t)
	path := filepath.Join(t.TempDir(), "vectors.msgpack")
	if err := v.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, _ := v.MostSimilar([]string{"犬"}, 3)
	got, _ := loaded.MostSimilar([]string{"犬"}, 3)
	for i := range want {
		if got[i].Word != want[i].Word || math.Abs(got[i].Score-want[i].Score) > 1e-6 {
			t.Errorf("neighbor %d = %v, want %v", i, got[i], want[i])
		}
	}

	var buf bytes.Buffer
	if err := (*Vectors)(nil).WriteSnapshot(&buf); err != nil {
		t.Fatalf("WriteSnapshot(nil): %v", err)
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	v := loadFixture(t)
	if err := v.Save(filepath.Join(t.TempDir(), "missing", "vectors.msgpack")); err == nil {
		t.Error("Save into a missing directory succeeded")
	}
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	if err := v.Save("/dev/full"); err == nil {
		t.Error("Save to a full device reported no error")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		a, b []float64
		want float64
	}{
		{[]float64{1, 0}, []float64{1, 0}, 1},
		{[]float64{1, 0}, []float64{0, 1}, 0},
		{[]float64{1, 1}, []float64{-1, -1}, -1},
		{[]float64{0, 0}, []float64{1, 0}, 0},
		{[]float64{1}, []float64{1, 0}, 0},
	}
	for _, tt := range tests {
		if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
