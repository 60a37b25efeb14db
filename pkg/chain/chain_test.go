package chain

import (
	"reflect"
	"strings"
	"testing"

	"github.com/masaki925/marcov-rap/pkg/morph"
)

func fixtureTokenizer() morph.Tokenizer {
	return morph.NewLexicon(
		morph.Word("今日", morph.Noun, "キョウ"),
		morph.Word("は", "助詞", "ハ"),
		morph.Word("楽しい", morph.Adjective, "タノシイ"),
		morph.Word("運動会", morph.Noun, "ウンドウカイ"),
		morph.Word("です", "助動詞", "デス"),
		morph.Word("我輩", morph.Noun, "ワガハイ"),
		morph.Word("猫", morph.Noun, "ネコ"),
		morph.Word("で", "助動詞", "デ"),
		morph.Word("ある", "助動詞", "アル"),
	)
}

func TestSplitSentences(t *testing.T) {
	text := "こんにちは。　今日は、楽しい運動会です。hello world.我輩は猫である\n  名前はまだない．"
	want := []string{
		"こんにちは。",
		"今日は、楽しい運動会です。",
		"hello world.",
		"我輩は猫である",
		"名前はまだない．",
	}
	if got := SplitSentences(text); !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSentences() = %q, want %q", got, want)
	}
	if got := SplitSentences(" 。\n\n"); len(got) != 1 || got[0] != "。" {
		t.Errorf("SplitSentences(blank) = %q", got)
	}
}

func TestExtractKnownSentence(t *testing.T) {
	got := Extract("今日は、楽しい運動会です。", fixtureTokenizer())
	want := Freqs{
		{Begin, "今日", "は"}:    1,
		{"今日", "は", "、"}:     1,
		{"は", "、", "楽しい"}:    1,
		{"、", "楽しい", "運動会"}:  1,
		{"楽しい", "運動会", "です"}: 1,
		{"運動会", "です", "。"}:   1,
		{"です", "。", End}:     1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v\nwant %v", got, want)
	}
}

func TestExtractCountsPerSentence(t *testing.T) {
	tok := fixtureTokenizer()
	tests := []struct {
		sentence string
		want     int
	}{
		{"今日は、楽しい運動会です。", 7},
		{"我輩は猫である。", 6},
		{"猫。", 0},
		{"猫だ", 0},
	}
	for _, tt := range tests {
		n := len(tok.Tokenize(tt.sentence))
		got := Extract(tt.sentence, tok).Total()
		if got != tt.want {
			t.Errorf("%q (%d morphemes): total = %d, want %d", tt.sentence, n, got, tt.want)
		}
		if n >= 3 && got != n {
			t.Errorf("%q: total %d != morpheme count %d", tt.sentence, got, n)
		}
	}
}

func TestBoundaryTripletsAccumulateAcrossSentences(t *testing.T) {
	text := strings.Repeat("我輩は猫である。", 3)
	got := Extract(text, fixtureTokenizer())
	if f := got[Triplet{Begin, "我輩", "は"}]; f != 3 {
		t.Errorf("begin freq = %d, want 3", f)
	}
	if f := got[Triplet{"ある", "。", End}]; f != 3 {
		t.Errorf("end freq = %d, want 3", f)
	}
}

func TestBoundaryTripletCountsOncePerSentence(t *testing.T) {
	got := SentenceTriplets([]string{"猫", "猫", "猫", "猫"})
	want := Freqs{
		{"猫", "猫", "猫"}: 2,
		{Begin, "猫", "猫"}: 1,
		{"猫", "猫", End}:   1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SentenceTriplets() = %v, want %v", got, want)
	}
}

func TestRowsAreSorted(t *testing.T) {
	rows := Freqs{{"b", "a", "a"}: 1, {"a", "b", "c"}: 2, {"a", "b", "a"}: 3}.Rows()
	want := []Row{
		{Triplet{"a", "b", "a"}, 3},
		{Triplet{"a", "b", "c"}, 2},
		{Triplet{"b", "a", "a"}, 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %v, want %v", rows, want)
	}
}
