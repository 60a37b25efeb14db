package morph

import (
	"errors"
	"reflect"
	"testing"
)

func TestBaseForm(t *testing.T) {
	tests := []struct {
		name    string
		token   Token
		want    string
		wantErr error
	}{
		{"dictionary form", Token{Surface: "楽しく", Features: []string{"形容詞", "自立", "*", "*", "形容詞・イ段", "連用テ接続", "楽しい", "タノシク", "タノシク"}}, "楽しい", nil},
		{"star falls back to surface", Token{Surface: "ラップ", Features: []string{"名詞", "一般", "*", "*", "*", "*", "*"}}, "ラップ", nil},
		{"too short", Token{Surface: "俺", Features: []string{"名詞"}}, "", ErrMalformedFeatures},
	}
	for _, tt := range tests {
		got, err := tt.token.BaseForm()
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestReadingFallsBackToKatakana(t *testing.T) {
	tok := Token{Surface: "らっぷ", Features: []string{"名詞", "一般", "*", "*", "*", "*", "*"}}
	if got := tok.Reading(); got != "ラップ" {
		t.Errorf("Reading() = %q, want ラップ", got)
	}
	tok = Word("野球", Noun, "ヤキュウ")
	if got := tok.Reading(); got != "ヤキュウ" {
		t.Errorf("Reading() = %q, want ヤキュウ", got)
	}
}

func TestLexiconLongestMatch(t *testing.T) {
	lex := NewLexicon(
		Word("運動", Noun, "ウンドウ"),
		Word("運動会", Noun, "ウンドウカイ"),
		Word("です", "助動詞", "デス"),
	)
	var got []string
	for _, tok := range lex.Tokenize("運動会 です。") {
		got = append(got, tok.Surface)
	}
	want := []string{"運動会", "です", "。"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestNouns(t *testing.T) {
	tokens := []Token{Word("俺", Noun, "オレ"), Word("は", "助詞", "ハ"), Word("野球", Noun, "ヤキュウ")}
	want := []string{"俺", "野球"}
	if got := Nouns(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("Nouns() = %v, want %v", got, want)
	}
	if got := Readings(tokens); got != "オレハヤキュウ" {
		t.Errorf("Readings() = %q", got)
	}
}

func TestKagomeTokenize(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}
	k, err := NewKagome()
	if err != nil {
		t.Fatalf("NewKagome: %v", err)
	}
	var got []string
	for _, tok := range k.Tokenize("今日は、楽しい運動会です。") {
		got = append(got, tok.Surface)
	}
	want := []string{"今日", "は", "、", "楽しい", "運動会", "です", "。"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
	for _, tok := range k.Tokenize("  \n") {
		t.Errorf("blank input produced token %q", tok.Surface)
	}
}
