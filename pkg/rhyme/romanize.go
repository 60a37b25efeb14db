package rhyme

import (
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Markers written for kana without a vowel.
const (
	MoraicNasal = "#"
	Geminate    = "*"
)

var kanaTable = map[string]string{
	"キャ": "kya", "キュ": "kyu", "キョ": "kyo",
	"シャ": "sya", "シュ": "syu", "ショ": "syo",
	"チャ": "tya", "チュ": "tyu", "チョ": "tyo",
	"ニャ": "nya", "ニュ": "nyu", "ニョ": "nyo",
	"ヒャ": "hya", "ヒュ": "hyu", "ヒョ": "hyo",
	"ミャ": "mya", "ミュ": "myu", "ミョ": "myo",
	"リャ": "rya", "リュ": "ryu", "リョ": "ryo",
	"ギャ": "gya", "ギュ": "gyu", "ギョ": "gyo",
	"ジャ": "jya", "ジュ": "jyu", "ジョ": "jyo",
	"ビャ": "bya", "ビュ": "byu", "ビョ": "byo",
	"ピャ": "pya", "ピュ": "pyu", "ピョ": "pyo",

	"ア": "a", "イ": "i", "ウ": "u", "エ": "e", "オ": "o",
	"カ": "ka", "キ": "ki", "ク": "ku", "ケ": "ke", "コ": "ko",
	"サ": "sa", "シ": "si", "ス": "su", "セ": "se", "ソ": "so",
	"タ": "ta", "チ": "ti", "ツ": "tu", "テ": "te", "ト": "to",
	"ナ": "na", "ニ": "ni", "ヌ": "nu", "ネ": "ne", "ノ": "no",
	"ハ": "ha", "ヒ": "hi", "フ": "hu", "ヘ": "he", "ホ": "ho",
	"マ": "ma", "ミ": "mi", "ム": "mu", "メ": "me", "モ": "mo",
	"ヤ": "ya", "ユ": "yu", "ヨ": "yo",
	"ラ": "ra", "リ": "ri", "ル": "ru", "レ": "re", "ロ": "ro",
	"ワ": "wa", "ヲ": "wo",
	"ガ": "ga", "ギ": "gi", "グ": "gu", "ゲ": "ge", "ゴ": "go",
	"ザ": "za", "ジ": "zi", "ズ": "zu", "ゼ": "ze", "ゾ": "zo",
	"ダ": "da", "ヂ": "di", "ヅ": "du", "デ": "de", "ド": "do",
	"バ": "ba", "ビ": "bi", "ブ": "bu", "ベ": "be", "ボ": "bo",
	"パ": "pa", "ピ": "pi", "プ": "pu", "ペ": "pe", "ポ": "po",
	"ン": MoraicNasal,
	"ッ": Geminate,
}

// Romanizer converts katakana to romaji by longest match, so contracted
// sounds (キャ) win over their first kana (キ).
type Romanizer struct {
	trie *patricia.Trie
}

// NewRomanizer builds the kana trie.
func NewRomanizer() *Romanizer {
	trie := patricia.NewTrie()
	for kana, roman := range kanaTable {
		trie.Insert(patricia.Prefix(kana), roman)
	}
	return &Romanizer{trie: trie}
}

// Romanize converts kana in s. Anything outside the table is copied as is.
func (r *Romanizer) Romanize(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		var (
			matched int
			roman   string
		)
		r.trie.VisitPrefixes(patricia.Prefix(s), func(p patricia.Prefix, item patricia.Item) error {
			if len(p) > matched {
				matched = len(p)
				roman = item.(string)
			}
			return nil
		})
		if matched == 0 {
			_, size := utf8.DecodeRuneInString(s)
			b.WriteString(s[:size])
			s = s[size:]
			continue
		}
		b.WriteString(roman)
		s = s[matched:]
	}
	return b.String()
}

// Vowelize keeps only the vowels a, i, u, e and o.
func Vowelize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'a', 'i', 'u', 'e', 'o':
			return r
		}
		return -1
	}, s)
}
