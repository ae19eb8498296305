package pattern

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/imex/internal/imex"
)

func ref(stream int, q imex.Quantifier) *imex.Quantified {
	return imex.Quantify(imex.Ref(stream), q)
}

func group(q imex.Quantifier, children ...*imex.Quantified) *imex.Quantified {
	return imex.Quantify(imex.Group(children...), q)
}

func TestParse_EmptyStringGivesEmptyGroup(t *testing.T) {
	q, err := Parse("")
	require.NoError(t, err)
	assert.True(t, q.Equal(group(imex.Once())))
}

func TestParse_Repeats(t *testing.T) {
	q, err := Parse("13{3}9*1")
	require.NoError(t, err)

	want := group(imex.Once(),
		ref(1, imex.Once()),
		ref(3, imex.Times(3)),
		ref(9, imex.Forever()),
		ref(1, imex.Once()),
	)
	assert.True(t, q.Equal(want), "got %s", q)
}

func TestParse_Groups(t *testing.T) {
	q, err := Parse("1(1)(9)*(4){4}(1(1))()")
	require.NoError(t, err)

	want := group(imex.Once(),
		ref(1, imex.Once()),
		group(imex.Once(), ref(1, imex.Once())),
		group(imex.Forever(), ref(9, imex.Once())),
		group(imex.Times(4), ref(4, imex.Once())),
		group(imex.Once(),
			ref(1, imex.Once()),
			group(imex.Once(), ref(1, imex.Once())),
		),
		group(imex.Once()),
	)
	assert.True(t, q.Equal(want), "got %s", q)
}

func TestParse_MultiDigitCount(t *testing.T) {
	q, err := Parse("0{12}")
	require.NoError(t, err)
	children := q.Val.Children()
	require.Len(t, children, 1)
	assert.Equal(t, 12, children[0].Quantifier.Remaining())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		code    string
		offset  int
	}{
		// bad characters
		{"letter O", "0O0", ErrCodeUnexpectedChar, 1},
		{"regex", "^[0]+$", ErrCodeUnexpectedChar, 0},
		{"letter in group", "123*4{5}(x)*", ErrCodeUnexpectedChar, 9},

		// too many closed
		{"extra paren", "0(1)2)3(4)5", ErrCodeUnmatchedClose, 5},
		{"extra brace", "0{1}2}3{4}5", ErrCodeBadCount, 5},
		{"trailing paren", "0(1)2(3))", ErrCodeUnmatchedClose, 8},

		// too many open
		{"open paren", "0(1)2(3(4)5", ErrCodeUnclosedGroup, 5},
		{"open brace", "0{1}2{3{4}5", ErrCodeBadCount, 7},
		{"leading parens", "((0)1(2)3", ErrCodeUnclosedGroup, 0},

		// mismatched
		{"reversed", ")(", ErrCodeUnmatchedClose, 0},
		{"interleaved", "(3{)}", ErrCodeBadCount, 3},

		// bad repeat targets
		{"star in group", "(*4)", ErrCodeMissingTarget, 1},
		{"brace in group", "({6}6)", ErrCodeMissingTarget, 1},
		{"leading star", "*2", ErrCodeMissingTarget, 0},
		{"leading brace", "{4}4", ErrCodeMissingTarget, 0},
		{"brace then star", "5{5}*", ErrCodeStackedQuantifier, 4},
		{"star then brace", "5*{5}", ErrCodeStackedQuantifier, 2},
		{"star in brace", "5{*5}", ErrCodeBadCount, 2},

		// bad brace contents
		{"star after count", "5{5*}", ErrCodeBadCount, 3},
		{"group in brace", "6{(6)}", ErrCodeBadCount, 2},
		{"nested brace", "7{7{7}}", ErrCodeBadCount, 3},
		{"empty count", "7{}", ErrCodeBadCount, 1},
		{"zero count", "7{0}", ErrCodeBadCount, 2},
		{"unclosed count", "7{3", ErrCodeBadCount, 1},
		{"overflow", "7{99999999999999999999999}", ErrCodeBadCount, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.pattern)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.True(t, IsParseError(err))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code, "code for %q: %s", tt.pattern, pe.Message)
			assert.Equal(t, tt.offset, pe.Offset, "offset for %q: %s", tt.pattern, pe.Message)
			assert.Equal(t, tt.pattern, pe.Pattern)
		})
	}
}

func TestParse_ErrorMessage(t *testing.T) {
	_, err := Parse("0x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pattern "0x"`)
	assert.Contains(t, err.Error(), "offset 1")
	assert.Contains(t, err.Error(), ErrCodeUnexpectedChar)
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { MustParse("0(12){3}") })
	assert.Panics(t, func() { MustParse("(") })
}

func TestFormat_RoundTrip(t *testing.T) {
	patterns := []string{
		"",
		"0",
		"0(12){3}",
		"13{3}9*1",
		"1(1)(9)*(4){4}(1(1))()",
		"0*(12)*",
		"((01){2}3)*",
	}
	for _, p := range patterns {
		q, err := Parse(p)
		require.NoError(t, err, p)
		assert.Equal(t, p, Format(q))

		again, err := Parse(Format(q))
		require.NoError(t, err)
		assert.True(t, q.Equal(again))
	}
}

func TestFormat_NonRootNode(t *testing.T) {
	assert.Equal(t, "(01){2}", Format(group(imex.Times(2), ref(0, imex.Once()), ref(1, imex.Once()))))
	assert.Equal(t, "4*", Format(ref(4, imex.Forever())))
}

func TestMaxStream(t *testing.T) {
	assert.Equal(t, -1, MaxStream(MustParse("")))
	assert.Equal(t, -1, MaxStream(MustParse("(()())")))
	assert.Equal(t, 2, MaxStream(MustParse("0(12){3}")))
	assert.Equal(t, 9, MaxStream(MustParse("1((9)*)0")))
}

func TestDescribe(t *testing.T) {
	n := Describe(MustParse("0(1)*"))

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "group",
		"quantifier": "{1}",
		"children": [
			{"kind": "ref", "stream": 0, "quantifier": "{1}"},
			{"kind": "group", "quantifier": "*", "children": [
				{"kind": "ref", "stream": 1, "quantifier": "{1}"}
			]}
		]
	}`, string(data))
}

func TestTree(t *testing.T) {
	want := "group {1}\n" +
		"  stream 0 {1}\n" +
		"  group {3}\n" +
		"    stream 1 {1}\n" +
		"    stream 2 {1}\n"
	assert.Equal(t, want, Tree(MustParse("0(12){3}")))
}

func TestParse_MergesEndToEnd(t *testing.T) {
	tests := []struct {
		pattern string
		streams []string
		want    []string
	}{
		{"0(12){3}", []string{"00000", "11111", "222222"}, []string{"0", "1", "2", "1", "2", "1", "2"}},
		{"01(10){3}", []string{"00000", "11111"}, []string{"0", "1", "1", "0", "1", "0", "1", "0"}},
		{"0*(12)*", []string{"000", "111", "22222"}, []string{"0", "0", "0", "1", "2", "1", "2", "1", "2", "2", "2"}},
		{"", []string{"000", "111"}, nil},
		{"0120", []string{"", "", ""}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			streams := make([]imex.Stream[string], len(tt.streams))
			for i, s := range tt.streams {
				var items []string
				for _, r := range s {
					items = append(items, string(r))
				}
				streams[i] = imex.FromSlice(items...)
			}
			got, err := imex.NewMerger(MustParse(tt.pattern), streams...).Collect()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
