package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/redpost/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	CoverSummary *struct {
		MainTitle     string `json:"main_title"`
		HighlightText string `json:"highlight_text"`
		BodyPreview   string `json:"body_preview"`
	} `json:"cover_summary,omitempty"`
}

func TestExtract_WellFormedRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"title":"Hi","content":"World","tags":["a","b"]}`,
		`{"title":"带引号\"的标题","content":"第一段\n第二段 {不是结构} [也不是]","tags":[]}`,
		`{"title":"t","content":"c","tags":["x"],"cover_summary":{"main_title":"m","highlight_text":"h","body_preview":"b"}}`,
		`{"title":"反斜杠\\","content":"","tags":["#tag"]}`,
		`["one","two",{"three":[3]}]`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			res, err := Extract(in)
			require.NoError(t, err)
			assert.False(t, res.Repaired)
			assert.False(t, res.Trimmed)
			assert.Equal(t, in, res.JSON)

			var want, got any
			require.NoError(t, json.Unmarshal([]byte(in), &want))
			require.NoError(t, json.Unmarshal([]byte(res.JSON), &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestExtract_TruncatedString(t *testing.T) {
	t.Parallel()

	res, err := Extract(`{"title":"Hi","content":"Wor`)
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, `{"title":"Hi","content":"Wor"}`, res.JSON)

	var p post
	_, err = Unmarshal(`{"title":"Hi","content":"Wor`, &p)
	require.NoError(t, err)
	assert.Equal(t, "Hi", p.Title)
	assert.Equal(t, "Wor", p.Content)
}

func TestExtract_NestedTruncationClosesInnermostFirst(t *testing.T) {
	t.Parallel()

	res, err := Extract(`{"a":{"b":[1,2`)
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, `{"a":{"b":[1,2]}}`, res.JSON)

	res, err = Extract(`[{"a":[{"b":"c`)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":[{"b":"c"}]}]`, res.JSON)
}

func TestExtract_Repairs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trailing comma before truncation",
			in:   `{"title":"t","tags":["a","b",`,
			want: `{"title":"t","tags":["a","b"]}`,
		},
		{
			name: "dangling escape inside string",
			in:   `{"content":"line\`,
			want: `{"content":"line"}`,
		},
		{
			name: "escaped quote does not end string",
			in:   `{"content":"he said \"hi`,
			want: `{"content":"he said \"hi"}`,
		},
		{
			name: "brackets inside string ignored",
			in:   `{"content":"a } ] [ {`,
			want: `{"content":"a } ] [ {"}`,
		},
		{
			name: "fenced and truncated",
			in:   "```json\n{\"title\":\"封面\",\"tags\":[\"旅行",
			want: `{"title":"封面","tags":["旅行"]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Extract(tc.in)
			require.NoError(t, err)
			assert.True(t, res.Repaired)
			assert.Equal(t, tc.want, res.JSON)
			assert.True(t, json.Valid([]byte(res.JSON)))
		})
	}
}

func TestExtract_FencesAndProse(t *testing.T) {
	t.Parallel()

	want := `{"title":"t","content":"c","tags":["x"]}`

	testCases := []struct {
		name        string
		in          string
		wantTrimmed bool
	}{
		{name: "json fence", in: "```json\n" + want + "\n```"},
		{name: "bare fence", in: "```\n" + want + "\n```"},
		{name: "single line fence", in: "```json" + want + "```"},
		{name: "leading prose", in: "Here is your post:\n" + want},
		{name: "trailing prose", in: want + "\nHope you like it! {smile}", wantTrimmed: true},
		{name: "prose around fence", in: "Sure!\n```json\n" + want + "\n```\nEnjoy.", wantTrimmed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Extract(tc.in)
			require.NoError(t, err)
			assert.Equal(t, want, res.JSON)
			assert.False(t, res.Repaired)
			assert.Equal(t, tc.wantTrimmed, res.Trimmed)
		})
	}
}

func TestExtract_Failures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "prose only", in: "Sorry, I can't help with that."},
		{name: "mismatched closer", in: `{"a":[1,2}`},
		{name: "invalid complete value", in: `{"a":1,,}`},
		{name: "truncated after colon", in: `{"title":"t","content":`},
		{name: "truncated key", in: `{"title":"t","cont`},
		{name: "only fence", in: "```json\n```"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Extract(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, generation.ErrMalformedOutput)
			assert.Equal(t, generation.KindMalformedOutput, generation.KindOf(err))
		})
	}
}

func TestUnmarshal_TypeMismatchIsMalformed(t *testing.T) {
	t.Parallel()

	var p post
	_, err := Unmarshal(`{"title":["not","a","string"]}`, &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrMalformedOutput)
}

func TestUnmarshal_StringArray(t *testing.T) {
	t.Parallel()

	var topics []string
	res, err := Unmarshal("```json\n[\"一\",\"二\",\"三", &topics)
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, []string{"一", "二", "三"}, topics)
}
