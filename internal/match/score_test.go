package match

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"logograb/internal/catalog"
	"logograb/internal/textutil"
)

func entry(path, key string) catalog.Entry {
	return catalog.Entry{Path: path, FileName: path, NormalizedKey: key}
}

func TestScoreWorkedValues(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"hbo latino", "hbo latino", 1},
		{"hbo latino", "hbo", 0.38},
		{"sky sport news", "sky sports news", 0.76},
		{"", "hbo", 0},
		{"hbo", "", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		if got := Score(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSelectRejectsNumberedSiblings(t *testing.T) {
	tests := []struct {
		channel, path string
	}{
		{"Sky Sports 1", "sky-sports-2.png"},
		{"Fox Sports 1", "fox-sports-2.png"},
		{"Discovery Channel 2", "discovery-channel-3.png"},
		{"Canal+ Sport 2", "canal-plus-sport-3.png"},
		{"Sky Sports", "sky-sports-2.png"},
		{"BBC One 24", "bbc-one-24-7.png"},
	}
	for _, tt := range tests {
		candidate, err := catalog.EntryFromPath(tt.path)
		if err != nil {
			t.Fatalf("EntryFromPath(%q): %v", tt.path, err)
		}
		got := Select(1, textutil.Normalize(tt.channel), []catalog.Entry{candidate})
		if got.Accepted || got.Chosen != nil || got.Score != 0 {
			t.Errorf("%q vs %s: expected rejection with score 0, got %+v", tt.channel, tt.path, got)
		}
	}

	candidate, err := catalog.EntryFromPath("sky-sports-1.png")
	if err != nil {
		t.Fatalf("EntryFromPath: %v", err)
	}
	if got := Select(1, textutil.Normalize("Sky Sports 1 HD"), []catalog.Entry{candidate}); !got.Accepted {
		t.Fatalf("expected same-numbered channel accepted, got %+v", got)
	}
	if got := Score("discovery chanel 2", "discovery channel 2"); !Accepts(got) {
		t.Fatalf("expected fuzzy match with equal numbers accepted, got %v", got)
	}
}

func TestAcceptsBoundary(t *testing.T) {
	if !Accepts(AcceptThreshold) {
		t.Fatal("expected threshold itself to be accepted")
	}
	if Accepts(math.Nextafter(AcceptThreshold, 0)) {
		t.Fatal("expected float predecessor of threshold to be rejected")
	}
	if !Accepts(1) {
		t.Fatal("expected exact match to be accepted")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.TokenWeight+p.EditWeight != 1 {
		t.Fatalf("weights should sum to 1, got %+v", p)
	}
	if p.AcceptThreshold != 0.75 {
		t.Fatalf("unexpected threshold %v", p.AcceptThreshold)
	}
}

func TestSelectRejectsPartialNameMatch(t *testing.T) {
	got := Select(1, "hbo latino", []catalog.Entry{entry("hbo.png", "hbo")})
	if got.Accepted || got.Chosen != nil {
		t.Fatalf("expected rejection, got %+v", got)
	}
	if math.Abs(got.Score-0.38) > 1e-9 {
		t.Fatalf("unexpected score %v", got.Score)
	}
	if got.Runner != "hbo.png" {
		t.Fatalf("expected runner recorded, got %q", got.Runner)
	}
}

func TestSelectTieBreaksByPathLengthThenLexicographic(t *testing.T) {
	candidates := []catalog.Entry{
		entry("countries/us/hbo.png", "hbo"),
		entry("misc/hbo.png", "hbo"),
		entry("misc/hbo.svg", "hbo"),
		entry("long/path/hbo.png", "hbo"),
	}
	got := Select(7, "hbo", candidates)
	if !got.Accepted || got.Chosen == nil {
		t.Fatalf("expected accepted result, got %+v", got)
	}
	if got.Chosen.Path != "misc/hbo.png" {
		t.Fatalf("expected misc/hbo.png, got %s", got.Chosen.Path)
	}
	if got.ChannelID != 7 || got.Key != "hbo" {
		t.Fatalf("unexpected identity fields: %+v", got)
	}
}

func TestSelectPrefersHigherScore(t *testing.T) {
	candidates := []catalog.Entry{
		entry("a/sky-news.png", "sky news"),
		entry("b/sky-sports-news.png", "sky sports news"),
	}
	got := Select(1, "sky sport news", candidates)
	if !got.Accepted || got.Chosen.Path != "b/sky-sports-news.png" {
		t.Fatalf("unexpected winner: %+v", got)
	}
}

func TestSelectEmptyInputs(t *testing.T) {
	if got := Select(1, "", []catalog.Entry{entry("a.png", "a")}); got.Accepted || got.Score != 0 {
		t.Fatalf("expected empty key rejected, got %+v", got)
	}
	if got := Select(1, "a", nil); got.Accepted || got.Runner != "" {
		t.Fatalf("expected no candidates rejected, got %+v", got)
	}
}

func TestResolvePrefersExactCandidatesAndEarlierKeys(t *testing.T) {
	index := catalog.NewIndex([]catalog.Entry{
		entry("us/hbo-latino-us.png", "hbo latino"),
		entry("us/hbo-us.png", "hbo"),
		entry("uk/sky-sports-news-uk.png", "sky sports news"),
	}, "rev", time.Unix(0, 0))

	got := Resolve(3, []string{"hbo latino", "hbo"}, index)
	if !got.Accepted || got.Chosen.Path != "us/hbo-latino-us.png" || got.Key != "hbo latino" {
		t.Fatalf("expected tvg key to win, got %+v", got)
	}

	got = Resolve(4, []string{"", "sky sport news"}, index)
	if !got.Accepted || got.Chosen.Path != "uk/sky-sports-news-uk.png" {
		t.Fatalf("expected fuzzy full-scan match, got %+v", got)
	}

	got = Resolve(5, []string{"some obscure feed"}, index)
	if got.Accepted {
		t.Fatalf("expected no match, got %+v", got)
	}

	if got := Resolve(6, nil, index); got.Accepted || got.ChannelID != 6 {
		t.Fatalf("expected empty result for no keys, got %+v", got)
	}
}

func TestScoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("score is deterministic and bounded", prop.ForAll(
		func(a, b string) bool {
			s := Score(a, b)
			return s == Score(a, b) && s >= 0 && s <= 1
		},
		gen.AlphaString(), gen.AlphaString(),
	))

	properties.Property("score is symmetric", prop.ForAll(
		func(a, b string) bool {
			return math.Abs(Score(a, b)-Score(b, a)) < 1e-12
		},
		gen.AlphaString(), gen.AlphaString(),
	))

	properties.Property("select is order independent", prop.ForAll(
		func(keys []string) bool {
			candidates := make([]catalog.Entry, len(keys))
			reversed := make([]catalog.Entry, len(keys))
			for i, key := range keys {
				candidates[i] = entry(key+".png", key)
				reversed[len(keys)-1-i] = candidates[i]
			}
			a := Select(1, "hbo", candidates)
			b := Select(1, "hbo", reversed)
			return a.Runner == b.Runner && a.Score == b.Score && a.Accepted == b.Accepted
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
