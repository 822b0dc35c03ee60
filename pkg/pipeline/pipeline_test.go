package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/observability"
)

func testDeck(n int, title string) content.Deck {
	d := content.Deck{MainTitle: title}
	for i := 0; i < n; i++ {
		d.Cards = append(d.Cards, content.Card{
			Icon:  "spark",
			Title: fmt.Sprintf("Initiative number %d", i+1),
			Desc:  "Shipped on <strong>time</strong> with <code>zero</code> regressions",
		})
	}
	return d
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"js", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, js,,png ")
	want := []string{"svg", "js", "png"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Deck: testDeck(3, "Roadmap")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Skin != "paper" {
		t.Errorf("Skin = %q, want paper", opts.Skin)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Measurer != MeasurerHeuristic {
		t.Errorf("Measurer = %q", opts.Measurer)
	}
	if opts.Logger != nil {
		t.Error("Logger should stay nil so the runner's logger applies")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error = %v", err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"blank title", Options{Deck: content.Deck{}}, errors.ErrCodeInvalidContent},
		{"bad format", Options{Deck: testDeck(1, "x"), Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"bad measurer", Options{Deck: testDeck(1, "x"), Measurer: "ruler"}, errors.ErrCodeInvalidInput},
		{"negative thumbnail", Options{Deck: testDeck(1, "x"), Thumbnail: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDedupeDoesNotAliasInput(t *testing.T) {
	in := []string{"svg", "svg", "js"}
	opts := Options{Deck: testDeck(1, "x"), Formats: in}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if in[1] != "svg" {
		t.Errorf("caller slice was modified: %v", in)
	}
}

func TestExecuteFiveCards(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Deck:    testDeck(5, "Quarterly Review"),
		Formats: []string{FormatJSON, FormatJS, FormatSVG, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	d := result.Descriptor
	if d.Columns != 3 || d.Rows != 2 || d.CardWidthClass != "3-column" {
		t.Errorf("Descriptor = %+v, want 3 columns, 2 rows", d)
	}
	if result.Report.Skipped {
		t.Error("fit should not be skipped with a measurer")
	}
	for _, f := range []string{FormatJSON, FormatJS, FormatSVG, FormatPNG} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !bytes.Contains(result.Artifacts[FormatJS], []byte("skin paper, 5 cards (3-column)")) {
		t.Errorf("js header missing:\n%s", result.Artifacts[FormatJS][:120])
	}
	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact does not start with <svg")
	}
}

func TestExecuteUsesOptionsLogger(t *testing.T) {
	var runnerOut, callOut bytes.Buffer
	runner := NewRunner(nil, nil, nil, log.NewWithOptions(&runnerOut, log.Options{Level: log.DebugLevel}))

	tests := []struct {
		name   string
		logger *log.Logger
		want   *bytes.Buffer
		quiet  *bytes.Buffer
	}{
		{"options logger", log.NewWithOptions(&callOut, log.Options{Level: log.DebugLevel}), &callOut, &runnerOut},
		{"runner fallback", nil, &runnerOut, &callOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runnerOut.Reset()
			callOut.Reset()
			_, err := runner.Execute(context.Background(), Options{
				Deck:    testDeck(4, "Logged"),
				Formats: []string{FormatJSON, FormatSVG},
				Verify:  true,
				Logger:  tt.logger,
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, msg := range []string{"computed layout", "fitted slide", "verified script", "rendered outputs"} {
				if !strings.Contains(tt.want.String(), msg) {
					t.Errorf("log missing %q:\n%s", msg, tt.want.String())
				}
			}
			if tt.quiet.Len() != 0 {
				t.Errorf("other logger received output:\n%s", tt.quiet.String())
			}
		})
	}
}

func TestExecuteUnknownSkin(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{Deck: testDeck(2, "x"), Skin: "neon"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestExecuteVerify(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	long := strings.Repeat("A Rather Long Presentation Title ", 4)
	for _, skinName := range []string{"aurora", "slate", "paper"} {
		for _, n := range []int{0, 4, 9} {
			t.Run(fmt.Sprintf("%s/%d", skinName, n), func(t *testing.T) {
				_, err := runner.Execute(context.Background(), Options{
					Deck:    testDeck(n, long),
					Skin:    skinName,
					Verify:  true,
					Formats: []string{FormatJS},
				})
				if err != nil {
					t.Errorf("Execute(verify) error = %v", err)
				}
			})
		}
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil, nil)
	defer runner.Close()

	opts := Options{Deck: testDeck(4, "Cached"), Skin: "slate", Formats: []string{FormatJSON, FormatSVG}}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.FrameHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.FrameHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if second.FrameHash != first.FrameHash {
		t.Error("frame hash changed across a cache round trip")
	}
	for f, data := range first.Artifacts {
		if !bytes.Equal(second.Artifacts[f], data) {
			t.Errorf("%s artifact differs on cache hit", f)
		}
	}

	// A new format renders only what is missing.
	opts.Formats = []string{FormatJSON, FormatJS}
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("RenderHit should be false when a format is missing")
	}
	if !bytes.Equal(third.Artifacts[FormatJSON], first.Artifacts[FormatJSON]) {
		t.Error("cached json artifact should be reused")
	}
}

func TestExecuteRefresh(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil, nil)
	opts := Options{Deck: testDeck(2, "Fresh")}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.FrameHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass frame and artifact caches: %+v", res.CacheInfo)
	}
}

func TestExecuteFaceMeasurer(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		Deck:     testDeck(6, "Measured With Real Glyph Advances"),
		Measurer: MeasurerFace,
		Verify:   true,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Report.Title == nil || !res.Report.Title.Fits {
		t.Errorf("title report = %+v", res.Report.Title)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.set++
	h.mu.Unlock()
}

func TestCacheHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil, nil)
	opts := Options{Deck: testDeck(3, "Hooks"), Formats: []string{FormatJSON}}
	for j := 0; j < 2; j++ {
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}
	// layout, frame and artifact: three misses then three hits.
	if hooks.misses != 3 || hooks.hits != 3 || hooks.set != 3 {
		t.Errorf("hooks = %d misses, %d hits, %d sets; want 3/3/3", hooks.misses, hooks.hits, hooks.set)
	}
}

func TestReadDeckStdin(t *testing.T) {
	in := strings.NewReader(`{"mainTitle":"From stdin","cards":[{"icon":"a","title":"One","desc":"d"}]}`)
	d, err := ReadDeck(Stdin, "", in)
	if err != nil {
		t.Fatalf("ReadDeck() error = %v", err)
	}
	if d.MainTitle != "From stdin" || d.N() != 1 {
		t.Errorf("ReadDeck() = %+v", d)
	}

	yml := strings.NewReader("mainTitle: Y\ncards: []\n")
	if _, err := ReadDeck(Stdin, content.FormatYAML, yml); err != nil {
		t.Errorf("ReadDeck(yaml) error = %v", err)
	}
}
