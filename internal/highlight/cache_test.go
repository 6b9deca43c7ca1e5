package highlight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codefig/internal/langs"
)

// countingLoader loads from Chroma's registries
// and counts how often each asset is loaded.
type countingLoader struct {
	mu     sync.Mutex
	counts map[string]int // "kind:id" -> count
	fail   map[string]int // "kind:id" -> remaining failures

	// If set, loads of these assets announce themselves on entered
	// and wait for gate to be closed.
	block   map[string]bool
	entered chan struct{}
	gate    chan struct{}
}

var _ Loader = (*countingLoader)(nil)

func newCountingLoader() *countingLoader {
	return &countingLoader{
		counts:  make(map[string]int),
		fail:    make(map[string]int),
		block:   make(map[string]bool),
		entered: make(chan struct{}, 16),
		gate:    make(chan struct{}),
	}
}

func (l *countingLoader) Count(kind AssetKind, id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[string(kind)+":"+id]
}

func (l *countingLoader) FailOnce(kind AssetKind, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[string(kind)+":"+id]++
}

func (l *countingLoader) record(kind AssetKind, id string) error {
	key := string(kind) + ":" + id

	l.mu.Lock()
	l.counts[key]++
	blocked := l.block[key]
	var err error
	if l.fail[key] > 0 {
		l.fail[key]--
		err = errors.New("great sadness")
	}
	l.mu.Unlock()

	if blocked {
		l.entered <- struct{}{}
		<-l.gate
	}
	return err
}

func (l *countingLoader) LoadLanguage(_ context.Context, spec langs.Spec) (chroma.Lexer, error) {
	if err := l.record(AssetLanguage, spec.ID); err != nil {
		return nil, err
	}
	if spec.IsCustom() {
		return spec.Lexer, nil
	}
	lexer := lexers.Get(spec.ID)
	if lexer == nil {
		return nil, ErrNotFound
	}
	return lexer, nil
}

func (l *countingLoader) LoadTheme(_ context.Context, id string) (*chroma.Style, error) {
	if err := l.record(AssetTheme, id); err != nil {
		return nil, err
	}
	s, ok := styles.Registry[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func TestCache_concurrentCreate(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	var created atomic.Int32
	cache := Cache{
		Loader:    loader,
		Languages: []langs.Spec{langs.Lang("python")},
		Themes:    []string{"github", "github-dark"},
		OnCreate:  func(*Tokenizer) { created.Add(1) },
	}

	const N = 10
	var (
		wg    sync.WaitGroup
		ready = make(chan struct{})
		toks  [N]*Tokenizer
		errs  [N]error
	)
	for i := range N {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ready
			toks[i], errs[i] = cache.Get(t.Context(), Request{
				Languages: []langs.Spec{langs.Lang("go")},
				Themes:    []string{"github"},
			})
		}()
	}
	close(ready)
	wg.Wait()

	for i := range N {
		require.NoError(t, errs[i])
		assert.Same(t, toks[0], toks[i], "callers must share one tokenizer")
	}

	assert.Equal(t, 1, loader.Count(AssetLanguage, "go"))
	assert.Equal(t, 1, loader.Count(AssetLanguage, "python"))
	assert.Equal(t, 1, loader.Count(AssetTheme, "github"))
	assert.Equal(t, 1, loader.Count(AssetTheme, "github-dark"))
	assert.Equal(t, int32(1), created.Load())

	assert.Equal(t, []string{"go", "python"}, toks[0].Languages())
	assert.Equal(t, []string{"github", "github-dark"}, toks[0].Themes())
	assert.Same(t, toks[0], cache.Current())
}

func TestCache_extend(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	var created atomic.Int32
	cache := Cache{
		Loader:    loader,
		Languages: []langs.Spec{langs.Lang("python")},
		Themes:    []string{"github"},
		OnCreate:  func(*Tokenizer) { created.Add(1) },
	}

	first, err := cache.Get(t.Context(), Request{})
	require.NoError(t, err)
	assert.False(t, first.HasLanguage("go"))

	// Two racers want the same missing language.
	// Hold the load open until both have asked for it.
	loader.block["language:go"] = true
	var (
		wg         sync.WaitGroup
		toks       [2]*Tokenizer
		errs       [2]error
		req        = Request{Languages: []langs.Spec{langs.Lang("go")}}
		secondDone = make(chan struct{})
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		toks[0], errs[0] = cache.Get(t.Context(), req)
	}()
	<-loader.entered
	go func() {
		defer wg.Done()
		defer close(secondDone)
		toks[1], errs[1] = cache.Get(t.Context(), req)
	}()

	select {
	case <-secondDone:
		t.Fatal("second racer must wait for the in-flight extension")
	case <-time.After(10 * time.Millisecond):
	}
	close(loader.gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Same(t, toks[0], toks[1])
	assert.Equal(t, 1, loader.Count(AssetLanguage, "go"))
	assert.Equal(t, 1, loader.Count(AssetLanguage, "python"), "extension must not reload")
	assert.Equal(t, int32(2), created.Load(), "one creation and one extension")

	assert.True(t, toks[0].HasLanguage("go"))
	assert.True(t, toks[0].HasLanguage("python"))
	assert.False(t, first.HasLanguage("go"), "old snapshot must not change")
}

func TestCache_failureRetried(t *testing.T) {
	t.Parallel()

	t.Run("creation", func(t *testing.T) {
		t.Parallel()

		loader := newCountingLoader()
		loader.FailOnce(AssetTheme, "github-dark")
		cache := Cache{
			Loader: loader,
			Themes: []string{"github", "github-dark"},
		}

		_, err := cache.Get(t.Context(), Request{})
		var loadErr *AssetLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, AssetTheme, loadErr.Kind)
		assert.Equal(t, "github-dark", loadErr.ID)
		assert.ErrorContains(t, err, `load theme "github-dark": great sadness`)
		assert.Nil(t, cache.Current(), "nothing must be stored")

		tok, err := cache.Get(t.Context(), Request{})
		require.NoError(t, err)
		assert.True(t, tok.HasTheme("github-dark"))
		assert.Equal(t, 2, loader.Count(AssetTheme, "github-dark"))
	})

	t.Run("extension", func(t *testing.T) {
		t.Parallel()

		loader := newCountingLoader()
		cache := Cache{Loader: loader, Themes: []string{"github"}}
		first, err := cache.Get(t.Context(), Request{})
		require.NoError(t, err)

		loader.FailOnce(AssetLanguage, "go")
		req := Request{Languages: []langs.Spec{langs.Lang("go")}}
		_, err = cache.Get(t.Context(), req)
		var loadErr *AssetLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, AssetLanguage, loadErr.Kind)
		assert.Same(t, first, cache.Current(), "failed extension must not replace the tokenizer")

		tok, err := cache.Get(t.Context(), req)
		require.NoError(t, err)
		assert.True(t, tok.HasLanguage("go"))
	})

	t.Run("unknown asset", func(t *testing.T) {
		t.Parallel()

		cache := Cache{Loader: newCountingLoader()}
		_, err := cache.Get(t.Context(), Request{Themes: []string{"no-such-theme"}})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCache_disabled(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	var created atomic.Int32
	cache := Cache{
		Loader:   loader,
		Themes:   []string{"github"},
		Disabled: true,
		OnCreate: func(*Tokenizer) { created.Add(1) },
	}

	req := Request{Languages: []langs.Spec{langs.Lang("go")}}
	a, err := cache.Get(t.Context(), req)
	require.NoError(t, err)
	b, err := cache.Get(t.Context(), req)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.True(t, a.HasLanguage("go"))
	assert.True(t, a.HasTheme("github"))
	assert.Nil(t, cache.Current())
	assert.Equal(t, 2, loader.Count(AssetLanguage, "go"))
	assert.Equal(t, int32(2), created.Load())
}

func TestCache_noCacheRequest(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	cache := Cache{Loader: loader, Themes: []string{"github"}}

	shared, err := cache.Get(t.Context(), Request{})
	require.NoError(t, err)

	private, err := cache.Get(t.Context(), Request{
		Languages: []langs.Spec{langs.Lang("go")},
		NoCache:   true,
	})
	require.NoError(t, err)
	assert.True(t, private.HasLanguage("go"))

	assert.Same(t, shared, cache.Current())
	assert.False(t, cache.Current().HasLanguage("go"))
}

func TestCache_cancelledCallerDoesNotStopBuild(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	loader.block["language:go"] = true
	cache := Cache{Loader: loader, Themes: []string{"github"}}
	req := Request{Languages: []langs.Spec{langs.Lang("go")}}

	ctx, cancel := context.WithCancel(t.Context())
	errc := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, req)
		errc <- err
	}()

	<-loader.entered
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(loader.gate)
	assert.Eventually(t, func() bool {
		return cache.Current() != nil
	}, time.Second, time.Millisecond)

	tok, err := cache.Get(t.Context(), req)
	require.NoError(t, err)
	assert.True(t, tok.HasLanguage("go"))
	assert.Equal(t, 1, loader.Count(AssetLanguage, "go"))
}

func TestCache_specialLanguagesNotLoaded(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	cache := Cache{
		Loader:    loader,
		Languages: []langs.Spec{langs.Lang("text")},
		Themes:    []string{"github"},
	}

	tok, err := cache.Get(t.Context(), Request{
		Languages: []langs.Spec{langs.Lang("plaintext"), langs.Lang("ANSI")},
	})
	require.NoError(t, err)
	assert.Empty(t, tok.Languages())
	assert.True(t, tok.HasLanguage("plaintext"))
	assert.Zero(t, loader.Count(AssetLanguage, "text"))
	assert.Zero(t, loader.Count(AssetLanguage, "plaintext"))
}

func TestCache_zeroValue(t *testing.T) {
	t.Parallel()

	var cache Cache
	tok, err := cache.Get(t.Context(), Request{
		Languages: []langs.Spec{langs.Lang("golang")},
		Themes:    []string{"github"},
	})
	require.NoError(t, err)
	assert.True(t, tok.HasLanguage("golang"))
	assert.True(t, tok.HasTheme("github"))
}
