package tokenizer

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCacheSize       = 8
	errorCreateCacheFormat = "create tokenizer cache: %w"
	cacheKeyFormat         = "%s|%s|%s"
)

// Registry resolves model identifiers to tokenizers and keeps recently used
// tokenizers so that BPE ranks and tokenizer.json files load once per process.
type Registry struct {
	catalogue          *Catalogue
	localTokenizerFile string
	cache              *lru.Cache[string, Tokenizer]
	constructionMutex  sync.Mutex
}

// NewRegistry builds a Registry from cfg. A non-positive cache size uses the default.
func NewRegistry(cfg Config) (*Registry, error) {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, cacheError := lru.New[string, Tokenizer](cacheSize)
	if cacheError != nil {
		return nil, fmt.Errorf(errorCreateCacheFormat, cacheError)
	}
	return &Registry{
		catalogue:          NewCatalogue(cfg.Pricing),
		localTokenizerFile: cfg.LocalTokenizerFile,
		cache:              cache,
	}, nil
}

// Catalogue exposes the model catalogue backing the registry.
func (registry *Registry) Catalogue() *Catalogue {
	return registry.catalogue
}

// Resolve returns the model and its tokenizer.
func (registry *Registry) Resolve(identifier string) (Model, Tokenizer, error) {
	model, lookupError := registry.catalogue.Lookup(identifier)
	if lookupError != nil {
		return Model{}, nil, lookupError
	}
	key := registry.cacheKey(model)
	if cached, found := registry.cache.Get(key); found {
		return model, cached, nil
	}

	registry.constructionMutex.Lock()
	defer registry.constructionMutex.Unlock()
	if cached, found := registry.cache.Get(key); found {
		return model, cached, nil
	}
	created, createError := New(model, registry.localTokenizerFile)
	if createError != nil {
		return Model{}, nil, createError
	}
	registry.cache.Add(key, created)
	return model, created, nil
}

func (registry *Registry) cacheKey(model Model) string {
	switch model.Family {
	case FamilyGPT:
		return fmt.Sprintf(cacheKeyFormat, model.Family, encodingNameForModel(model.ProviderModel), "")
	case FamilyLocal:
		return fmt.Sprintf(cacheKeyFormat, model.Family, "", registry.localTokenizerFile)
	default:
		return fmt.Sprintf(cacheKeyFormat, model.Family, "", "")
	}
}
