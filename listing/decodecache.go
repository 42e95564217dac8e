package listing

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/sarchlab/ladisasm/insts"
)

// DefaultDecodeCacheSize is the number of distinct words whose decoding is
// kept while listing.
const DefaultDecodeCacheSize = 4096

// decodeCache memoizes decoded instruction words. It is safe for concurrent
// use, so one cache serves every worker of a listing. Entries are stored by
// value and every hit returns a fresh copy. A nil *decodeCache decodes every
// word afresh.
type decodeCache struct {
	words   *lru.Cache
	decoder *insts.Decoder
}

func newDecodeCache(size int) (*decodeCache, error) {
	if size <= 0 {
		return nil, nil
	}

	words, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &decodeCache{words: words, decoder: insts.NewDecoder()}, nil
}

func (d *decodeCache) decode(word uint32) *insts.Instruction {
	if d == nil {
		return insts.NewDecoder().Decode(word)
	}

	if v, ok := d.words.Get(word); ok {
		inst := v.(insts.Instruction)
		return &inst
	}
	inst := d.decoder.Decode(word)
	d.words.Add(word, *inst)
	return inst
}

func (d *decodeCache) len() int {
	if d == nil {
		return 0
	}
	return d.words.Len()
}
