package corpus

import (
	"context"
	"sync"
	"testing"

	"docsage/internal/rag"
)

func testCorpus(name string, n int) rag.Corpus {
	c := rag.Corpus{Filename: name, FullText: name + " text"}
	for i := 0; i < n; i++ {
		c.Chunks = append(c.Chunks, rag.Chunk{Content: name, Vector: []float32{float32(i)}})
	}
	return c
}

func Test_MemoryStore_EmptyBeforeFirstPut(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Empty() {
		t.Errorf("fresh store: want empty corpus, got %+v", got)
	}
}

func Test_MemoryStore_PutReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, testCorpus("first.pdf", 3)); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := s.Put(ctx, testCorpus("second.pdf", 7)); err != nil {
		t.Fatalf("put second: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Filename != "second.pdf" || len(got.Chunks) != 7 {
		t.Errorf("want second.pdf with 7 chunks, got %s with %d", got.Filename, len(got.Chunks))
	}
}

// Test_MemoryStore_NoTornReads hammers the store with concurrent writers
// and readers. Every read must observe a corpus whose filename, text, and
// chunk count belong to the same committed document.
func Test_MemoryStore_NoTornReads(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	a := testCorpus("a.txt", 2)
	b := testCorpus("b.txt", 5)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(c rag.Corpus) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = s.Put(ctx, c)
			}
		}(map[bool]rag.Corpus{true: a, false: b}[i%2 == 0])
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got, err := s.Get(ctx)
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				if got.Empty() {
					continue
				}
				switch got.Filename {
				case "a.txt":
					if len(got.Chunks) != 2 {
						t.Errorf("torn read: a.txt with %d chunks", len(got.Chunks))
						return
					}
				case "b.txt":
					if len(got.Chunks) != 5 {
						t.Errorf("torn read: b.txt with %d chunks", len(got.Chunks))
						return
					}
				default:
					t.Errorf("unexpected filename %q", got.Filename)
					return
				}
			}
		}()
	}

	wg.Wait()
}
