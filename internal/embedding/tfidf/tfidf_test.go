package tfidf

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

var corpus = []string{
	"Google advertising revenue grew in 2023.",
	"Google Cloud revenue grew faster than advertising.",
	"Other Bets recorded operating losses.",
}

func TestEmbed_NormalizedAndDeterministic(t *testing.T) {
	e := NewEmbedder(0)
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	ctx := context.Background()
	a, _ := e.Embed(ctx, "cloud revenue")
	b, _ := e.Embed(ctx, "cloud revenue")
	norm := 0.0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at %d", i)
		}
		norm += a[i] * a[i]
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("expected unit norm, got %v", norm)
	}
}

func TestEmbed_OutOfVocabularyIsZero(t *testing.T) {
	e := NewEmbedder(0)
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	v, err := e.Embed(context.Background(), "zzz qqq")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range v {
		if x != 0 {
			t.Fatalf("expected zero vector, got %v", v)
		}
	}
}

func TestPrepare_MaxFeaturesKeepsFrequentTerms(t *testing.T) {
	e := NewEmbedder(2)
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	if e.Dimension() != 2 {
		t.Fatalf("expected dimension 2, got %d", e.Dimension())
	}
	// advertising, google, grew and revenue all appear in two documents;
	// ties break alphabetically.
	if e.terms[0] != "advertising" || e.terms[1] != "google" {
		t.Errorf("unexpected vocabulary %v", e.terms)
	}
}

func TestEmbed_NotPrepared(t *testing.T) {
	if _, err := NewEmbedder(0).Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error before Prepare")
	}
}

func TestSaveLoadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embedder.json")
	e := NewEmbedder(0)
	if err := e.Prepare(corpus); err != nil {
		t.Fatal(err)
	}
	if err := e.SaveState(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewEmbedder(0)
	if err := restored.LoadState(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	want, _ := e.Embed(ctx, "advertising revenue")
	got, err := restored.Embed(ctx, "advertising revenue")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("dimension mismatch %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored embedding differs at %d", i)
		}
	}
}
