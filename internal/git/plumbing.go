package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/sync/errgroup"
)

// Commit is the parsed form of a commit object: everything the splice needs,
// nothing go-git-lazy behind it.
type Commit struct {
	Hash         plumbing.Hash
	Parents      []plumbing.Hash
	Tree         plumbing.Hash
	MessageLines []string
	Author       object.Signature
	Committer    object.Signature
}

// Timestamp returns the committer time as a unix timestamp. The chronological
// merge and the head horizon both order by this value.
func (c *Commit) Timestamp() int64 {
	return c.Committer.When.Unix()
}

// TreeEntry represents a file or directory in a git tree.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// ResolveRef resolves a fully qualified reference name to a commit hash.
func (r *Repository) ResolveRef(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return ref.Hash(), nil
}

// ReadCommit fetches and parses a commit object.
func (r *Repository) ReadCommit(hash plumbing.Hash) (*Commit, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	return &Commit{
		Hash:         c.Hash,
		Parents:      c.ParentHashes,
		Tree:         c.TreeHash,
		MessageLines: strings.Split(strings.TrimSuffix(c.Message, "\n"), "\n"),
		Author:       c.Author,
		Committer:    c.Committer,
	}, nil
}

// ReadTree fetches a tree object and returns its entries in stored order.
func (r *Repository) ReadTree(hash plumbing.Hash) ([]TreeEntry, error) {
	t, err := r.repo.TreeObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", hash, err)
	}

	entries := make([]TreeEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TreeEntry{Name: e.Name, Mode: e.Mode, Hash: e.Hash})
	}
	return entries, nil
}

// ReadTrees batch-fetches tree objects, at most jobs at a time. The result
// maps each requested hash to its entries; callers rely on the map rather
// than ordering so duplicate hashes cost one read.
func (r *Repository) ReadTrees(ctx context.Context, hashes []plumbing.Hash, jobs int) (map[plumbing.Hash][]TreeEntry, error) {
	distinct := make([]plumbing.Hash, 0, len(hashes))
	seen := make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		if !seen[h] {
			seen[h] = true
			distinct = append(distinct, h)
		}
	}

	if jobs < 1 {
		jobs = 1
	}

	results := make([][]TreeEntry, len(distinct))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, h := range distinct {
		i, h := i, h
		g.Go(func() error {
			entries, err := r.ReadTree(h)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trees := make(map[plumbing.Hash][]TreeEntry, len(distinct))
	for i, h := range distinct {
		trees[h] = results[i]
	}
	return trees, nil
}

// WriteBlob writes content to the object database and returns its hash.
func (r *Repository) WriteBlob(content []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create object writer: %w", err)
	}

	if _, err := writer.Write(content); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob content: %w", err)
	}
	writer.Close()

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}

	return hash, nil
}

// WriteTree creates a tree object from the provided entries and returns its
// hash. Entries are sorted by name before encoding; writing an identical
// tree twice yields the same hash and is a no-op in the store.
func (r *Repository) WriteTree(entries []TreeEntry) (plumbing.Hash, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	treeEntries := make([]object.TreeEntry, 0, len(sorted))
	for _, e := range sorted {
		treeEntries = append(treeEntries, object.TreeEntry{
			Name: e.Name,
			Mode: e.Mode,
			Hash: e.Hash,
		})
	}

	tree := object.Tree{Entries: treeEntries}

	obj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}

	return hash, nil
}

// WriteCommit creates a commit object and returns its hash. Signatures are
// encoded exactly as given; the rewritten history keeps the original
// authorship and timestamps.
func (r *Repository) WriteCommit(c *Commit) (plumbing.Hash, error) {
	commit := object.Commit{
		Author:       c.Author,
		Committer:    c.Committer,
		Message:      strings.Join(c.MessageLines, "\n") + "\n",
		TreeHash:     c.Tree,
		ParentHashes: c.Parents,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode commit: %w", err)
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store commit: %w", err)
	}

	return hash, nil
}
